package formats

import (
	"bytes"
	"io"
	"strings"

	"github.com/mholt/archiver/v4"
)

// mholt/archiver/v4's Decompressor covers the tar.* outer wrappers
// tarfmt.go's own gzip-only fast path doesn't handle (bz2, xz, zstd and
// lz4 wrapped tarballs; brotli has no magic here and is handled by the
// filename fallback to wrapPayload). Grounded on other_examples/
// mholt-archiver__interfaces.go's Compression/Decompressor pair.
var outerCompressionMagics = []struct {
	magic []byte
	comp  archiver.Decompressor
}{
	{[]byte("BZh"), archiver.Bz2{}},
	{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, archiver.Xz{}},
	{[]byte{0x28, 0xb5, 0x2f, 0xfd}, archiver.Zstd{}},
	{[]byte{0x04, 0x22, 0x4d, 0x18}, archiver.Lz4{}},
}

// unwrapOuterCompression peeks r for a compression magic archive/gzip
// doesn't already claim and, if found, returns a decompressing reader over
// it plus true. Otherwise it returns r unchanged (rewound past the peek)
// and false.
//
// Brotli has no reliable magic bytes to sniff — archiver/v4's own Brotli
// type falls back to the ".br" extension for the same reason — so it isn't
// in outerCompressionMagics; instead it's tried last, keyed off filename.
func unwrapOuterCompression(r io.Reader, filename string) (io.Reader, bool, error) {
	br := bufio2Peek(r)
	peek, _ := br.Peek(peekSize)
	for _, m := range outerCompressionMagics {
		if bytes.HasPrefix(peek, m.magic) {
			rc, err := m.comp.OpenReader(br)
			if err != nil {
				return nil, false, err
			}
			return rc, true, nil
		}
	}
	if strings.HasSuffix(strings.ToLower(filename), ".br") {
		out, _, err := wrapPayload("brotli", br)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	}
	return br, false, nil
}
