package formats

import (
	"archive/tar"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// The tar container format itself has no third-party replacement in the
// pack (the pack's own tar-adjacent dependency, vbatts/tar-split, wraps
// archive/tar rather than replacing it), so this adapter uses archive/tar
// directly. Gzip framing goes through klauspost/compress/gzip, the faster
// drop-in the teacher pulls in transitively via sevenzip/rardecode.
func init() {
	Default.Register(Tar, sniffTar, openTar)
}

func sniffTar(filename string, peek []byte) bool {
	if len(peek) >= 262 && bytes.Equal(peek[257:262], []byte("ustar")) {
		return true
	}
	// gzip-wrapped tar: sniff the gzip magic and trust the .tar.gz/.tgz name,
	// since the tar magic itself is hidden behind the compression layer.
	if len(peek) >= 2 && peek[0] == 0x1f && peek[1] == 0x8b {
		return hasAnySuffix(filename, ".tar.gz", ".tgz")
	}
	return false
}

func openTar(r io.Reader, opts OpenOptions) (Decoder, error) {
	br := bufio2Peek(r)
	head, _ := br.Peek(2)
	if len(head) == 2 && head[0] == 0x1f && head[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &tarDecoder{tr: tar.NewReader(gz), closer: gz}, nil
	}
	if unwrapped, matched, err := unwrapOuterCompression(br, opts.Filename); err != nil {
		return nil, err
	} else if matched {
		var closer io.Closer
		if c, ok := unwrapped.(io.Closer); ok {
			closer = c
		}
		return &tarDecoder{tr: tar.NewReader(unwrapped), closer: closer}, nil
	}
	return &tarDecoder{tr: tar.NewReader(br)}, nil
}

type tarDecoder struct {
	tr     *tar.Reader
	closer io.Closer
}

func (d *tarDecoder) Next() (*Header, bool, error) {
	hdr, err := d.tr.Next()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &Header{
		Name:        hdr.Name,
		Size:        uint64(hdr.Size),
		IsDir:       hdr.Typeflag == tar.TypeDir,
		IsLink:      hdr.Typeflag == tar.TypeSymlink || hdr.Typeflag == tar.TypeLink,
		Mode:        uint32(hdr.Mode),
		ModTime:     hdr.ModTime,
		Uid:         hdr.Uid,
		Gid:         hdr.Gid,
		Uname:       hdr.Uname,
		Gname:       hdr.Gname,
		DeviceMajor: uint32(hdr.Devmajor),
		Minor:       uint32(hdr.Devminor),
	}, true, nil
}

func (d *tarDecoder) Read(p []byte) (int, error) { return d.tr.Read(p) }
func (d *tarDecoder) Skip() error                { return nil } // tr.Next() discards the remainder itself
func (d *tarDecoder) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if len(s) >= len(suf) && s[len(s)-len(suf):] == suf {
			return true
		}
	}
	return false
}
