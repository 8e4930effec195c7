package formats

import (
	"bytes"
	"io"

	"github.com/javi11/rardecode/v2"
)

// Grounded on the teacher's pkg/unpack/rar.go, which drives the same
// rardecode.NewReader/Reader.Next/Reader.Read sequence over a plain
// io.Reader (there, an NZB-backed multi-volume stream; here, whatever
// DataStream the archive stack cursor is currently reading from).
func init() {
	Default.Register(Rar, sniffRar, openRar)
}

func sniffRar(_ string, peek []byte) bool {
	return bytes.HasPrefix(peek, []byte("Rar!\x1a\x07"))
}

func openRar(r io.Reader, opts OpenOptions) (Decoder, error) {
	var ropts []rardecode.Option
	for _, p := range opts.Passphrases {
		ropts = append(ropts, rardecode.Password(p))
	}
	rr, err := rardecode.NewReader(r, ropts...)
	if err != nil {
		return nil, err
	}
	return &rarDecoder{rr: rr}, nil
}

type rarDecoder struct {
	rr   *rardecode.Reader
	hdr  *rardecode.FileHeader
	need bool
}

func (d *rarDecoder) Next() (*Header, bool, error) {
	hdr, err := d.rr.Next()
	if err == io.EOF {
		return nil, false, nil
	}
	if err != nil {
		if err == rardecode.ErrArchiveEncrypted || err == rardecode.ErrArchivedFileEncrypted || err == rardecode.ErrBadPassword {
			return nil, false, ErrNeedPassphrase
		}
		return nil, false, err
	}
	d.hdr = hdr
	return &Header{
		Name:    hdr.Name,
		Size:    uint64(hdr.UnPackedSize),
		IsDir:   hdr.IsDir,
		ModTime: hdr.ModificationTime,
	}, true, nil
}

func (d *rarDecoder) Read(p []byte) (int, error) { return d.rr.Read(p) }
func (d *rarDecoder) Skip() error                { return nil } // Next() seeks past unread payload itself
func (d *rarDecoder) Close() error               { return nil }
