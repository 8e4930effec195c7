package formats

import (
	"bytes"
	"io"

	"github.com/javi11/sevenzip"
)

// Grounded on the teacher's pkg/unpack/sevenzip.go (Open7zStream), which
// opens via sevenzip.NewReader(readerAt, size) and enumerates via
// ListFilesWithOffsets for the uncompressed-entry fast path. This adapter
// additionally reads compressed entries through File.Open, which the
// teacher's own code avoids only because its streaming use case needs
// direct byte offsets; archive_r has no such constraint.
func init() {
	Default.Register(SevenZip, sniffSevenZip, openSevenZip)
}

func sniffSevenZip(_ string, peek []byte) bool {
	return bytes.HasPrefix(peek, []byte("7z\xbc\xaf\x27\x1c"))
}

func openSevenZip(_ io.Reader, opts OpenOptions) (Decoder, error) {
	if opts.ReaderAt == nil || opts.Size == 0 {
		return nil, ErrUnsupportedFormat
	}
	var password string
	if len(opts.Passphrases) > 0 {
		password = opts.Passphrases[0]
	}
	zr, err := sevenzip.NewReaderWithPassword(opts.ReaderAt, opts.Size, password)
	if err != nil {
		return nil, err
	}
	return &sevenZipDecoder{zr: zr, idx: -1}, nil
}

type sevenZipDecoder struct {
	zr  *sevenzip.Reader
	idx int
	cur io.ReadCloser
}

func (d *sevenZipDecoder) Next() (*Header, bool, error) {
	if err := d.Skip(); err != nil {
		return nil, false, err
	}
	d.idx++
	if d.idx >= len(d.zr.File) {
		return nil, false, nil
	}
	f := d.zr.File[d.idx]
	fi := f.FileInfo()
	return &Header{
		Name:    f.Name,
		Size:    uint64(fi.Size()),
		IsDir:   fi.IsDir(),
		Mode:    uint32(fi.Mode()),
		ModTime: fi.ModTime(),
	}, true, nil
}

func (d *sevenZipDecoder) Read(p []byte) (int, error) {
	if d.cur == nil {
		f := d.zr.File[d.idx]
		rc, err := f.Open()
		if err != nil {
			return 0, err
		}
		d.cur = rc
	}
	return d.cur.Read(p)
}

func (d *sevenZipDecoder) Skip() error {
	if d.cur == nil {
		return nil
	}
	err := d.cur.Close()
	d.cur = nil
	return err
}

func (d *sevenZipDecoder) Close() error { return d.Skip() }
