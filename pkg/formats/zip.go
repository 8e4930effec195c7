package formats

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zip"
)

// PKWARE APPNOTE.TXT compression method IDs klauspost/compress/zip doesn't
// decode natively; wrapPayload backs both via zipDecompressor.
const (
	zipMethodXz   = 95
	zipMethodZstd = 93
)

func init() {
	Default.Register(Zip, sniffZip, openZip)
}

func sniffZip(_ string, peek []byte) bool {
	return bytes.HasPrefix(peek, []byte("PK\x03\x04")) || bytes.HasPrefix(peek, []byte("PK\x05\x06"))
}

// openZip requires random access: zip.Reader parses the central directory
// at the end of the archive, so OpenOptions.ReaderAt/Size must be populated
// (from a seekable stream, or from a copy of the payload held in memory).
func openZip(_ io.Reader, opts OpenOptions) (Decoder, error) {
	if opts.ReaderAt == nil || opts.Size == 0 {
		return nil, ErrUnsupportedFormat
	}
	zr, err := zip.NewReader(opts.ReaderAt, opts.Size)
	if err != nil {
		return nil, err
	}
	zr.RegisterDecompressor(zipMethodXz, zipDecompressor("xz"))
	zr.RegisterDecompressor(zipMethodZstd, zipDecompressor("zstd"))
	return &zipDecoder{zr: zr, idx: -1}, nil
}

type zipDecoder struct {
	zr  *zip.Reader
	idx int
	cur io.ReadCloser
}

func (d *zipDecoder) Next() (*Header, bool, error) {
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
		Size:    f.UncompressedSize64,
		IsDir:   fi.IsDir(),
		Mode:    uint32(fi.Mode()),
		ModTime: f.Modified,
	}, true, nil
}

func (d *zipDecoder) Read(p []byte) (int, error) {
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

func (d *zipDecoder) Skip() error {
	if d.cur == nil {
		return nil
	}
	err := d.cur.Close()
	d.cur = nil
	return err
}

func (d *zipDecoder) Close() error {
	return d.Skip()
}
