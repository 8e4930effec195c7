package formats

import (
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// wrapPayload layers a decompressing reader over a payload stream, used
// wherever a container's own decoder library doesn't already know a
// compression method. openZip registers it against klauspost/compress/zip's
// method-93 (zstd) and method-95 (xz) extension IDs; unwrapOuterCompression
// falls back to it for brotli-wrapped tarballs, whose magic isn't reliable
// enough for outerCompressionMagics's table.
func wrapPayload(codec string, r io.Reader) (io.Reader, io.Closer, error) {
	switch codec {
	case "xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, nil, nil
	case "brotli":
		return brotli.NewReader(r), nil, nil
	case "zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr.IOReadCloser(), zr.IOReadCloser(), nil
	case "":
		return r, nil, nil
	default:
		return nil, nil, ErrUnsupportedFormat
	}
}

// zipDecompressor adapts wrapPayload to klauspost/compress/zip's
// Decompressor signature (func(io.Reader) io.ReadCloser). zip.Reader never
// surfaces an Open-time error for a registered method, so a codec failure is
// deferred to the first Read against errReader.
func zipDecompressor(codec string) func(io.Reader) io.ReadCloser {
	return func(r io.Reader) io.ReadCloser {
		out, closer, err := wrapPayload(codec, r)
		if err != nil {
			return io.NopCloser(errReader{err})
		}
		if rc, ok := out.(io.ReadCloser); ok {
			return rc
		}
		return payloadReadCloser{out, closer}
	}
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

type payloadReadCloser struct {
	io.Reader
	closer io.Closer
}

func (rc payloadReadCloser) Close() error {
	if rc.closer != nil {
		return rc.closer.Close()
	}
	return nil
}
