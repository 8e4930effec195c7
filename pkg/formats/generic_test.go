package formats

import (
	"bytes"
	"io"
	"testing"

	"github.com/mholt/archiver/v4"
)

func compressWith(t *testing.T, comp archiver.Compressor, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := comp.OpenWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUnwrapOuterCompressionMagics(t *testing.T) {
	payload := []byte("outer-wrapped payload")
	// bz2 is deliberately not exercised here: archiver/v4 only implements
	// Bz2.OpenReader, not OpenWriter (there's no pure-Go bzip2 encoder in
	// the pack), so there's no way to build a round-trip fixture for it.
	cases := []struct {
		name string
		comp archiver.Compressor
	}{
		{"xz", archiver.Xz{}},
		{"zstd", archiver.Zstd{}},
		{"lz4", archiver.Lz4{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wrapped := compressWith(t, c.comp, payload)
			out, matched, err := unwrapOuterCompression(bytes.NewReader(wrapped), "irrelevant.name")
			if err != nil {
				t.Fatal(err)
			}
			if !matched {
				t.Fatalf("%s magic not recognized", c.name)
			}
			got, err := io.ReadAll(out)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("got %q, want %q", got, payload)
			}
		})
	}
}

func TestUnwrapOuterCompressionBrotliByFilename(t *testing.T) {
	payload := []byte("brotli outer payload")
	wrapped := compressWith(t, archiver.Brotli{}, payload)

	out, matched, err := unwrapOuterCompression(bytes.NewReader(wrapped), "thing.tar.br")
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected the .br filename fallback to recognize brotli framing")
	}
	got, err := io.ReadAll(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}

	if _, matched, err := unwrapOuterCompression(bytes.NewReader(wrapped), "thing.tar"); err != nil {
		t.Fatal(err)
	} else if matched {
		t.Fatal("expected no brotli match without a .br filename")
	}
}

func TestWrapPayloadUnknownCodec(t *testing.T) {
	if _, _, err := wrapPayload("does-not-exist", bytes.NewReader(nil)); err != ErrUnsupportedFormat {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}
}

func TestWrapPayloadPassthrough(t *testing.T) {
	out, closer, err := wrapPayload("", bytes.NewReader([]byte("verbatim")))
	if err != nil {
		t.Fatal(err)
	}
	if closer != nil {
		t.Fatal("expected no closer for the passthrough codec")
	}
	got, err := io.ReadAll(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "verbatim" {
		t.Fatalf("got %q", got)
	}
}
