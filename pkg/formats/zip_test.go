package formats

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v4"
)

func TestZipSniffAndOpenDeflate(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("hello.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("hello zip")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	if !sniffZip("", data[:min(len(data), peekSize)]) {
		t.Fatal("sniffZip did not recognize a real zip header")
	}

	dec, err := openZip(bytes.NewReader(data), OpenOptions{ReaderAt: bytes.NewReader(data), Size: int64(len(data))})
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	hdr, ok, err := dec.Next()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if hdr.Name != "hello.txt" {
		t.Fatalf("Name = %q", hdr.Name)
	}
	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello zip" {
		t.Fatalf("got %q", got)
	}
}

// TestZipOpenRegisteredXzMethod exercises the decompressor openZip registers
// for PKWARE method 95 (xz), the wiring comment 4's review round asked for:
// an entry written with a non-Store/Deflate method must still come back out
// through wrapPayload's ulikunitz/xz path.
func TestZipOpenRegisteredXzMethod(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zipMethodXz, archiver.Xz{}.OpenWriter)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "xz.txt", Method: zipMethodXz})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("compressed with xz")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	dec, err := openZip(bytes.NewReader(data), OpenOptions{ReaderAt: bytes.NewReader(data), Size: int64(len(data))})
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	hdr, ok, err := dec.Next()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if hdr.Name != "xz.txt" {
		t.Fatalf("Name = %q", hdr.Name)
	}
	got, err := io.ReadAll(dec)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "compressed with xz" {
		t.Fatalf("got %q, want the round-tripped xz payload", got)
	}
}

func TestZipOpenRequiresReaderAt(t *testing.T) {
	if _, err := openZip(bytes.NewReader(nil), OpenOptions{}); err != ErrUnsupportedFormat {
		t.Fatalf("want ErrUnsupportedFormat without a ReaderAt, got %v", err)
	}
}
