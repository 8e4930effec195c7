package formats

import (
	"bytes"
	"testing"
)

func TestSevenZipSniffMagic(t *testing.T) {
	if !sniffSevenZip("", []byte("7z\xbc\xaf\x27\x1ctrailing bytes")) {
		t.Fatal("sniffSevenZip did not recognize the 7z signature")
	}
	if sniffSevenZip("", []byte("not a 7z file")) {
		t.Fatal("sniffSevenZip matched non-7z content")
	}
}

func TestSevenZipOpenRequiresReaderAt(t *testing.T) {
	if _, err := openSevenZip(bytes.NewReader(nil), OpenOptions{}); err != ErrUnsupportedFormat {
		t.Fatalf("want ErrUnsupportedFormat without a ReaderAt, got %v", err)
	}
}

// TestSevenZipOpenRejectsGarbage drives the real javi11/sevenzip decoder
// against a signature-only stream — there's no committed 7z fixture in the
// pack, but this still exercises sevenzip.NewReaderWithPassword itself and
// confirms it errors rather than panicking on a truncated container.
func TestSevenZipOpenRejectsGarbage(t *testing.T) {
	data := append([]byte("7z\xbc\xaf\x27\x1c"), []byte("not a real 7z body")...)
	if _, err := openSevenZip(bytes.NewReader(data), OpenOptions{ReaderAt: bytes.NewReader(data), Size: int64(len(data))}); err == nil {
		t.Fatal("expected an error opening a truncated 7z container")
	}
}
