package formats

import (
	"bytes"
	"testing"
)

func TestRarSniffMagic(t *testing.T) {
	if !sniffRar("", []byte("Rar!\x1a\x07\x00extra bytes trailing")) {
		t.Fatal("sniffRar did not recognize the RAR 4.x signature")
	}
	if sniffRar("", []byte("not a rar file")) {
		t.Fatal("sniffRar matched non-RAR content")
	}
}

// TestRarOpenRejectsGarbage exercises the real rardecode.NewReader call path
// against data that carries the RAR signature but nothing valid after it —
// there's no committed RAR fixture in the pack to decode a full archive
// from, but this still drives the actual third-party decoder rather than a
// stand-in, and confirms a malformed stream surfaces as an error instead of
// panicking.
func TestRarOpenRejectsGarbage(t *testing.T) {
	data := append([]byte("Rar!\x1a\x07\x00"), []byte("not a real archive body")...)
	dec, err := openRar(bytes.NewReader(data), OpenOptions{})
	if err != nil {
		return
	}
	if _, _, err := dec.Next(); err == nil {
		t.Fatal("expected an error reading past a malformed RAR body")
	}
}
