package formats

import (
	"bytes"
	"testing"
)

// TestUnimplementedFormatsIdentifyButRefuseToOpen exercises Testable
// Scenario 5: ar/cab/cpio/iso9660/lha/warc/xar are all nameable and
// sniffable, but Open on any of them fails rather than fabricating a
// decoder.
func TestUnimplementedFormatsIdentifyButRefuseToOpen(t *testing.T) {
	cases := []struct {
		id       string
		filename string
		magic    []byte
	}{
		{Ar, "pkg.a", []byte("!<arch>\n")},
		{Cab, "installer.cab", []byte("MSCF")},
		{Cpio, "archive.cpio", []byte("070701")},
		{WARC, "crawl.warc", []byte("WARC/")},
		{Xar, "bundle.xar", []byte("xar!")},
	}
	for _, c := range cases {
		t.Run(c.id, func(t *testing.T) {
			id, _, err := Default.Identify(c.filename, bytes.NewReader(c.magic))
			if err != nil {
				t.Fatalf("Identify: %v", err)
			}
			if id != c.id {
				t.Fatalf("Identify = %q, want %q", id, c.id)
			}
			if _, err := Default.Open(c.id, c.filename, bytes.NewReader(c.magic), OpenOptions{}); err != ErrUnsupportedFormat {
				t.Fatalf("Open = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestUnimplementedFormatsIdentifyByExtensionOnly(t *testing.T) {
	if !sniffISO9660("image.iso", nil) {
		t.Fatal("sniffISO9660 should match by extension alone")
	}
	if !sniffLHA("old.lzh", nil) {
		t.Fatal("sniffLHA should match .lzh")
	}
	if !sniffLHA("old.lha", nil) {
		t.Fatal("sniffLHA should match .lha")
	}
	if sniffLHA("plain.txt", nil) {
		t.Fatal("sniffLHA should not match an unrelated extension")
	}
}

func TestOpenEmptyStream(t *testing.T) {
	if !sniffEmpty("", nil) {
		t.Fatal("sniffEmpty should match a zero-length peek")
	}
	dec, err := openEmpty(nil, OpenOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := dec.Next(); ok || err != nil {
		t.Fatalf("ok=%v err=%v, want no entries", ok, err)
	}
	if _, err := dec.Read(make([]byte, 1)); err != ErrUnsupportedFormat {
		t.Fatalf("Read = %v, want ErrUnsupportedFormat", err)
	}
}
