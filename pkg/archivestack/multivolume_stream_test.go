package archivestack

import (
	"bytes"
	"io"
	"testing"
)

// fakeParts is an in-memory MultiVolumePartOps over a list of byte slices,
// used to test MultiVolumeStream without touching a filesystem.
type fakeParts struct {
	data      [][]byte
	active    int
	activeR   *bytes.Reader
	openCount []int
}

func newFakeParts(chunks ...string) *fakeParts {
	fp := &fakeParts{active: -1}
	for _, c := range chunks {
		fp.data = append(fp.data, []byte(c))
	}
	fp.openCount = make([]int, len(fp.data))
	return fp
}

func (f *fakeParts) PartCount() int { return len(f.data) }

func (f *fakeParts) OpenPart(i int) error {
	f.active = i
	f.activeR = bytes.NewReader(f.data[i])
	f.openCount[i]++
	return nil
}

func (f *fakeParts) ClosePart(i int) error {
	if f.active == i {
		f.active = -1
		f.activeR = nil
	}
	return nil
}

func (f *fakeParts) ReadPart(p []byte) (int, error) { return f.activeR.Read(p) }

func (f *fakeParts) SeekWithinPart(i int, off int64) error {
	_, err := f.activeR.Seek(off, io.SeekStart)
	return err
}

func (f *fakeParts) PartSize(i int) (int64, bool) { return int64(len(f.data[i])), true }

func TestMultiVolumeStreamConcatenatesParts(t *testing.T) {
	ops := newFakeParts("abc", "def", "ghi")
	s := NewMultiVolumeStream(ops, MakeSingle("set"), true)
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abcdefghi" {
		t.Fatalf("got %q, want %q", got, "abcdefghi")
	}
	if !s.AtEnd() {
		t.Fatalf("expected AtEnd after exhausting all parts")
	}
}

func TestMultiVolumeStreamOpensEachPartOnce(t *testing.T) {
	ops := newFakeParts("a", "b", "c")
	s := NewMultiVolumeStream(ops, MakeSingle("set"), true)
	io.ReadAll(s)
	for i, c := range ops.openCount {
		if c != 1 {
			t.Fatalf("part %d opened %d times, want 1", i, c)
		}
	}
}

func TestMultiVolumeStreamRewind(t *testing.T) {
	ops := newFakeParts("abc", "def")
	s := NewMultiVolumeStream(ops, MakeSingle("set"), true)
	io.ReadAll(s)
	if err := s.Rewind(); err != nil {
		t.Fatal(err)
	}
	if s.AtEnd() {
		t.Fatalf("AtEnd should reset after Rewind")
	}
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abcdef" {
		t.Fatalf("got %q after rewind", got)
	}
}

func TestMultiVolumeStreamSeekAcrossParts(t *testing.T) {
	ops := newFakeParts("abc", "def", "ghi")
	s := NewMultiVolumeStream(ops, MakeSingle("set"), true)
	if !s.CanSeek() {
		t.Fatalf("expected CanSeek true when every part reports its size")
	}
	pos, err := s.Seek(4, io.SeekStart)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 4 {
		t.Fatalf("Seek returned %d, want 4", pos)
	}
	buf := make([]byte, 3)
	n, err := s.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "efg" {
		t.Fatalf("read %q after seek, want %q", buf[:n], "efg")
	}
}

func TestMultiVolumeStreamCanSeekFalseWhenNotSeekable(t *testing.T) {
	ops := newFakeParts("abc")
	s := NewMultiVolumeStream(ops, MakeSingle("set"), false)
	if s.CanSeek() {
		t.Fatalf("expected CanSeek false when constructed as non-seekable")
	}
	if _, err := s.Seek(0, io.SeekStart); err != ErrSeekUnsupported {
		t.Fatalf("want ErrSeekUnsupported, got %v", err)
	}
}
