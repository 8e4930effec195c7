package archivestack

import (
	"io"
	"testing"
)

func TestCursorDescendIntoNestedArchive(t *testing.T) {
	inner := buildZipFixture(t, map[string]string{"deep.txt": "buried treasure"})
	outer := buildZipFixture(t, map[string]string{
		"plain.txt": "surface",
		"inner.zip": string(inner),
	})

	rootHier := MakeSingle("outer.zip")
	cur := NewArchiveStackCursor(rootHier, newMemoryStream(rootHier, outer))

	if err := cur.OpenDecoderHere("zip", DefaultArchiveOption()); err != nil {
		t.Fatal(err)
	}

	var innerText string
	for {
		ok, err := cur.Advance()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		hdr := cur.Header()
		if hdr.Name != "inner.zip" {
			continue
		}
		if err := cur.Descend(); err != nil {
			t.Fatal(err)
		}
		if cur.Depth() != 2 {
			t.Fatalf("Depth after descend = %d, want 2", cur.Depth())
		}
		if err := cur.OpenDecoderHere("zip", DefaultArchiveOption()); err != nil {
			t.Fatal(err)
		}
		ok, err = cur.Advance()
		if err != nil || !ok {
			t.Fatalf("expected an entry inside inner.zip, ok=%v err=%v", ok, err)
		}
		if cur.Header().Name != "deep.txt" {
			t.Fatalf("Header().Name = %q, want deep.txt", cur.Header().Name)
		}
		data, err := io.ReadAll(readerFunc(cur.Read))
		if err != nil {
			t.Fatal(err)
		}
		innerText = string(data)
		if err := cur.Ascend(); err != nil {
			t.Fatal(err)
		}
		if cur.Depth() != 1 {
			t.Fatalf("Depth after ascend = %d, want 1", cur.Depth())
		}
	}
	if innerText != "buried treasure" {
		t.Fatalf("innerText = %q, want %q", innerText, "buried treasure")
	}
}

func TestCursorAscendRefusesToPopLastFrame(t *testing.T) {
	hier := MakeSingle("f.txt")
	cur := NewArchiveStackCursor(hier, newMemoryStream(hier, []byte("x")))
	if err := cur.Ascend(); err != ErrNoCurrentEntry {
		t.Fatalf("want ErrNoCurrentEntry, got %v", err)
	}
}

func TestCursorCurrentHierarchyTracksEntry(t *testing.T) {
	data := buildZipFixture(t, map[string]string{"a.txt": "1"})
	hier := MakeSingle("archive.zip")
	cur := NewArchiveStackCursor(hier, newMemoryStream(hier, data))
	if err := cur.OpenDecoderHere("zip", DefaultArchiveOption()); err != nil {
		t.Fatal(err)
	}
	if !Equal(cur.CurrentHierarchy(), hier) {
		t.Fatalf("before Advance, CurrentHierarchy should equal the archive's own hierarchy")
	}
	if _, err := cur.Advance(); err != nil {
		t.Fatal(err)
	}
	want := AppendSingle(hier, "a.txt")
	if !Equal(cur.CurrentHierarchy(), want) {
		t.Fatalf("CurrentHierarchy = %v, want %v", Display(cur.CurrentHierarchy()), Display(want))
	}
}
