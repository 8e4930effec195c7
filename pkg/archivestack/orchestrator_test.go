package archivestack

import (
	"io"
	"testing"

	"github.com/spf13/afero"
)

func newTestOrchestrator(hier PathHierarchy, stream DataStream, opt ArchiveOption) *ArchiveStackOrchestrator {
	return NewArchiveStackOrchestrator(hier, stream, opt, afero.NewMemMapFs(), NewMultiVolumeManager())
}

func TestOrchestratorWalksAndDescendsByDefault(t *testing.T) {
	inner := buildZipFixture(t, map[string]string{"deep.txt": "buried treasure"})
	outer := buildZipFixture(t, map[string]string{
		"plain.txt": "surface",
		"inner.zip": string(inner),
	})

	hier := MakeSingle("outer.zip")
	orc := newTestOrchestrator(hier, newMemoryStream(hier, outer), DefaultArchiveOption())

	var names []string
	for {
		raw, ok, err := orc.Step()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		names = append(names, Display(raw.Hierarchy))
	}

	want := map[string]bool{
		"outer.zip/plain.txt":         false,
		"outer.zip/inner.zip":         false,
		"outer.zip/inner.zip/deep.txt": false,
	}
	for _, n := range names {
		if _, ok := want[n]; !ok {
			t.Fatalf("unexpected entry %q, got %v", n, names)
		}
		want[n] = true
	}
	for n, seen := range want {
		if !seen {
			t.Fatalf("missing expected entry %q, got %v", n, names)
		}
	}
}

func TestOrchestratorSetDescentFalseSkipsNested(t *testing.T) {
	inner := buildZipFixture(t, map[string]string{"deep.txt": "x"})
	outer := buildZipFixture(t, map[string]string{"inner.zip": string(inner)})

	hier := MakeSingle("outer.zip")
	orc := newTestOrchestrator(hier, newMemoryStream(hier, outer), DefaultArchiveOption())

	raw, ok, err := orc.Step()
	if err != nil || !ok {
		t.Fatalf("expected inner.zip entry, ok=%v err=%v", ok, err)
	}
	if Display(raw.Hierarchy) != "outer.zip/inner.zip" {
		t.Fatalf("Hierarchy = %q", Display(raw.Hierarchy))
	}
	if err := orc.SetDescent(false); err != nil {
		t.Fatal(err)
	}

	_, ok, err = orc.Step()
	if err != nil || ok {
		t.Fatalf("expected end of archive after skipping descent, ok=%v err=%v", ok, err)
	}
}

func TestOrchestratorReadsCurrentEntry(t *testing.T) {
	data := buildZipFixture(t, map[string]string{"a.txt": "hello"})
	hier := MakeSingle("archive.zip")
	orc := newTestOrchestrator(hier, newMemoryStream(hier, data), DefaultArchiveOption())

	raw, ok, err := orc.Step()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if raw.Header.Name != "a.txt" {
		t.Fatalf("Name = %q", raw.Header.Name)
	}
	got, err := io.ReadAll(readerFunc(orc.Read))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestOrchestratorRejectsNonArchiveRoot(t *testing.T) {
	hier := MakeSingle("plain.txt")
	orc := newTestOrchestrator(hier, newMemoryStream(hier, []byte("not an archive")), DefaultArchiveOption())
	_, ok, err := orc.Step()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected ok=false for a non-archive root")
	}
}

func TestOrchestratorDescendArchivesFalseYieldsNoNested(t *testing.T) {
	inner := buildZipFixture(t, map[string]string{"deep.txt": "x"})
	outer := buildZipFixture(t, map[string]string{"inner.zip": string(inner)})

	hier := MakeSingle("outer.zip")
	opt := DefaultArchiveOption()
	opt.DescendArchives = false
	orc := newTestOrchestrator(hier, newMemoryStream(hier, outer), opt)

	raw, ok, err := orc.Step()
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if Display(raw.Hierarchy) != "outer.zip/inner.zip" {
		t.Fatalf("Hierarchy = %q", Display(raw.Hierarchy))
	}
	_, ok, err = orc.Step()
	if err != nil || ok {
		t.Fatalf("expected traversal to stop at the top level, ok=%v err=%v", ok, err)
	}
}
