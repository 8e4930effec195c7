package archivestack

import "testing"

func TestPathEntryDefaultIsEmptySingle(t *testing.T) {
	var zero PathEntry
	if !EqualEntry(zero, Single("")) {
		t.Fatalf("zero value PathEntry should equal Single(\"\")")
	}
}

func TestMultiVolumeRejectsEmptyParts(t *testing.T) {
	if _, err := MultiVolume(nil, OrderingGiven); err != ErrEmptyPartsList {
		t.Fatalf("want ErrEmptyPartsList, got %v", err)
	}
}

func TestMultiVolumeNaturalOrderingSorts(t *testing.T) {
	e, err := MultiVolume([]string{"b.r02", "a.r01", "c.r03"}, OrderingNatural)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.r01", "b.r02", "c.r03"}
	for i, w := range want {
		if e.Parts[i] != w {
			t.Fatalf("Parts[%d] = %q, want %q", i, e.Parts[i], w)
		}
	}
}

func TestMultiVolumeGivenOrderingPreserves(t *testing.T) {
	e, err := MultiVolume([]string{"c", "a", "b"}, OrderingGiven)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "a", "b"}
	for i, w := range want {
		if e.Parts[i] != w {
			t.Fatalf("Parts[%d] = %q, want %q", i, e.Parts[i], w)
		}
	}
}

func TestMultiVolumeOrderingTagParticipatesInIdentity(t *testing.T) {
	a, _ := MultiVolume([]string{"a", "b"}, OrderingGiven)
	b, _ := MultiVolume([]string{"a", "b"}, OrderingNatural)
	if EqualEntry(a, b) {
		t.Fatalf("entries with identical parts but different ordering tags must differ")
	}
}

func TestCompareEntrySingleVsMultiVolumeByPartCount(t *testing.T) {
	single := Single("x")
	multi, _ := MultiVolume([]string{"x", "y"}, OrderingGiven)
	if compareEntry(single, multi) >= 0 {
		t.Fatalf("single (1 part) should compare less than a 2-part multi-volume entry")
	}
}

func TestDisplayMultiVolume(t *testing.T) {
	e, _ := MultiVolume([]string{"p1", "p2"}, OrderingGiven)
	if got, want := e.display(), "[p1|p2]"; got != want {
		t.Fatalf("display = %q, want %q", got, want)
	}
}
