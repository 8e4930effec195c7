package archivestack

import "strings"

// PathEntryKind discriminates the variants PathEntry can hold. Go has no
// algebraic sum type, so PathEntry is a struct carrying a Kind tag plus one
// populated payload per variant, the same shape the teacher uses for
// small tagged records (e.g. rardecode.FileHeader's HostOS-tagged fields).
type PathEntryKind int

const (
	// PathEntryKindSingle is the zero value: a plain named component. A
	// default-constructed PathEntry is therefore always Single("").
	PathEntryKindSingle PathEntryKind = iota
	PathEntryKindMultiVolume
	PathEntryKindNested
)

func (k PathEntryKind) String() string {
	switch k {
	case PathEntryKindSingle:
		return "single"
	case PathEntryKindMultiVolume:
		return "multi_volume"
	case PathEntryKindNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Ordering tags how a MultiVolume PathEntry's Parts were arranged.
type Ordering int

const (
	// OrderingNatural sorts Parts lexicographically at construction time.
	OrderingNatural Ordering = iota
	// OrderingGiven preserves the caller's order verbatim.
	OrderingGiven
)

// PathEntry is one component of a PathHierarchy.
type PathEntry struct {
	Kind PathEntryKind

	// Name is populated when Kind == PathEntryKindSingle.
	Name string

	// Parts and PartOrdering are populated when Kind == PathEntryKindMultiVolume.
	Parts        []string
	PartOrdering Ordering

	// Children is populated when Kind == PathEntryKindNested.
	Children []PathEntry
}

// Single builds a Single PathEntry.
func Single(name string) PathEntry {
	return PathEntry{Kind: PathEntryKindSingle, Name: name}
}

// MultiVolume builds a MultiVolume PathEntry from parts, sorting them
// lexicographically when ordering is OrderingNatural. It rejects an empty
// part list with ErrEmptyPartsList; every other PathEntry helper is total.
func MultiVolume(parts []string, ordering Ordering) (PathEntry, error) {
	if len(parts) == 0 {
		return PathEntry{}, ErrEmptyPartsList
	}
	cp := append([]string(nil), parts...)
	if ordering == OrderingNatural {
		sortStrings(cp)
	}
	return PathEntry{Kind: PathEntryKindMultiVolume, Parts: cp, PartOrdering: ordering}, nil
}

// Nested builds a Nested PathEntry wrapping children.
func Nested(children []PathEntry) PathEntry {
	return PathEntry{Kind: PathEntryKindNested, Children: append([]PathEntry(nil), children...)}
}

// display renders a single component. MultiVolume renders as
// "[part1|part2|...]"; Nested has no counterpart in spec.md's prose, so it
// renders as a parenthesized, comma-joined list of its children's own
// displays — a documented addition, not part of the original contract.
func (e PathEntry) display() string {
	switch e.Kind {
	case PathEntryKindSingle:
		return e.Name
	case PathEntryKindMultiVolume:
		return "[" + strings.Join(e.Parts, "|") + "]"
	case PathEntryKindNested:
		parts := make([]string, len(e.Children))
		for i, c := range e.Children {
			parts[i] = c.display()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return ""
	}
}

// identityParts returns the ordered list of strings that participate in
// equality/ordering comparisons: a Single component contributes its own
// name as a one-element list, a MultiVolume component contributes its
// parts, and a Nested component contributes each child's display string.
func (e PathEntry) identityParts() []string {
	switch e.Kind {
	case PathEntryKindSingle:
		return []string{e.Name}
	case PathEntryKindMultiVolume:
		return e.Parts
	case PathEntryKindNested:
		out := make([]string, len(e.Children))
		for i, c := range e.Children {
			out[i] = c.display()
		}
		return out
	default:
		return nil
	}
}

// compareEntry orders two components lexicographically over their identity
// parts, treating a shorter part list as less than a longer one that shares
// its prefix. Among two MultiVolume entries with identical parts, the
// ordering tag participates in identity: Natural sorts before Given.
func compareEntry(a, b PathEntry) int {
	pa, pb := a.identityParts(), b.identityParts()
	n := len(pa)
	if len(pb) < n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	if len(pa) != len(pb) {
		if len(pa) < len(pb) {
			return -1
		}
		return 1
	}
	if a.Kind == PathEntryKindMultiVolume && b.Kind == PathEntryKindMultiVolume && a.PartOrdering != b.PartOrdering {
		return int(a.PartOrdering) - int(b.PartOrdering)
	}
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	return 0
}

// EqualEntry reports whether two components are identical, including, for
// MultiVolume components, their ordering tag. A default-constructed
// PathEntry compares equal to Single("").
func EqualEntry(a, b PathEntry) bool {
	return compareEntry(a, b) == 0
}

func sortStrings(s []string) {
	// insertion sort: part lists are small (dozens of volumes at most) and
	// this keeps the package free of a sort.Strings import for one call site.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
