package archivestack

import "sort"

// PathHierarchy is an ordered stack of PathEntry components identifying a
// file, from outermost (a real filesystem path or multi-volume group) down
// through zero or more nested-archive descents.
type PathHierarchy []PathEntry

// MakeSingle builds a one-component hierarchy from a plain name.
func MakeSingle(name string) PathHierarchy {
	return PathHierarchy{Single(name)}
}

// AppendSingle returns a new hierarchy with a Single component appended.
func AppendSingle(h PathHierarchy, name string) PathHierarchy {
	return append(h.clone(), Single(name))
}

// AppendMultiVolume returns a new hierarchy with a MultiVolume component
// appended, or ErrEmptyPartsList if parts is empty.
func AppendMultiVolume(h PathHierarchy, parts []string, ordering Ordering) (PathHierarchy, error) {
	e, err := MultiVolume(parts, ordering)
	if err != nil {
		return nil, err
	}
	return append(h.clone(), e), nil
}

func (h PathHierarchy) clone() PathHierarchy {
	return append(PathHierarchy(nil), h...)
}

// Equal reports whether two hierarchies have the same length and every
// component compares equal componentwise.
func Equal(a, b PathHierarchy) bool {
	return Compare(a, b) == 0
}

// Compare orders hierarchies componentwise, treating a hierarchy that is a
// strict prefix of another as less than it.
func Compare(a, b PathHierarchy) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareEntry(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Display renders a hierarchy as its components' displays joined by "/".
func Display(h PathHierarchy) string {
	parts := make([]string, len(h))
	for i, e := range h {
		parts[i] = e.display()
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}

// PrefixUntil returns the first k components of h (k inclusive of index
// k-1), or an empty hierarchy if k is out of [0, len(h)] range.
func PrefixUntil(h PathHierarchy, k int) PathHierarchy {
	if k < 0 || k > len(h) {
		return nil
	}
	return h[:k].clone()
}

// SelectSinglePart replaces h's final component, if it is a MultiVolume
// entry, with a Single entry holding Parts[i], preserving h's length. If
// the final component isn't MultiVolume or i is out of range, h is
// returned unchanged (this helper is total, per spec.md's error-behavior
// note that only MultiVolume({}) itself can fail).
func SelectSinglePart(h PathHierarchy, i int) PathHierarchy {
	if len(h) == 0 {
		return h.clone()
	}
	last := h[len(h)-1]
	if last.Kind != PathEntryKindMultiVolume || i < 0 || i >= len(last.Parts) {
		return h.clone()
	}
	out := h.clone()
	out[len(out)-1] = Single(last.Parts[i])
	return out
}

// MergeMultiVolumeSources merges hierarchies that are identical except for
// their final component, which must be a Single in every input, into one
// hierarchy whose final component is a synthetic MultiVolume entry
// collecting those Single tails in input order (ordering OrderingGiven).
// For a single input it returns that input unchanged. If the inputs don't
// share a common prefix of equal length with Single tails, it returns nil.
func MergeMultiVolumeSources(hs []PathHierarchy) PathHierarchy {
	if len(hs) == 0 {
		return nil
	}
	if len(hs) == 1 {
		return hs[0].clone()
	}
	L := len(hs[0])
	if L == 0 {
		return nil
	}
	tails := make([]string, len(hs))
	for i, h := range hs {
		if len(h) != L {
			return nil
		}
		last := h[L-1]
		if last.Kind != PathEntryKindSingle {
			return nil
		}
		tails[i] = last.Name
		if i > 0 && !Equal(h[:L-1], hs[0][:L-1]) {
			return nil
		}
	}
	prefix := hs[0][:L-1].clone()
	tail, err := MultiVolume(tails, OrderingGiven)
	if err != nil {
		return nil
	}
	return append(prefix, tail)
}

// SortHierarchies stably sorts hs in place by Compare.
func SortHierarchies(hs []PathHierarchy) {
	sort.SliceStable(hs, func(i, j int) bool { return Compare(hs[i], hs[j]) < 0 })
}
