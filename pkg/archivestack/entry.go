package archivestack

import "github.com/Raizo-TCS/archive-r/pkg/formats"

// Entry represents one file visited during a traversal. While it is the
// traversal's current entry ("live"), Read streams its payload and
// SetDescent/SetMultiVolumeGroup can still influence what the traverser
// does next; once Traverser.Next is called again, the previous Entry
// becomes "detached" — its Hierarchy/Metadata/IsDir remain valid forever,
// Set* return ErrNotLive, and Read lazily reopens a private cursor onto its
// own stored hierarchy rather than failing.
//
// Grounded on the split between the teacher's unpack.VirtualFile (owns
// only its hierarchy, reopenable on demand) and loader.File (owns live,
// in-flight resources) — Entry's live/detached duality mirrors exactly
// that distinction inside a single type.
type Entry struct {
	hierarchy      PathHierarchy
	isDir          bool
	size           uint64
	descentEnabled bool
	metadata       EntryMetadata
	header         *formats.Header
	nativePath     string
	// isRootEntry marks an Entry built directly by the traverser (a plain
	// file, a directory, or a multi-volume group root) rather than yielded
	// from inside an already-open ArchiveStackOrchestrator. SetMultiVolumeGroup
	// needs this to know whether to discard the whole orchestrator it caused
	// to be created, or just override the enclosing one's descend decision.
	isRootEntry bool

	owner *Traverser
	live  bool

	// reopened is the private cursor lazily built the first time Read is
	// called after this Entry has been detached, and rebuilt (an implicit
	// rewind) the next time Read is called after it ran out of payload —
	// spec.md §8's "Rewind-read idempotence" property.
	reopened *ArchiveStackCursor
	eofSeen  bool
}

func (e *Entry) Hierarchy() PathHierarchy { return e.hierarchy }
func (e *Entry) IsDir() bool              { return e.isDir }
func (e *Entry) IsFile() bool             { return !e.isDir }
func (e *Entry) Metadata() EntryMetadata  { return e.metadata }

// Size is the entry's byte size, unconditionally available regardless of
// what ArchiveOption.MetadataKeys requests — spec.md §8's "Deterministic
// order" property is phrased over (hierarchy, size, is_directory) tuples,
// so size can't be gated behind the opt-in metadata map.
func (e *Entry) Size() uint64 { return e.size }

// Depth is the number of components in the entry's hierarchy: 1 for a
// traversal root, one more for each archive descended into since.
func (e *Entry) Depth() int { return len(e.hierarchy) }

// Name is the entry's own display name: its hierarchy's final component.
func (e *Entry) Name() string {
	if len(e.hierarchy) == 0 {
		return ""
	}
	return e.hierarchy[len(e.hierarchy)-1].display()
}

// DescentEnabled reports whether the traverser will attempt to descend into
// this entry as a nested archive before moving on, subject to any
// SetDescent override already applied while the entry was live.
func (e *Entry) DescentEnabled() bool { return e.descentEnabled }

// Read streams the entry's payload. While the entry is still live (the
// traversal's current one) this reads through the shared orchestrator. Once
// detached, per spec.md §4.10, it lazily constructs a private
// ArchiveStackCursor, synchronizes it to this entry's own stored hierarchy,
// and reads from that instead — so a copied or since-superseded Entry stays
// readable for as long as its underlying files do, and repeated reads after
// EOF are idempotent rewinds rather than permanent failures.
func (e *Entry) Read(p []byte) (int, error) {
	if e.live && e.owner != nil && e.owner.current == e {
		if e.owner.orchestrator == nil {
			return 0, ErrEntryInvalidated
		}
		return e.owner.orchestrator.Read(p)
	}
	return e.reopenAndRead(p)
}

func (e *Entry) reopenAndRead(p []byte) (int, error) {
	if e.owner == nil {
		return 0, ErrEntryInvalidated
	}
	if e.reopened == nil || e.eofSeen {
		cur, err := e.owner.reopenCursor(e.hierarchy)
		if err != nil {
			return 0, err
		}
		e.reopened = cur
		e.eofSeen = false
	}
	n, err := e.reopened.Read(p)
	if err != nil {
		e.eofSeen = true
	}
	return n, err
}

// SetDescent overrides whether the traverser descends into this entry before
// moving to the next sibling. It must be called while the entry is still
// live. For a root-level entry (a plain file, a directory, or a
// multi-volume group root — anything the traverser built directly rather
// than yielded from inside an already-open archive) this just flips the flag
// the traverser consults once the entry is detached: visitDir defers listing
// a directory's children, and visitRoot/visitFile's orchestrator defers
// probing whether the file is itself a recognized archive, until that point,
// so the override is guaranteed to still apply. For an entry yielded from
// inside an archive, it delegates to the enclosing orchestrator's own
// pending-descend override instead.
func (e *Entry) SetDescent(enabled bool) error {
	if !e.live || e.owner == nil || e.owner.current != e {
		return ErrNotLive
	}
	if e.isRootEntry {
		e.descentEnabled = enabled
		return nil
	}
	if e.owner.orchestrator == nil {
		return ErrNotLive
	}
	if err := e.owner.orchestrator.SetDescent(enabled); err != nil {
		return err
	}
	e.descentEnabled = enabled
	return nil
}

// SetMultiVolumeGroup declares that this entry is one part of a
// multi-volume group identified by (its parent hierarchy, base, ordering).
// It must be called while the entry is still live. Marking an entry this
// way also suppresses its own default archive descent — a lone part isn't
// meant to be opened on its own, since the group as a whole will be folded
// in and descended into automatically once every sibling has been seen
// (spec.md §4.9 step 1). The parts are opened through the registered
// RootStreamFactory, or else as filesystem paths; a group whose parts are
// entries inside an archive produces a fault instead of being assembled.
func (e *Entry) SetMultiVolumeGroup(base string, ordering Ordering) error {
	if !e.live || e.owner == nil || e.owner.current != e {
		return ErrNotLive
	}
	parent := PrefixUntil(e.hierarchy, len(e.hierarchy)-1)
	path := e.nativePath
	if path == "" && len(e.hierarchy) > 0 {
		path = e.hierarchy[len(e.hierarchy)-1].display()
	}
	e.owner.mvManager.Mark(parent, base, ordering, path)
	if e.isRootEntry {
		e.owner.orchestrator = nil
	} else if e.owner.orchestrator != nil {
		e.owner.orchestrator.SetDescent(false)
	}
	e.descentEnabled = false
	return nil
}

func (e *Entry) detach() { e.live = false }
