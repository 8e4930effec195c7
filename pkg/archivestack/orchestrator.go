package archivestack

import (
	"context"
	"strings"

	"github.com/spf13/afero"

	"github.com/Raizo-TCS/archive-r/pkg/formats"
)

// RawEntry is one header the orchestrator has walked to, before the
// traverser wraps it into a public Entry (C10).
type RawEntry struct {
	Hierarchy PathHierarchy
	Header    *formats.Header
}

type stepState int

const (
	stepReady stepState = iota
	stepYielded
)

// ArchiveStackOrchestrator drives one root file's archive stack: it
// decides, entry by entry, whether to descend into a recognized nested
// archive or move on to the next sibling, applying the previous entry's
// descend decision lazily on the following Step call so Entry.SetDescent
// can still override the default before the traverser advances past it.
// Grounded on the teacher's unpack.GetMediaStream top-level decision tree
// (RAR vs 7z vs direct media vs heuristic probe, pkg/unpack/archive.go),
// restructured into this explicit two-state step machine.
type ArchiveStackOrchestrator struct {
	cursor    *ArchiveStackCursor
	opt       ArchiveOption
	fs        afero.Fs
	mvManager *MultiVolumeManager

	state           stepState
	pendingDescend  bool
	pendingFormatID string
}

// NewArchiveStackOrchestrator starts walking root, whose own hierarchy and
// stream have already been resolved by the traverser (or a root-stream
// factory). It never yields an entry for root itself — only for whatever
// root turns out to contain, if root is itself a recognized, enabled
// archive format. If root isn't recognized as an archive, the first Step
// call returns ok=false immediately. fs and mvManager back the automatic
// multi-volume activation in Step (spec.md §4.9 step 1): once a frame's
// decoder is exhausted, any group Entry.SetMultiVolumeGroup declared under
// that frame's own hierarchy is folded in and descended into before the
// frame is popped. The group's parts are opened through the registered
// RootStreamFactory, or else as paths on fs; parts that exist only as
// entries inside an archive are not found that way, and the group then
// produces a fault instead of being descended into.
func NewArchiveStackOrchestrator(hierarchy PathHierarchy, root DataStream, opt ArchiveOption, fs afero.Fs, mvManager *MultiVolumeManager) *ArchiveStackOrchestrator {
	return &ArchiveStackOrchestrator{cursor: NewArchiveStackCursor(hierarchy, root), opt: opt, fs: fs, mvManager: mvManager}
}

// SetDescent overrides the just-yielded entry's default descend decision.
// It returns ErrNotLive once the entry has already been advanced past, and
// when enabling descent for an entry whose name identifies no format.
func (o *ArchiveStackOrchestrator) SetDescent(enabled bool) error {
	if o.state != stepYielded {
		return ErrNotLive
	}
	if enabled && o.pendingFormatID == "" {
		// caller asked to descend into something we couldn't identify as
		// an archive by name; nothing to open.
		return ErrNotLive
	}
	o.pendingDescend = enabled
	return nil
}

// Read reads the currently-yielded entry's payload.
func (o *ArchiveStackOrchestrator) Read(p []byte) (int, error) { return o.cursor.Read(p) }

// PendingDescend reports whether the just-yielded entry is currently
// scheduled to be descended into (subject to a following SetDescent
// override) before the next Step call. Used to populate Entry.DescentEnabled.
func (o *ArchiveStackOrchestrator) PendingDescend() bool { return o.pendingDescend }

// Step advances to the next entry inside this stack in pre-order, applying
// any deferred descend decision from the previously yielded entry first.
func (o *ArchiveStackOrchestrator) Step() (*RawEntry, bool, error) {
	if o.state == stepYielded {
		o.state = stepReady
		if o.pendingDescend {
			if err := o.cursor.Descend(); err == nil {
				if oerr := o.cursor.OpenDecoderHere(o.pendingFormatID, o.opt); oerr != nil {
					dispatchFault(EntryFault{Hierarchy: o.cursor.TopHierarchy(), Message: oerr.Error()})
					o.cursor.Ascend()
				}
			}
		}
	}

	for {
		if !o.cursor.HasDecoder() {
			id, err := o.cursor.IdentifyTop()
			if err != nil || !o.opt.acceptsFormat(id) {
				if o.cursor.Depth() == 1 {
					return nil, false, nil
				}
				if aerr := o.cursor.Ascend(); aerr != nil {
					return nil, false, aerr
				}
				continue
			}
			if oerr := o.cursor.OpenDecoderHere(id, o.opt); oerr != nil {
				dispatchFault(EntryFault{Hierarchy: o.cursor.TopHierarchy(), Message: oerr.Error()})
				if o.cursor.Depth() == 1 {
					return nil, false, nil
				}
				if aerr := o.cursor.Ascend(); aerr != nil {
					return nil, false, aerr
				}
				continue
			}
		}

		ok, err := o.cursor.Advance()
		if err != nil {
			dispatchFault(EntryFault{Hierarchy: o.cursor.CurrentHierarchy(), Message: err.Error()})
			if o.cursor.Depth() == 1 {
				return nil, false, nil
			}
			if aerr := o.cursor.Ascend(); aerr != nil {
				return nil, false, aerr
			}
			continue
		}
		if !ok {
			if o.activateNextGroup() {
				continue
			}
			if o.cursor.Depth() == 1 {
				return nil, false, nil
			}
			if aerr := o.cursor.Ascend(); aerr != nil {
				return nil, false, aerr
			}
			continue
		}

		hdr := o.cursor.Header()
		hier := o.cursor.CurrentHierarchy()
		o.pendingDescend, o.pendingFormatID = o.decideDescend(hdr)
		o.state = stepYielded
		return &RawEntry{Hierarchy: hier, Header: hdr}, true, nil
	}
}

func (o *ArchiveStackOrchestrator) decideDescend(hdr *formats.Header) (bool, string) {
	if hdr.IsDir || !o.opt.DescendArchives {
		return false, ""
	}
	id, ok := formatIDFromName(decodeEntryName(hdr.Name, hdr.RawName))
	if !ok || !o.opt.acceptsFormat(id) {
		return false, ""
	}
	return true, id
}

// activateNextGroup checks whether a multi-volume group was declared under
// the current frame's own hierarchy (every sibling at this level has now
// been seen, since the frame's decoder just reported exhaustion) and, if
// so, folds it into the stack as a new frame to identify and open on the
// loop's next iteration. This is spec.md §4.9 step 1's "pop the next
// group... build its aggregated hierarchy... synchronize... descend",
// triggered automatically rather than through any caller-facing method —
// the only externally visible trigger stays Entry.SetMultiVolumeGroup.
func (o *ArchiveStackOrchestrator) activateNextGroup() bool {
	if o.mvManager == nil {
		return false
	}
	parent := o.cursor.TopHierarchy()
	entry, parts, ok := o.mvManager.PopReadyGroup(context.Background(), o.fs, parent)
	if !ok {
		return false
	}
	hier := append(parent.clone(), entry)
	stream, err := resolveRootStream(o.fs, hier, parts)
	if err != nil {
		dispatchFault(EntryFault{Hierarchy: hier, Message: err.Error()})
		return false
	}
	o.cursor.PushSynthetic(hier, stream)
	return true
}

func formatIDFromName(name string) (string, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return formats.Zip, true
	case strings.HasSuffix(lower, ".tar"), strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"),
		strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".tar.zst"),
		strings.HasSuffix(lower, ".tar.lz4"), strings.HasSuffix(lower, ".tar.br"):
		return formats.Tar, true
	case strings.HasSuffix(lower, ".rar"):
		return formats.Rar, true
	case strings.HasSuffix(lower, ".7z"):
		return formats.SevenZip, true
	case strings.HasSuffix(lower, ".ar"):
		return formats.Ar, true
	case strings.HasSuffix(lower, ".cab"):
		return formats.Cab, true
	case strings.HasSuffix(lower, ".cpio"):
		return formats.Cpio, true
	case strings.HasSuffix(lower, ".iso"):
		return formats.ISO9660, true
	case strings.HasSuffix(lower, ".lzh"), strings.HasSuffix(lower, ".lha"):
		return formats.LHA, true
	case strings.HasSuffix(lower, ".warc"):
		return formats.WARC, true
	case strings.HasSuffix(lower, ".xar"):
		return formats.Xar, true
	default:
		return "", false
	}
}
