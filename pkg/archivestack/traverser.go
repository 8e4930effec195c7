package archivestack

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/Raizo-TCS/archive-r/pkg/rconfig"
	"github.com/Raizo-TCS/archive-r/pkg/rlog"
)

// logOnce configures rlog from ARCHIVE_R_LOG_LEVEL the first time a
// Traverser is built — this package has no cmd/ entrypoint of its own to do
// it the way the teacher's cmd/streamnzb/main.go calls logger.Init once at
// startup, so NewTraverser is the earliest hook a library consumer reaches.
var logOnce sync.Once

// Traverser is the lazy, pre-order iterator over one or more roots: plain
// files, directories (recursed into), multi-volume groups, and whatever
// archives any of those turn out to contain. Grounded on spec.md §4.11's
// walk order and on the teacher's ScanArchive/ScanFiles recursive-descent
// shape (pkg/unpack/rar.go, pkg/unpack/archive.go), restructured as an
// explicit work stack so Next can suspend between any two entries instead
// of walking everything eagerly into memory.
type Traverser struct {
	opt       ArchiveOption
	fs        afero.Fs
	mvManager *MultiVolumeManager

	stack        []workItem
	orchestrator *ArchiveStackOrchestrator
	current      *Entry

	// dirRemaining counts, per directory hierarchy (keyed by its Display),
	// how many direct children haven't yet been detached (i.e. yielded and
	// then moved past by a following Next call). It drives automatic
	// multi-volume activation (spec.md §4.9 step 1): only once a child has
	// been detached is its own SetMultiVolumeGroup call guaranteed to have
	// already happened, so counting down on pop rather than on detach would
	// risk activating a group before every part had been marked.
	dirRemaining map[string]int
}

type workKind int

const (
	workRoot workKind = iota
	workDir
	workFile
)

type workItem struct {
	kind      workKind
	hierarchy PathHierarchy
	path      string
	// mvParts, when non-nil, names the native paths a workRoot item was
	// built from directly by automatic multi-volume activation, bypassing
	// the usual single-hierarchy-component path extraction.
	mvParts []string
}

// NewTraverser builds a Traverser over roots, each evaluated independently
// in the order given. opts.DescendArchives, opts.Formats and
// opts.Passphrases govern every root and every nested archive found under
// it.
func NewTraverser(roots []PathHierarchy, opt ArchiveOption) (*Traverser, error) {
	logOnce.Do(func() { rlog.Init(rconfig.LogLevel()) })
	if len(roots) == 0 {
		return nil, ErrEmptyHierarchy
	}
	t := &Traverser{
		opt:          opt.Clone(),
		fs:           afero.NewOsFs(),
		mvManager:    NewMultiVolumeManager(),
		dirRemaining: make(map[string]int),
	}
	for i := len(roots) - 1; i >= 0; i-- {
		t.stack = append(t.stack, workItem{kind: workRoot, hierarchy: roots[i].clone()})
	}
	return t, nil
}

// Next returns the traversal's next Entry in pre-order, detaching whatever
// Entry was previously live. ok is false once every root is exhausted.
//
// A panic escaping a decoder library (a fatal, unrecoverable failure rather
// than a fault) is recovered here, at the iterator boundary, and turned
// into an error return; the current root's traversal is abandoned but
// remaining roots still run on the next Next call.
func (t *Traverser) Next() (entry *Entry, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			rlog.Error("panic during traversal", "recover", r)
			t.orchestrator = nil
			entry, ok, err = nil, false, newFault(nil, -1, nil, "unrecoverable failure during traversal: %v", r)
		}
	}()
	return t.next()
}

func (t *Traverser) next() (*Entry, bool, error) {
	if t.current != nil {
		prev := t.current
		prev.detach()
		t.current = nil
		if prev.isRootEntry {
			// Both branches below were deferred to this point specifically
			// so a SetDescent call made while prev was still live can still
			// take effect: visitDir never listed prev's children, and
			// visitRoot/visitFile's orchestrator never probed whether prev
			// is itself a recognized archive.
			if !prev.descentEnabled {
				t.orchestrator = nil
			}
			if prev.isDir {
				t.expandDir(prev)
			}
			t.noteChildVisited(PrefixUntil(prev.hierarchy, len(prev.hierarchy)-1))
		}
	}

	for {
		if t.orchestrator != nil {
			raw, ok, err := t.orchestrator.Step()
			if err != nil {
				return nil, false, err
			}
			if ok {
				var size uint64
				if raw.Header != nil {
					size = raw.Header.Size
				}
				e := &Entry{
					hierarchy:      raw.Hierarchy,
					isDir:          raw.Header != nil && raw.Header.IsDir,
					size:           size,
					descentEnabled: t.orchestrator.PendingDescend(),
					metadata:       headerMetadata(raw.Header, t.opt.MetadataKeys),
					header:         raw.Header,
					owner:          t,
					live:           true,
				}
				t.current = e
				return e, true, nil
			}
			t.orchestrator = nil
			continue
		}

		if len(t.stack) == 0 {
			t.reportUnresolvedGroups()
			return nil, false, nil
		}

		item := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		switch item.kind {
		case workRoot:
			e, ok, err := t.visitRoot(item)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				continue
			}
			return e, true, nil

		case workDir:
			e, ok := t.visitDir(item)
			if !ok {
				continue
			}
			return e, true, nil

		case workFile:
			e, ok := t.visitFile(item)
			if !ok {
				continue
			}
			return e, true, nil
		}
	}
}

func (t *Traverser) visitRoot(item workItem) (*Entry, bool, error) {
	paths := item.mvParts
	if paths == nil {
		var err error
		paths, err = nativePathsOf(item.hierarchy)
		if err != nil {
			dispatchFault(EntryFault{Hierarchy: item.hierarchy, Message: err.Error()})
			return nil, false, nil
		}
		if len(paths) == 1 {
			if info, err := t.fs.Stat(paths[0]); err == nil && info.IsDir() {
				t.stack = append(t.stack, workItem{kind: workDir, hierarchy: item.hierarchy, path: paths[0]})
				return nil, false, nil
			}
		}
	}

	stream, err := resolveRootStream(t.fs, item.hierarchy, paths)
	if err != nil {
		dispatchFault(EntryFault{Hierarchy: item.hierarchy, Message: err.Error()})
		return nil, false, nil
	}

	meta := EntryMetadata{}
	nativePath := ""
	var size uint64
	if len(paths) == 1 {
		meta = CollectFilesystemMetadata(t.fs, paths[0], t.opt.MetadataKeys)
		nativePath = paths[0]
		if n, ok := StatSize(t.fs, paths[0]); ok {
			size = n
		}
	}
	e := &Entry{
		hierarchy:      item.hierarchy,
		size:           size,
		descentEnabled: t.opt.DescendArchives,
		metadata:       meta,
		nativePath:     nativePath,
		isRootEntry:    true,
		owner:          t,
		live:           true,
	}
	t.current = e
	// The orchestrator is always built, even when opt.DescendArchives is
	// false: it never probes whether item is itself a recognized archive
	// until Step is first called, which next() defers until this Entry has
	// been detached, by which point a SetDescent(true) override already
	// applied would have flipped e.descentEnabled and kept the orchestrator
	// alive instead of discarding it.
	t.orchestrator = NewArchiveStackOrchestrator(item.hierarchy, stream, t.opt, t.fs, t.mvManager)
	return e, true, nil
}

func (t *Traverser) visitDir(item workItem) (*Entry, bool) {
	meta := CollectFilesystemMetadata(t.fs, item.path, t.opt.MetadataKeys)
	var size uint64
	if n, ok := StatSize(t.fs, item.path); ok {
		size = n
	}
	e := &Entry{
		hierarchy:      item.hierarchy,
		isDir:          true,
		size:           size,
		descentEnabled: t.opt.DescendArchives,
		metadata:       meta,
		nativePath:     item.path,
		isRootEntry:    true,
		owner:          t,
		live:           true,
	}
	t.current = e
	return e, true
}

// expandDir lists dir's children and pushes them onto the stack. Deferred
// until dir has been detached, mirroring the orchestrator's own step machine
// (ArchiveStackOrchestrator.Step applies pendingDescend on the following
// call), so a SetDescent(false) call made while dir was still live is
// guaranteed to be seen before any child is ever enqueued — spec.md §4.11's
// per-entry override of directory recursion.
func (t *Traverser) expandDir(dir *Entry) {
	if !dir.descentEnabled {
		return
	}
	children, err := afero.ReadDir(t.fs, dir.nativePath)
	if err != nil {
		dispatchFault(EntryFault{Hierarchy: dir.hierarchy, Message: err.Error()})
		return
	}
	if len(children) > 0 {
		t.dirRemaining[Display(dir.hierarchy)] = len(children)
	}
	for i := len(children) - 1; i >= 0; i-- {
		info := children[i]
		childHier := AppendSingle(dir.hierarchy, info.Name())
		childPath := filepath.Join(dir.nativePath, info.Name())
		if info.IsDir() {
			t.stack = append(t.stack, workItem{kind: workDir, hierarchy: childHier, path: childPath})
		} else {
			t.stack = append(t.stack, workItem{kind: workFile, hierarchy: childHier, path: childPath})
		}
	}
}

func (t *Traverser) visitFile(item workItem) (*Entry, bool) {
	stream, err := resolveRootStream(t.fs, item.hierarchy, []string{item.path})
	if err != nil {
		dispatchFault(EntryFault{Hierarchy: item.hierarchy, Message: err.Error()})
		return nil, false
	}
	meta := CollectFilesystemMetadata(t.fs, item.path, t.opt.MetadataKeys)
	var size uint64
	if n, ok := StatSize(t.fs, item.path); ok {
		size = n
	}
	e := &Entry{
		hierarchy:      item.hierarchy,
		size:           size,
		descentEnabled: t.opt.DescendArchives,
		metadata:       meta,
		nativePath:     item.path,
		isRootEntry:    true,
		owner:          t,
		live:           true,
	}
	t.current = e
	t.orchestrator = NewArchiveStackOrchestrator(item.hierarchy, stream, t.opt, t.fs, t.mvManager)
	return e, true
}

// noteChildVisited decrements parent's remaining-children count and, once
// every child at that level has been detached, automatically activates any
// multi-volume group Entry.SetMultiVolumeGroup declared under it — spec.md
// §4.9 step 1's filesystem-level counterpart to the orchestrator's
// per-archive-frame activation.
func (t *Traverser) noteChildVisited(parent PathHierarchy) {
	key := Display(parent)
	n, tracked := t.dirRemaining[key]
	if !tracked {
		return
	}
	n--
	if n > 0 {
		t.dirRemaining[key] = n
		return
	}
	delete(t.dirRemaining, key)
	t.activatePendingGroups(parent)
}

// activatePendingGroups pushes every multi-volume group still pending under
// parent as a new root, to be identified and, if recognized, descended into
// on a later Next call.
func (t *Traverser) activatePendingGroups(parent PathHierarchy) {
	for {
		entry, parts, ok := t.mvManager.PopReadyGroup(context.Background(), t.fs, parent)
		if !ok {
			return
		}
		hier := append(parent.clone(), entry)
		t.stack = append(t.stack, workItem{kind: workRoot, hierarchy: hier, mvParts: parts})
	}
}

// reopenCursor builds a fresh ArchiveStackCursor over hierarchy's root and
// synchronizes it down to hierarchy, backing Entry.Read's lazy reopening of
// a detached entry (spec.md §4.10).
func (t *Traverser) reopenCursor(hierarchy PathHierarchy) (*ArchiveStackCursor, error) {
	if len(hierarchy) == 0 {
		return nil, ErrEmptyHierarchy
	}
	rootHier := hierarchy[:1].clone()
	paths, err := nativePathsOf(rootHier)
	if err != nil {
		return nil, err
	}
	stream, err := resolveRootStream(t.fs, rootHier, paths)
	if err != nil {
		return nil, err
	}
	cur := NewArchiveStackCursor(rootHier, stream)
	if err := cur.SynchronizeToHierarchy(hierarchy, t.opt); err != nil {
		return nil, err
	}
	return cur, nil
}

// reportUnresolvedGroups dispatches a fault for any multi-volume group an
// Entry.SetMultiVolumeGroup call declared but that never automatically
// activated before traversal finished — parts scattered under a root passed
// directly to NewTraverser, for instance, rather than discovered through a
// directory listing.
func (t *Traverser) reportUnresolvedGroups() {
	if t.mvManager.PendingCount() == 0 {
		return
	}
	dispatchFault(EntryFault{Message: "traversal finished with unresolved multi-volume groups", Errno: -1})
}
