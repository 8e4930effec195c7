package archivestack

import "errors"

var (
	// ErrEmptyPartsList is returned by MultiVolume when given no parts.
	ErrEmptyPartsList = errors.New("archivestack: multi-volume part list must not be empty")
	// ErrEmptyHierarchy is returned wherever an operation requires a
	// non-empty PathHierarchy.
	ErrEmptyHierarchy = errors.New("archivestack: path hierarchy must not be empty")
	// ErrNotLive is returned by Entry operations that require the entry to
	// still be the traversal's current entry.
	ErrNotLive = errors.New("archivestack: entry is not the traversal's current entry")
	// ErrEntryInvalidated is returned by Entry.Read for a still-live entry
	// with no payload orchestrator behind it (a directory, or a root entry
	// whose orchestrator SetMultiVolumeGroup discarded). A detached entry's Read instead
	// lazily reopens a private cursor rather than returning this.
	ErrEntryInvalidated = errors.New("archivestack: entry was invalidated by traversal advance")
	// ErrNoCurrentEntry is returned by ArchiveStackCursor operations
	// (Advance, Descend, Ascend, SynchronizeToHierarchy) when the stack has
	// no frame to act on.
	ErrNoCurrentEntry = errors.New("archivestack: no current entry")
	// ErrSeekUnsupported is returned by DataStream implementations that
	// cannot seek, and by MultiVolumeStream when any part's size is unknown.
	ErrSeekUnsupported = errors.New("archivestack: stream does not support seeking")
	// ErrSeekOutOfRange is returned when a Seek target falls outside [0, size].
	ErrSeekOutOfRange = errors.New("archivestack: seek target out of range")
	ErrInvalidWhence   = errors.New("archivestack: invalid whence")
	// ErrNilStream reports a nil DataStream; no constructor in this package
	// returns it.
	ErrNilStream = errors.New("archivestack: stream must not be nil")
	// ErrDecoderNotAdvanced is returned by ArchiveDecoder.Read/Skip before
	// the first Advance that yields a header, or after Advance has reported
	// end of archive.
	ErrDecoderNotAdvanced = errors.New("archivestack: decoder has not advanced past a header yet")
	// ErrNoRootStreamFactory names the case of a PathHierarchy whose root
	// isn't backed by the default filesystem while no
	// RegisterRootStreamFactory hook is installed; no function in this
	// package returns it (resolveRootStream falls back to the filesystem).
	ErrNoRootStreamFactory = errors.New("archivestack: no root stream factory registered for this hierarchy")
)
