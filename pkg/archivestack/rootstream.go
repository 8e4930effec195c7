package archivestack

import (
	"sync/atomic"

	"github.com/spf13/afero"
)

// RootStreamFactory resolves a root-level PathHierarchy (one that names a
// real filesystem location, not something already inside an archive) into
// the DataStream a Traverser reads it through. Registering one lets a
// caller substitute a non-filesystem source (a network volume, an in-memory
// fixture) for the default afero-backed SystemFileStream. A MultiVolume
// hierarchy component already carries its own Parts, so a factory that
// needs the native path(s) reads them off h's final component directly.
type RootStreamFactory func(h PathHierarchy) (DataStream, error)

// rootStreamFactory mirrors fault.go's faultCallback: a process-wide,
// atomically-swapped slot so RegisterRootStreamFactory never needs a lock
// and is never invoked mid-swap.
var rootStreamFactory atomic.Pointer[RootStreamFactory]

// RegisterRootStreamFactory installs f as the process-wide root stream
// resolver, replacing any previously registered one. Passing nil restores
// the default afero.NewOsFs()-backed resolution.
func RegisterRootStreamFactory(f RootStreamFactory) {
	if f == nil {
		rootStreamFactory.Store(nil)
		return
	}
	rootStreamFactory.Store(&f)
}

func resolveRootStream(fs afero.Fs, hierarchy PathHierarchy, nativePaths []string) (DataStream, error) {
	if p := rootStreamFactory.Load(); p != nil {
		return (*p)(hierarchy)
	}
	return NewSystemFileStream(fs, hierarchy, nativePaths)
}

// nativePathsOf extracts the real filesystem path(s) a root-level hierarchy
// component names. It only handles single-component hierarchies: anything
// already nested inside an archive isn't a root the traverser opens from
// disk directly.
func nativePathsOf(h PathHierarchy) ([]string, error) {
	if len(h) != 1 {
		return nil, ErrEmptyHierarchy
	}
	switch h[0].Kind {
	case PathEntryKindSingle:
		return []string{h[0].Name}, nil
	case PathEntryKindMultiVolume:
		return append([]string(nil), h[0].Parts...), nil
	default:
		return nil, ErrEmptyHierarchy
	}
}
