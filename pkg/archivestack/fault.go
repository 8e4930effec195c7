package archivestack

import (
	"fmt"
	"sync/atomic"

	"github.com/Raizo-TCS/archive-r/pkg/rlog"
)

// EntryFault is a recoverable failure tied to a specific position in the
// archive stack: an open, read or descend that failed but leaves the
// traversal able to continue past it.
type EntryFault struct {
	Hierarchy PathHierarchy
	Message   string
	// Errno holds the underlying OS error code when one was captured (a
	// failed open of a file part), or -1 otherwise.
	Errno int
}

// EntryFaultError adapts EntryFault to the error interface so it can be
// both dispatched through the fault callback and returned/wrapped as a
// normal Go error.
type EntryFaultError struct {
	EntryFault
	Cause error
}

func (e *EntryFaultError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, Display(e.Hierarchy), e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Message, Display(e.Hierarchy))
}

func (e *EntryFaultError) Unwrap() error { return e.Cause }

func newFault(h PathHierarchy, errno int, cause error, format string, args ...any) *EntryFaultError {
	return &EntryFaultError{
		EntryFault: EntryFault{Hierarchy: h, Message: fmt.Sprintf(format, args...), Errno: errno},
		Cause:      cause,
	}
}

// faultCallback is a process-wide, atomically-swapped slot: RegisterFaultCallback
// replaces it with a single store, and dispatchFault snapshots it once before
// invoking, so the callback is never invoked while any internal lock is held
// and a concurrent Register never observes a half-updated value.
var faultCallback atomic.Pointer[func(EntryFault)]

// RegisterFaultCallback installs cb as the process-wide fault callback,
// replacing any previously registered one. Passing nil disables dispatch.
func RegisterFaultCallback(cb func(EntryFault)) {
	if cb == nil {
		faultCallback.Store(nil)
		return
	}
	faultCallback.Store(&cb)
}

// dispatchFault logs f the way the teacher logs a recoverable unpack
// failure (pkg/unpack/archive.go's "ScanArchive failed, falling back to
// other methods" and similar Warn calls), then hands it to the
// process-wide callback, if one is registered.
func dispatchFault(f EntryFault) {
	if f.Errno == 0 {
		f.Errno = -1
	}
	rlog.Warn(f.Message, "hierarchy", Display(f.Hierarchy), "errno", f.Errno)
	p := faultCallback.Load()
	if p == nil {
		return
	}
	(*p)(f)
}
