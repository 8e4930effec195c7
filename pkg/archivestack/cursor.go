package archivestack

import (
	"io"

	"github.com/Raizo-TCS/archive-r/pkg/formats"
)

// frame is one level of the archive stack: the DataStream currently being
// read at this level, and, once something has opened an archive at this
// level, the ArchiveDecoder walking its headers.
type frame struct {
	hierarchy PathHierarchy
	stream    DataStream
	decoder   *ArchiveDecoder
}

// ArchiveStackCursor holds the stack of nested (stream, decoder) frames a
// traversal is currently positioned at. Grounded on spec.md §4.7's "model
// as a single stack" design note — the teacher has no equivalent explicit
// stack, resolving one archive at a time through recursive calls
// (pkg/unpack/rar.go:507 `return ScanArchive(nestedFiles)`); this replaces
// that recursion with an explicit slice so the traverser can suspend and
// resume a walk one Next() call at a time.
type ArchiveStackCursor struct {
	frames []frame
}

// NewArchiveStackCursor starts a cursor at a single root frame with no
// decoder open yet.
func NewArchiveStackCursor(hierarchy PathHierarchy, root DataStream) *ArchiveStackCursor {
	return &ArchiveStackCursor{frames: []frame{{hierarchy: hierarchy, stream: root}}}
}

func (c *ArchiveStackCursor) Depth() int { return len(c.frames) }

func (c *ArchiveStackCursor) top() *frame { return &c.frames[len(c.frames)-1] }

// TopStream exposes the top frame's own stream, used to sniff/probe a
// format before deciding whether to open a decoder there.
func (c *ArchiveStackCursor) TopStream() DataStream { return c.top().stream }

// TopHierarchy is the hierarchy of the top frame's own stream (the archive
// file itself, not whatever entry it's currently positioned at).
func (c *ArchiveStackCursor) TopHierarchy() PathHierarchy { return c.top().hierarchy }

// HasDecoder reports whether the top frame has an open archive decoder.
func (c *ArchiveStackCursor) HasDecoder() bool { return c.top().decoder != nil }

// CurrentHierarchy is the hierarchy of whatever the cursor is positioned
// at right now: the top frame's own hierarchy if no archive is open there,
// or that hierarchy extended with the current entry's name once a decoder
// is active and has advanced past a header.
func (c *ArchiveStackCursor) CurrentHierarchy() PathHierarchy {
	f := c.top()
	if f.decoder == nil {
		return f.hierarchy
	}
	hdr := f.decoder.CurrentHeader()
	if hdr == nil {
		return f.hierarchy
	}
	return AppendSingle(f.hierarchy, decodeEntryName(hdr.Name, hdr.RawName))
}

// OpenDecoderHere opens formatID against the top frame's own stream,
// turning it from a plain file into an archive the cursor can walk.
func (c *ArchiveStackCursor) OpenDecoderHere(formatID string, opt ArchiveOption) error {
	f := c.top()
	dec, err := OpenArchiveDecoder(formatID, f.hierarchy, f.stream, opt)
	if err != nil {
		return err
	}
	f.decoder = dec
	return nil
}

// Advance moves the top frame's decoder to its next header. ok is false
// once the top frame's archive is exhausted, at which point the caller
// should Ascend.
func (c *ArchiveStackCursor) Advance() (ok bool, err error) {
	f := c.top()
	if f.decoder == nil {
		return false, ErrNoCurrentEntry
	}
	_, ok, err = f.decoder.Advance()
	return ok, err
}

// Header returns the top frame's decoder's current header, or nil.
func (c *ArchiveStackCursor) Header() *formats.Header {
	f := c.top()
	if f.decoder == nil {
		return nil
	}
	return f.decoder.CurrentHeader()
}

// Descend pushes a new frame reading the top frame's current entry as a
// payload stream, so a nested archive inside it can itself be opened and
// walked. Grounded on unpack.VirtualFile.OpenStream composing a child
// stream over a parent's parts (pkg/unpack/virtual_file.go).
func (c *ArchiveStackCursor) Descend() error {
	f := c.top()
	if f.decoder == nil {
		return ErrNoCurrentEntry
	}
	hdr := f.decoder.CurrentHeader()
	if hdr == nil {
		return ErrNoCurrentEntry
	}
	childHierarchy := AppendSingle(f.hierarchy, decodeEntryName(hdr.Name, hdr.RawName))
	payload := NewEntryPayloadStream(f.decoder, childHierarchy)
	c.frames = append(c.frames, frame{hierarchy: childHierarchy, stream: payload})
	return nil
}

// Ascend pops the top frame, returning to its parent. It refuses to pop
// the last remaining frame — a cursor is never empty.
func (c *ArchiveStackCursor) Ascend() error {
	if len(c.frames) <= 1 {
		return ErrNoCurrentEntry
	}
	top := c.top()
	if top.decoder != nil {
		top.decoder.Close()
	}
	c.frames = c.frames[:len(c.frames)-1]
	return nil
}

// Read reads from whichever stream is authoritative at the top of the
// stack: the decoder's current entry if one is open there, otherwise the
// frame's own raw stream.
func (c *ArchiveStackCursor) Read(p []byte) (int, error) {
	f := c.top()
	if f.decoder != nil {
		return f.decoder.Read(p)
	}
	return f.stream.Read(p)
}

// PushSynthetic pushes a new top frame reading stream directly, rather than
// deriving it from the current frame's decoder the way Descend does. Used
// to fold an automatically-activated multi-volume group (C8/C9) into the
// stack as the next thing to identify and open.
func (c *ArchiveStackCursor) PushSynthetic(hierarchy PathHierarchy, stream DataStream) {
	c.frames = append(c.frames, frame{hierarchy: hierarchy, stream: stream})
}

// IdentifyTop identifies the top frame's own archive format: first by the
// last path component's extension, then, if that fails and the stream can
// seek, by sniffing its header bytes through pkg/formats' registry.
func (c *ArchiveStackCursor) IdentifyTop() (string, error) {
	hier := c.TopHierarchy()
	name := ""
	if len(hier) > 0 {
		name = hier[len(hier)-1].display()
	}
	if id, ok := formatIDFromName(name); ok {
		return id, nil
	}
	stream := c.TopStream()
	if !stream.CanSeek() {
		return "", formats.ErrUnsupportedFormat
	}
	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	id, _, err := formats.Default.Identify(name, stream)
	if err != nil {
		return "", err
	}
	if _, err := stream.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return id, nil
}

// SynchronizeToHierarchy repositions the cursor at target, per spec.md
// §4.7: reusing whatever prefix of frames already matches target, popping
// the rest, then constructing/identifying/advancing/descending through
// whatever remains, one component at a time from wherever the reused
// prefix leaves off. Used both to reattach a detached Entry's private
// cursor (C10) and by the orchestrator's automatic multi-volume descent
// (C9).
func (c *ArchiveStackCursor) SynchronizeToHierarchy(target PathHierarchy, opt ArchiveOption) error {
	if len(target) == 0 {
		return ErrEmptyHierarchy
	}
	for len(c.frames) > 1 && (len(c.frames) > len(target) || !Equal(c.top().hierarchy, target[:len(c.frames)])) {
		if err := c.Ascend(); err != nil {
			return err
		}
	}
	if !Equal(c.frames[0].hierarchy, target[:1]) {
		return ErrSeekUnsupported
	}
	for i := len(c.frames); i < len(target); i++ {
		if !c.HasDecoder() {
			id, ok := formatIDFromName(target[i-1].display())
			if !ok {
				var err error
				id, err = c.IdentifyTop()
				if err != nil {
					return err
				}
			}
			if err := c.OpenDecoderHere(id, opt); err != nil {
				return err
			}
		}
		wantName := target[i].display()
		for {
			ok, err := c.Advance()
			if err != nil {
				return err
			}
			if !ok {
				return ErrNoCurrentEntry
			}
			hdr := c.Header()
			if decodeEntryName(hdr.Name, hdr.RawName) == wantName {
				break
			}
		}
		if i < len(target)-1 {
			if err := c.Descend(); err != nil {
				return err
			}
		}
	}
	return nil
}
