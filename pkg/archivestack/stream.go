package archivestack

// DataStream is the capability every byte source in the archive stack
// implements, whether it's a file on disk, the concatenation of a
// multi-volume set, or the decompressed payload of one archive entry.
// Grounded on the teacher's minimal capability interfaces for swappable
// byte sources (pkg/unpack/types.go's ReadSeekCloser/UnpackableFile).
//
// Read follows io.Reader semantics ((n>0, nil), (n>0, io.EOF), or (0,
// io.EOF)/(0, err)) — the Go-idiomatic rendering of spec.md's signed-count
// read contract; a negative return has no Go equivalent, so failures are
// reported through err instead.
type DataStream interface {
	Read(p []byte) (int, error)
	// Rewind resets the stream to its logical beginning. Streams that
	// cannot rewind (a live decoder payload mid-read) return
	// ErrSeekUnsupported.
	Rewind() error
	// AtEnd reports whether the stream has observed end-of-data. It is
	// sticky: once true, it stays true until Rewind.
	AtEnd() bool
	// SourceHierarchy names the logical origin this stream reads from.
	SourceHierarchy() PathHierarchy

	Seek(offset int64, whence int) (int64, error)
	Tell() (int64, error)
	CanSeek() bool
}

// BaseStream is embedded by DataStream implementations that don't support
// seeking, supplying the Seek/Tell/CanSeek trio so each concrete stream
// only has to implement Read/Rewind/AtEnd/SourceHierarchy. Mirrors the
// teacher's pattern of small embeddable base types for shared default
// behavior (loader.Segment embeds nzb.Segment).
type BaseStream struct{}

func (BaseStream) Seek(int64, int) (int64, error) { return -1, ErrSeekUnsupported }
func (BaseStream) Tell() (int64, error)            { return -1, ErrSeekUnsupported }
func (BaseStream) CanSeek() bool                   { return false }
