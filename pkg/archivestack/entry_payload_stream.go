package archivestack

import "io"

// EntryPayloadStream exposes an ArchiveDecoder's current entry as a plain
// DataStream, so the cursor can push it onto the stack and let a nested
// decoder read straight from the parent decoder's payload without an
// intermediate copy (except for zip and 7z, which need random access and
// are read whole into memory by OpenArchiveDecoder first). Grounded on unpack.VirtualFile.OpenStream/OpenReaderAt
// (pkg/unpack/virtual_file.go), which composes a stream from a parent's
// parts the same way; generalized here from a fixed offset table to
// "read forward through whatever decoder currently owns this entry".
//
// Forward-only: the underlying formats.Decoder has no general rewind, so
// Rewind always fails with ErrSeekUnsupported.
type EntryPayloadStream struct {
	BaseStream
	dec       *ArchiveDecoder
	hierarchy PathHierarchy
	atEnd     bool
}

func NewEntryPayloadStream(dec *ArchiveDecoder, hierarchy PathHierarchy) *EntryPayloadStream {
	return &EntryPayloadStream{dec: dec, hierarchy: hierarchy}
}

func (s *EntryPayloadStream) Read(p []byte) (int, error) {
	if s.atEnd {
		return 0, io.EOF
	}
	n, err := s.dec.Read(p)
	if err == io.EOF {
		s.atEnd = true
	}
	return n, err
}

func (s *EntryPayloadStream) Rewind() error { return ErrSeekUnsupported }

func (s *EntryPayloadStream) AtEnd() bool { return s.atEnd }

func (s *EntryPayloadStream) SourceHierarchy() PathHierarchy { return s.hierarchy }
