package archivestack

import (
	"io"
	"sort"
)

// mvState is MultiVolumeStream's Idle/Open(i)/Exhausted state machine
// (spec.md §4.3).
type mvState int

const (
	mvIdle mvState = iota
	mvOpen
	mvExhausted
)

// MultiVolumePartOps supplies per-part I/O to a MultiVolumeStream. It is
// implemented once per concrete backing (system files, an archive entry's
// own multi-volume group) and owns its "currently open part" state
// internally — MultiVolumeStream only ever calls OpenPart(i) to switch
// which part is active, then ReadPart/SeekWithinPart against whichever
// part was opened last.
type MultiVolumePartOps interface {
	PartCount() int
	OpenPart(i int) error
	ClosePart(i int) error
	ReadPart(p []byte) (int, error)
	SeekWithinPart(i int, offset int64) error
	// PartSize returns part i's size and whether it is known. A single
	// unknown part disables seeking for the whole stream.
	PartSize(i int) (int64, bool)
}

// MultiVolumeStream presents an ordered list of parts as one continuous
// DataStream, opening parts lazily and closing each as soon as it's
// exhausted. Grounded on the teacher's unpack.VirtualStream (findPart
// binary search over VirtualStart/VirtualEnd, part transition on short
// read), ported from a goroutine-driven worker to a synchronous state
// machine: a decoder library calls Read synchronously, so a
// background-goroutine-per-stream here would leak on every archive-stack
// ascend.
type MultiVolumeStream struct {
	BaseStream
	ops       MultiVolumePartOps
	hierarchy PathHierarchy
	mayScan   bool

	state   mvState
	current int
	pos     int64

	cumulative   []int64
	seekCapable  *bool
}

// NewMultiVolumeStream constructs a stream over ops. hierarchy is what
// SourceHierarchy reports. seekable declares whether the caller expects
// this stream to support seeking at all (independent of whether every part
// can report its size, which is discovered lazily).
func NewMultiVolumeStream(ops MultiVolumePartOps, hierarchy PathHierarchy, seekable bool) *MultiVolumeStream {
	return &MultiVolumeStream{ops: ops, hierarchy: hierarchy, mayScan: seekable}
}

func (s *MultiVolumeStream) SourceHierarchy() PathHierarchy { return s.hierarchy }

func (s *MultiVolumeStream) AtEnd() bool { return s.state == mvExhausted }

// Rewind closes whatever part is open and resets to Idle.
func (s *MultiVolumeStream) Rewind() error {
	if s.state == mvOpen {
		if err := s.ops.ClosePart(s.current); err != nil {
			return err
		}
	}
	s.state = mvIdle
	s.current = 0
	s.pos = 0
	return nil
}

func (s *MultiVolumeStream) openPart(i int) error {
	if i >= s.ops.PartCount() {
		s.state = mvExhausted
		return nil
	}
	if err := s.ops.OpenPart(i); err != nil {
		return err
	}
	s.current = i
	s.pos = 0
	s.state = mvOpen
	return nil
}

func (s *MultiVolumeStream) Read(p []byte) (int, error) {
	if s.state == mvExhausted {
		return 0, io.EOF
	}
	if s.state == mvIdle {
		if err := s.openPart(0); err != nil {
			return 0, err
		}
		if s.state == mvExhausted {
			return 0, io.EOF
		}
	}
	total := 0
	for total < len(p) {
		n, err := s.ops.ReadPart(p[total:])
		s.pos += int64(n)
		total += n
		if err != nil && err != io.EOF {
			return total, err
		}
		if n > 0 && err == nil {
			continue
		}
		if cerr := s.ops.ClosePart(s.current); cerr != nil {
			return total, cerr
		}
		if err := s.openPart(s.current + 1); err != nil {
			return total, err
		}
		if s.state == mvExhausted {
			if total == 0 {
				return 0, io.EOF
			}
			return total, nil
		}
	}
	return total, nil
}

func (s *MultiVolumeStream) ensureCumulative() error {
	if s.cumulative != nil {
		return nil
	}
	n := s.ops.PartCount()
	cum := make([]int64, n+1)
	for i := 0; i < n; i++ {
		sz, ok := s.ops.PartSize(i)
		if !ok {
			return ErrSeekUnsupported
		}
		cum[i+1] = cum[i] + sz
	}
	s.cumulative = cum
	return nil
}

func (s *MultiVolumeStream) CanSeek() bool {
	if !s.mayScan {
		return false
	}
	if s.seekCapable != nil {
		return *s.seekCapable
	}
	ok := s.ensureCumulative() == nil
	s.seekCapable = &ok
	return ok
}

func (s *MultiVolumeStream) Tell() (int64, error) {
	if !s.CanSeek() {
		return -1, ErrSeekUnsupported
	}
	if s.state != mvOpen {
		return s.cumulative[s.current], nil
	}
	return s.cumulative[s.current] + s.pos, nil
}

func (s *MultiVolumeStream) Seek(offset int64, whence int) (int64, error) {
	if !s.CanSeek() {
		return -1, ErrSeekUnsupported
	}
	total := s.cumulative[len(s.cumulative)-1]
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		cur, err := s.Tell()
		if err != nil {
			return -1, err
		}
		target = cur + offset
	case io.SeekEnd:
		target = total + offset
	default:
		return -1, ErrInvalidWhence
	}
	if target < 0 || target > total {
		return -1, ErrSeekOutOfRange
	}
	idx := sort.Search(len(s.cumulative)-1, func(i int) bool { return s.cumulative[i+1] > target })
	if idx == len(s.cumulative)-1 {
		idx--
	}
	localOff := target - s.cumulative[idx]

	if s.state == mvOpen && s.current != idx {
		if err := s.ops.ClosePart(s.current); err != nil {
			return -1, err
		}
		s.state = mvIdle
	}
	if s.state != mvOpen {
		if err := s.ops.OpenPart(idx); err != nil {
			return -1, err
		}
		s.current = idx
		s.state = mvOpen
	}
	if err := s.ops.SeekWithinPart(idx, localOff); err != nil {
		return -1, err
	}
	s.pos = localOff
	return target, nil
}
