// Package formats is the "format decoder library" spec.md treats as an
// external collaborator: given a byte source, enumerate headers and read
// per-entry bytes. archivestack.ArchiveDecoder (C5) consumes this package
// only through the Decoder interface; nothing in pkg/archivestack knows
// which concrete library produced a given Decoder.
package formats

import (
	"errors"
	"io"
	"time"
)

// ErrUnsupportedFormat is returned by Open when the requested format id is
// recognized (see RecognizedIDs) but this build has no working decoder for
// it, and by Identify when no registered sniffer recognizes the stream.
var ErrUnsupportedFormat = errors.New("formats: unsupported archive format")

// ErrNeedPassphrase indicates the archive is encrypted and none of the
// supplied passphrases (OpenOptions.Passphrases) worked.
var ErrNeedPassphrase = errors.New("formats: archive requires a passphrase")

// Header describes one entry as reported by a Decoder, immediately before
// its payload becomes readable via Decoder.Read.
type Header struct {
	// Name is the UTF-8 entry name, preferred whenever the underlying
	// format supplies one.
	Name string
	// RawName holds the entry name as raw bytes in the archive's native
	// encoding, used as a fallback when Name is empty (spec.md §4.5:
	// "falls back to the non-UTF-8 variant when the UTF-8 view is null or
	// empty").
	RawName []byte
	Size    uint64
	IsDir   bool
	IsLink  bool
	// Mode carries permission bits plus, where the format has an explicit
	// file-type field distinct from name-based sniffing (tar, cpio), the
	// type bits in the low fs.ModeType range.
	Mode    uint32
	ModTime time.Time

	Uid, Gid           int
	Uname, Gname       string
	DeviceMajor, Minor uint32

	// Compressed reports whether the payload behind Read is still
	// compressed at the point Header is yielded — some adapters (7z) can
	// tell before the first Read whether decompression will be needed.
	Compressed bool
}

// OpenOptions configures a decoder instance.
type OpenOptions struct {
	Passphrases []string
	// ReaderAt and Size are supplied by the caller when it can offer random
	// access (a seekable stream, or a payload it has read into memory);
	// formats that need random access (zip, 7z) require
	// these to be non-nil/non-zero and fail with ErrUnsupportedFormat
	// otherwise.
	ReaderAt io.ReaderAt
	Size     int64
	// Filename is the entry's own display name, set by Registry.Open from
	// whatever filename was passed to it (even when id was already known and
	// Identify never ran). Formats whose outer compression has no reliable
	// magic (brotli) fall back to it, the same way archiver/v4's own
	// Brotli.Match does.
	Filename string
}

// Decoder owns one open archive instance. Its lifecycle mirrors
// spec.md §4.5: Next must succeed before Read or Skip are meaningful.
type Decoder interface {
	// Next positions the decoder at the next header. ok is false at
	// end-of-archive (err is nil in that case).
	Next() (hdr *Header, ok bool, err error)
	// Read reads the current entry's payload. Returns (0, io.EOF) at the
	// end of the current entry's data.
	Read(p []byte) (int, error)
	// Skip discards any unread payload of the current entry.
	Skip() error
	Close() error
}

// Opener constructs a Decoder for r, a stream already known (or suspected)
// to hold data in this format.
type Opener func(r io.Reader, opts OpenOptions) (Decoder, error)

// Sniffer reports whether stream/filename look like this format. It must
// only read as many bytes as needed and is always called against a
// bounded, rewindable peek buffer (see Identify).
type Sniffer func(filename string, peek []byte) bool
