package formats

import (
	"bufio"
	"io"
)

// Recognized format identifiers (spec.md's minimum recognized set).
const (
	SevenZip = "7zip"
	Ar       = "ar"
	Cab      = "cab"
	Cpio     = "cpio"
	Empty    = "empty"
	ISO9660  = "iso9660"
	LHA      = "lha"
	Rar      = "rar"
	Tar      = "tar"
	WARC     = "warc"
	Xar      = "xar"
	Zip      = "zip"
)

// RecognizedIDs lists every format identifier ArchiveOption.Formats and
// Identify may report, whether or not this build has a working Opener.
var RecognizedIDs = []string{SevenZip, Ar, Cab, Cpio, Empty, ISO9660, LHA, Rar, Tar, WARC, Xar, Zip}

const peekSize = 512

type registration struct {
	id      string
	sniff   Sniffer
	open    Opener
	notImpl bool
}

// Registry maps format identifiers to sniffers and openers. The package
// exposes one process-wide Default registry, populated by this package's
// init functions; callers rarely need their own.
type Registry struct {
	entries []registration
	byID    map[string]*registration
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*registration)}
}

// Register adds or replaces the entry for id.
func (r *Registry) Register(id string, sniff Sniffer, open Opener) {
	reg := &registration{id: id, sniff: sniff, open: open}
	r.byID[id] = reg
	r.entries = append(r.entries, *reg)
}

// RegisterUnimplemented marks id as recognized (nameable in ArchiveOption.Formats,
// sniffable by Identify) but not decodable in this build.
func (r *Registry) RegisterUnimplemented(id string, sniff Sniffer) {
	reg := &registration{id: id, sniff: sniff, notImpl: true}
	r.byID[id] = reg
	r.entries = append(r.entries, *reg)
}

// Identify peeks at r and returns the format id whose sniffer matches, plus
// a reader that replays the peeked bytes ahead of the remainder of r.
func (r *Registry) Identify(filename string, src io.Reader) (id string, out io.Reader, err error) {
	br := bufio.NewReaderSize(src, peekSize)
	peek, _ := br.Peek(peekSize)
	for _, reg := range r.entries {
		if reg.sniff != nil && reg.sniff(filename, peek) {
			return reg.id, br, nil
		}
	}
	return "", br, ErrUnsupportedFormat
}

// Open constructs a Decoder for format id. If id is empty, Identify is used
// first.
func (r *Registry) Open(id, filename string, src io.Reader, opts OpenOptions) (Decoder, error) {
	if id == "" {
		ident, replay, err := r.Identify(filename, src)
		if err != nil {
			return nil, err
		}
		id, src = ident, replay
	}
	reg, ok := r.byID[id]
	if !ok || reg.notImpl || reg.open == nil {
		return nil, ErrUnsupportedFormat
	}
	if opts.Filename == "" {
		opts.Filename = filename
	}
	return reg.open(src, opts)
}

// Default is the process-wide registry populated by this package's adapters.
var Default = NewRegistry()
