package archivestack

import (
	"bytes"
	"io"

	"github.com/Raizo-TCS/archive-r/pkg/formats"
)

// ArchiveDecoder wraps one formats.Decoder instance, owning lifecycle and
// the "Next must succeed before Read/Skip are meaningful" invariant, and
// translating decoder-library failures into EntryFaultError. It never
// knows which concrete library produced its underlying formats.Decoder.
// Grounded on the teacher's unpack.ScanArchive (rardecode.NewReader/
// Reader.Next) and unpack.Open7zStream (sevenzip.NewReader/
// ListFilesWithOffsets) call sequences, generalized to any formats.Decoder.
type ArchiveDecoder struct {
	dec       formats.Decoder
	hierarchy PathHierarchy
	cur       *formats.Header
	advanced  bool
}

// OpenArchiveDecoder opens formatID (or, if empty, sniffs it) against src,
// which is the DataStream for the archive file itself. hierarchy identifies
// that file for fault reporting.
func OpenArchiveDecoder(formatID string, hierarchy PathHierarchy, src DataStream, opt ArchiveOption) (*ArchiveDecoder, error) {
	opts := formats.OpenOptions{Passphrases: opt.Passphrases}
	if src.CanSeek() {
		if end, err := src.Seek(0, io.SeekEnd); err == nil {
			opts.Size = end
			opts.ReaderAt = &seekReaderAt{s: src}
			if _, err := src.Seek(0, io.SeekStart); err != nil {
				return nil, newFault(hierarchy, -1, err, "rewind archive stream")
			}
		}
	}
	if opts.ReaderAt == nil && (formatID == formats.Zip || formatID == formats.SevenZip) {
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, newFault(hierarchy, -1, err, "buffer archive stream")
		}
		opts.Size = int64(len(data))
		opts.ReaderAt = bytes.NewReader(data)
	}
	dec, err := formats.Default.Open(formatID, Display(hierarchy), src, opts)
	if err != nil {
		if err == formats.ErrUnsupportedFormat {
			return nil, newFault(hierarchy, -1, err, "unsupported archive format %q", formatID)
		}
		if err == formats.ErrNeedPassphrase {
			return nil, newFault(hierarchy, -1, err, "archive requires a passphrase")
		}
		return nil, newFault(hierarchy, -1, err, "open archive")
	}
	return &ArchiveDecoder{dec: dec, hierarchy: hierarchy}, nil
}

// Advance moves to the next header; ok is false at end of archive.
func (d *ArchiveDecoder) Advance() (*formats.Header, bool, error) {
	hdr, ok, err := d.dec.Next()
	if err != nil {
		return nil, false, newFault(d.hierarchy, -1, err, "read archive header")
	}
	d.cur, d.advanced = hdr, ok
	return hdr, ok, nil
}

// CurrentHeader returns the header from the most recent Advance, or nil.
func (d *ArchiveDecoder) CurrentHeader() *formats.Header { return d.cur }

func (d *ArchiveDecoder) Read(p []byte) (int, error) {
	if !d.advanced {
		return 0, ErrDecoderNotAdvanced
	}
	n, err := d.dec.Read(p)
	if err != nil && err != io.EOF {
		return n, newFault(d.hierarchy, -1, err, "read entry payload")
	}
	return n, err
}

func (d *ArchiveDecoder) Skip() error {
	if !d.advanced {
		return ErrDecoderNotAdvanced
	}
	return d.dec.Skip()
}

func (d *ArchiveDecoder) Close() error { return d.dec.Close() }

// headerMetadata translates a formats.Header into the allow-listed
// EntryMetadata an archive-sourced Entry exposes.
func headerMetadata(h *formats.Header, allow map[string]struct{}) EntryMetadata {
	all := EntryMetadata{
		"pathname": MetaString(decodeEntryName(h.Name, h.RawName)),
		"filetype": MetaUint64(uint64(headerModeType(h))),
		"mode":     MetaUint64(uint64(h.Mode)),
		"size":     MetaUint64(h.Size),
		"mtime":    MetaTime(h.ModTime),
	}
	if h.Uname != "" {
		all["uname"] = MetaString(h.Uname)
	}
	if h.Gname != "" {
		all["gname"] = MetaString(h.Gname)
	}
	if h.Uid != 0 || h.Gid != 0 {
		all["uid"] = MetaUint64(uint64(h.Uid))
		all["gid"] = MetaUint64(uint64(h.Gid))
	}
	if h.DeviceMajor != 0 || h.Minor != 0 {
		all["devmajor"] = MetaUint64(uint64(h.DeviceMajor))
		all["devminor"] = MetaUint64(uint64(h.Minor))
	}
	return filterMetadataKeys(all, allow)
}

func headerModeType(h *formats.Header) uint32 {
	switch {
	case h.IsDir:
		return 1
	case h.IsLink:
		return 2
	default:
		return 0
	}
}

// seekReaderAt adapts a seekable DataStream to io.ReaderAt for decoders
// that need random access (zip, 7z). It relies on the archive stack's
// single-threaded cooperative model (spec.md §5): nothing else touches src
// concurrently.
type seekReaderAt struct{ s DataStream }

func (r *seekReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if _, err := r.s.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(r.s, p)
}
