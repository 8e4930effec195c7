package formats

import "io"

// ar, cab, cpio, iso9660, lha, warc and xar are part of spec.md's minimum
// recognized format set, so they must be nameable in ArchiveOption.Formats
// and reported by Identify, but no library in the pack gives a grounded
// decode path for them (mholt/archiver/v4 does not implement any of the
// seven; there is no other archive-container library anywhere in the
// pack). Opening one of these yields ErrUnsupportedFormat rather than a
// fabricated decoder — see the DOMAIN STACK table in SPEC_FULL.md.
func init() {
	Default.RegisterUnimplemented(Ar, sniffMagic([]byte("!<arch>\n")))
	Default.RegisterUnimplemented(Cab, sniffMagic([]byte("MSCF")))
	Default.RegisterUnimplemented(Cpio, sniffMagic([]byte("070701")))
	Default.RegisterUnimplemented(ISO9660, sniffISO9660)
	Default.RegisterUnimplemented(LHA, sniffLHA)
	Default.RegisterUnimplemented(WARC, sniffMagic([]byte("WARC/")))
	Default.RegisterUnimplemented(Xar, sniffMagic([]byte("xar!")))

	Default.Register(Empty, sniffEmpty, openEmpty)
}

func sniffMagic(magic []byte) Sniffer {
	return func(_ string, peek []byte) bool {
		return len(peek) >= len(magic) && string(peek[:len(magic)]) == string(magic)
	}
}

// ISO9660 volume descriptors start at byte offset 32769 ("CD001" at
// 0x8001), well past a single peek buffer; identification here is by
// filename extension only.
func sniffISO9660(filename string, _ []byte) bool {
	return hasAnySuffix(filename, ".iso")
}

// LHA/LZH headers carry a method id ("-lh0-".."-lh7-") at a fixed offset
// that varies by header level; identification here is by filename
// extension only.
func sniffLHA(filename string, _ []byte) bool {
	return hasAnySuffix(filename, ".lzh", ".lha")
}

func sniffEmpty(_ string, peek []byte) bool { return len(peek) == 0 }

func openEmpty(_ io.Reader, _ OpenOptions) (Decoder, error) {
	return emptyDecoder{}, nil
}

type emptyDecoder struct{}

func (emptyDecoder) Next() (*Header, bool, error) { return nil, false, nil }
func (emptyDecoder) Read([]byte) (int, error)     { return 0, ErrUnsupportedFormat }
func (emptyDecoder) Skip() error                  { return nil }
func (emptyDecoder) Close() error                 { return nil }
