package archivestack

import (
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MetadataValueKind discriminates EntryMetadataValue's variants.
type MetadataValueKind int

const (
	MetadataNone MetadataValueKind = iota
	MetadataBool
	MetadataInt64
	MetadataUint64
	MetadataString
	MetadataBytes
	MetadataTime
	MetadataDevice
	MetadataFileFlags
	MetadataXattrs
	MetadataSparse
	MetadataDigest
)

// XattrEntry is one extended-attribute name/value pair.
type XattrEntry struct {
	Name  string
	Value []byte
}

// SparseRegion is one materialized region of a sparse file.
type SparseRegion struct {
	Offset, Length int64
}

// Digest is a named checksum/hash value.
type Digest struct {
	Algorithm string
	Bytes     []byte
}

// EntryMetadataValue is a tagged union of every metadata value shape
// spec.md's data model names, represented per Go idiom as a struct with a
// Kind discriminant and one populated field per variant.
type EntryMetadataValue struct {
	Kind MetadataValueKind

	Bool   bool
	Int64  int64
	Uint64 uint64
	String string
	Bytes  []byte
	Time   time.Time

	DeviceMajor, DeviceMinor uint32
	FlagsSet, FlagsClear     uint64
	Xattrs                   []XattrEntry
	Sparse                   []SparseRegion
	Digests                  []Digest
}

func MetaBool(v bool) EntryMetadataValue     { return EntryMetadataValue{Kind: MetadataBool, Bool: v} }
func MetaInt64(v int64) EntryMetadataValue   { return EntryMetadataValue{Kind: MetadataInt64, Int64: v} }
func MetaUint64(v uint64) EntryMetadataValue { return EntryMetadataValue{Kind: MetadataUint64, Uint64: v} }
func MetaString(v string) EntryMetadataValue { return EntryMetadataValue{Kind: MetadataString, String: v} }
func MetaBytes(v []byte) EntryMetadataValue  { return EntryMetadataValue{Kind: MetadataBytes, Bytes: v} }
func MetaTime(v time.Time) EntryMetadataValue { return EntryMetadataValue{Kind: MetadataTime, Time: v} }
func MetaDevice(major, minor uint32) EntryMetadataValue {
	return EntryMetadataValue{Kind: MetadataDevice, DeviceMajor: major, DeviceMinor: minor}
}
func MetaFileFlags(set, clear uint64) EntryMetadataValue {
	return EntryMetadataValue{Kind: MetadataFileFlags, FlagsSet: set, FlagsClear: clear}
}
func MetaXattrs(v []XattrEntry) EntryMetadataValue {
	return EntryMetadataValue{Kind: MetadataXattrs, Xattrs: v}
}
func MetaSparse(v []SparseRegion) EntryMetadataValue {
	return EntryMetadataValue{Kind: MetadataSparse, Sparse: v}
}
func MetaDigests(v []Digest) EntryMetadataValue {
	return EntryMetadataValue{Kind: MetadataDigest, Digests: v}
}

// EntryMetadata is the allow-listed key/value bag attached to an Entry.
type EntryMetadata map[string]EntryMetadataValue

// filterMetadataKeys returns the subset of all whose keys are present in
// allow. A nil or empty allow map means "no keys requested", not
// "everything" — callers that want everything pass every recognized key.
func filterMetadataKeys(all EntryMetadata, allow map[string]struct{}) EntryMetadata {
	if len(allow) == 0 {
		return EntryMetadata{}
	}
	out := make(EntryMetadata, len(allow))
	for k := range allow {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out
}

// decodeEntryName prefers the UTF-8 name a format decoder reports, falling
// back to decoding rawName as Latin-1 (ISO-8859-1) when the UTF-8 view is
// empty or not valid UTF-8 — the common case for RAR/7z/zip archives
// authored on legacy Windows codepages. spec.md §4.5: "Metadata extraction
// prefers UTF-8 name variants; falls back to the non-UTF-8 variant when the
// UTF-8 view is null or empty."
func decodeEntryName(utf8Name string, rawName []byte) string {
	if utf8Name != "" && utf8.ValidString(utf8Name) {
		return utf8Name
	}
	if len(rawName) == 0 {
		return utf8Name
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().String(string(rawName))
	if err != nil {
		return utf8Name
	}
	return decoded
}
