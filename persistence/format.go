package persistence

import "errors"

const (
	// MagicNumber identifies registry snapshot files (ASCII: "EID1").
	MagicNumber = 0x45494431
	// Version is the current container format version (v1.0.0).
	Version = 0x00010000

	// maxCodecNameLen bounds the codec name field so a corrupt header
	// cannot trigger a huge allocation.
	maxCodecNameLen = 64

	// maxSectionLen bounds a single decoded section (256 MiB). Real
	// snapshots of tens of thousands of entries are a few megabytes.
	maxSectionLen = 256 << 20
)

// SectionID tags a section within the container.
type SectionID uint8

const (
	// SectionEntries holds the full identifier metadata table.
	SectionEntries SectionID = 1
	// SectionRecent holds the recently-used id list, most-recent-first.
	SectionRecent SectionID = 2
	// SectionHot holds the cached hot-entry list for fast cold start.
	SectionHot SectionID = 3
)

// Compression selects the per-section compression algorithm.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionZstd Compression = 1
	CompressionLZ4  Compression = 2
)

// String returns the algorithm name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidMagic       = errors.New("persistence: invalid magic number")
	ErrInvalidVersion     = errors.New("persistence: unsupported format version")
	ErrInvalidCompression = errors.New("persistence: unknown compression algorithm")
	ErrUnknownCodec       = errors.New("persistence: unknown codec name")
	ErrSectionTooLarge    = errors.New("persistence: section exceeds size limit")
	ErrTruncated          = errors.New("persistence: truncated snapshot")
)
