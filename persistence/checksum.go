package persistence

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// Sections are checksummed with CRC32 (IEEE polynomial): fast, hardware
// accelerated, and good at catching storage corruption. It is not
// cryptographically secure and detects accidents, not tampering.

// Checksum computes the CRC32 checksum of data.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// ChecksumMismatchError is returned when a section fails verification.
type ChecksumMismatchError struct {
	Section  SectionID
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("persistence: section %d checksum mismatch: expected 0x%08x, got 0x%08x",
		e.Section, e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err is a checksum mismatch.
func IsChecksumMismatch(err error) bool {
	var cm *ChecksumMismatchError
	return errors.As(err, &cm)
}
