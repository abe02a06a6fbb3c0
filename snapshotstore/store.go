package snapshotstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a snapshot does not exist.
//
// Implementations should return an error that satisfies
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("snapshot not found")

// Store is an abstraction for durable registry snapshot storage. Snapshots
// are small sealed artifacts (a few megabytes for tens of thousands of
// identifiers), so the contract is whole-object: no partial reads or
// streaming handles.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Put writes a snapshot atomically, overwriting any previous object
	// with the same name.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a whole snapshot.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns all snapshot names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes a snapshot. Deleting a missing snapshot is not an
	// error.
	Delete(ctx context.Context, name string) error
}

const (
	snapshotPrefix = "registry-"
	snapshotSuffix = ".snap"
)

// LatestPointer names the small object holding the name of the most recently
// committed snapshot.
const LatestPointer = "LATEST"

// SnapshotName returns the canonical object name for a snapshot version.
// Versions are zero-padded so lexicographic and numeric order agree.
func SnapshotName(version uint64) string {
	return fmt.Sprintf("%s%016d%s", snapshotPrefix, version, snapshotSuffix)
}

// ParseVersion extracts the version from a canonical snapshot name.
func ParseVersion(name string) (uint64, bool) {
	if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
		return 0, false
	}
	digits := name[len(snapshotPrefix) : len(name)-len(snapshotSuffix)]
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
