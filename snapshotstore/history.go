package snapshotstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/eidgo"
)

// HistoryOptions configures a History.
type HistoryOptions struct {
	// OpsPerSecond throttles store calls during bulk operations (Prune),
	// keeping object-store request quotas intact. <= 0 disables throttling.
	OpsPerSecond float64

	// Concurrency bounds parallel deletes during Prune. Default 4.
	Concurrency int
}

// History layers versioned snapshots with a LATEST pointer on top of a Store.
// Each Save writes the next version and then moves the pointer, so a reader
// that races a writer sees either the old or the new snapshot, never a
// partial one.
type History struct {
	store       Store
	limiter     *rate.Limiter
	concurrency int
}

// NewHistory creates a History over store.
func NewHistory(store Store, optFns ...func(*HistoryOptions)) *History {
	opts := HistoryOptions{
		Concurrency: 4,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	h := &History{
		store:       store,
		concurrency: opts.Concurrency,
	}
	if opts.OpsPerSecond > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(opts.OpsPerSecond), 1)
	}
	return h
}

// Save snapshots r as the next version and moves the LATEST pointer to it.
// Returns the snapshot name written.
func (h *History) Save(ctx context.Context, r *eidgo.Registry) (string, error) {
	versions, err := h.Versions(ctx)
	if err != nil {
		return "", err
	}
	var next uint64 = 1
	if len(versions) > 0 {
		next = versions[len(versions)-1] + 1
	}

	var buf bytes.Buffer
	if err := r.SaveToWriter(ctx, &buf); err != nil {
		return "", err
	}

	name := SnapshotName(next)
	if err := h.store.Put(ctx, name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := h.store.Put(ctx, LatestPointer, []byte(name)); err != nil {
		return "", fmt.Errorf("move latest pointer: %w", err)
	}
	return name, nil
}

// LoadLatest reconstructs a registry from the newest snapshot. The LATEST
// pointer is consulted first; if it is missing or dangling, the highest
// stored version is used. Returns ErrNotFound when the store holds no
// snapshot at all.
func (h *History) LoadLatest(ctx context.Context, optFns ...eidgo.Option) (*eidgo.Registry, error) {
	name, err := h.latestName(ctx)
	if err != nil {
		return nil, err
	}

	data, err := h.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return eidgo.NewFromReader(ctx, bytes.NewReader(data), optFns...)
}

// Versions returns all stored snapshot versions, ascending.
func (h *History) Versions(ctx context.Context) ([]uint64, error) {
	names, err := h.store.List(ctx, snapshotPrefix)
	if err != nil {
		return nil, err
	}
	versions := make([]uint64, 0, len(names))
	for _, name := range names {
		if v, ok := ParseVersion(name); ok {
			versions = append(versions, v)
		}
	}
	// List is sorted and names are zero-padded, so versions are ascending.
	return versions, nil
}

// Prune deletes all but the newest keep versions. Deletes run in parallel,
// bounded by the configured concurrency and throttled by OpsPerSecond.
func (h *History) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}
	versions, err := h.Versions(ctx)
	if err != nil {
		return err
	}
	if len(versions) <= keep {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for _, v := range versions[:len(versions)-keep] {
		g.Go(func() error {
			if h.limiter != nil {
				if err := h.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			return h.store.Delete(gctx, SnapshotName(v))
		})
	}
	return g.Wait()
}

// latestName resolves the name of the newest snapshot.
func (h *History) latestName(ctx context.Context) (string, error) {
	data, err := h.store.Get(ctx, LatestPointer)
	if err == nil {
		name := string(data)
		if _, ok := ParseVersion(name); ok {
			// Verify the pointer is not dangling before trusting it.
			if _, err := h.store.Get(ctx, name); err == nil {
				return name, nil
			}
		}
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	versions, err := h.Versions(ctx)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", ErrNotFound
	}
	return SnapshotName(versions[len(versions)-1]), nil
}
