package eidgo

import (
	"fmt"
	"slices"
)

// ExportState captures every currently held record (in insertion order), the
// recent list (most-recent-first), and a freshly computed hot list. The
// prefix tree is not part of the state; it is rebuilt from Entries on import.
// The export observes a single consistent point in time.
func (r *Registry) ExportState() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Metadata, 0, len(r.byLocal))
	for _, id := range r.byLocal {
		entries = append(entries, r.entries[id].meta)
	}

	hot := r.computeHotLocked(DefaultHotLimit)
	r.hotCache = hot

	return State{
		Entries: entries,
		Recent:  slices.Clone(r.recent),
		Hot:     slices.Clone(hot),
	}
}

// ImportState replaces all registry state with the given snapshot, rebuilding
// the prefix tree and facet index from the record set. Malformed state is
// rejected with a StateFormatError and leaves the registry unchanged;
// a round trip through ExportState reproduces identical Search, Hot, and
// Recent results.
func (r *Registry) ImportState(state State) error {
	if err := validateState(state); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetLocked()
	for _, m := range state.Entries {
		r.upsertLocked(m)
	}

	recent := slices.Clone(state.Recent)
	if len(recent) > r.opts.maxRecent {
		recent = recent[:r.opts.maxRecent]
	}
	r.recent = recent
	r.hotCache = slices.Clone(state.Hot)
	return nil
}

func validateState(state State) error {
	for i, m := range state.Entries {
		if m.ID == "" {
			return &StateFormatError{
				Field:  "eids",
				Reason: fmt.Sprintf("entry %d has an empty id", i),
			}
		}
	}
	for i, id := range state.Recent {
		if id == "" {
			return &StateFormatError{
				Field:  "recent",
				Reason: fmt.Sprintf("entry %d is empty", i),
			}
		}
	}
	for i, h := range state.Hot {
		if h.ID == "" {
			return &StateFormatError{
				Field:  "hot",
				Reason: fmt.Sprintf("entry %d has an empty id", i),
			}
		}
		switch h.Trend {
		case TrendRising, TrendStable, TrendFalling, "":
		default:
			return &StateFormatError{
				Field:  "hot",
				Reason: fmt.Sprintf("entry %d has unknown trend %q", i, h.Trend),
			}
		}
	}
	return nil
}
