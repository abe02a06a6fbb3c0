package eidgo

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/eidgo/codec"
	"github.com/hupe1980/eidgo/persistence"
)

// SaveToWriter writes a snapshot of the registry to w. The snapshot is a
// self-describing binary container: the configured codec encodes each state
// section and the configured compression is applied per section.
func (r *Registry) SaveToWriter(ctx context.Context, w io.Writer) error {
	start := r.opts.clock()
	err := r.writeSnapshot(w)

	r.opts.metricsCollector.RecordSnapshot("save", r.opts.clock().Sub(start), err)
	r.opts.logger.LogSnapshot(ctx, "save", "writer", err)
	return err
}

// SaveToFile writes a snapshot to filename. The write goes to a temporary
// file in the same directory first and is renamed into place, so a crash
// mid-save never leaves a truncated snapshot behind.
func (r *Registry) SaveToFile(ctx context.Context, filename string) error {
	start := r.opts.clock()
	err := r.saveToFile(filename)

	r.opts.metricsCollector.RecordSnapshot("save", r.opts.clock().Sub(start), err)
	r.opts.logger.LogSnapshot(ctx, "save", filename, err)
	return err
}

func (r *Registry) saveToFile(filename string) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := r.writeSnapshot(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename snapshot into place: %w", err)
	}
	return nil
}

func (r *Registry) writeSnapshot(w io.Writer) error {
	state := r.ExportState()

	entries, err := r.opts.codec.Marshal(state.Entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	recent, err := r.opts.codec.Marshal(state.Recent)
	if err != nil {
		return fmt.Errorf("encode recent list: %w", err)
	}
	hot, err := r.opts.codec.Marshal(state.Hot)
	if err != nil {
		return fmt.Errorf("encode hot list: %w", err)
	}

	sections := []persistence.Section{
		{ID: persistence.SectionEntries, Data: entries},
		{ID: persistence.SectionRecent, Data: recent},
		{ID: persistence.SectionHot, Data: hot},
	}
	return persistence.WriteContainer(w, r.opts.codec.Name(), r.opts.compression, sections)
}

// NewFromReader constructs a registry from a snapshot previously written by
// SaveToWriter. The codec is selected by the name stored in the snapshot
// header, regardless of the configured default. Corrupt containers surface
// the persistence package's typed errors; decodable containers with malformed
// state surface a StateFormatError.
func NewFromReader(ctx context.Context, rd io.Reader, optFns ...Option) (*Registry, error) {
	r := New(optFns...)
	start := r.opts.clock()

	err := r.readSnapshot(rd)

	r.opts.metricsCollector.RecordSnapshot("load", r.opts.clock().Sub(start), err)
	r.opts.logger.LogSnapshot(ctx, "load", "reader", err)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewFromFile constructs a registry from a snapshot file.
func NewFromFile(ctx context.Context, filename string, optFns ...Option) (*Registry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return NewFromReader(ctx, f, optFns...)
}

func (r *Registry) readSnapshot(rd io.Reader) error {
	c, err := persistence.ReadContainer(rd)
	if err != nil {
		return err
	}

	cd, ok := codec.ByName(c.CodecName)
	if !ok {
		return fmt.Errorf("%w: %q", persistence.ErrUnknownCodec, c.CodecName)
	}

	raw, ok := c.Sections[persistence.SectionEntries]
	if !ok {
		return &StateFormatError{Field: "eids", Reason: "snapshot has no entries section"}
	}

	var state State
	if err := cd.Unmarshal(raw, &state.Entries); err != nil {
		return &StateFormatError{Field: "eids", Reason: "undecodable entries section", cause: err}
	}
	if raw, ok := c.Sections[persistence.SectionRecent]; ok {
		if err := cd.Unmarshal(raw, &state.Recent); err != nil {
			return &StateFormatError{Field: "recent", Reason: "undecodable recent section", cause: err}
		}
	}
	if raw, ok := c.Sections[persistence.SectionHot]; ok {
		if err := cd.Unmarshal(raw, &state.Hot); err != nil {
			return &StateFormatError{Field: "hot", Reason: "undecodable hot section", cause: err}
		}
	}

	return r.ImportState(state)
}
