package eidgo_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eidgo"
	"github.com/hupe1980/eidgo/codec"
	"github.com/hupe1980/eidgo/persistence"
	"github.com/hupe1980/eidgo/testutil"
)

func TestSnapshotWriterRoundTrip(t *testing.T) {
	for _, comp := range []persistence.Compression{
		persistence.CompressionNone,
		persistence.CompressionZstd,
		persistence.CompressionLZ4,
	} {
		t.Run(comp.String(), func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

			src := eidgo.New(fixedClock(now), eidgo.WithCompression(comp))
			require.NoError(t, src.Initialize(ctx, fixture()))
			src.RecordUsage("pandc.vnext.discovery.search")

			var buf bytes.Buffer
			require.NoError(t, src.SaveToWriter(ctx, &buf))

			dst, err := eidgo.NewFromReader(ctx, &buf, fixedClock(now))
			require.NoError(t, err)

			assert.Equal(t, src.Len(), dst.Len())
			assert.Equal(t, src.Search("pandc.vnext"), dst.Search("pandc.vnext"))
			assert.Equal(t, src.Recent(0), dst.Recent(0))
			assert.Equal(t, src.Hot(10), dst.Hot(10))
		})
	}
}

func TestSnapshotCodecSelectedFromHeader(t *testing.T) {
	ctx := context.Background()

	src := eidgo.New(eidgo.WithCodec(codec.JSON{}))
	require.NoError(t, src.Initialize(ctx, fixture()))

	var buf bytes.Buffer
	require.NoError(t, src.SaveToWriter(ctx, &buf))

	// The loader is configured with a different default codec; the snapshot
	// header names the right one.
	dst, err := eidgo.NewFromReader(ctx, &buf, eidgo.WithCodec(codec.GoJSON{}))
	require.NoError(t, err)
	assert.Equal(t, src.Len(), dst.Len())
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	filename := filepath.Join(t.TempDir(), "registry.snap")

	rng := testutil.NewRNG(11)
	src := eidgo.New()
	require.NoError(t, src.Initialize(ctx, rng.Corpus(300, time.Now())))

	require.NoError(t, src.SaveToFile(ctx, filename))

	dst, err := eidgo.NewFromFile(ctx, filename)
	require.NoError(t, err)
	assert.Equal(t, src.Len(), dst.Len())
}

func TestSnapshotFileMissing(t *testing.T) {
	_, err := eidgo.NewFromFile(context.Background(),
		filepath.Join(t.TempDir(), "no-such.snap"))
	assert.Error(t, err)
}

func TestSnapshotCorruptPayload(t *testing.T) {
	ctx := context.Background()
	src := eidgo.New(eidgo.WithCompression(persistence.CompressionNone))
	require.NoError(t, src.Initialize(ctx, fixture()))

	var buf bytes.Buffer
	require.NoError(t, src.SaveToWriter(ctx, &buf))

	data := buf.Bytes()
	data[len(data)/2] ^= 0xFF

	_, err := eidgo.NewFromReader(ctx, bytes.NewReader(data))
	assert.Error(t, err)
}

func TestSnapshotTruncated(t *testing.T) {
	ctx := context.Background()
	src := eidgo.New()
	require.NoError(t, src.Initialize(ctx, fixture()))

	var buf bytes.Buffer
	require.NoError(t, src.SaveToWriter(ctx, &buf))

	_, err := eidgo.NewFromReader(ctx, bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	assert.ErrorIs(t, err, persistence.ErrTruncated)
}

func TestSnapshotUnknownCodec(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, persistence.WriteContainer(&buf, "bogus", persistence.CompressionNone,
		[]persistence.Section{{ID: persistence.SectionEntries, Data: []byte(`[]`)}}))

	_, err := eidgo.NewFromReader(context.Background(), &buf)
	assert.ErrorIs(t, err, persistence.ErrUnknownCodec)
}

func TestSnapshotMissingEntriesSection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, persistence.WriteContainer(&buf, "json", persistence.CompressionNone,
		[]persistence.Section{{ID: persistence.SectionRecent, Data: []byte(`[]`)}}))

	_, err := eidgo.NewFromReader(context.Background(), &buf)

	var sfe *eidgo.StateFormatError
	require.ErrorAs(t, err, &sfe)
	assert.Equal(t, "eids", sfe.Field)
}

func TestSnapshotUndecodableEntriesSection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, persistence.WriteContainer(&buf, "json", persistence.CompressionNone,
		[]persistence.Section{{ID: persistence.SectionEntries, Data: []byte(`{"not":"a list"}`)}}))

	_, err := eidgo.NewFromReader(context.Background(), &buf)

	var sfe *eidgo.StateFormatError
	require.ErrorAs(t, err, &sfe)
	assert.Equal(t, "eids", sfe.Field)
	assert.Error(t, sfe.Unwrap())
}
