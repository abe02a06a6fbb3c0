package persistence

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSections() []Section {
	return []Section{
		{ID: SectionEntries, Data: bytes.Repeat([]byte(`{"id":"registry.discovery.index"}`), 200)},
		{ID: SectionRecent, Data: []byte(`["a.b.c","d.e.f"]`)},
		{ID: SectionHot, Data: []byte(`[]`)},
	}
}

func TestContainerRoundTrip(t *testing.T) {
	for _, comp := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(comp.String(), func(t *testing.T) {
			var buf bytes.Buffer
			sections := testSections()

			require.NoError(t, WriteContainer(&buf, "go-json", comp, sections))

			c, err := ReadContainer(&buf)
			require.NoError(t, err)

			assert.Equal(t, "go-json", c.CodecName)
			assert.Equal(t, comp, c.Compression)
			require.Len(t, c.Sections, len(sections))
			for _, s := range sections {
				assert.Equal(t, s.Data, c.Sections[s.ID])
			}
		})
	}
}

func TestContainerEmptySections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, "json", CompressionZstd, nil))

	c, err := ReadContainer(&buf)
	require.NoError(t, err)
	assert.Empty(t, c.Sections)
}

func TestContainerInvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, "json", CompressionNone, testSections()))

	data := buf.Bytes()
	data[0] ^= 0xFF

	_, err := ReadContainer(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestContainerUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, "json", CompressionNone, testSections()))

	data := buf.Bytes()
	data[4] = 0xFF

	_, err := ReadContainer(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestContainerChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, "json", CompressionNone, testSections()))

	// Flip a byte in the last section's payload. The final 4 bytes are its
	// checksum; the byte just before them is payload.
	data := buf.Bytes()
	data[len(data)-5] ^= 0xFF

	_, err := ReadContainer(bytes.NewReader(data))
	require.Error(t, err)
	assert.True(t, IsChecksumMismatch(err))

	var cm *ChecksumMismatchError
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, SectionHot, cm.Section)
}

func TestContainerTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, "json", CompressionLZ4, testSections()))
	data := buf.Bytes()

	for _, cut := range []int{0, 3, 8, 12, len(data) / 2, len(data) - 1} {
		_, err := ReadContainer(bytes.NewReader(data[:cut]))
		assert.ErrorIs(t, err, ErrTruncated, "cut at %d", cut)
	}
}

func TestContainerInvalidCompression(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteContainer(&buf, "json", CompressionNone, nil))

	// Compression byte sits right after the codec name.
	data := buf.Bytes()
	data[9+len("json")] = 0x7F

	_, err := ReadContainer(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidCompression)
}

func TestContainerRejectsInvalidCodecName(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteContainer(&buf, "", CompressionNone, nil))

	long := string(bytes.Repeat([]byte("x"), maxCodecNameLen+1))
	assert.Error(t, WriteContainer(&buf, long, CompressionNone, nil))
}

func TestCompressionString(t *testing.T) {
	assert.Equal(t, "none", CompressionNone.String())
	assert.Equal(t, "zstd", CompressionZstd.String())
	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "unknown", Compression(99).String())
}
