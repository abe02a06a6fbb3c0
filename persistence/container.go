package persistence

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Section is one payload in a snapshot container.
type Section struct {
	ID   SectionID
	Data []byte
}

// byteOrder is the wire byte order for all fixed-width header fields.
var byteOrder = binary.BigEndian

// WriteContainer writes a complete snapshot container to w.
//
// Layout:
//
//	u32 magic | u32 version | u8 codecNameLen | codecName |
//	u8 compression | u8 sectionCount |
//	per section: u8 id | u64 rawLen | u64 storedLen | payload | u32 crc32
//
// The CRC covers the stored (compressed) payload bytes.
func WriteContainer(w io.Writer, codecName string, comp Compression, sections []Section) error {
	if len(codecName) == 0 || len(codecName) > maxCodecNameLen {
		return fmt.Errorf("persistence: invalid codec name %q", codecName)
	}
	if len(sections) > 255 {
		return fmt.Errorf("persistence: too many sections: %d", len(sections))
	}

	var head [9]byte
	byteOrder.PutUint32(head[0:4], MagicNumber)
	byteOrder.PutUint32(head[4:8], Version)
	head[8] = byte(len(codecName))
	if _, err := w.Write(head[:]); err != nil {
		return fmt.Errorf("persistence: write header: %w", err)
	}
	if _, err := io.WriteString(w, codecName); err != nil {
		return fmt.Errorf("persistence: write codec name: %w", err)
	}
	if _, err := w.Write([]byte{byte(comp), byte(len(sections))}); err != nil {
		return fmt.Errorf("persistence: write header: %w", err)
	}

	for _, s := range sections {
		stored, err := compress(comp, s.Data)
		if err != nil {
			return err
		}

		var sh [17]byte
		sh[0] = byte(s.ID)
		byteOrder.PutUint64(sh[1:9], uint64(len(s.Data)))
		byteOrder.PutUint64(sh[9:17], uint64(len(stored)))
		if _, err := w.Write(sh[:]); err != nil {
			return fmt.Errorf("persistence: write section header: %w", err)
		}
		if _, err := w.Write(stored); err != nil {
			return fmt.Errorf("persistence: write section payload: %w", err)
		}

		var crc [4]byte
		byteOrder.PutUint32(crc[:], Checksum(stored))
		if _, err := w.Write(crc[:]); err != nil {
			return fmt.Errorf("persistence: write section checksum: %w", err)
		}
	}
	return nil
}

// Container is a parsed snapshot container.
type Container struct {
	CodecName   string
	Compression Compression
	Sections    map[SectionID][]byte
}

// ReadContainer parses a snapshot container from r, verifying checksums and
// decompressing every section. All errors are typed; corrupt input never
// panics.
func ReadContainer(r io.Reader) (*Container, error) {
	var head [9]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, truncated(err)
	}
	if byteOrder.Uint32(head[0:4]) != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if byteOrder.Uint32(head[4:8]) != Version {
		return nil, ErrInvalidVersion
	}

	nameLen := int(head[8])
	if nameLen == 0 || nameLen > maxCodecNameLen {
		return nil, fmt.Errorf("%w: codec name length %d", ErrTruncated, nameLen)
	}
	nameBuf := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return nil, truncated(err)
	}

	var tail [2]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return nil, truncated(err)
	}
	comp := Compression(tail[0])
	if comp > CompressionLZ4 {
		return nil, ErrInvalidCompression
	}
	sectionCount := int(tail[1])

	c := &Container{
		CodecName:   string(nameBuf),
		Compression: comp,
		Sections:    make(map[SectionID][]byte, sectionCount),
	}

	for range sectionCount {
		var sh [17]byte
		if _, err := io.ReadFull(r, sh[:]); err != nil {
			return nil, truncated(err)
		}
		id := SectionID(sh[0])
		rawLen := byteOrder.Uint64(sh[1:9])
		storedLen := byteOrder.Uint64(sh[9:17])
		if storedLen > maxSectionLen || rawLen > maxSectionLen {
			return nil, ErrSectionTooLarge
		}

		stored := make([]byte, storedLen)
		if _, err := io.ReadFull(r, stored); err != nil {
			return nil, truncated(err)
		}

		var crc [4]byte
		if _, err := io.ReadFull(r, crc[:]); err != nil {
			return nil, truncated(err)
		}
		expected := byteOrder.Uint32(crc[:])
		if actual := Checksum(stored); actual != expected {
			return nil, &ChecksumMismatchError{Section: id, Expected: expected, Actual: actual}
		}

		data, err := decompress(comp, stored, rawLen)
		if err != nil {
			return nil, err
		}
		if uint64(len(data)) != rawLen {
			return nil, fmt.Errorf("%w: section %d decoded to %d bytes, header says %d",
				ErrTruncated, id, len(data), rawLen)
		}
		c.Sections[id] = data
	}

	return c, nil
}

func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return fmt.Errorf("persistence: read snapshot: %w", err)
}
