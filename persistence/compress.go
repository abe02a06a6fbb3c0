package persistence

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compress encodes data with the selected algorithm. CompressionNone returns
// the input unchanged.
func compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil

	case CompressionZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("persistence: create zstd encoder: %w", err)
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(data, nil), nil

	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("persistence: lz4 compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("persistence: lz4 flush: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, ErrInvalidCompression
	}
}

// decompress reverses compress. uncompressedLen is the expected output size
// from the section header and doubles as an allocation bound.
func decompress(c Compression, data []byte, uncompressedLen uint64) ([]byte, error) {
	if uncompressedLen > maxSectionLen {
		return nil, ErrSectionTooLarge
	}

	switch c {
	case CompressionNone:
		return data, nil

	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("persistence: create zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, make([]byte, 0, uncompressedLen))
		if err != nil {
			return nil, fmt.Errorf("persistence: zstd decompress: %w", err)
		}
		return out, nil

	case CompressionLZ4:
		r := lz4.NewReader(bytes.NewReader(data))
		out := make([]byte, 0, uncompressedLen)
		buf := bytes.NewBuffer(out)
		if _, err := io.Copy(buf, io.LimitReader(r, maxSectionLen+1)); err != nil {
			return nil, fmt.Errorf("persistence: lz4 decompress: %w", err)
		}
		if buf.Len() > maxSectionLen {
			return nil, ErrSectionTooLarge
		}
		return buf.Bytes(), nil

	default:
		return nil, ErrInvalidCompression
	}
}
