// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names a frame format wrapped around encoded CBOR.
type Compression string

const (
	// CompressionNone writes plain CBOR.
	CompressionNone Compression = "none"

	// CompressionZstd writes a zstd frame at the default level. Best
	// ratio for text-heavy documents.
	CompressionZstd Compression = "zstd"

	// CompressionLZ4 writes an LZ4 frame. Fastest to decode.
	CompressionLZ4 Compression = "lz4"
)

// Frame magic numbers, as they appear on the wire (little-endian).
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ParseCompression parses a compression name.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case CompressionNone, CompressionZstd, CompressionLZ4:
		return Compression(name), nil
	default:
		return "", fmt.Errorf("unknown compression %q (want none, zstd, or lz4)", name)
	}
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use; reusing
// them avoids repeated initialization.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("cbor: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("cbor: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress wraps data in the frame format of compression.
func Compress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone, "":
		return data, nil

	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case CompressionLZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
}

// Decompress detects a zstd or LZ4 frame by its magic number and
// unwraps it. Anything else is returned unchanged as plain CBOR.
func Decompress(data []byte) ([]byte, Compression, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		decoded, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, CompressionZstd, fmt.Errorf("zstd decompress: %w", err)
		}
		return decoded, CompressionZstd, nil

	case bytes.HasPrefix(data, lz4Magic):
		decoded, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, CompressionLZ4, fmt.Errorf("lz4 decompress: %w", err)
		}
		return decoded, CompressionLZ4, nil

	default:
		return data, CompressionNone, nil
	}
}
