// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/base64"
	"fmt"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

type bytesCodec struct{}

// Bytes is the codec of []byte. Byte slices are written as standard
// base64 text, and as null when empty and WriteEmptyArrays is off.
//
// On read an array of numbers is always accepted. A bare string is
// decoded as base64, and a bare number as a single byte, only when
// AcceptSingleValueAsArray is set.
var Bytes mapper.Codec = bytesCodec{}

func (bytesCodec) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, _ *mapper.Parameters) error {
	data, err := expect[[]byte](value)
	if err != nil {
		return err
	}
	if len(data) == 0 && !ctx.Options().WriteEmptyArrays {
		return w.Null()
	}
	return w.UnescapedString(base64.StdEncoding.EncodeToString(data))
}

func (bytesCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token == stream.BeginArray {
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		data := []byte{}
		for {
			more, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			value, err := readByte(r, ctx)
			if err != nil {
				return nil, err
			}
			data = append(data, value)
		}
		return data, r.EndArray()
	}

	if !ctx.Options().AcceptSingleValueAsArray {
		return nil, unexpected(r, ctx, "[]byte", "BEGIN_ARRAY", token)
	}
	if token == stream.String {
		text, err := r.NextString()
		if err != nil {
			return nil, err
		}
		data, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, ctx.DecodeError(r, "[]byte", "", fmt.Errorf("%w: invalid base64: %w", mapper.ErrTypeMismatch, err))
		}
		return data, nil
	}
	value, err := readByte(r, ctx)
	if err != nil {
		return nil, err
	}
	return []byte{value}, nil
}

// readByte reads one element of a byte array. Signed bytes (-128..-1)
// are accepted as their two's complement.
func readByte(r *stream.Reader, ctx *mapper.DeserializationContext) (byte, error) {
	value, err := r.NextInt32()
	if err != nil {
		return 0, ctx.DecodeError(r, "byte", "", err)
	}
	if value < -128 || value > 255 {
		return 0, ctx.DecodeError(r, "byte", "", rangeError(r, fmt.Sprint(value), "byte"))
	}
	return byte(value), nil
}
