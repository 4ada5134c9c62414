// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"fmt"
	"reflect"

	"github.com/hasys/mapper-xml/lib/stream"
)

// Write serializes value with serializer and returns the wire text.
func Write(value any, serializer Serializer, options Options) (string, error) {
	ctx := NewSerializationContext(options)
	writer := ctx.NewWriter()
	if err := ctx.Serialize(writer, value, serializer, nil); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", ctx.EncodeError(typeName(value), "", err)
	}
	return writer.Output(), nil
}

// Read deserializes exactly one value from input. Anything but
// whitespace after the value is an error, in lenient mode too.
func Read(input string, deserializer Deserializer, options Options) (any, error) {
	ctx := NewDeserializationContext(options)
	reader := ctx.NewReader(input)
	defer reader.Close()

	value, err := ctx.Deserialize(reader, deserializer, nil)
	if err != nil {
		return nil, err
	}
	token, err := reader.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.EndDocument {
		return nil, ctx.DecodeError(reader, "", "", fmt.Errorf("%w: found %s", ErrTrailingData, token))
	}
	return value, nil
}

// ObjectMapper reads and writes values of one Go type with a fixed
// codec and options. It is safe for concurrent use when its codec is.
type ObjectMapper[T any] struct {
	codec   Codec
	options Options
}

// New returns an ObjectMapper for T.
func New[T any](codec Codec, options Options) *ObjectMapper[T] {
	return &ObjectMapper[T]{codec: codec, options: options}
}

// Options returns a copy of the mapper's options.
func (m *ObjectMapper[T]) Options() Options {
	return m.options
}

// Write serializes value.
func (m *ObjectMapper[T]) Write(value T) (string, error) {
	return Write(value, m.codec, m.options)
}

// Read deserializes input into a T. A null document yields the zero
// value.
func (m *ObjectMapper[T]) Read(input string) (T, error) {
	var zero T
	value, err := Read(input, m.codec, m.options)
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}
	typed, ok := value.(T)
	if !ok {
		return zero, &DecodeError{
			Type: reflect.TypeFor[T]().String(),
			Line: 1, Column: 1,
			Err:  fmt.Errorf("%w: codec produced %T", ErrTypeMismatch, value),
		}
	}
	return typed, nil
}

func typeName(value any) string {
	if value == nil {
		return ""
	}
	return reflect.TypeOf(value).String()
}
