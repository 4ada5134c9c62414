// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"reflect"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// Enum is the codec of an enumerated type, written by name. It is also
// the key codec of that type.
type Enum[T comparable] struct {
	names  map[T]string
	values map[string]T
}

// NewEnum returns the codec of the enumeration whose constants are the
// keys of names.
func NewEnum[T comparable](names map[T]string) *Enum[T] {
	enum := &Enum[T]{
		names:  make(map[T]string, len(names)),
		values: make(map[string]T, len(names)),
	}
	for value, name := range names {
		enum.names[value] = name
		enum.values[name] = value
	}
	return enum
}

// Name returns the wire name of value.
func (e *Enum[T]) Name(value T) (string, bool) {
	name, ok := e.names[value]
	return name, ok
}

// Value returns the constant named name.
func (e *Enum[T]) Value(name string) (T, bool) {
	value, ok := e.values[name]
	return value, ok
}

func (e *Enum[T]) name(value any) (string, error) {
	constant, err := expect[T](value)
	if err != nil {
		return "", err
	}
	name, ok := e.names[constant]
	if !ok {
		return "", fmt.Errorf("%w: %v is not a %s constant", mapper.ErrTypeMismatch, constant, reflect.TypeFor[T]())
	}
	return name, nil
}

func (e *Enum[T]) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	name, err := e.name(value)
	if err != nil {
		return err
	}
	return w.String(name)
}

func (e *Enum[T]) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	typeName := reflect.TypeFor[T]().String()
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.String {
		return nil, unexpected(r, ctx, typeName, "an enum name", token)
	}
	name, err := r.NextString()
	if err != nil {
		return nil, err
	}
	value, ok := e.values[name]
	if !ok {
		if ctx.Options().ReadUnknownEnumsAsNull {
			return nil, nil
		}
		return nil, ctx.DecodeError(r, typeName, "", fmt.Errorf("%w: unknown constant %q", mapper.ErrTypeMismatch, name))
	}
	return value, nil
}

func (e *Enum[T]) SerializeKey(key any, _ *mapper.SerializationContext) (string, error) {
	return e.name(key)
}

func (e *Enum[T]) DeserializeKey(name string, ctx *mapper.DeserializationContext) (any, error) {
	value, ok := e.values[name]
	if !ok {
		return nil, keyMismatch(name, reflect.TypeFor[T]().String(), nil)
	}
	return value, nil
}
