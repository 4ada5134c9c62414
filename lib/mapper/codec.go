// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"reflect"

	"github.com/hasys/mapper-xml/lib/stream"
)

// Serializer writes one non-nil value as exactly one wire value.
type Serializer interface {
	Serialize(w *stream.Writer, value any, ctx *SerializationContext, params *Parameters) error
}

// Deserializer reads exactly one non-null wire value.
type Deserializer interface {
	Deserialize(r *stream.Reader, ctx *DeserializationContext, params *Parameters) (any, error)
}

// Codec is a type's serializer and deserializer.
type Codec interface {
	Serializer
	Deserializer
}

// KeySerializer converts a map key to a property name.
type KeySerializer interface {
	SerializeKey(key any, ctx *SerializationContext) (string, error)
}

// KeyDeserializer converts a property name back to a map key.
type KeyDeserializer interface {
	DeserializeKey(name string, ctx *DeserializationContext) (any, error)
}

// KeyCodec is a map key type's serializer and deserializer.
type KeyCodec interface {
	KeySerializer
	KeyDeserializer
}

// IsNil reports whether value is nil or a nil pointer, map, slice,
// interface, channel or function.
func IsNil(value any) bool {
	if value == nil {
		return true
	}
	switch reflected := reflect.ValueOf(value); reflected.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return reflected.IsNil()
	}
	return false
}
