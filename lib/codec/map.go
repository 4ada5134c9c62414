// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// Map is the codec of map[K]V. Entries are written sorted by property
// name so output is deterministic.
type Map[K comparable, V any] struct {
	Key   mapper.KeyCodec
	Value mapper.Codec
}

// MapOf returns the codec of map[K]V.
func MapOf[K comparable, V any](key mapper.KeyCodec, value mapper.Codec) Map[K, V] {
	return Map[K, V]{Key: key, Value: value}
}

type mapEntry struct {
	name  string
	value any
}

// Element returns the value codec.
func (m Map[K, V]) Element() mapper.Codec {
	return m.Value
}

func (m Map[K, V]) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	entries, err := expect[map[K]V](value)
	if err != nil {
		return err
	}
	sorted := make([]mapEntry, 0, len(entries))
	for key, entry := range entries {
		name, err := m.Key.SerializeKey(key, ctx)
		if err != nil {
			return err
		}
		sorted = append(sorted, mapEntry{name: name, value: entry})
	}
	slices.SortFunc(sorted, func(a, b mapEntry) int { return cmp.Compare(a.name, b.name) })

	if err := w.BeginObject(); err != nil {
		return err
	}
	child := params.Child()
	for _, entry := range sorted {
		if err := writeEntry(w, entry.name, entry.value, m.Value, ctx, child); err != nil {
			return err
		}
	}
	return w.EndObject()
}

// writeEntry writes one map entry. A nil value is written as an
// explicit null when WriteNullMapValues is set and skipped otherwise,
// independently of the writer's property null policy.
func writeEntry(w *stream.Writer, name string, value any, codec mapper.Codec, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	if mapper.IsNil(value) {
		if !ctx.Options().WriteNullMapValues {
			return nil
		}
		if err := w.Name(name); err != nil {
			return err
		}
		return w.NullLiteral()
	}
	if err := w.Name(name); err != nil {
		return err
	}
	return codec.Serialize(w, value, ctx, params)
}

func (m Map[K, V]) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, params *mapper.Parameters) (any, error) {
	typeName := reflect.TypeFor[map[K]V]().String()
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.BeginObject {
		return nil, unexpected(r, ctx, typeName, "BEGIN_OBJECT", token)
	}
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	result := make(map[K]V)
	child := params.Child()
	for {
		more, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		name, err := r.NextName()
		if err != nil {
			return nil, err
		}
		decodedKey, err := m.Key.DeserializeKey(name, ctx)
		if err != nil {
			return nil, ctx.DecodeError(r, typeName, name, err)
		}
		key, err := As[K](decodedKey)
		if err != nil {
			return nil, ctx.DecodeError(r, typeName, name, err)
		}
		decoded, err := ctx.Deserialize(r, m.Value, child)
		if err != nil {
			return nil, ctx.DecodeError(r, typeName, name, err)
		}
		value, err := As[V](decoded)
		if err != nil {
			return nil, ctx.DecodeError(r, typeName, name, err)
		}
		result[key] = value
	}
	return result, r.EndObject()
}
