// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"iter"
	"slices"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// OrderedMap is a string-keyed map that remembers insertion order. It
// backs any-getter and any-setter properties, whose entries must be
// written back in the order they were read.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set stores value under key. A key already present keeps its
// position.
func (m *OrderedMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap) Get(key string) (any, bool) {
	value, ok := m.values[key]
	return value, ok
}

// Delete removes key.
func (m *OrderedMap) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(candidate string) bool { return candidate == key })
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return slices.Clone(m.keys)
}

// All iterates over the entries in insertion order.
func (m *OrderedMap) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}

// OrderedMapCodec is the codec of *OrderedMap. Value is the codec of
// the entries; nil means [Dynamic].
type OrderedMapCodec struct {
	Value mapper.Codec
}

func (c OrderedMapCodec) valueCodec() mapper.Codec {
	if c.Value == nil {
		return Dynamic
	}
	return c.Value
}

func (c OrderedMapCodec) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	entries, err := expect[*OrderedMap](value)
	if err != nil {
		return err
	}
	if err := w.BeginObject(); err != nil {
		return err
	}
	if err := c.SerializeEntries(w, entries, ctx, params); err != nil {
		return err
	}
	return w.EndObject()
}

// SerializeEntries writes the entries of m as properties of the object
// currently open on w, without an enclosing object.
func (c OrderedMapCodec) SerializeEntries(w *stream.Writer, m *OrderedMap, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	codec := c.valueCodec()
	for key, entry := range m.All() {
		if err := writeEntry(w, key, entry, codec, ctx, params.Child()); err != nil {
			return err
		}
	}
	return nil
}

func (c OrderedMapCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, params *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.BeginObject {
		return nil, unexpected(r, ctx, "*codec.OrderedMap", "BEGIN_OBJECT", token)
	}
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	result := NewOrderedMap()
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
		value, err := ctx.Deserialize(r, c.valueCodec(), params.Child())
		if err != nil {
			return nil, ctx.DecodeError(r, "*codec.OrderedMap", name, err)
		}
		result.Set(name, value)
	}
	return result, r.EndObject()
}
