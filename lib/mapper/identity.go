// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"reflect"

	"github.com/google/uuid"
)

// IdentityInfo describes how a bean type is identified so that a bean
// reachable more than once in a graph is written in full only the
// first time and as its bare id afterwards.
type IdentityInfo struct {
	// PropertyName is the wire name the id is written under.
	PropertyName string
	// AlwaysAsID writes every occurrence, including the first, as the
	// bare id.
	AlwaysAsID bool
	// Scope partitions the id space. Ids in different scopes never
	// collide. nil is the global scope.
	Scope reflect.Type
	// Generator produces ids for beans that carry none. When nil the
	// id is the value of the bean's own property named PropertyName.
	Generator IDGenerator
	// Codec reads and writes id values.
	Codec Codec
}

// IsPropertyBased reports whether the id is a declared property of the
// bean rather than a generated value.
func (i *IdentityInfo) IsPropertyBased() bool {
	return i.Generator == nil
}

// Key returns the identity table key for id.
func (i *IdentityInfo) Key(id any) IDKey {
	var generator reflect.Type
	if i.Generator != nil {
		generator = reflect.TypeOf(i.Generator)
	}
	return IDKey{Type: generator, Scope: i.Scope, Key: id}
}

// WithCodec returns a copy of i that reads and writes ids with codec.
func (i *IdentityInfo) WithCodec(codec Codec) *IdentityInfo {
	copied := *i
	copied.Codec = codec
	return &copied
}

// IDKey identifies an instance in a [DeserializationContext]. Type is
// the generator kind (nil for property-based ids) and Scope the
// identity scope, so equal raw ids from different generators or scopes
// do not collide.
type IDKey struct {
	Type  reflect.Type
	Scope reflect.Type
	Key   any
}

// ObjectID is the id assigned to a bean during serialization together
// with the codec that writes it.
type ObjectID struct {
	Value any
	Codec Codec
}

// IDGenerator produces ids for beans without an id property. The value
// stored in an [IdentityInfo] is a prototype; each call works on its
// own fork so sequences restart per call.
type IDGenerator interface {
	// Fork returns a generator with fresh state.
	Fork() IDGenerator
	// Next returns the next id.
	Next() any
}

// IntSequenceGenerator numbers beans 1, 2, 3... in the order they are
// first written.
type IntSequenceGenerator struct {
	next int
}

func (g *IntSequenceGenerator) Fork() IDGenerator {
	return &IntSequenceGenerator{next: 1}
}

func (g *IntSequenceGenerator) Next() any {
	if g.next == 0 {
		g.next = 1
	}
	id := g.next
	g.next++
	return id
}

// UUIDGenerator assigns random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) Fork() IDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) Next() any {
	return uuid.New()
}
