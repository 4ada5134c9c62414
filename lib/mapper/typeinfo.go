// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import "reflect"

// Inclusion selects how the type marker of a polymorphic bean is
// placed on the wire.
type Inclusion uint8

const (
	// Property writes the marker as the first property of the object:
	// {"@type":"Dog","name":"Rex"}.
	Property Inclusion = iota
	// WrapperObject wraps the object in a single-property object keyed
	// by the marker: {"Dog":{"name":"Rex"}}.
	WrapperObject
	// WrapperArray wraps the object in a two-element array:
	// ["Dog",{"name":"Rex"}].
	WrapperArray
)

func (i Inclusion) String() string {
	switch i {
	case Property:
		return "PROPERTY"
	case WrapperObject:
		return "WRAPPER_OBJECT"
	case WrapperArray:
		return "WRAPPER_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// TypeInfo maps the concrete types of a polymorphic hierarchy to wire
// markers. Register all types before the TypeInfo is used; after that
// it is read-only and safe to share.
type TypeInfo struct {
	Inclusion    Inclusion
	PropertyName string

	markers map[reflect.Type]string
	types   map[string]reflect.Type
}

// NewTypeInfo returns an empty TypeInfo. propertyName is only used
// with [Property] inclusion.
func NewTypeInfo(inclusion Inclusion, propertyName string) *TypeInfo {
	return &TypeInfo{
		Inclusion:    inclusion,
		PropertyName: propertyName,
		markers:      make(map[reflect.Type]string),
		types:        make(map[string]reflect.Type),
	}
}

// Register associates typ with marker and returns t for chaining.
func (t *TypeInfo) Register(typ reflect.Type, marker string) *TypeInfo {
	t.markers[typ] = marker
	t.types[marker] = typ
	return t
}

// Marker returns the marker of typ.
func (t *TypeInfo) Marker(typ reflect.Type) (string, bool) {
	marker, ok := t.markers[typ]
	return marker, ok
}

// TypeOf returns the type registered under marker.
func (t *TypeInfo) TypeOf(marker string) (reflect.Type, bool) {
	typ, ok := t.types[marker]
	return typ, ok
}
