// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bean

import (
	"fmt"
	"reflect"

	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
)

// Property is one named, ordered property of a bean.
type Property struct {
	name   string
	codec  mapper.Codec
	get    func(bean any) (any, error)
	set    func(bean any, value any) error
	params *mapper.Parameters

	required         bool
	managedReference string
}

// Field declares a property of beans of type B holding a V. get is
// called during serialization and set during deserialization; pass nil
// for a property that is only written or only read.
func Field[B, V any](name string, valueCodec mapper.Codec, get func(B) V, set func(B, V)) *Property {
	property := &Property{name: name, codec: valueCodec}
	if get != nil {
		property.get = func(bean any) (any, error) {
			typed, ok := bean.(B)
			if !ok {
				return nil, fmt.Errorf("%w: property %q expects %s, got %T", mapper.ErrTypeMismatch, name, reflect.TypeFor[B](), bean)
			}
			return get(typed), nil
		}
	}
	if set != nil {
		property.set = func(bean any, value any) error {
			typed, ok := bean.(B)
			if !ok {
				return fmt.Errorf("%w: property %q expects %s, got %T", mapper.ErrTypeMismatch, name, reflect.TypeFor[B](), bean)
			}
			converted, err := codec.As[V](value)
			if err != nil {
				return err
			}
			set(typed, converted)
			return nil
		}
	}
	return property
}

// Param declares a constructor parameter of a [Creator]. Parameters
// are read, never written: declare a [Field] of the same name to write
// the value back out.
func Param(name string, valueCodec mapper.Codec) *Property {
	return &Property{name: name, codec: valueCodec}
}

// Name returns the wire name of the property.
func (p *Property) Name() string {
	return p.name
}

// Required makes a missing property a decode error.
func (p *Property) Required() *Property {
	p.required = true
	return p
}

// With attaches codec parameters to the property.
func (p *Property) With(params *mapper.Parameters) *Property {
	p.params = params
	return p
}

// Unwrapped flattens the property's bean value into the enclosing
// object. The property codec must be a [*Descriptor].
func (p *Property) Unwrapped() *Property {
	params := mapper.Parameters{}
	if p.params != nil {
		params = *p.params
	}
	params.Unwrapped = true
	p.params = &params
	return p
}

// ManagedReference marks the forward side of a parent/child link.
// After the property is read, the back reference called name is set on
// every child bean it holds, pointing at the parent.
func (p *Property) ManagedReference(name string) *Property {
	p.managedReference = name
	return p
}

func (p *Property) readable() bool {
	return p.get != nil
}

func (p *Property) writable() bool {
	return p.set != nil
}

func (p *Property) unwrapped() bool {
	return p.params.IsUnwrapped()
}

// isEmpty reports whether value counts as empty for
// [mapper.IncludeNonEmpty].
func isEmpty(value any) bool {
	if mapper.IsNil(value) {
		return true
	}
	switch typed := value.(type) {
	case string:
		return typed == ""
	case *codec.OrderedMap:
		return typed.Len() == 0
	}
	switch reflected := reflect.ValueOf(value); reflected.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return reflected.Len() == 0
	}
	return false
}
