// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bean

import (
	"fmt"
	"reflect"

	"github.com/hasys/mapper-xml/lib/mapper"
)

// SetBackReference stores reference in the back reference called name
// of value, a bean of the descriptor's type or one of its subtypes.
// It never reads from the stream.
func (d *Descriptor) SetBackReference(name string, reference, value any, ctx *mapper.DeserializationContext) error {
	if mapper.IsNil(value) {
		return nil
	}
	target := d
	if runtime := reflect.TypeOf(value); runtime != d.typ {
		if subtype, ok := d.subtypes[runtime]; ok {
			target = subtype
		}
	}
	// The subtype table is only consulted once: target applies the
	// setter itself even when its own type differs from the runtime
	// type.
	return target.applyBackReference(name, reference, value)
}

func (d *Descriptor) applyBackReference(name string, reference, value any) error {
	setter, ok := d.backReferences[name]
	if !ok {
		return fmt.Errorf("%w: %q on %s", mapper.ErrUnknownBackReference, name, d.name)
	}
	return setter(value, reference)
}

type backReferenceSetter interface {
	SetBackReference(name string, reference, value any, ctx *mapper.DeserializationContext) error
}

type containerCodec interface {
	Element() mapper.Codec
}

// setBackReference hands reference to every bean in value, looking
// through slices, maps and pointers built by container codecs.
func setBackReference(valueCodec mapper.Codec, name string, reference, value any, ctx *mapper.DeserializationContext) error {
	if mapper.IsNil(value) {
		return nil
	}
	if setter, ok := valueCodec.(backReferenceSetter); ok {
		return setter.SetBackReference(name, reference, value, ctx)
	}
	container, ok := valueCodec.(containerCodec)
	if !ok {
		return fmt.Errorf("%w: %q: %T holds no beans", mapper.ErrUnknownBackReference, name, valueCodec)
	}
	element := container.Element()
	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range reflected.Len() {
			if err := setBackReference(element, name, reference, reflected.Index(i).Interface(), ctx); err != nil {
				return err
			}
		}
	case reflect.Map:
		for entries := reflected.MapRange(); entries.Next(); {
			if err := setBackReference(element, name, reference, entries.Value().Interface(), ctx); err != nil {
				return err
			}
		}
	case reflect.Pointer:
		return setBackReference(element, name, reference, reflected.Elem().Interface(), ctx)
	default:
		return fmt.Errorf("%w: %q: %T holds no beans", mapper.ErrUnknownBackReference, name, value)
	}
	return nil
}
