// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// Slice is the codec of []E. Elem is the codec of E; a Slice whose
// Elem is itself a Slice handles two-dimensional arrays.
type Slice[E any] struct {
	Elem mapper.Codec
}

// SliceOf returns the codec of []E with element codec elem.
func SliceOf[E any](elem mapper.Codec) Slice[E] {
	return Slice[E]{Elem: elem}
}

// Element returns the element codec.
func (s Slice[E]) Element() mapper.Codec {
	return s.Elem
}

func (s Slice[E]) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	values, err := expect[[]E](value)
	if err != nil {
		return err
	}
	options := ctx.Options()
	if len(values) == 0 && !options.WriteEmptyArrays {
		return w.Null()
	}
	child := params.Child()
	if len(values) == 1 && options.WriteSingleElementArraysUnwrapped {
		return ctx.Serialize(w, values[0], s.Elem, child)
	}
	if err := w.BeginArray(); err != nil {
		return err
	}
	for _, element := range values {
		if err := ctx.Serialize(w, element, s.Elem, child); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func (s Slice[E]) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, params *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	child := params.Child()
	if token != stream.BeginArray {
		if !ctx.Options().AcceptSingleValueAsArray {
			return nil, unexpected(r, ctx, reflect.TypeFor[[]E]().String(), "BEGIN_ARRAY", token)
		}
		element, err := s.element(r, ctx, child)
		if err != nil {
			return nil, err
		}
		return []E{element}, nil
	}

	if err := r.BeginArray(); err != nil {
		return nil, err
	}
	values := []E{}
	for {
		more, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		element, err := s.element(r, ctx, child)
		if err != nil {
			return nil, err
		}
		values = append(values, element)
	}
	return values, r.EndArray()
}

func (s Slice[E]) element(r *stream.Reader, ctx *mapper.DeserializationContext, params *mapper.Parameters) (E, error) {
	decoded, err := ctx.Deserialize(r, s.Elem, params)
	if err != nil {
		var zero E
		return zero, err
	}
	element, err := As[E](decoded)
	if err != nil {
		return element, ctx.DecodeError(r, reflect.TypeFor[[]E]().String(), "", err)
	}
	return element, nil
}
