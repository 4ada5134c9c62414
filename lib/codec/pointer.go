// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// Pointer is the codec of *T for a value type T, typically an
// optional scalar property. A nil pointer is written as null.
type Pointer[T any] struct {
	Elem mapper.Codec
}

// PointerTo returns the codec of *T.
func PointerTo[T any](elem mapper.Codec) Pointer[T] {
	return Pointer[T]{Elem: elem}
}

func (p Pointer[T]) Element() mapper.Codec {
	return p.Elem
}

func (p Pointer[T]) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	pointer, err := expect[*T](value)
	if err != nil {
		return err
	}
	return ctx.Serialize(w, *pointer, p.Elem, params)
}

func (p Pointer[T]) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, params *mapper.Parameters) (any, error) {
	decoded, err := p.Elem.Deserialize(r, ctx, params)
	if err != nil {
		return nil, err
	}
	value, err := As[T](decoded)
	if err != nil {
		return nil, ctx.DecodeError(r, "", "", err)
	}
	return &value, nil
}
