// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"reflect"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// As converts a decoded value to E. nil converts to the zero value.
func As[E any](value any) (E, error) {
	var zero E
	if value == nil {
		return zero, nil
	}
	typed, ok := value.(E)
	if !ok {
		return zero, fmt.Errorf("%w: expected %s, got %T", mapper.ErrTypeMismatch, reflect.TypeFor[E](), value)
	}
	return typed, nil
}

// expect returns value as T or a type mismatch error for a serializer.
func expect[T any](value any) (T, error) {
	typed, ok := value.(T)
	if !ok {
		return typed, fmt.Errorf("%w: expected %s, got %T", mapper.ErrTypeMismatch, reflect.TypeFor[T](), value)
	}
	return typed, nil
}

// unexpected reports a token the deserializer cannot read.
func unexpected(r *stream.Reader, ctx *mapper.DeserializationContext, typeName, expected string, token stream.Token) error {
	return ctx.DecodeError(r, typeName, "", fmt.Errorf("%w: expected %s but was %s", mapper.ErrTypeMismatch, expected, token))
}
