// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

type stringCodec struct{}

// String is the codec of string. Numbers and booleans are read as
// their text.
var String mapper.Codec = stringCodec{}

func (stringCodec) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	text, err := expect[string](value)
	if err != nil {
		return err
	}
	return w.String(text)
}

func (stringCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch token {
	case stream.Boolean:
		value, err := r.NextBoolean()
		if err != nil {
			return nil, err
		}
		return strconv.FormatBool(value), nil
	case stream.String, stream.Number:
		return r.NextString()
	default:
		return nil, unexpected(r, ctx, "string", "a string", token)
	}
}

type boolCodec struct{}

// Bool is the codec of bool. The number 1 reads as true, any other
// number as false; the strings "true" and "false" are accepted.
var Bool mapper.Codec = boolCodec{}

func (boolCodec) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	flag, err := expect[bool](value)
	if err != nil {
		return err
	}
	return w.Bool(flag)
}

func (boolCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch token {
	case stream.Boolean:
		return r.NextBoolean()
	case stream.Number:
		value, err := r.NextInt64()
		if err != nil {
			return nil, ctx.DecodeError(r, "bool", "", err)
		}
		return value == 1, nil
	case stream.String:
		text, err := r.NextString()
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseBool(text)
		if err != nil {
			return nil, ctx.DecodeError(r, "bool", "", fmt.Errorf("%w: %q is not a boolean", mapper.ErrTypeMismatch, text))
		}
		return value, nil
	default:
		return nil, unexpected(r, ctx, "bool", "a boolean", token)
	}
}

type runeCodec struct{}

// Rune is the codec of a single character, written as a one-character
// string. A number is read as a code point.
var Rune mapper.Codec = runeCodec{}

func (runeCodec) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	character, err := expect[rune](value)
	if err != nil {
		return err
	}
	return w.String(string(character))
}

func (runeCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch token {
	case stream.Number:
		value, err := r.NextInt32()
		if err != nil {
			return nil, ctx.DecodeError(r, "rune", "", err)
		}
		return rune(value), nil
	case stream.String:
		text, err := r.NextString()
		if err != nil {
			return nil, err
		}
		if utf8.RuneCountInString(text) != 1 {
			return nil, ctx.DecodeError(r, "rune", "", fmt.Errorf("%w: %q is not a single character", mapper.ErrTypeMismatch, text))
		}
		character, _ := utf8.DecodeRuneInString(text)
		return character, nil
	default:
		return nil, unexpected(r, ctx, "rune", "a string", token)
	}
}
