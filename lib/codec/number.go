// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// Int is the codec of a signed integer type.
type Int[T constraints.Signed] struct{}

func (Int[T]) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	number, err := expect[T](value)
	if err != nil {
		return err
	}
	return w.Int(int64(number))
}

func (Int[T]) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	typ := reflect.TypeFor[T]()
	var value int64
	var err error
	if typ.Bits() <= 32 {
		var narrow int32
		narrow, err = r.NextInt32()
		value = int64(narrow)
	} else {
		value, err = r.NextInt64()
	}
	if err != nil {
		return nil, ctx.DecodeError(r, typ.String(), "", err)
	}
	if int64(T(value)) != value {
		return nil, ctx.DecodeError(r, typ.String(), "", rangeError(r, strconv.FormatInt(value, 10), typ.String()))
	}
	return T(value), nil
}

// Uint is the codec of an unsigned integer type.
type Uint[T constraints.Unsigned] struct{}

func (Uint[T]) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	number, err := expect[T](value)
	if err != nil {
		return err
	}
	return w.Uint(uint64(number))
}

func (Uint[T]) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	typ := reflect.TypeFor[T]()
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.Number && token != stream.String {
		return nil, unexpected(r, ctx, typ.String(), "a number", token)
	}
	text, err := r.NextString()
	if err != nil {
		return nil, err
	}
	value, err := parseUnsigned(text, typ.Bits())
	if err != nil {
		return nil, ctx.DecodeError(r, typ.String(), "", &stream.NumberError{
			Text:   text,
			Target: typ.String(),
			Line:   r.Line(),
			Column: r.Column(),
			Path:   r.Path(),
			Err:    err,
		})
	}
	return T(value), nil
}

// parseUnsigned converts text to an unsigned integer of the given
// width, accepting decimal or exponent forms that are exactly integral.
func parseUnsigned(text string, bits int) (uint64, error) {
	value, err := strconv.ParseUint(text, 10, bits)
	if err == nil {
		return value, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, stream.ErrNumberRange
	}
	float, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, stream.ErrNumberRange
		}
		return 0, stream.ErrNumberFormat
	}
	if math.IsNaN(float) || math.IsInf(float, 0) || float != math.Trunc(float) {
		return 0, stream.ErrNumberFormat
	}
	if float < 0 || float >= math.Ldexp(1, bits) {
		return 0, stream.ErrNumberRange
	}
	return uint64(float), nil
}

func rangeError(r *stream.Reader, text, target string) *stream.NumberError {
	return &stream.NumberError{
		Text:   text,
		Target: target,
		Line:   r.Line(),
		Column: r.Column(),
		Path:   r.Path(),
		Err:    stream.ErrNumberRange,
	}
}

// Float is the codec of a floating-point type.
type Float[T constraints.Float] struct{}

func (Float[T]) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	number, err := expect[T](value)
	if err != nil {
		return err
	}
	if reflect.TypeFor[T]().Bits() == 32 {
		return w.Float32(float32(number))
	}
	return w.Float(float64(number))
}

func (Float[T]) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	value, err := r.NextFloat64()
	if err != nil {
		return nil, ctx.DecodeError(r, reflect.TypeFor[T]().String(), "", err)
	}
	return T(value), nil
}

type bigIntCodec struct{}

// BigInt is the codec of *big.Int. Values are written as bare numbers
// of any length.
var BigInt mapper.Codec = bigIntCodec{}

func (bigIntCodec) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	number, err := expect[*big.Int](value)
	if err != nil {
		return err
	}
	return w.Number(number.String())
}

func (bigIntCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.Number && token != stream.String {
		return nil, unexpected(r, ctx, "*big.Int", "a number", token)
	}
	text, err := r.NextString()
	if err != nil {
		return nil, err
	}
	value, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, ctx.DecodeError(r, "*big.Int", "", &stream.NumberError{
			Text: text, Target: "*big.Int", Line: r.Line(), Column: r.Column(), Path: r.Path(), Err: stream.ErrNumberFormat,
		})
	}
	return value, nil
}

type numberCodec struct{}

// Number reads any number as the narrowest exact Go type (int32,
// int64, *big.Int or float64) and writes any Go numeric type.
var Number mapper.Codec = numberCodec{}

func (numberCodec) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	if ok, err := writeNumber(w, value); ok {
		return err
	}
	return fmt.Errorf("%w: expected a number, got %T", mapper.ErrTypeMismatch, value)
}

func (numberCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	value, err := r.NextNumber()
	if err != nil {
		return nil, ctx.DecodeError(r, "number", "", err)
	}
	return value, nil
}

// writeNumber writes value if it is of a Go numeric type and reports
// whether it was.
func writeNumber(w *stream.Writer, value any) (bool, error) {
	switch number := value.(type) {
	case int:
		return true, w.Int(int64(number))
	case int8:
		return true, w.Int(int64(number))
	case int16:
		return true, w.Int(int64(number))
	case int32:
		return true, w.Int(int64(number))
	case int64:
		return true, w.Int(number)
	case uint:
		return true, w.Uint(uint64(number))
	case uint8:
		return true, w.Uint(uint64(number))
	case uint16:
		return true, w.Uint(uint64(number))
	case uint32:
		return true, w.Uint(uint64(number))
	case uint64:
		return true, w.Uint(number)
	case float32:
		return true, w.Float32(number)
	case float64:
		return true, w.Float(number)
	case *big.Int:
		return true, w.Number(number.String())
	case big.Int:
		return true, w.Number(number.String())
	}
	return false, nil
}
