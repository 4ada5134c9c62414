// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/exp/constraints"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

func keyMismatch(name, target string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: key %q is not a valid %s: %w", mapper.ErrTypeMismatch, name, target, err)
	}
	return fmt.Errorf("%w: key %q is not a valid %s", mapper.ErrTypeMismatch, name, target)
}

type stringKey struct{}

// StringKey is the key codec of string keys.
var StringKey mapper.KeyCodec = stringKey{}

func (stringKey) SerializeKey(key any, _ *mapper.SerializationContext) (string, error) {
	return expect[string](key)
}

func (stringKey) DeserializeKey(name string, _ *mapper.DeserializationContext) (any, error) {
	return name, nil
}

type boolKey struct{}

// BoolKey is the key codec of bool keys.
var BoolKey mapper.KeyCodec = boolKey{}

func (boolKey) SerializeKey(key any, _ *mapper.SerializationContext) (string, error) {
	flag, err := expect[bool](key)
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(flag), nil
}

func (boolKey) DeserializeKey(name string, _ *mapper.DeserializationContext) (any, error) {
	flag, err := strconv.ParseBool(name)
	if err != nil {
		return nil, keyMismatch(name, "bool", nil)
	}
	return flag, nil
}

type runeKey struct{}

// RuneKey is the key codec of single-character keys.
var RuneKey mapper.KeyCodec = runeKey{}

func (runeKey) SerializeKey(key any, _ *mapper.SerializationContext) (string, error) {
	character, err := expect[rune](key)
	if err != nil {
		return "", err
	}
	return string(character), nil
}

func (runeKey) DeserializeKey(name string, _ *mapper.DeserializationContext) (any, error) {
	if utf8.RuneCountInString(name) != 1 {
		return nil, keyMismatch(name, "rune", nil)
	}
	character, _ := utf8.DecodeRuneInString(name)
	return character, nil
}

// IntKey is the key codec of signed integer keys.
type IntKey[T constraints.Signed] struct{}

func (IntKey[T]) SerializeKey(key any, _ *mapper.SerializationContext) (string, error) {
	number, err := expect[T](key)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(number), 10), nil
}

func (IntKey[T]) DeserializeKey(name string, _ *mapper.DeserializationContext) (any, error) {
	typ := reflect.TypeFor[T]()
	number, err := strconv.ParseInt(name, 10, typ.Bits())
	if err != nil {
		return nil, keyMismatch(name, typ.String(), err)
	}
	return T(number), nil
}

// UintKey is the key codec of unsigned integer keys.
type UintKey[T constraints.Unsigned] struct{}

func (UintKey[T]) SerializeKey(key any, _ *mapper.SerializationContext) (string, error) {
	number, err := expect[T](key)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(number), 10), nil
}

func (UintKey[T]) DeserializeKey(name string, _ *mapper.DeserializationContext) (any, error) {
	typ := reflect.TypeFor[T]()
	number, err := strconv.ParseUint(name, 10, typ.Bits())
	if err != nil {
		return nil, keyMismatch(name, typ.String(), err)
	}
	return T(number), nil
}

// FloatKey is the key codec of floating-point keys.
type FloatKey[T constraints.Float] struct{}

func (FloatKey[T]) SerializeKey(key any, _ *mapper.SerializationContext) (string, error) {
	number, err := expect[T](key)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(float64(number), 'g', -1, reflect.TypeFor[T]().Bits()), nil
}

func (FloatKey[T]) DeserializeKey(name string, _ *mapper.DeserializationContext) (any, error) {
	typ := reflect.TypeFor[T]()
	number, err := strconv.ParseFloat(name, typ.Bits())
	if err != nil {
		return nil, keyMismatch(name, typ.String(), err)
	}
	return T(number), nil
}

type uuidKey struct{}

// UUIDKey is the key codec of uuid.UUID keys.
var UUIDKey mapper.KeyCodec = uuidKey{}

func (uuidKey) SerializeKey(key any, _ *mapper.SerializationContext) (string, error) {
	id, err := expect[uuid.UUID](key)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (uuidKey) DeserializeKey(name string, _ *mapper.DeserializationContext) (any, error) {
	id, err := uuid.Parse(name)
	if err != nil {
		return nil, keyMismatch(name, "uuid.UUID", err)
	}
	return id, nil
}

type timeKey struct{}

// TimeKey is the key codec of time.Time keys: epoch milliseconds when
// WriteDateKeysAsTimestamps is set, the formatter's default text
// otherwise. Both are accepted on read.
var TimeKey mapper.KeyCodec = timeKey{}

func (timeKey) SerializeKey(key any, ctx *mapper.SerializationContext) (string, error) {
	date, err := expect[time.Time](key)
	if err != nil {
		return "", err
	}
	if ctx.Options().WriteDateKeysAsTimestamps {
		return strconv.FormatInt(date.UnixMilli(), 10), nil
	}
	return ctx.DateFormat().Format(date, "", nil)
}

func (timeKey) DeserializeKey(name string, ctx *mapper.DeserializationContext) (any, error) {
	if millis, err := strconv.ParseInt(name, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}
	date, err := ctx.DateFormat().Parse(name, "", nil)
	if err != nil {
		return nil, keyMismatch(name, "time.Time", err)
	}
	return date, nil
}

// keyAsValue adapts a key codec to read and write a string value. Ids
// written as property names and values share this.
type keyAsValue struct {
	key mapper.KeyCodec
}

// KeyValue returns a codec that writes values as the string form the
// key codec gives them.
func KeyValue(key mapper.KeyCodec) mapper.Codec {
	return keyAsValue{key: key}
}

func (k keyAsValue) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, _ *mapper.Parameters) error {
	name, err := k.key.SerializeKey(value, ctx)
	if err != nil {
		return err
	}
	return w.String(name)
}

func (k keyAsValue) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	text, err := r.NextString()
	if err != nil {
		return nil, err
	}
	value, err := k.key.DeserializeKey(text, ctx)
	if err != nil {
		return nil, ctx.DecodeError(r, "", "", err)
	}
	return value, nil
}
