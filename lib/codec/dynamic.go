// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

type dynamicCodec struct{}

// Dynamic is the codec of untyped values. It reads objects as
// map[string]any, arrays as []any, numbers through
// [stream.Reader.NextNumber], and strings, booleans and null as
// themselves. It writes those types back, plus any Go numeric type,
// time.Time, uuid.UUID, []byte, [RawValue], *[OrderedMap], and
// reflected slices and string-keyed maps.
var Dynamic mapper.Codec = dynamicCodec{}

func (d dynamicCodec) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	if ok, err := writeNumber(w, value); ok {
		return err
	}
	switch typed := value.(type) {
	case string:
		return w.String(typed)
	case bool:
		return w.Bool(typed)
	case time.Time:
		return Time.Serialize(w, typed, ctx, params)
	case uuid.UUID:
		return UUID.Serialize(w, typed, ctx, params)
	case []byte:
		return Bytes.Serialize(w, typed, ctx, params)
	case RawValue:
		return w.Raw(string(typed))
	case *OrderedMap:
		return OrderedMapCodec{}.Serialize(w, typed, ctx, params)
	case map[string]any:
		return d.serializeMap(w, reflect.ValueOf(typed), ctx)
	case []any:
		return d.serializeSlice(w, reflect.ValueOf(typed), ctx)
	}

	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Slice, reflect.Array:
		return d.serializeSlice(w, reflected, ctx)
	case reflect.Map:
		if reflected.Type().Key().Kind() == reflect.String {
			return d.serializeMap(w, reflected, ctx)
		}
	case reflect.Pointer:
		if err := ctx.Enter(reflected.Type().String()); err != nil {
			return err
		}
		defer ctx.Leave()
		return ctx.Serialize(w, reflected.Elem().Interface(), d, params)
	}
	return fmt.Errorf("%w: no dynamic representation for %T", mapper.ErrTypeMismatch, value)
}

func (d dynamicCodec) serializeSlice(w *stream.Writer, values reflect.Value, ctx *mapper.SerializationContext) error {
	if values.Len() == 0 && !ctx.Options().WriteEmptyArrays {
		return w.Null()
	}
	if err := ctx.Enter(values.Type().String()); err != nil {
		return err
	}
	defer ctx.Leave()
	if err := w.BeginArray(); err != nil {
		return err
	}
	for index := range values.Len() {
		if err := ctx.Serialize(w, values.Index(index).Interface(), d, nil); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func (d dynamicCodec) serializeMap(w *stream.Writer, entries reflect.Value, ctx *mapper.SerializationContext) error {
	if err := ctx.Enter(entries.Type().String()); err != nil {
		return err
	}
	defer ctx.Leave()
	keys := entries.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	if err := w.BeginObject(); err != nil {
		return err
	}
	for _, key := range keys {
		if err := writeEntry(w, key.String(), entries.MapIndex(key).Interface(), d, ctx, nil); err != nil {
			return err
		}
	}
	return w.EndObject()
}

func (d dynamicCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, params *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch token {
	case stream.BeginObject:
		if err := r.BeginObject(); err != nil {
			return nil, err
		}
		result := make(map[string]any)
		for {
			more, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			name, err := r.NextName()
			if err != nil {
				return nil, err
			}
			value, err := ctx.Deserialize(r, d, nil)
			if err != nil {
				return nil, err
			}
			result[name] = value
		}
		return result, r.EndObject()

	case stream.BeginArray:
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		result := []any{}
		for {
			more, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			value, err := ctx.Deserialize(r, d, nil)
			if err != nil {
				return nil, err
			}
			result = append(result, value)
		}
		return result, r.EndArray()

	case stream.String:
		return r.NextString()
	case stream.Number:
		return Number.Deserialize(r, ctx, params)
	case stream.Boolean:
		return r.NextBoolean()
	case stream.Null:
		return nil, r.NextNull()
	default:
		return nil, unexpected(r, ctx, "any", "a value", token)
	}
}

// RawValue is wire text embedded verbatim.
type RawValue string

type rawCodec struct{}

// Raw is the codec of [RawValue]. Reading captures the next value as
// compact wire text; writing copies the text through unchanged.
var Raw mapper.Codec = rawCodec{}

func (rawCodec) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	switch text := value.(type) {
	case RawValue:
		return w.Raw(string(text))
	case string:
		return w.Raw(text)
	}
	return fmt.Errorf("%w: expected codec.RawValue, got %T", mapper.ErrTypeMismatch, value)
}

func (rawCodec) Deserialize(r *stream.Reader, _ *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	text, err := r.NextValue()
	if err != nil {
		return nil, err
	}
	return RawValue(text), nil
}
