// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

func write(t *testing.T, value any, codec mapper.Serializer, options mapper.Options) string {
	t.Helper()
	output, err := mapper.Write(value, codec, options)
	if err != nil {
		t.Fatalf("Write(%v): %v", value, err)
	}
	return output
}

func read(t *testing.T, input string, codec mapper.Deserializer, options mapper.Options) any {
	t.Helper()
	value, err := mapper.Read(input, codec, options)
	if err != nil {
		t.Fatalf("Read(%s): %v", input, err)
	}
	return value
}

func TestIntegers(t *testing.T) {
	options := mapper.DefaultOptions()
	if got := write(t, int16(-12), Int[int16]{}, options); got != "-12" {
		t.Errorf("got %s, want -12", got)
	}
	if got := read(t, "1.0", Int[int]{}, options); got != 1 {
		t.Errorf("got %v, want 1", got)
	}
	if got := read(t, `"42"`, Int[int64]{}, options); got != int64(42) {
		t.Errorf("got %v, want 42", got)
	}
	if got := read(t, "18446744073709551615", Uint[uint64]{}, options); got != uint64(18446744073709551615) {
		t.Errorf("got %v, want max uint64", got)
	}
	if got := read(t, "2e2", Uint[uint8]{}, options); got != uint8(200) {
		t.Errorf("got %v, want 200", got)
	}

	tests := []struct {
		input string
		codec mapper.Codec
		want  error
	}{
		{"300", Int[int8]{}, stream.ErrNumberRange},
		{"2147483648", Int[int32]{}, stream.ErrNumberRange},
		{"1.5", Int[int]{}, stream.ErrNumberFormat},
		{"-1", Uint[uint]{}, stream.ErrNumberRange},
		{"256", Uint[uint8]{}, stream.ErrNumberRange},
	}
	for _, test := range tests {
		_, err := mapper.Read(test.input, test.codec, options)
		var numberErr *stream.NumberError
		var decodeErr *mapper.DecodeError
		if !errors.As(err, &decodeErr) || !errors.As(err, &numberErr) || !errors.Is(err, test.want) {
			t.Errorf("%s as %T: got %v, want DecodeError wrapping NumberError %v", test.input, test.codec, err, test.want)
		}
	}
}

func TestFloats(t *testing.T) {
	options := mapper.DefaultOptions()
	if got := write(t, float32(0.1), Float[float32]{}, options); got != "0.1" {
		t.Errorf("float32: got %s, want 0.1", got)
	}
	if got := write(t, 1e-7, Float[float64]{}, options); got != "1e-7" {
		t.Errorf("float64: got %s, want 1e-7", got)
	}
	if got := read(t, "2.5", Float[float64]{}, options); got != 2.5 {
		t.Errorf("got %v, want 2.5", got)
	}
	if got := read(t, "3", Float[float32]{}, options); got != float32(3) {
		t.Errorf("got %v, want 3", got)
	}
}

func TestBigIntAndNumber(t *testing.T) {
	options := mapper.DefaultOptions()
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	output := write(t, huge, BigInt, options)
	if output != "123456789012345678901234567890" {
		t.Errorf("got %s", output)
	}
	if got := read(t, output, BigInt, options).(*big.Int); got.Cmp(huge) != 0 {
		t.Errorf("got %v, want %v", got, huge)
	}
	if got := read(t, "7", Number, options); got != int32(7) {
		t.Errorf("got %v (%T), want int32 7", got, got)
	}
	if got := write(t, uint16(9), Number, options); got != "9" {
		t.Errorf("got %s, want 9", got)
	}
}

func TestStringBoolRune(t *testing.T) {
	options := mapper.DefaultOptions()
	if got := write(t, "a\"b", String, options); got != `"a\"b"` {
		t.Errorf("got %s", got)
	}
	if got := read(t, "12", String, options); got != "12" {
		t.Errorf("number as string: got %v", got)
	}
	if got := read(t, "true", String, options); got != "true" {
		t.Errorf("boolean as string: got %v", got)
	}
	if got := read(t, "1", Bool, options); got != true {
		t.Errorf("1 as bool: got %v", got)
	}
	if got := read(t, "0", Bool, options); got != false {
		t.Errorf("0 as bool: got %v", got)
	}
	if got := read(t, `"false"`, Bool, options); got != false {
		t.Errorf(`"false" as bool: got %v`, got)
	}
	if got := write(t, 'é', Rune, options); got != `"é"` {
		t.Errorf("rune: got %s", got)
	}
	if got := read(t, "65", Rune, options); got != 'A' {
		t.Errorf("code point: got %v", got)
	}
	if _, err := mapper.Read(`"ab"`, Rune, options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("two characters: got %v, want ErrTypeMismatch", err)
	}
	if _, err := mapper.Read(`[]`, String, options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("array as string: got %v, want ErrTypeMismatch", err)
	}
}

func TestSerializerTypeMismatch(t *testing.T) {
	if _, err := mapper.Write(42, String, mapper.DefaultOptions()); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("got %v, want ErrTypeMismatch", err)
	}
}

func TestTime(t *testing.T) {
	date := time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)
	options := mapper.DefaultOptions()

	output := write(t, date, Time, options)
	if output != `"2026-10-17T09:30:00.000Z"` {
		t.Errorf("default: got %s", output)
	}
	if got := read(t, output, Time, options).(time.Time); !got.Equal(date) {
		t.Errorf("default round trip: got %v", got)
	}

	options.WriteDatesAsTimestamps = true
	output = write(t, date, Time, options)
	if output != "1792229400000" {
		t.Errorf("timestamp: got %s", output)
	}
	if got := read(t, output, Time, options).(time.Time); !got.Equal(date) {
		t.Errorf("timestamp round trip: got %v", got)
	}

	ctx := mapper.NewSerializationContext(options)
	writer := ctx.NewWriter()
	if err := Time.Serialize(writer, date, ctx, &mapper.Parameters{Pattern: "%Y-%m-%d"}); err != nil {
		t.Fatal(err)
	}
	if got := writer.Output(); got != `"2026-10-17"` {
		t.Errorf("pattern: got %s", got)
	}
}

func TestUUID(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	options := mapper.DefaultOptions()
	output := write(t, id, UUID, options)
	if output != `"6ba7b810-9dad-11d1-80b4-00c04fd430c8"` {
		t.Errorf("got %s", output)
	}
	if got := read(t, output, UUID, options); got != id {
		t.Errorf("got %v, want %v", got, id)
	}
	if _, err := mapper.Read(`"nope"`, UUID, options); err == nil {
		t.Error("expected an error for an invalid UUID")
	}
}

func TestBytes(t *testing.T) {
	options := mapper.DefaultOptions()
	if got := write(t, []byte{1, 2, 3}, Bytes, options); got != `"AQID"` {
		t.Errorf("got %s, want \"AQID\"", got)
	}
	if got := read(t, "[1, 2, 255, -1]", Bytes, options); !reflect.DeepEqual(got, []byte{1, 2, 255, 255}) {
		t.Errorf("array: got %v", got)
	}
	if _, err := mapper.Read(`"AQID"`, Bytes, options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("bare string without AcceptSingleValueAsArray: got %v, want ErrTypeMismatch", err)
	}

	options.AcceptSingleValueAsArray = true
	if got := read(t, `"AQID"`, Bytes, options); !reflect.DeepEqual(got, []byte{1, 2, 3}) {
		t.Errorf("base64: got %v", got)
	}
	if got := read(t, `7`, Bytes, options); !reflect.DeepEqual(got, []byte{7}) {
		t.Errorf("single byte: got %v", got)
	}

	options.WriteEmptyArrays = false
	if got := write(t, []byte{}, Bytes, options); got != "null" {
		t.Errorf("empty: got %s, want null", got)
	}
}

func TestSlices(t *testing.T) {
	ints := SliceOf[int](Int[int]{})
	options := mapper.DefaultOptions()

	if got := write(t, []int{1, 2, 3}, ints, options); got != "[1,2,3]" {
		t.Errorf("got %s", got)
	}
	if got := read(t, "[1,2,3]", ints, options); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
	if got := write(t, []int{}, ints, options); got != "[]" {
		t.Errorf("empty: got %s", got)
	}

	grid := SliceOf[[]int](ints)
	if got := write(t, [][]int{{1}, {2, 3}}, grid, options); got != "[[1],[2,3]]" {
		t.Errorf("2d: got %s", got)
	}
	if got := read(t, "[[1],[],[2,3]]", grid, options); !reflect.DeepEqual(got, [][]int{{1}, {}, {2, 3}}) {
		t.Errorf("2d read: got %v", got)
	}

	pointers := SliceOf[*int](PointerTo[int](Int[int]{}))
	two := 2
	if got := write(t, []*int{nil, &two}, pointers, options); got != "[null,2]" {
		t.Errorf("null elements: got %s", got)
	}

	if _, err := mapper.Read("5", ints, options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("bare value: got %v, want ErrTypeMismatch", err)
	}

	options.WriteEmptyArrays = false
	options.WriteSingleElementArraysUnwrapped = true
	options.AcceptSingleValueAsArray = true
	if got := write(t, []int{}, ints, options); got != "null" {
		t.Errorf("empty disabled: got %s, want null", got)
	}
	if got := write(t, []int{9}, ints, options); got != "9" {
		t.Errorf("single unwrapped: got %s, want 9", got)
	}
	if got := read(t, "5", ints, options); !reflect.DeepEqual(got, []int{5}) {
		t.Errorf("single value: got %v", got)
	}
}

func TestMaps(t *testing.T) {
	scores := MapOf[string, int](StringKey, Int[int]{})
	options := mapper.DefaultOptions()

	if got := write(t, map[string]int{"b": 2, "a": 1, "c": 3}, scores, options); got != `{"a":1,"b":2,"c":3}` {
		t.Errorf("got %s", got)
	}
	if got := read(t, `{"x":1,"y":2}`, scores, options); !reflect.DeepEqual(got, map[string]int{"x": 1, "y": 2}) {
		t.Errorf("got %v", got)
	}

	optional := MapOf[string, *int](StringKey, PointerTo[int](Int[int]{}))
	two := 2
	values := map[string]*int{"a": nil, "b": &two}
	if got := write(t, values, optional, options); got != `{"a":null,"b":2}` {
		t.Errorf("null values written: got %s", got)
	}
	options.WriteNullMapValues = false
	if got := write(t, values, optional, options); got != `{"b":2}` {
		t.Errorf("null values skipped: got %s", got)
	}

	byID := MapOf[int, string](IntKey[int]{}, String)
	if got := read(t, `{"10":"ten"}`, byID, options); !reflect.DeepEqual(got, map[int]string{10: "ten"}) {
		t.Errorf("int keys: got %v", got)
	}
	if _, err := mapper.Read(`{"x":"ten"}`, byID, options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("bad int key: got %v, want ErrTypeMismatch", err)
	}
}

func TestKeyCodecs(t *testing.T) {
	serializer := mapper.NewSerializationContext(mapper.DefaultOptions())
	deserializer := mapper.NewDeserializationContext(mapper.DefaultOptions())
	date := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		codec mapper.KeyCodec
		key   any
		want  string
	}{
		{"bool", BoolKey, true, "true"},
		{"rune", RuneKey, 'x', "x"},
		{"int", IntKey[int8]{}, int8(-3), "-3"},
		{"uint", UintKey[uint32]{}, uint32(7), "7"},
		{"float", FloatKey[float64]{}, 1.25, "1.25"},
		{"uuid", UUIDKey, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"time", TimeKey, date, "2026-01-02T03:04:05.000Z"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			name, err := test.codec.SerializeKey(test.key, serializer)
			if err != nil {
				t.Fatal(err)
			}
			if name != test.want {
				t.Errorf("SerializeKey: got %s, want %s", name, test.want)
			}
			key, err := test.codec.DeserializeKey(name, deserializer)
			if err != nil {
				t.Fatal(err)
			}
			if key != test.key {
				if keyTime, ok := key.(time.Time); !ok || !keyTime.Equal(date) {
					t.Errorf("DeserializeKey: got %v, want %v", key, test.key)
				}
			}
		})
	}

	options := mapper.DefaultOptions()
	options.WriteDateKeysAsTimestamps = true
	name, err := TimeKey.SerializeKey(date, mapper.NewSerializationContext(options))
	if err != nil || name != "1767323045000" {
		t.Errorf("timestamp key: got %s, %v", name, err)
	}
}

type color int

const (
	red color = iota
	green
)

func TestEnum(t *testing.T) {
	colors := NewEnum(map[color]string{red: "RED", green: "GREEN"})
	options := mapper.DefaultOptions()

	if got := write(t, green, colors, options); got != `"GREEN"` {
		t.Errorf("got %s", got)
	}
	if got := read(t, `"RED"`, colors, options); got != red {
		t.Errorf("got %v", got)
	}
	if _, err := mapper.Read(`"BLUE"`, colors, options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("unknown: got %v, want ErrTypeMismatch", err)
	}
	if _, err := mapper.Write(color(9), colors, options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("unnamed constant: got %v, want ErrTypeMismatch", err)
	}

	options.ReadUnknownEnumsAsNull = true
	if got := read(t, `"BLUE"`, colors, options); got != nil {
		t.Errorf("unknown as null: got %v", got)
	}

	byColor := MapOf[color, int](colors, Int[int]{})
	if got := write(t, map[color]int{red: 1}, byColor, options); got != `{"RED":1}` {
		t.Errorf("enum keys: got %s", got)
	}
}

func TestOrderedMap(t *testing.T) {
	entries := NewOrderedMap()
	entries.Set("z", 1)
	entries.Set("a", "x")
	entries.Set("m", nil)
	entries.Set("z", 2)

	if got := entries.Keys(); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Errorf("keys: got %v", got)
	}
	options := mapper.DefaultOptions()
	if got := write(t, entries, OrderedMapCodec{}, options); got != `{"z":2,"a":"x","m":null}` {
		t.Errorf("got %s", got)
	}

	decoded := read(t, `{"q":1,"b":[true]}`, OrderedMapCodec{}, options).(*OrderedMap)
	if got := decoded.Keys(); !reflect.DeepEqual(got, []string{"q", "b"}) {
		t.Errorf("decoded keys: got %v", got)
	}
	entries.Delete("a")
	if entries.Len() != 2 {
		t.Errorf("Len after Delete: got %d", entries.Len())
	}
}

func TestDynamic(t *testing.T) {
	options := mapper.DefaultOptions()
	value := read(t, `{"b":[1,2.5,"x",true,null],"a":{}}`, Dynamic, options)
	want := map[string]any{
		"b": []any{int32(1), 2.5, "x", true, nil},
		"a": map[string]any{},
	}
	if !reflect.DeepEqual(value, want) {
		t.Errorf("got %#v, want %#v", value, want)
	}
	if got := write(t, value, Dynamic, options); got != `{"a":{},"b":[1,2.5,"x",true,null]}` {
		t.Errorf("got %s", got)
	}
	if got := write(t, []string{"p", "q"}, Dynamic, options); got != `["p","q"]` {
		t.Errorf("reflected slice: got %s", got)
	}
	if _, err := mapper.Write(struct{}{}, Dynamic, options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("struct: got %v, want ErrTypeMismatch", err)
	}
}

func TestDynamicSelfReference(t *testing.T) {
	options := mapper.DefaultOptions()
	options.MaxDepth = 50

	list := make([]any, 1)
	list[0] = list
	object := map[string]any{}
	object["self"] = object
	var boxed any
	boxed = &boxed

	for name, value := range map[string]any{"slice": list, "map": object, "pointer": boxed} {
		if _, err := mapper.Write(value, Dynamic, options); !errors.Is(err, mapper.ErrMaxDepth) {
			t.Errorf("%s: got %v, want ErrMaxDepth", name, err)
		}
	}
}

func TestRaw(t *testing.T) {
	options := mapper.DefaultOptions()
	got := read(t, `{ "a" : [1, 2.50] }`, Raw, options)
	if got != RawValue(`{"a":[1,2.50]}`) {
		t.Errorf("got %v", got)
	}
	if output := write(t, got, Raw, options); output != `{"a":[1,2.50]}` {
		t.Errorf("got %s", output)
	}
}

func TestPointer(t *testing.T) {
	codec := PointerTo[string](String)
	options := mapper.DefaultOptions()
	text := "hi"
	if got := write(t, &text, codec, options); got != `"hi"` {
		t.Errorf("got %s", got)
	}
	var missing *string
	if got := write(t, missing, codec, options); got != "null" {
		t.Errorf("nil: got %s", got)
	}
	decoded := read(t, `"yo"`, codec, options).(*string)
	if *decoded != "yo" {
		t.Errorf("got %s", *decoded)
	}
}
