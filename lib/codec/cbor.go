// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/hasys/mapper-xml/lib/mapper"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Same logical data always
// produces identical bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder used by the bridge.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Wire documents only have string property names, so untyped
		// maps decode as map[string]any, which the Dynamic codec
		// writes back as objects.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// ToCBOR reads one wire document and encodes it as deterministic CBOR.
// Objects become maps, arrays become arrays, and numbers become the
// smallest CBOR integer or a float64.
func ToCBOR(wire string, options mapper.Options) ([]byte, error) {
	value, err := mapper.Read(wire, Dynamic, options)
	if err != nil {
		return nil, err
	}
	data, err := Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding CBOR: %w", err)
	}
	return data, nil
}

// FromCBOR decodes one CBOR data item and writes it as a wire
// document. Map entries are written sorted by key and byte strings as
// base64 text.
func FromCBOR(data []byte, options mapper.Options) (string, error) {
	var value any
	if err := Unmarshal(data, &value); err != nil {
		return "", fmt.Errorf("decoding CBOR: %w", err)
	}
	return mapper.Write(value, Dynamic, options)
}
