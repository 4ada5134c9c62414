// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the registry of value codecs: the serializers and
// deserializers for every non-bean value a descriptor can hold.
//
// Stateless codecs are package-level values ([String], [Bool], [Time],
// [UUID], [Bytes], [Dynamic], [Raw], ...). Codecs parameterized by a Go
// type are small generic structs ([Int], [Uint], [Float], [Slice],
// [Map], [Pointer], [Enum]) that cost nothing to construct:
//
//	tags := codec.SliceOf[string](codec.String)
//	scores := codec.MapOf[string, int](codec.StringKey, codec.Int[int]{})
//
// Map keys are written as property names, so maps take a
// [mapper.KeyCodec] for their key type. Key codecs exist for strings,
// booleans, runes, integers, floats, UUIDs, dates and enums.
//
// Every codec honors the relevant [mapper.Options]:
//
//   - WriteEmptyArrays: empty slices and byte slices are written as
//     null when disabled.
//   - WriteSingleElementArraysUnwrapped and AcceptSingleValueAsArray:
//     one-element slices are written as their element, and a bare value
//     is read as a one-element slice.
//   - WriteNullMapValues: nil map values are skipped when disabled.
//   - WriteDatesAsTimestamps and WriteDateKeysAsTimestamps: dates are
//     written as epoch milliseconds.
//   - ReadUnknownEnumsAsNull: unknown enum names read as nil.
//
// Numeric reads never truncate: a value that does not fit the target
// type fails with a [*mapper.DecodeError] wrapping a
// [*stream.NumberError].
//
// The package also carries the CBOR bridge ([ToCBOR], [FromCBOR]),
// which transcodes wire documents to and from Core Deterministic CBOR
// (RFC 8949 §4.2) so the same logical document always produces the
// same bytes.
package codec
