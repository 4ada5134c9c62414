// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stream implements the token layer of the beanwire wire format:
// a pull-style [Reader] that lexes a document into [Token] values and a
// push-style [Writer] that emits them.
//
// The wire grammar is JSON token syntax: objects, arrays, double-quoted
// strings, bare numbers, true, false and null. Both sides keep a scope
// stack (empty/nonempty document, array, object, dangling name) and
// reject token sequences that the top of the stack does not allow.
// Such violations are structural errors: the reader reports them as
// [*SyntaxError] carrying the line, column and path of the offending
// token, the writer returns one of the sentinel errors ([ErrNesting],
// [ErrDanglingName], [ErrIncompleteDocument], ...).
//
// Strict mode follows RFC 4627: a single top-level object or array.
// Lenient mode ([Reader.SetLenient], [Writer.SetLenient]) relaxes the
// grammar the way hand-written documents need:
//
//   - a leading non-execute prefix ")]}'\n" is skipped
//   - several top-level values, and top-level scalars
//   - NaN, Infinity and -Infinity
//   - "//", "#" and "/* */" comments
//   - unquoted and single-quoted names and strings
//   - ";" between elements, "=" or "=>" between a name and its value
//
// Numeric reads never truncate: [Reader.NextInt32] and
// [Reader.NextInt64] fail with a [*NumberError] when the source text
// does not fit the requested width exactly, while [Reader.NextNumber]
// returns the narrowest exact Go type (int32, int64, *big.Int or
// float64).
//
// [Reader.NextValue] re-serializes the next value into compact wire
// text. The bean engine uses it to buffer properties that arrive before
// the property it is looking for and to replay them later through a
// fresh Reader.
//
// Neither type is safe for concurrent use. Each (de)serialization call
// owns its own Reader or Writer.
package stream
