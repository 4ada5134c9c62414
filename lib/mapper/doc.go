// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mapper holds the contracts shared by every codec and the
// per-call state that flows through a serialization or
// deserialization.
//
// A [Serializer] turns one Go value into tokens on a
// [stream.Writer]; a [Deserializer] reads one value from a
// [stream.Reader]. Codecs are stateless and may be shared between
// goroutines. Everything that changes during a call lives in the
// call's context:
//
//   - [SerializationContext]: options, logger, the identity table
//     mapping already-written beans to their ids, per-call id
//     generators and the depth guard.
//   - [DeserializationContext]: options, logger, the identity table
//     mapping [IDKey] to already-built instances and the depth guard.
//
// A context is created per top-level call by [Write], [Read] or an
// [ObjectMapper] and must not be shared between calls or goroutines.
//
// Codec implementations never see nulls: [SerializationContext.Serialize]
// writes a null for nil values and [DeserializationContext.Deserialize]
// consumes a null token and returns nil before delegating.
//
// Failures are reported as [*DecodeError] and [*EncodeError], which
// wrap one of the sentinel errors declared in this package or a
// [*stream.NumberError]. Structural problems in the input surface as
// [*stream.SyntaxError] unchanged.
package mapper
