// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbor implements "beanwire cbor": transcoding between wire
// documents and CBOR with Core Deterministic Encoding (RFC 8949 §4.2).
//
// encode reads a wire document and writes CBOR, optionally compressed
// with zstd or LZ4 frames. decode detects the compression from the
// frame magic number, so compressed and plain CBOR decode the same way.
// diag prints CBOR diagnostic notation.
package cbor
