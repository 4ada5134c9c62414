// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Beanwire is the command-line tool for wire documents. It reformats
// and validates documents, computes content digests, and transcodes
// between the wire format and CBOR.
package main
