// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dateformat formats and parses dates for the codec layer.
//
// The default representation is ISO-8601 with millisecond precision
// and an explicit zone offset ("2026-10-17T09:30:00.000Z"). Callers
// that need another textual form pass a strftime pattern ("%d/%m/%Y
// %H:%M"); patterns are converted to Go layouts once through
// github.com/ncruces/go-strftime and kept in a bounded LRU [Cache]
// owned by the [Formatter], so a long-running process that sees many
// distinct patterns does not grow without bound.
//
// A Formatter is safe for concurrent use.
package dateformat
