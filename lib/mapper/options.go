// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"log/slog"
	"time"

	"github.com/hasys/mapper-xml/lib/dateformat"
)

// DefaultMaxDepth bounds bean recursion in a single call.
const DefaultMaxDepth = 1000

// DateFormat formats and parses dates. An empty pattern selects the
// implementation's default representation; a nil location selects its
// default zone.
type DateFormat interface {
	Format(t time.Time, pattern string, location *time.Location) (string, error)
	Parse(text, pattern string, location *time.Location) (time.Time, error)
}

// Options configure one call. Start from [DefaultOptions] and override
// fields; the zero value disables most output.
type Options struct {
	// Lenient enables lenient reading and writing (see package stream).
	Lenient bool
	// MaxDepth bounds bean recursion. Zero means DefaultMaxDepth.
	MaxDepth int
	// Indent pretty-prints output when non-empty.
	Indent string

	// SerializeNulls writes null properties; otherwise they are elided
	// together with their names.
	SerializeNulls bool
	// WriteNullMapValues writes map entries whose value is nil.
	WriteNullMapValues bool
	// WriteEmptyArrays writes empty slices as []; otherwise as null.
	WriteEmptyArrays bool
	// WriteSingleElementArraysUnwrapped writes a one-element slice as
	// its element.
	WriteSingleElementArraysUnwrapped bool
	// WriteDatesAsTimestamps writes dates as epoch milliseconds.
	WriteDatesAsTimestamps bool
	// WriteDateKeysAsTimestamps writes date map keys as epoch
	// milliseconds.
	WriteDateKeysAsTimestamps bool

	// FailOnUnknownProperties rejects properties no descriptor knows.
	FailOnUnknownProperties bool
	// AcceptSingleValueAsArray reads a bare value where an array is
	// expected as a one-element array.
	AcceptSingleValueAsArray bool
	// ReadUnknownEnumsAsNull reads unknown enum names as nil instead of
	// failing.
	ReadUnknownEnumsAsNull bool

	// DateFormat renders and parses dates. nil means
	// dateformat.Default().
	DateFormat DateFormat
	// Logger receives degraded-path diagnostics. nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when the caller has no
// preference: lenient, nulls and empty arrays written, unknown
// properties rejected.
func DefaultOptions() Options {
	return Options{
		Lenient:                 true,
		MaxDepth:                DefaultMaxDepth,
		SerializeNulls:          true,
		WriteNullMapValues:      true,
		WriteEmptyArrays:        true,
		WriteDatesAsTimestamps:  false,
		FailOnUnknownProperties: true,
		DateFormat:              dateformat.Default(),
	}
}

func (o Options) normalized() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.DateFormat == nil {
		o.DateFormat = dateformat.Default()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
