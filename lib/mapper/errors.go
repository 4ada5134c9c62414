// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by [*DecodeError] and [*EncodeError].
var (
	ErrMissingRequired      = errors.New("missing required properties")
	ErrUnknownObjectID      = errors.New("cannot find object with id")
	ErrUnknownType          = errors.New("no deserializer found for type")
	ErrMissingTypeProperty  = errors.New("missing type information")
	ErrUnknownProperty      = errors.New("unknown property")
	ErrCannotInstantiate    = errors.New("cannot instantiate")
	ErrUnknownBackReference = errors.New("unknown back reference")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrMaxDepth             = errors.New("maximum nesting depth exceeded")
	ErrTrailingData         = errors.New("trailing data after value")
)

// DecodeError is a semantic failure while reading a value.
type DecodeError struct {
	// Type is the Go type being built, when known.
	Type string
	// Property is the wire name being read, when known.
	Property string
	Line     int
	Column   int
	Path     string
	Err      error
}

func (e *DecodeError) Error() string {
	var builder strings.Builder
	builder.WriteString("decoding")
	if e.Type != "" {
		builder.WriteString(" ")
		builder.WriteString(e.Type)
	}
	if e.Property != "" {
		fmt.Fprintf(&builder, " property %q", e.Property)
	}
	fmt.Fprintf(&builder, " at line %d column %d", e.Line, e.Column)
	if e.Path != "" {
		builder.WriteString(" path ")
		builder.WriteString(e.Path)
	}
	builder.WriteString(": ")
	builder.WriteString(e.Err.Error())
	return builder.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError is a failure while writing a value.
type EncodeError struct {
	Type     string
	Property string
	Err      error
}

func (e *EncodeError) Error() string {
	var builder strings.Builder
	builder.WriteString("encoding")
	if e.Type != "" {
		builder.WriteString(" ")
		builder.WriteString(e.Type)
	}
	if e.Property != "" {
		fmt.Fprintf(&builder, " property %q", e.Property)
	}
	builder.WriteString(": ")
	builder.WriteString(e.Err.Error())
	return builder.String()
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
