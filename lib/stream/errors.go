// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"fmt"
)

// Structural errors returned by [Writer] methods, and wrapped by
// [*SyntaxError] for the matching reader failures. Writer errors are
// programming errors: the caller emitted tokens in an order the scope
// stack does not allow.
var (
	// ErrNesting reports a token that is not legal at the current
	// nesting level, such as endObject inside an array.
	ErrNesting = errors.New("nesting problem")

	// ErrDanglingName reports a name without a value: a second name,
	// or a close, while a name is still pending.
	ErrDanglingName = errors.New("dangling name")

	// ErrClosed reports use of a closed reader or writer.
	ErrClosed = errors.New("stream is closed")

	// ErrIncompleteDocument reports Close on a document whose
	// top-level value is missing or still open.
	ErrIncompleteDocument = errors.New("incomplete document")

	// ErrNonFinite reports NaN or an infinity outside lenient mode.
	ErrNonFinite = errors.New("numeric values must be finite")

	// ErrTopLevel reports a second top-level value, or a top-level
	// value that is not an object or array, outside lenient mode.
	ErrTopLevel = errors.New("invalid top-level value")
)

// Reader failure kinds, wrapped by [*SyntaxError].
var (
	// ErrUnexpectedToken reports a next* call whose expected token
	// kind does not match the next token.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrMalformed reports input that is not valid wire text.
	ErrMalformed = errors.New("malformed input")

	// ErrLenientOnly reports syntax that is only accepted in lenient
	// mode.
	ErrLenientOnly = errors.New("syntax requires lenient mode")

	// ErrUnexpectedEnd reports input that ends in the middle of a
	// value.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrMaxDepth reports nesting deeper than the reader allows.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
)

// Number conversion failures, wrapped by [*NumberError].
var (
	// ErrNumberRange reports a value that does not fit the target width.
	ErrNumberRange = errors.New("value out of range")

	// ErrNumberFormat reports text that is not a number, or a number
	// that is not integral when an integer was requested.
	ErrNumberFormat = errors.New("invalid number")
)

// SyntaxError is a structural error found while reading. It carries the
// 1-based line and column and the document path ("$.items[2].name") of
// the position where reading failed.
type SyntaxError struct {
	// Message describes the problem in words.
	Message string

	// Line and Column locate the failure, both 1-based.
	Line   int
	Column int

	// Path is the location in the document tree.
	Path string

	// Err is one of the reader failure kinds, for errors.Is.
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d column %d path %s", e.Message, e.Line, e.Column, e.Path)
}

// Unwrap returns the failure kind.
func (e *SyntaxError) Unwrap() error { return e.Err }

// NumberError reports numeric text that cannot be converted to the
// requested Go type without losing information.
type NumberError struct {
	// Text is the source text of the number.
	Text string

	// Target names the requested type ("int32", "int64", "float64").
	Target string

	// Line, Column and Path locate the number in the document.
	Line   int
	Column int
	Path   string

	// Err is ErrNumberRange or ErrNumberFormat.
	Err error
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s: %v at line %d column %d path %s",
		e.Text, e.Target, e.Err, e.Line, e.Column, e.Path)
}

// Unwrap returns ErrNumberRange or ErrNumberFormat.
func (e *NumberError) Unwrap() error { return e.Err }
