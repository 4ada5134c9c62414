// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import "fmt"

// Token identifies the kind of the next element in a document.
type Token uint8

const (
	// BeginArray is the opening "[" of an array.
	BeginArray Token = iota + 1
	// EndArray is the closing "]" of an array.
	EndArray
	// BeginObject is the opening "{" of an object.
	BeginObject
	// EndObject is the closing "}" of an object.
	EndObject
	// Name is a property name inside an object.
	Name
	// String is a string value.
	String
	// Number is a numeric value.
	Number
	// Boolean is true or false.
	Boolean
	// Null is the null literal.
	Null
	// EndDocument signals that no more tokens remain.
	EndDocument
)

// String returns the upper-case name of the token kind, as used in
// error messages.
func (t Token) String() string {
	switch t {
	case BeginArray:
		return "BEGIN_ARRAY"
	case EndArray:
		return "END_ARRAY"
	case BeginObject:
		return "BEGIN_OBJECT"
	case EndObject:
		return "END_OBJECT"
	case Name:
		return "NAME"
	case String:
		return "STRING"
	case Number:
		return "NUMBER"
	case Boolean:
		return "BOOLEAN"
	case Null:
		return "NULL"
	case EndDocument:
		return "END_DOCUMENT"
	default:
		return fmt.Sprintf("Token(%d)", uint8(t))
	}
}

// scope is one entry of the reader and writer nesting stack. The top of
// the stack decides which tokens may come next.
type scope uint8

const (
	// emptyDocument: nothing has been read or written yet.
	emptyDocument scope = iota
	// nonemptyDocument: the top-level value is complete.
	nonemptyDocument
	// emptyArray: inside an array with no elements yet.
	emptyArray
	// nonemptyArray: inside an array after at least one element.
	nonemptyArray
	// emptyObject: inside an object with no members yet.
	emptyObject
	// nonemptyObject: inside an object after at least one member.
	nonemptyObject
	// danglingName: a name has been read or written, its value has not.
	danglingName
	// closedDocument: the reader was closed.
	closedDocument
)
