// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// DefaultMaxDepth is the nesting limit of a new [Reader]. Documents
// nested deeper fail with [ErrMaxDepth] instead of growing the scope
// stack without bound.
const DefaultMaxDepth = 512

// nonExecutePrefix is skipped at the start of a lenient document. Some
// servers prepend it to JSON responses to defeat script inclusion.
const nonExecutePrefix = ")]}'\n"

// peekKind is the lexer's classification of the next token. It is
// finer-grained than [Token]: booleans are split by value so that
// NextBoolean does not need to look at the text again.
type peekKind uint8

const (
	peekedNone peekKind = iota
	peekedBeginObject
	peekedEndObject
	peekedBeginArray
	peekedEndArray
	peekedTrue
	peekedFalse
	peekedNull
	peekedString
	peekedName
	peekedNumber
	peekedEOF
)

func (p peekKind) token() Token {
	switch p {
	case peekedBeginObject:
		return BeginObject
	case peekedEndObject:
		return EndObject
	case peekedBeginArray:
		return BeginArray
	case peekedEndArray:
		return EndArray
	case peekedTrue, peekedFalse:
		return Boolean
	case peekedNull:
		return Null
	case peekedString:
		return String
	case peekedName:
		return Name
	case peekedNumber:
		return Number
	default:
		return EndDocument
	}
}

// Reader reads a wire document one token at a time. The input is held
// in memory; Reader never performs I/O.
//
// Every next* method consumes exactly one token and fails with a
// [*SyntaxError] wrapping [ErrUnexpectedToken] when the next token is
// of a different kind. A failed call leaves the token in place, so the
// caller may retry with a different method (for example NextString
// after NextInt64 reported a non-numeric string).
type Reader struct {
	input     string
	pos       int
	line      int
	lineStart int

	lenient  bool
	maxDepth int

	peeked     peekKind
	peekedText string

	stack       []scope
	pathNames   []string
	pathIndices []int
}

// NewReader returns a strict Reader over input.
func NewReader(input string) *Reader {
	return &Reader{
		input:       input,
		maxDepth:    DefaultMaxDepth,
		stack:       []scope{emptyDocument},
		pathNames:   []string{""},
		pathIndices: []int{0},
	}
}

// SetLenient toggles lenient parsing. See the package documentation
// for the relaxations it enables.
func (r *Reader) SetLenient(lenient bool) {
	r.lenient = lenient
}

// Lenient reports whether lenient parsing is enabled.
func (r *Reader) Lenient() bool {
	return r.lenient
}

// SetMaxDepth sets the nesting limit. Values below 1 restore
// [DefaultMaxDepth].
func (r *Reader) SetMaxDepth(depth int) {
	if depth < 1 {
		depth = DefaultMaxDepth
	}
	r.maxDepth = depth
}

// Input returns the complete document text.
func (r *Reader) Input() string {
	return r.input
}

// Line returns the 1-based line of the current read position.
func (r *Reader) Line() int {
	return r.line + 1
}

// Column returns the 1-based column of the current read position.
func (r *Reader) Column() int {
	return r.pos - r.lineStart + 1
}

// Path returns the location of the current read position in the
// document tree, for example "$.owner.addresses[1]".
func (r *Reader) Path() string {
	var builder strings.Builder
	builder.WriteByte('$')
	for index, entry := range r.stack {
		switch entry {
		case emptyArray, nonemptyArray:
			builder.WriteByte('[')
			builder.WriteString(strconv.Itoa(r.pathIndices[index]))
			builder.WriteByte(']')
		case emptyObject, danglingName, nonemptyObject:
			builder.WriteByte('.')
			builder.WriteString(r.pathNames[index])
		}
	}
	return builder.String()
}

// Peek returns the kind of the next token without consuming it.
func (r *Reader) Peek() (Token, error) {
	p, err := r.peek()
	if err != nil {
		return 0, err
	}
	return p.token(), nil
}

// HasNext reports whether the current array or object has another
// element.
func (r *Reader) HasNext() (bool, error) {
	p, err := r.peek()
	if err != nil {
		return false, err
	}
	return p != peekedEndObject && p != peekedEndArray && p != peekedEOF, nil
}

// BeginArray consumes the opening bracket of an array.
func (r *Reader) BeginArray() error {
	p, err := r.peek()
	if err != nil {
		return err
	}
	if p != peekedBeginArray {
		return r.unexpected("BEGIN_ARRAY", p)
	}
	if err := r.push(emptyArray); err != nil {
		return err
	}
	r.peeked = peekedNone
	return nil
}

// EndArray consumes the closing bracket of the current array.
func (r *Reader) EndArray() error {
	p, err := r.peek()
	if err != nil {
		return err
	}
	if p != peekedEndArray {
		return r.unexpected("END_ARRAY", p)
	}
	r.pop()
	r.peeked = peekedNone
	return nil
}

// BeginObject consumes the opening brace of an object.
func (r *Reader) BeginObject() error {
	p, err := r.peek()
	if err != nil {
		return err
	}
	if p != peekedBeginObject {
		return r.unexpected("BEGIN_OBJECT", p)
	}
	if err := r.push(emptyObject); err != nil {
		return err
	}
	r.peeked = peekedNone
	return nil
}

// EndObject consumes the closing brace of the current object.
func (r *Reader) EndObject() error {
	p, err := r.peek()
	if err != nil {
		return err
	}
	if p != peekedEndObject {
		return r.unexpected("END_OBJECT", p)
	}
	r.pop()
	r.peeked = peekedNone
	return nil
}

// NextName consumes a property name.
func (r *Reader) NextName() (string, error) {
	p, err := r.peek()
	if err != nil {
		return "", err
	}
	if p != peekedName {
		return "", r.unexpected("a name", p)
	}
	name := r.peekedText
	r.pathNames[len(r.pathNames)-1] = name
	r.peeked = peekedNone
	return name, nil
}

// NextString consumes a string value. A number is returned as its
// source text.
func (r *Reader) NextString() (string, error) {
	p, err := r.peek()
	if err != nil {
		return "", err
	}
	if p != peekedString && p != peekedNumber {
		return "", r.unexpected("a string", p)
	}
	text := r.peekedText
	r.consumeValue()
	return text, nil
}

// NextBoolean consumes a true or false literal.
func (r *Reader) NextBoolean() (bool, error) {
	p, err := r.peek()
	if err != nil {
		return false, err
	}
	switch p {
	case peekedTrue:
		r.consumeValue()
		return true, nil
	case peekedFalse:
		r.consumeValue()
		return false, nil
	default:
		return false, r.unexpected("a boolean", p)
	}
}

// NextNull consumes a null literal.
func (r *Reader) NextNull() error {
	p, err := r.peek()
	if err != nil {
		return err
	}
	if p != peekedNull {
		return r.unexpected("null", p)
	}
	r.consumeValue()
	return nil
}

// NextFloat64 consumes a number, or a string holding a number, as a
// float64. Every finite number is representable (possibly rounded);
// NaN and infinities are accepted only in lenient mode.
func (r *Reader) NextFloat64() (float64, error) {
	p, err := r.peek()
	if err != nil {
		return 0, err
	}
	if p != peekedNumber && p != peekedString {
		return 0, r.unexpected("a double", p)
	}
	value, err := r.parseFloat(r.peekedText)
	if err != nil {
		return 0, err
	}
	r.consumeValue()
	return value, nil
}

// NextInt64 consumes a number, or a string holding a number, as an
// int64. It fails with a [*NumberError] when the value is not integral
// or does not fit in 64 bits.
func (r *Reader) NextInt64() (int64, error) {
	return r.nextIntegral(64, "int64")
}

// NextInt32 consumes a number, or a string holding a number, as an
// int32. It fails with a [*NumberError] when the value is not integral
// or does not fit in 32 bits.
func (r *Reader) NextInt32() (int32, error) {
	value, err := r.nextIntegral(32, "int32")
	return int32(value), err
}

// NextNumber consumes a number and returns it as the narrowest exact
// Go type: int32, then int64, then *big.Int for integral text, and
// float64 for text with a fraction or exponent.
func (r *Reader) NextNumber() (any, error) {
	p, err := r.peek()
	if err != nil {
		return nil, err
	}
	if p != peekedNumber {
		return nil, r.unexpected("a number", p)
	}
	text := r.peekedText

	if strings.ContainsAny(text, ".eEIN") {
		value, err := r.parseFloat(text)
		if err != nil {
			return nil, err
		}
		r.consumeValue()
		return value, nil
	}

	var result any
	if value, err := strconv.ParseInt(text, 10, 32); err == nil {
		result = int32(value)
	} else if value, err := strconv.ParseInt(text, 10, 64); err == nil {
		result = value
	} else if value, ok := new(big.Int).SetString(text, 10); ok {
		result = value
	} else {
		return nil, r.numberError(text, "number", ErrNumberFormat)
	}
	r.consumeValue()
	return result, nil
}

// SkipValue consumes the next value, including every nested array and
// object inside it. When the next token is a name, only the name is
// consumed.
func (r *Reader) SkipValue() error {
	count := 0
	for {
		p, err := r.peek()
		if err != nil {
			return err
		}
		switch p {
		case peekedBeginArray:
			if err := r.push(emptyArray); err != nil {
				return err
			}
			count++
		case peekedBeginObject:
			if err := r.push(emptyObject); err != nil {
				return err
			}
			count++
		case peekedEndArray, peekedEndObject:
			if count == 0 {
				return r.unexpected("a value", p)
			}
			r.stack = r.stack[:len(r.stack)-1]
			r.pathNames = r.pathNames[:len(r.pathNames)-1]
			r.pathIndices = r.pathIndices[:len(r.pathIndices)-1]
			count--
		case peekedEOF:
			return r.syntaxError(ErrUnexpectedEnd, "end of input while skipping a value")
		}
		r.peeked = peekedNone
		if count == 0 {
			break
		}
	}
	r.pathIndices[len(r.pathIndices)-1]++
	r.pathNames[len(r.pathNames)-1] = "null"
	return nil
}

// NextValue consumes the next value and returns it re-serialized as
// compact wire text. Number text is copied verbatim so that no
// precision is lost when the text is read again.
func (r *Reader) NextValue() (string, error) {
	writer := NewWriter()
	writer.SetLenient(true)
	if err := r.copyValue(writer); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	return writer.Output(), nil
}

// CopyTo consumes the next value and writes it to writer token by
// token, so the copy takes the writer's indentation.
func (r *Reader) CopyTo(writer *Writer) error {
	return r.copyValue(writer)
}

func (r *Reader) copyValue(writer *Writer) error {
	token, err := r.Peek()
	if err != nil {
		return err
	}
	switch token {
	case BeginArray:
		if err := r.BeginArray(); err != nil {
			return err
		}
		if err := writer.BeginArray(); err != nil {
			return err
		}
		for {
			more, err := r.HasNext()
			if err != nil {
				return err
			}
			if !more {
				break
			}
			if err := r.copyValue(writer); err != nil {
				return err
			}
		}
		if err := r.EndArray(); err != nil {
			return err
		}
		return writer.EndArray()

	case BeginObject:
		if err := r.BeginObject(); err != nil {
			return err
		}
		if err := writer.BeginObject(); err != nil {
			return err
		}
		for {
			more, err := r.HasNext()
			if err != nil {
				return err
			}
			if !more {
				break
			}
			name, err := r.NextName()
			if err != nil {
				return err
			}
			if err := writer.Name(name); err != nil {
				return err
			}
			if err := r.copyValue(writer); err != nil {
				return err
			}
		}
		if err := r.EndObject(); err != nil {
			return err
		}
		return writer.EndObject()

	case String:
		value, err := r.NextString()
		if err != nil {
			return err
		}
		return writer.String(value)

	case Number:
		text, err := r.NextString()
		if err != nil {
			return err
		}
		return writer.Number(text)

	case Boolean:
		value, err := r.NextBoolean()
		if err != nil {
			return err
		}
		return writer.Bool(value)

	case Null:
		if err := r.NextNull(); err != nil {
			return err
		}
		return writer.NullLiteral()

	default:
		p, _ := r.peek()
		return r.unexpected("a value", p)
	}
}

// Close releases the input. Any further call fails with [ErrClosed].
func (r *Reader) Close() {
	r.peeked = peekedNone
	r.peekedText = ""
	r.stack = []scope{closedDocument}
	r.pathNames = []string{""}
	r.pathIndices = []int{0}
}

// --- lexer ---

func (r *Reader) peek() (peekKind, error) {
	if r.peeked != peekedNone {
		return r.peeked, nil
	}
	return r.doPeek()
}

func (r *Reader) doPeek() (peekKind, error) {
	top := r.stack[len(r.stack)-1]
	switch top {
	case emptyArray:
		r.stack[len(r.stack)-1] = nonemptyArray

	case nonemptyArray:
		c, _, err := r.nextNonWhitespace(true)
		if err != nil {
			return 0, err
		}
		switch c {
		case ']':
			return r.setPeeked(peekedEndArray, "")
		case ';':
			if err := r.checkLenient("';' as an array separator"); err != nil {
				return 0, err
			}
		case ',':
		default:
			return 0, r.syntaxError(ErrMalformed, "unterminated array")
		}

	case emptyObject, nonemptyObject:
		r.stack[len(r.stack)-1] = danglingName
		if top == nonemptyObject {
			c, _, err := r.nextNonWhitespace(true)
			if err != nil {
				return 0, err
			}
			switch c {
			case '}':
				return r.setPeeked(peekedEndObject, "")
			case ';':
				if err := r.checkLenient("';' as an object separator"); err != nil {
					return 0, err
				}
			case ',':
			default:
				return 0, r.syntaxError(ErrMalformed, "unterminated object")
			}
		}
		c, _, err := r.nextNonWhitespace(true)
		if err != nil {
			return 0, err
		}
		switch c {
		case '"':
			name, err := r.readQuoted('"')
			if err != nil {
				return 0, err
			}
			return r.setPeeked(peekedName, name)
		case '\'':
			if err := r.checkLenient("single-quoted names"); err != nil {
				return 0, err
			}
			name, err := r.readQuoted('\'')
			if err != nil {
				return 0, err
			}
			return r.setPeeked(peekedName, name)
		case '}':
			if top != nonemptyObject {
				return r.setPeeked(peekedEndObject, "")
			}
			return 0, r.syntaxError(ErrMalformed, "expected name")
		default:
			if err := r.checkLenient("unquoted names"); err != nil {
				return 0, err
			}
			r.pos--
			if !isLiteral(c) {
				return 0, r.syntaxError(ErrMalformed, "expected name")
			}
			return r.setPeeked(peekedName, r.readUnquoted())
		}

	case danglingName:
		r.stack[len(r.stack)-1] = nonemptyObject
		c, _, err := r.nextNonWhitespace(true)
		if err != nil {
			return 0, err
		}
		switch c {
		case ':':
		case '=':
			if err := r.checkLenient("'=' as a name separator"); err != nil {
				return 0, err
			}
			if r.pos < len(r.input) && r.input[r.pos] == '>' {
				r.pos++
			}
		default:
			return 0, r.syntaxError(ErrMalformed, "expected ':'")
		}

	case emptyDocument:
		if r.lenient {
			r.consumeNonExecutePrefix()
		}
		r.stack[len(r.stack)-1] = nonemptyDocument

	case nonemptyDocument:
		_, ok, err := r.nextNonWhitespace(false)
		if err != nil {
			return 0, err
		}
		if !ok {
			return r.setPeeked(peekedEOF, "")
		}
		if err := r.checkLenient("multiple top-level values"); err != nil {
			return 0, err
		}
		r.pos--

	case closedDocument:
		return 0, r.syntaxError(ErrClosed, "reader is closed")
	}

	c, _, err := r.nextNonWhitespace(true)
	if err != nil {
		return 0, err
	}
	switch c {
	case ']':
		if top == emptyArray {
			return r.setPeeked(peekedEndArray, "")
		}
		fallthrough
	case ';', ',':
		if top == emptyArray || top == nonemptyArray {
			if err := r.checkLenient("missing array element"); err != nil {
				return 0, err
			}
			r.pos--
			return r.setPeeked(peekedNull, "")
		}
		return 0, r.syntaxError(ErrMalformed, "unexpected value")
	case '\'':
		if err := r.checkLenient("single-quoted strings"); err != nil {
			return 0, err
		}
		if err := r.checkTopLevelScalar(top); err != nil {
			return 0, err
		}
		value, err := r.readQuoted('\'')
		if err != nil {
			return 0, err
		}
		return r.setPeeked(peekedString, value)
	case '"':
		if err := r.checkTopLevelScalar(top); err != nil {
			return 0, err
		}
		value, err := r.readQuoted('"')
		if err != nil {
			return 0, err
		}
		return r.setPeeked(peekedString, value)
	case '[':
		return r.setPeeked(peekedBeginArray, "")
	case '{':
		return r.setPeeked(peekedBeginObject, "")
	}

	r.pos--
	if err := r.checkTopLevelScalar(top); err != nil {
		return 0, err
	}
	if keyword := r.peekKeyword(); keyword != peekedNone {
		return r.setPeeked(keyword, "")
	}
	if text, ok := r.peekNumber(); ok {
		return r.setPeeked(peekedNumber, text)
	}
	if !isLiteral(r.input[r.pos]) {
		return 0, r.syntaxError(ErrMalformed, "expected value")
	}
	if err := r.checkLenient("unquoted strings"); err != nil {
		return 0, err
	}
	text := r.readUnquoted()
	switch text {
	case "NaN", "Infinity", "-Infinity":
		return r.setPeeked(peekedNumber, text)
	}
	return r.setPeeked(peekedString, text)
}

func (r *Reader) setPeeked(kind peekKind, text string) (peekKind, error) {
	r.peeked = kind
	r.peekedText = text
	return kind, nil
}

// checkTopLevelScalar rejects a scalar top-level value in strict mode.
func (r *Reader) checkTopLevelScalar(top scope) error {
	if top == emptyDocument && !r.lenient {
		return r.syntaxError(ErrLenientOnly, "a top-level value must be an object or an array")
	}
	return nil
}

func (r *Reader) checkLenient(what string) error {
	if r.lenient {
		return nil
	}
	return r.syntaxError(ErrLenientOnly, "use lenient mode to accept "+what)
}

// nextNonWhitespace returns the next byte that is neither whitespace
// nor part of a comment, and advances past it. At the end of input it
// fails when required is true and returns ok=false otherwise.
func (r *Reader) nextNonWhitespace(required bool) (byte, bool, error) {
	for r.pos < len(r.input) {
		c := r.input[r.pos]
		r.pos++
		switch c {
		case '\n':
			r.line++
			r.lineStart = r.pos
			continue
		case ' ', '\r', '\t':
			continue
		case '/':
			if r.pos == len(r.input) {
				return c, true, nil
			}
			switch r.input[r.pos] {
			case '*':
				if err := r.checkLenient("comments"); err != nil {
					return 0, false, err
				}
				end := strings.Index(r.input[r.pos+1:], "*/")
				if end < 0 {
					return 0, false, r.syntaxError(ErrUnexpectedEnd, "unterminated comment")
				}
				r.advanceTo(r.pos + 1 + end + 2)
				continue
			case '/':
				if err := r.checkLenient("comments"); err != nil {
					return 0, false, err
				}
				r.pos++
				r.skipToEndOfLine()
				continue
			default:
				return c, true, nil
			}
		case '#':
			if err := r.checkLenient("comments"); err != nil {
				return 0, false, err
			}
			r.skipToEndOfLine()
			continue
		default:
			return c, true, nil
		}
	}
	if required {
		return 0, false, r.syntaxError(ErrUnexpectedEnd, "end of input")
	}
	return 0, false, nil
}

// advanceTo moves the read position forward to end, keeping the line
// counters in step with any newlines skipped over.
func (r *Reader) advanceTo(end int) {
	for ; r.pos < end; r.pos++ {
		if r.input[r.pos] == '\n' {
			r.line++
			r.lineStart = r.pos + 1
		}
	}
}

func (r *Reader) skipToEndOfLine() {
	for r.pos < len(r.input) {
		c := r.input[r.pos]
		r.pos++
		if c == '\n' {
			r.line++
			r.lineStart = r.pos
			return
		}
		if c == '\r' {
			return
		}
	}
}

func (r *Reader) consumeNonExecutePrefix() {
	start := r.pos
	if _, ok, err := r.nextNonWhitespace(false); err != nil || !ok {
		r.pos = start
		return
	}
	r.pos--
	if strings.HasPrefix(r.input[r.pos:], nonExecutePrefix) {
		r.advanceTo(r.pos + len(nonExecutePrefix))
	}
}

// readQuoted reads a string whose opening quote has been consumed,
// through its closing quote, decoding escape sequences.
func (r *Reader) readQuoted(quote byte) (string, error) {
	var builder strings.Builder
	escaped := false
	start := r.pos
	for r.pos < len(r.input) {
		c := r.input[r.pos]
		r.pos++
		switch c {
		case quote:
			if !escaped {
				return r.input[start : r.pos-1], nil
			}
			builder.WriteString(r.input[start : r.pos-1])
			return builder.String(), nil
		case '\\':
			escaped = true
			builder.WriteString(r.input[start : r.pos-1])
			if err := r.readEscape(&builder); err != nil {
				return "", err
			}
			start = r.pos
		case '\n':
			r.line++
			r.lineStart = r.pos
		}
	}
	return "", r.syntaxError(ErrUnexpectedEnd, "unterminated string")
}

func (r *Reader) readEscape(builder *strings.Builder) error {
	if r.pos == len(r.input) {
		return r.syntaxError(ErrUnexpectedEnd, "unterminated escape sequence")
	}
	c := r.input[r.pos]
	r.pos++
	switch c {
	case 'u':
		first, err := r.readHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(first) && strings.HasPrefix(r.input[r.pos:], `\u`) {
			save := r.pos
			r.pos += 2
			second, err := r.readHex4()
			if err == nil {
				if combined := utf16.DecodeRune(first, second); combined != unicode.ReplacementChar {
					builder.WriteRune(combined)
					return nil
				}
			}
			r.pos = save
		}
		builder.WriteRune(first)
	case 't':
		builder.WriteByte('\t')
	case 'b':
		builder.WriteByte('\b')
	case 'n':
		builder.WriteByte('\n')
	case 'r':
		builder.WriteByte('\r')
	case 'f':
		builder.WriteByte('\f')
	case '\n':
		r.line++
		r.lineStart = r.pos
		builder.WriteByte('\n')
	case '\'', '"', '\\', '/':
		builder.WriteByte(c)
	default:
		return r.syntaxError(ErrMalformed, fmt.Sprintf("invalid escape sequence \\%c", c))
	}
	return nil
}

func (r *Reader) readHex4() (rune, error) {
	if r.pos+4 > len(r.input) {
		return 0, r.syntaxError(ErrUnexpectedEnd, "unterminated unicode escape")
	}
	value, err := strconv.ParseUint(r.input[r.pos:r.pos+4], 16, 32)
	if err != nil {
		return 0, r.syntaxError(ErrMalformed, "malformed unicode escape \\u"+r.input[r.pos:r.pos+4])
	}
	r.pos += 4
	return rune(value), nil
}

func (r *Reader) readUnquoted() string {
	start := r.pos
	for r.pos < len(r.input) && isLiteral(r.input[r.pos]) {
		r.pos++
	}
	return r.input[start:r.pos]
}

// peekKeyword consumes true, false or null when the input continues
// with one of them followed by a delimiter.
func (r *Reader) peekKeyword() peekKind {
	for _, keyword := range []struct {
		text string
		kind peekKind
	}{
		{"true", peekedTrue},
		{"false", peekedFalse},
		{"null", peekedNull},
	} {
		if !strings.HasPrefix(r.input[r.pos:], keyword.text) {
			continue
		}
		end := r.pos + len(keyword.text)
		if end < len(r.input) && isLiteral(r.input[end]) {
			return peekedNone
		}
		r.pos = end
		return keyword.kind
	}
	return peekedNone
}

// peekNumber consumes a number that matches the strict grammar
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)? and is followed by a
// delimiter.
func (r *Reader) peekNumber() (string, bool) {
	input := r.input
	i := r.pos
	if i < len(input) && input[i] == '-' {
		i++
	}
	if i >= len(input) {
		return "", false
	}
	switch {
	case input[i] == '0':
		i++
	case input[i] >= '1' && input[i] <= '9':
		for i < len(input) && isDigit(input[i]) {
			i++
		}
	default:
		return "", false
	}
	if i < len(input) && input[i] == '.' {
		i++
		digits := i
		for i < len(input) && isDigit(input[i]) {
			i++
		}
		if i == digits {
			return "", false
		}
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		i++
		if i < len(input) && (input[i] == '+' || input[i] == '-') {
			i++
		}
		digits := i
		for i < len(input) && isDigit(input[i]) {
			i++
		}
		if i == digits {
			return "", false
		}
	}
	if i < len(input) && isLiteral(input[i]) {
		return "", false
	}
	text := input[r.pos:i]
	r.pos = i
	return text, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isLiteral reports whether c may appear in an unquoted name, string
// or keyword.
func isLiteral(c byte) bool {
	switch c {
	case '/', '\\', ';', '#', '=', '{', '}', '[', ']', ':', ',', ' ', '\t', '\f', '\r', '\n':
		return false
	}
	return true
}

// --- scope and path bookkeeping ---

func (r *Reader) push(entry scope) error {
	if len(r.stack) > r.maxDepth {
		return r.syntaxError(ErrMaxDepth, fmt.Sprintf("nesting deeper than %d", r.maxDepth))
	}
	r.stack = append(r.stack, entry)
	r.pathNames = append(r.pathNames, "")
	r.pathIndices = append(r.pathIndices, 0)
	return nil
}

func (r *Reader) pop() {
	r.stack = r.stack[:len(r.stack)-1]
	r.pathNames = r.pathNames[:len(r.pathNames)-1]
	r.pathIndices = r.pathIndices[:len(r.pathIndices)-1]
	r.pathIndices[len(r.pathIndices)-1]++
}

func (r *Reader) consumeValue() {
	r.peeked = peekedNone
	r.peekedText = ""
	r.pathIndices[len(r.pathIndices)-1]++
}

// --- numbers ---

func (r *Reader) parseFloat(text string) (float64, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, r.numberError(text, "float64", ErrNumberFormat)
	}
	if !r.lenient && (math.IsNaN(value) || math.IsInf(value, 0)) {
		return 0, r.syntaxError(ErrLenientOnly, "use lenient mode to accept non-finite number "+text)
	}
	return value, nil
}

func (r *Reader) nextIntegral(bits int, target string) (int64, error) {
	p, err := r.peek()
	if err != nil {
		return 0, err
	}
	if p != peekedNumber && p != peekedString {
		return 0, r.unexpected("an "+target, p)
	}
	text := r.peekedText
	value, err := parseIntegral(text, bits)
	if err != nil {
		return 0, r.numberError(text, target, err)
	}
	r.consumeValue()
	return value, nil
}

// parseIntegral converts text to a signed integer of the given width.
// Decimal or exponent forms are accepted only when they denote an
// integral value exactly.
func parseIntegral(text string, bits int) (int64, error) {
	value, err := strconv.ParseInt(text, 10, bits)
	if err == nil {
		return value, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrNumberRange
	}
	float, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrNumberRange
		}
		return 0, ErrNumberFormat
	}
	if math.IsNaN(float) || math.IsInf(float, 0) || float != math.Trunc(float) {
		return 0, ErrNumberFormat
	}
	limit := math.Ldexp(1, bits-1)
	if float < -limit || float >= limit {
		return 0, ErrNumberRange
	}
	return int64(float), nil
}

// --- errors ---

func (r *Reader) syntaxError(kind error, message string) *SyntaxError {
	return &SyntaxError{
		Message: message,
		Line:    r.Line(),
		Column:  r.Column(),
		Path:    r.Path(),
		Err:     kind,
	}
}

func (r *Reader) unexpected(expected string, p peekKind) *SyntaxError {
	return r.syntaxError(ErrUnexpectedToken, fmt.Sprintf("expected %s but was %s", expected, p.token()))
}

func (r *Reader) numberError(text, target string, kind error) *NumberError {
	return &NumberError{
		Text:   text,
		Target: target,
		Line:   r.Line(),
		Column: r.Column(),
		Path:   r.Path(),
		Err:    kind,
	}
}
