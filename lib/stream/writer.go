// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Writer produces a wire document one token at a time into an
// in-memory buffer.
//
// Names are deferred: Name records the name and the name is written
// only when the value that follows it is written. This lets a caller
// withdraw a name with CancelName (for example after deciding an empty
// collection should be omitted) and lets Null elide both the name and
// the value when null serialization is disabled.
type Writer struct {
	out   strings.Builder
	stack []scope

	indent    string
	separator string

	lenient        bool
	serializeNulls bool

	deferredName      string
	deferredUnescaped bool
	hasDeferredName   bool
}

// NewWriter returns a strict, compact Writer that serializes nulls.
func NewWriter() *Writer {
	return &Writer{
		stack:          []scope{emptyDocument},
		separator:      ":",
		serializeNulls: true,
	}
}

// SetIndent sets the string repeated once per nesting level at the
// start of each line. An empty indent produces compact output.
func (w *Writer) SetIndent(indent string) {
	w.indent = indent
	if indent == "" {
		w.separator = ":"
	} else {
		w.separator = ": "
	}
}

// SetLenient toggles lenient writing, which permits several top-level
// values, scalar top-level values and non-finite numbers.
func (w *Writer) SetLenient(lenient bool) {
	w.lenient = lenient
}

// Lenient reports whether lenient writing is enabled.
func (w *Writer) Lenient() bool {
	return w.lenient
}

// SetSerializeNulls controls whether Null writes a null for a named
// property. When disabled, Null after Name drops both.
func (w *Writer) SetSerializeNulls(serializeNulls bool) {
	w.serializeNulls = serializeNulls
}

// SerializeNulls reports the null policy set by SetSerializeNulls.
func (w *Writer) SerializeNulls() bool {
	return w.serializeNulls
}

// Output returns the text written so far.
func (w *Writer) Output() string {
	return w.out.String()
}

// BeginArray opens a new array.
func (w *Writer) BeginArray() error {
	if err := w.writeDeferredName(); err != nil {
		return err
	}
	return w.open(emptyArray, '[')
}

// EndArray closes the current array.
func (w *Writer) EndArray() error {
	return w.close(emptyArray, nonemptyArray, ']')
}

// BeginObject opens a new object.
func (w *Writer) BeginObject() error {
	if err := w.writeDeferredName(); err != nil {
		return err
	}
	return w.open(emptyObject, '{')
}

// EndObject closes the current object.
func (w *Writer) EndObject() error {
	return w.close(emptyObject, nonemptyObject, '}')
}

// Name records the name of the next property of the current object.
func (w *Writer) Name(name string) error {
	return w.name(name, false)
}

// UnescapedName is like Name, but writes name verbatim. The caller
// guarantees that name needs no escaping.
func (w *Writer) UnescapedName(name string) error {
	return w.name(name, true)
}

func (w *Writer) name(name string, unescaped bool) error {
	if w.hasDeferredName {
		return fmt.Errorf("%w: name %q follows pending name %q", ErrDanglingName, name, w.deferredName)
	}
	top, err := w.peek()
	if err != nil {
		return err
	}
	if top != emptyObject && top != nonemptyObject {
		return fmt.Errorf("%w: name %q outside of an object", ErrNesting, name)
	}
	w.deferredName = name
	w.deferredUnescaped = unescaped
	w.hasDeferredName = true
	return nil
}

// CancelName withdraws the pending name, if any. Nothing for it has
// been written yet.
func (w *Writer) CancelName() {
	w.hasDeferredName = false
	w.deferredName = ""
}

// String writes a string value, escaping it as needed.
func (w *Writer) String(value string) error {
	if err := w.beforeScalar(); err != nil {
		return err
	}
	writeQuoted(&w.out, value)
	return nil
}

// UnescapedString writes value between quotes without escaping. The
// caller guarantees that value needs no escaping.
func (w *Writer) UnescapedString(value string) error {
	if err := w.beforeScalar(); err != nil {
		return err
	}
	w.out.WriteByte('"')
	w.out.WriteString(value)
	w.out.WriteByte('"')
	return nil
}

// Bool writes true or false.
func (w *Writer) Bool(value bool) error {
	if err := w.beforeScalar(); err != nil {
		return err
	}
	w.out.WriteString(strconv.FormatBool(value))
	return nil
}

// Int writes a signed integer.
func (w *Writer) Int(value int64) error {
	if err := w.beforeScalar(); err != nil {
		return err
	}
	w.out.WriteString(strconv.FormatInt(value, 10))
	return nil
}

// Uint writes an unsigned integer.
func (w *Writer) Uint(value uint64) error {
	if err := w.beforeScalar(); err != nil {
		return err
	}
	w.out.WriteString(strconv.FormatUint(value, 10))
	return nil
}

// Float writes a float64 in the shortest form that reads back to the
// same value. NaN and infinities fail with [ErrNonFinite] unless the
// writer is lenient, in which case they are written as NaN, Infinity
// and -Infinity.
func (w *Writer) Float(value float64) error {
	return w.float(value, 64)
}

// Float32 is Float for values that originate as float32, formatted
// with float32 precision.
func (w *Writer) Float32(value float32) error {
	return w.float(float64(value), 32)
}

func (w *Writer) float(value float64, bits int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		if !w.lenient {
			return fmt.Errorf("%w: %v", ErrNonFinite, value)
		}
		if err := w.beforeScalar(); err != nil {
			return err
		}
		switch {
		case math.IsNaN(value):
			w.out.WriteString("NaN")
		case value > 0:
			w.out.WriteString("Infinity")
		default:
			w.out.WriteString("-Infinity")
		}
		return nil
	}
	if err := w.beforeScalar(); err != nil {
		return err
	}
	w.out.Write(appendFloat(nil, value, bits))
	return nil
}

// Number writes number text verbatim, for example text obtained from
// [Reader.NextString] on a number token. Empty text writes null.
func (w *Writer) Number(text string) error {
	if text == "" {
		return w.Null()
	}
	if !w.lenient {
		switch text {
		case "NaN", "Infinity", "-Infinity":
			return fmt.Errorf("%w: %s", ErrNonFinite, text)
		}
	}
	if err := w.beforeScalar(); err != nil {
		return err
	}
	w.out.WriteString(text)
	return nil
}

// Raw writes text verbatim as one value. The caller guarantees that
// text is a single well-formed value.
func (w *Writer) Raw(text string) error {
	if err := w.writeDeferredName(); err != nil {
		return err
	}
	trimmed := strings.TrimLeft(text, " \t\r\n")
	root := strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
	if err := w.beforeValue(root); err != nil {
		return err
	}
	w.out.WriteString(text)
	return nil
}

// Null writes a null value. When null serialization is disabled and a
// name is pending, the name is dropped and nothing is written. Array
// elements and top-level values are always written.
func (w *Writer) Null() error {
	if w.hasDeferredName && !w.serializeNulls {
		w.CancelName()
		return nil
	}
	return w.NullLiteral()
}

// NullLiteral writes a null value regardless of the null policy.
func (w *Writer) NullLiteral() error {
	if err := w.beforeScalar(); err != nil {
		return err
	}
	w.out.WriteString("null")
	return nil
}

// Flush reports whether the writer is still usable. Output is buffered
// in memory, so there is nothing to push.
func (w *Writer) Flush() error {
	_, err := w.peek()
	return err
}

// Close checks that the document is complete and closes the writer.
// Closing a closed writer is a no-op.
func (w *Writer) Close() error {
	if len(w.stack) == 1 && w.stack[0] == closedDocument {
		return nil
	}
	if len(w.stack) > 1 || w.stack[0] != nonemptyDocument || w.hasDeferredName {
		return ErrIncompleteDocument
	}
	w.stack[0] = closedDocument
	return nil
}

// --- internals ---

func (w *Writer) peek() (scope, error) {
	top := w.stack[len(w.stack)-1]
	if top == closedDocument {
		return top, ErrClosed
	}
	return top, nil
}

func (w *Writer) replaceTop(entry scope) {
	w.stack[len(w.stack)-1] = entry
}

func (w *Writer) open(empty scope, bracket byte) error {
	if err := w.beforeValue(true); err != nil {
		return err
	}
	w.stack = append(w.stack, empty)
	w.out.WriteByte(bracket)
	return nil
}

func (w *Writer) close(empty, nonempty scope, bracket byte) error {
	top, err := w.peek()
	if err != nil {
		return err
	}
	if top != empty && top != nonempty {
		return fmt.Errorf("%w: unexpected %q", ErrNesting, bracket)
	}
	if w.hasDeferredName {
		return fmt.Errorf("%w: %q", ErrDanglingName, w.deferredName)
	}
	w.stack = w.stack[:len(w.stack)-1]
	if top == nonempty {
		w.newline()
	}
	w.out.WriteByte(bracket)
	return nil
}

func (w *Writer) beforeScalar() error {
	if err := w.writeDeferredName(); err != nil {
		return err
	}
	return w.beforeValue(false)
}

func (w *Writer) writeDeferredName() error {
	if !w.hasDeferredName {
		return nil
	}
	top, err := w.peek()
	if err != nil {
		return err
	}
	switch top {
	case nonemptyObject:
		w.out.WriteByte(',')
	case emptyObject:
	default:
		return fmt.Errorf("%w: name %q outside of an object", ErrNesting, w.deferredName)
	}
	w.newline()
	w.replaceTop(danglingName)
	if w.deferredUnescaped {
		w.out.WriteByte('"')
		w.out.WriteString(w.deferredName)
		w.out.WriteByte('"')
	} else {
		writeQuoted(&w.out, w.deferredName)
	}
	w.CancelName()
	return nil
}

// beforeValue inserts the separators and indentation that precede a
// value and advances the enclosing scope. root is true for arrays and
// objects, which may stand at the top level of a strict document.
func (w *Writer) beforeValue(root bool) error {
	top, err := w.peek()
	if err != nil {
		return err
	}
	switch top {
	case nonemptyDocument:
		if !w.lenient {
			return fmt.Errorf("%w: a document must have only one top-level value", ErrTopLevel)
		}
		fallthrough
	case emptyDocument:
		if !w.lenient && !root {
			return fmt.Errorf("%w: a document must start with an array or an object", ErrTopLevel)
		}
		w.replaceTop(nonemptyDocument)
	case emptyArray:
		w.replaceTop(nonemptyArray)
		w.newline()
	case nonemptyArray:
		w.out.WriteByte(',')
		w.newline()
	case danglingName:
		w.out.WriteString(w.separator)
		w.replaceTop(nonemptyObject)
	default:
		return fmt.Errorf("%w: value without a name inside an object", ErrNesting)
	}
	return nil
}

func (w *Writer) newline() {
	if w.indent == "" {
		return
	}
	w.out.WriteByte('\n')
	for range len(w.stack) - 1 {
		w.out.WriteString(w.indent)
	}
}

// writeQuoted writes value as a quoted string. Quotes, backslashes and
// control characters are escaped, as are U+2028 and U+2029, which are
// line terminators in some consumers.
func writeQuoted(out *strings.Builder, value string) {
	const hex = "0123456789abcdef"
	out.WriteByte('"')
	start := 0
	for i := 0; i < len(value); {
		c := value[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			out.WriteString(value[start:i])
			switch c {
			case '"', '\\':
				out.WriteByte('\\')
				out.WriteByte(c)
			case '\b':
				out.WriteString(`\b`)
			case '\f':
				out.WriteString(`\f`)
			case '\n':
				out.WriteString(`\n`)
			case '\r':
				out.WriteString(`\r`)
			case '\t':
				out.WriteString(`\t`)
			default:
				out.WriteString(`\u00`)
				out.WriteByte(hex[c>>4])
				out.WriteByte(hex[c&0xf])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(value[i:])
		if r == '\u2028' || r == '\u2029' {
			out.WriteString(value[start:i])
			out.WriteString(`\u202`)
			out.WriteByte(hex[r&0xf])
			i += size
			start = i
			continue
		}
		i += size
	}
	out.WriteString(value[start:])
	out.WriteByte('"')
}

// appendFloat formats value the way encoding/json does: plain decimal
// notation for moderate magnitudes and exponent notation outside
// [1e-6, 1e21).
func appendFloat(buffer []byte, value float64, bits int) []byte {
	format := byte('f')
	if abs := math.Abs(value); abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	buffer = strconv.AppendFloat(buffer, value, format, -1, bits)
	if format == 'e' {
		// Shorten e-09 to e-9.
		n := len(buffer)
		if n >= 4 && buffer[n-4] == 'e' && buffer[n-3] == '-' && buffer[n-2] == '0' {
			buffer[n-2] = buffer[n-1]
			buffer = buffer[:n-1]
		}
	}
	return buffer
}
