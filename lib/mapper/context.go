// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/hasys/mapper-xml/lib/stream"
)

// SerializationContext is the state of one serialization call.
type SerializationContext struct {
	options    Options
	ids        map[any]ObjectID
	generators map[*IdentityInfo]IDGenerator
	depth      int
}

// NewSerializationContext returns a fresh context for one call.
func NewSerializationContext(options Options) *SerializationContext {
	return &SerializationContext{
		options:    options.normalized(),
		ids:        make(map[any]ObjectID),
		generators: make(map[*IdentityInfo]IDGenerator),
	}
}

// Options returns the call's options. Callers must not modify them.
func (c *SerializationContext) Options() *Options {
	return &c.options
}

// Logger returns the call's logger.
func (c *SerializationContext) Logger() *slog.Logger {
	return c.options.Logger
}

// DateFormat returns the call's date formatter.
func (c *SerializationContext) DateFormat() DateFormat {
	return c.options.DateFormat
}

// NewWriter returns a writer configured from the call's options.
func (c *SerializationContext) NewWriter() *stream.Writer {
	writer := stream.NewWriter()
	writer.SetLenient(c.options.Lenient)
	writer.SetIndent(c.options.Indent)
	writer.SetSerializeNulls(c.options.SerializeNulls)
	return writer
}

// Serialize writes value with serializer, or a null when value is nil.
func (c *SerializationContext) Serialize(w *stream.Writer, value any, serializer Serializer, params *Parameters) error {
	if IsNil(value) {
		return w.Null()
	}
	return serializer.Serialize(w, value, c, params)
}

// ObjectID returns the id already assigned to bean in this call.
func (c *SerializationContext) ObjectID(bean any) (ObjectID, bool) {
	if !isComparable(bean) {
		return ObjectID{}, false
	}
	id, ok := c.ids[bean]
	return id, ok
}

// AddObjectID records the id assigned to bean.
func (c *SerializationContext) AddObjectID(bean any, id ObjectID) {
	if isComparable(bean) {
		c.ids[bean] = id
	}
}

// GenerateID returns the next id of info's generator. Generators are
// forked on first use so every call starts a fresh sequence.
func (c *SerializationContext) GenerateID(info *IdentityInfo) any {
	generator, ok := c.generators[info]
	if !ok {
		generator = info.Generator.Fork()
		c.generators[info] = generator
	}
	return generator.Next()
}

// Enter increments the recursion depth, failing past MaxDepth. Every
// successful Enter must be paired with Leave.
func (c *SerializationContext) Enter(typeName string) error {
	if c.depth >= c.options.MaxDepth {
		return &EncodeError{Type: typeName, Err: fmt.Errorf("%w: %d", ErrMaxDepth, c.options.MaxDepth)}
	}
	c.depth++
	return nil
}

// Leave decrements the recursion depth.
func (c *SerializationContext) Leave() {
	c.depth--
}

// EncodeError wraps err with the type and property being written.
// Errors that already carry that information pass through unchanged.
func (c *SerializationContext) EncodeError(typeName, property string, err error) error {
	var encodeErr *EncodeError
	if errors.As(err, &encodeErr) {
		if encodeErr.Property == "" && property != "" {
			encodeErr.Type = typeName
			encodeErr.Property = property
		}
		return err
	}
	return &EncodeError{Type: typeName, Property: property, Err: err}
}

// DeserializationContext is the state of one deserialization call.
type DeserializationContext struct {
	options   Options
	instances map[IDKey]any
	depth     int
}

// NewDeserializationContext returns a fresh context for one call.
func NewDeserializationContext(options Options) *DeserializationContext {
	return &DeserializationContext{
		options:   options.normalized(),
		instances: make(map[IDKey]any),
	}
}

// Options returns the call's options. Callers must not modify them.
func (c *DeserializationContext) Options() *Options {
	return &c.options
}

// Logger returns the call's logger.
func (c *DeserializationContext) Logger() *slog.Logger {
	return c.options.Logger
}

// DateFormat returns the call's date formatter.
func (c *DeserializationContext) DateFormat() DateFormat {
	return c.options.DateFormat
}

// NewReader returns a reader over input configured from the call's
// options.
func (c *DeserializationContext) NewReader(input string) *stream.Reader {
	reader := stream.NewReader(input)
	reader.SetLenient(c.options.Lenient)
	return reader
}

// Deserialize reads one value with deserializer. A null token is
// consumed and reported as nil.
func (c *DeserializationContext) Deserialize(r *stream.Reader, deserializer Deserializer, params *Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token == stream.Null {
		return nil, r.NextNull()
	}
	return deserializer.Deserialize(r, c, params)
}

// ObjectByID returns the instance registered under key.
func (c *DeserializationContext) ObjectByID(key IDKey) (any, bool) {
	if !isComparable(key.Key) {
		return nil, false
	}
	instance, ok := c.instances[key]
	return instance, ok
}

// AddObjectID registers instance under key. The id must be of a
// comparable type.
func (c *DeserializationContext) AddObjectID(key IDKey, instance any) error {
	if !isComparable(key.Key) {
		return fmt.Errorf("%w: object id of type %T is not comparable", ErrTypeMismatch, key.Key)
	}
	c.instances[key] = instance
	return nil
}

// Enter increments the recursion depth, failing past MaxDepth. Every
// successful Enter must be paired with Leave.
func (c *DeserializationContext) Enter(r *stream.Reader, typeName string) error {
	if c.depth >= c.options.MaxDepth {
		return c.DecodeError(r, typeName, "", fmt.Errorf("%w: %d", ErrMaxDepth, c.options.MaxDepth))
	}
	c.depth++
	return nil
}

// Leave decrements the recursion depth.
func (c *DeserializationContext) Leave() {
	c.depth--
}

// DecodeError wraps err with the type, property and input position.
// Errors that already carry a position pass through unchanged, except
// that a DecodeError raised by a scalar codec learns the property it
// was reading for.
func (c *DeserializationContext) DecodeError(r *stream.Reader, typeName, property string, err error) error {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		if decodeErr.Property == "" && property != "" {
			decodeErr.Type = typeName
			decodeErr.Property = property
		}
		return err
	}
	var syntaxErr *stream.SyntaxError
	if errors.As(err, &syntaxErr) {
		return err
	}
	return &DecodeError{
		Type:     typeName,
		Property: property,
		Line:     r.Line(),
		Column:   r.Column(),
		Path:     r.Path(),
		Err:      err,
	}
}

func isComparable(value any) bool {
	return value != nil && reflect.TypeOf(value).Comparable()
}
