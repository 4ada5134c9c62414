// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bean

import (
	"errors"
	"strings"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// bufferedProperty is one property value captured ahead of use. line,
// column and path locate the value in the original input.
type bufferedProperty struct {
	name   string
	raw    string
	line   int
	column int
	path   string
}

// bufferedProperties holds properties read ahead of the point where
// they can be applied, as raw wire text in stream order.
type bufferedProperties struct {
	entries []bufferedProperty
}

// capture reads the value of the property called name from r, which
// must be positioned just after the name, and appends it.
func (b *bufferedProperties) capture(r *stream.Reader, name string) error {
	if _, err := r.Peek(); err != nil {
		return err
	}
	entry := bufferedProperty{name: name, line: r.Line(), column: r.Column(), path: r.Path()}
	raw, err := r.NextValue()
	if err != nil {
		return err
	}
	entry.raw = raw
	b.entries = append(b.entries, entry)
	return nil
}

// take removes and returns the first entry called name.
func (b *bufferedProperties) take(name string) (bufferedProperty, bool) {
	for i, entry := range b.entries {
		if entry.name == name {
			b.entries = append(b.entries[:i:i], b.entries[i+1:]...)
			return entry, true
		}
	}
	return bufferedProperty{}, false
}

func (b *bufferedProperties) len() int {
	return len(b.entries)
}

// drain returns the remaining entries in stream order and empties b.
func (b *bufferedProperties) drain() []bufferedProperty {
	entries := b.entries
	b.entries = nil
	return entries
}

// replayReader returns a reader over one buffered value. Buffered text
// was produced by the reader itself, so it is read leniently: it may
// be a top-level scalar or a non-finite number.
func replayReader(ctx *mapper.DeserializationContext, raw string) *stream.Reader {
	reader := ctx.NewReader(raw)
	reader.SetLenient(true)
	return reader
}

// decodeBuffered decodes one buffered value with valueCodec.
func decodeBuffered(ctx *mapper.DeserializationContext, entry bufferedProperty, valueCodec mapper.Codec, params *mapper.Parameters) (any, error) {
	value, err := ctx.Deserialize(replayReader(ctx, entry.raw), valueCodec, params)
	if err != nil {
		return nil, entry.relocate(err)
	}
	return value, nil
}

// relocate rewrites the position of an error raised while replaying
// entry so that it points into the original input. Positions inside
// the replayed fragment are meaningless there, so the error is placed
// at the start of the captured value and the fragment path is appended
// to the captured path.
func (entry bufferedProperty) relocate(err error) error {
	var decodeErr *mapper.DecodeError
	if errors.As(err, &decodeErr) {
		decodeErr.Line, decodeErr.Column = entry.line, entry.column
		decodeErr.Path = entry.path + strings.TrimPrefix(decodeErr.Path, "$")
		return err
	}
	var syntaxErr *stream.SyntaxError
	if errors.As(err, &syntaxErr) {
		syntaxErr.Line, syntaxErr.Column = entry.line, entry.column
		syntaxErr.Path = entry.path + strings.TrimPrefix(syntaxErr.Path, "$")
		return err
	}
	return &mapper.DecodeError{Line: entry.line, Column: entry.column, Path: entry.path, Err: err}
}
