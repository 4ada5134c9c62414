// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"github.com/google/uuid"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

type uuidCodec struct{}

// UUID is the codec of uuid.UUID, written in canonical hyphenated
// form.
var UUID mapper.Codec = uuidCodec{}

func (uuidCodec) Serialize(w *stream.Writer, value any, _ *mapper.SerializationContext, _ *mapper.Parameters) error {
	id, err := expect[uuid.UUID](value)
	if err != nil {
		return err
	}
	return w.UnescapedString(id.String())
}

func (uuidCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, _ *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.String {
		return nil, unexpected(r, ctx, "uuid.UUID", "a string", token)
	}
	text, err := r.NextString()
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(text)
	if err != nil {
		return nil, ctx.DecodeError(r, "uuid.UUID", "", err)
	}
	return id, nil
}
