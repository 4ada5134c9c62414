// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"time"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

type timeCodec struct{}

// Time is the codec of time.Time. A date pattern in the parameters
// always produces text. Without one, dates are epoch milliseconds when
// WriteDatesAsTimestamps is set and the formatter's default text
// otherwise. Both forms are accepted on read.
var Time mapper.Codec = timeCodec{}

func (timeCodec) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	date, err := expect[time.Time](value)
	if err != nil {
		return err
	}
	pattern := params.DatePattern()
	if pattern == "" && ctx.Options().WriteDatesAsTimestamps {
		return w.Int(date.UnixMilli())
	}
	text, err := ctx.DateFormat().Format(date, pattern, params.DateLocation())
	if err != nil {
		return err
	}
	return w.String(text)
}

func (timeCodec) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, params *mapper.Parameters) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch token {
	case stream.Number:
		millis, err := r.NextInt64()
		if err != nil {
			return nil, ctx.DecodeError(r, "time.Time", "", err)
		}
		return time.UnixMilli(millis).UTC(), nil
	case stream.String:
		text, err := r.NextString()
		if err != nil {
			return nil, err
		}
		date, err := ctx.DateFormat().Parse(text, params.DatePattern(), params.DateLocation())
		if err != nil {
			return nil, ctx.DecodeError(r, "time.Time", "", err)
		}
		return date, nil
	default:
		return nil, unexpected(r, ctx, "time.Time", "a date", token)
	}
}
