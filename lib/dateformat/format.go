// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dateformat

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"
)

// ISOLayout is the default textual date representation.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// Formatter converts between time.Time and text. The zero pattern
// selects [ISOLayout]; any other pattern is read as strftime directives.
type Formatter struct {
	cache    *Cache
	location *time.Location
	pattern  string
}

// New returns a Formatter caching up to cacheSize compiled patterns.
// Dates are rendered in location when the caller passes none; nil
// means UTC.
func New(cacheSize int, location *time.Location) *Formatter {
	if location == nil {
		location = time.UTC
	}
	return &Formatter{cache: NewCache(cacheSize), location: location}
}

// Default returns a UTC Formatter with [DefaultCacheSize].
func Default() *Formatter {
	return New(DefaultCacheSize, time.UTC)
}

// WithPattern returns a Formatter sharing f's cache that uses pattern
// when the caller passes the zero pattern.
func (f *Formatter) WithPattern(pattern string) *Formatter {
	copied := *f
	copied.pattern = pattern
	return &copied
}

// Location returns the zone used when the caller passes none.
func (f *Formatter) Location() *time.Location {
	return f.location
}

// Format renders t according to pattern in location (the formatter's
// default zone when nil).
func (f *Formatter) Format(t time.Time, pattern string, location *time.Location) (string, error) {
	if location == nil {
		location = f.location
	}
	t = t.In(location)
	if pattern == "" {
		pattern = f.pattern
	}
	if pattern == "" {
		return t.Format(ISOLayout), nil
	}
	layout, err := f.layout(pattern)
	if err != nil {
		// Some specifiers (%j, %U, ...) have no Go layout equivalent
		// but can still be formatted.
		return strftime.Format(pattern, t), nil
	}
	return t.Format(layout), nil
}

// Parse reads text according to pattern. Text without zone
// information is interpreted in location (the formatter's default zone
// when nil). The default pattern also accepts RFC 3339 text without
// fractional seconds.
func (f *Formatter) Parse(text, pattern string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = f.location
	}
	if pattern == "" {
		pattern = f.pattern
	}
	if pattern == "" {
		parsed, err := time.ParseInLocation(ISOLayout, text, location)
		if err == nil {
			return parsed, nil
		}
		parsed, err = time.ParseInLocation(time.RFC3339Nano, text, location)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing date %q: %w", text, err)
		}
		return parsed, nil
	}
	layout, err := f.layout(pattern)
	if err != nil {
		return time.Time{}, err
	}
	parsed, err := time.ParseInLocation(layout, text, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q with pattern %q: %w", text, pattern, err)
	}
	return parsed, nil
}

func (f *Formatter) layout(pattern string) (string, error) {
	if layout, ok := f.cache.Get(pattern); ok {
		return layout, nil
	}
	layout, err := strftime.Layout(pattern)
	if err != nil {
		return "", fmt.Errorf("date pattern %q: %w", pattern, err)
	}
	f.cache.Put(pattern, layout)
	return layout, nil
}
