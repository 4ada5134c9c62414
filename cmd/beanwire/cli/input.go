// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"unicode"
)

// OptionalFile returns the single optional file argument of a command,
// or "" when args is empty.
func OptionalFile(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	default:
		return "", Validation("expected at most one file argument, got %d", len(args))
	}
}

// ReadInput returns the contents of the named file, or of stdin when
// path is "" or "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, Internal("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NotFound("%s does not exist", path)
	}
	if err != nil {
		return nil, Internal("read %s: %w", path, err)
	}
	return data, nil
}

// DecodeHex strips whitespace from hex-encoded input and decodes it.
// Whitespace between digit pairs is allowed ("a1 63 6b" or "a1636b").
func DecodeHex(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, Validation("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, Validation("decode hex: %w", err)
	}
	return decoded[:count], nil
}
