// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
)

type decodeParams struct {
	cli.ConfigParams
	Hex     bool   `flag:"hex" desc:"input is hex text instead of binary"`
	Compact bool   `flag:"compact,c" desc:"write the document on one line"`
	Indent  string `flag:"indent,i" desc:"indent per nesting level" default:"  "`
}

func decodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert CBOR to a wire document",
		Description: `Read CBOR from a file or stdin and write it as a wire document.
Input wrapped in a zstd or LZ4 frame is decompressed first. Map entries
are written sorted by key and byte strings as base64 text.`,
		Usage:  "beanwire cbor decode [flags] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Decode a compressed file",
				Command:     "beanwire cbor decode order.cbor.zst",
			},
			{
				Description: "Decode hex text",
				Command:     `echo 'a1 61 61 01' | beanwire cbor decode --hex --compact`,
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			path, err := cli.OptionalFile(args)
			if err != nil {
				return err
			}
			_, options, err := params.Options(logger)
			if err != nil {
				return err
			}
			data, err := cli.ReadInput(path, os.Stdin)
			if err != nil {
				return err
			}
			if params.Hex {
				if data, err = cli.DecodeHex(data); err != nil {
					return err
				}
			}

			options.Indent = params.Indent
			if params.Compact {
				options.Indent = ""
			}
			text, err := Decode(data, options, logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, text)
			return err
		},
	}
}

// Decode unwraps any compression frame around data and converts the
// CBOR item to a wire document.
func Decode(data []byte, options mapper.Options, logger *slog.Logger) (string, error) {
	raw, compression, err := Decompress(data)
	if err != nil {
		return "", cli.Validation("%w", err)
	}
	if compression != CompressionNone {
		logger.Debug("decompressed input",
			"compression", compression,
			"compressed_bytes", len(data),
			"cbor_bytes", len(raw),
		)
	}
	text, err := codec.FromCBOR(raw, options)
	if err != nil {
		return "", cli.Validation("%w", err)
	}
	return text, nil
}
