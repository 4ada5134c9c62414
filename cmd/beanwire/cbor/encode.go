// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
)

type encodeParams struct {
	cli.ConfigParams
	Compress string `flag:"compress" desc:"frame format around the CBOR output: none, zstd, or lz4" default:"none"`
	Hex      bool   `flag:"hex" desc:"write hex text instead of binary"`
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert a wire document to CBOR",
		Description: `Read a wire document from a file or stdin and write deterministic
CBOR to stdout. With --compress the CBOR is wrapped in a zstd or LZ4
frame; "beanwire cbor decode" detects either automatically.`,
		Usage:  "beanwire cbor encode [flags] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Encode and compress with zstd",
				Command:     "beanwire cbor encode --compress zstd order.json > order.cbor.zst",
			},
			{
				Description: "Show the encoding as hex",
				Command:     `echo '{"a":1}' | beanwire cbor encode --hex`,
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			path, err := cli.OptionalFile(args)
			if err != nil {
				return err
			}
			compression, err := ParseCompression(params.Compress)
			if err != nil {
				return cli.Validation("--compress: %w", err)
			}
			_, options, err := params.Options(logger)
			if err != nil {
				return err
			}
			data, err := cli.ReadInput(path, os.Stdin)
			if err != nil {
				return err
			}

			encoded, err := Encode(string(data), compression, options)
			if err != nil {
				return err
			}
			logger.Debug("encoded document",
				"input_bytes", len(data),
				"output_bytes", len(encoded),
				"compression", compression,
			)
			return writeEncoded(os.Stdout, encoded, params.Hex)
		},
	}
}

// Encode converts a wire document to CBOR wrapped in the given frame
// format.
func Encode(text string, compression Compression, options mapper.Options) ([]byte, error) {
	data, err := codec.ToCBOR(text, options)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	compressed, err := Compress(data, compression)
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	return compressed, nil
}

func writeEncoded(w io.Writer, data []byte, asHex bool) error {
	if asHex {
		_, err := fmt.Fprintln(w, hex.EncodeToString(data))
		return err
	}
	_, err := w.Write(data)
	return err
}
