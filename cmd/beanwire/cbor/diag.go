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
)

type diagParams struct {
	Hex bool `flag:"hex" desc:"input is hex text instead of binary"`
}

func diagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Print CBOR diagnostic notation",
		Description: `Read CBOR from a file or stdin and print RFC 8949 diagnostic
notation, which shows major types and byte strings that a wire
document cannot. Compressed input is unwrapped first.`,
		Usage:  "beanwire cbor diag [flags] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Inspect an encoded document",
				Command:     "beanwire cbor encode order.json | beanwire cbor diag",
			},
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			path, err := cli.OptionalFile(args)
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
			notation, err := Diag(data)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, notation)
			return err
		},
	}
}

// Diag returns the diagnostic notation of data after unwrapping any
// compression frame.
func Diag(data []byte) (string, error) {
	raw, _, err := Decompress(data)
	if err != nil {
		return "", cli.Validation("%w", err)
	}
	notation, err := codec.Diagnose(raw)
	if err != nil {
		return "", cli.Validation("diagnose: %w", err)
	}
	return notation, nil
}
