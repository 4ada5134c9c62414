// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/zeebo/blake3"

	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
	"github.com/hasys/mapper-xml/lib/batch"
	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
)

type digestParams struct {
	cli.ConfigParams
	Canonical bool `flag:"canonical" desc:"print the canonical encoding instead of its digest"`
}

// DigestCommand returns the "digest" command.
func DigestCommand() *cli.Command {
	var params digestParams

	return &cli.Command{
		Name:    "digest",
		Summary: "Hash the canonical encoding of documents",
		Description: `Read one or more wire documents, re-encode each in canonical form, and
print the BLAKE3-256 digest of the canonical text followed by the file
name.

The canonical form is compact, writes object properties sorted by name,
and writes numbers in their shortest exact form. Two documents that differ
only in whitespace, property order, or number spelling (1.50 and 1.5)
have the same digest.`,
		Usage:  "beanwire digest [flags] [file...]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Compare two documents ignoring layout",
				Command:     "beanwire digest before.json after.json",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, options, err := params.Options(logger)
			if err != nil {
				return err
			}
			inputs, err := readInputs(args, os.Stdin)
			if err != nil {
				return err
			}

			pool, err := batch.New(cfg.Batch.Workers, logger)
			if err != nil {
				return cli.Internal("%w", err)
			}
			defer pool.Release()

			results, err := batch.Map(ctx, pool, inputs, func(_ context.Context, in input) (string, error) {
				return Canonical(in.text, options)
			})
			if err != nil {
				return cli.Internal("%w", err)
			}
			if err := batch.Errors(results); err != nil {
				return cli.Validation("%w", err)
			}
			for i, result := range results {
				if params.Canonical {
					fmt.Println(result.Value)
					continue
				}
				fmt.Printf("%s  %s\n", Digest(result.Value), inputs[i].name)
			}
			return nil
		},
	}
}

// Canonical reads one document and writes it back in canonical form.
func Canonical(text string, options mapper.Options) (string, error) {
	value, err := mapper.Read(text, codec.Dynamic, options)
	if err != nil {
		return "", err
	}
	options.Indent = ""
	options.SerializeNulls = true
	options.WriteNullMapValues = true
	options.WriteEmptyArrays = true
	options.WriteSingleElementArraysUnwrapped = false
	return mapper.Write(value, codec.Dynamic, options)
}

// Digest returns the hex BLAKE3-256 digest of canonical.
func Digest(canonical string) string {
	sum := blake3.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
