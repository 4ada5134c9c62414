// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
	"github.com/hasys/mapper-xml/lib/batch"
	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
)

type validateParams struct {
	cli.ConfigParams
	Strict bool `flag:"strict,s" desc:"reject lenient syntax even when the config allows it"`
	Quiet  bool `flag:"quiet,q" desc:"print nothing; report through the exit code only"`
}

// ValidateCommand returns the "validate" command.
func ValidateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check that documents are well-formed",
		Description: `Read one or more wire documents and check that each holds exactly one
well-formed value. Every document is reported as "ok" or with the error and
its line, column, and path. Exits with status 1 if any document is invalid.

Several files are checked concurrently (batch.workers in the config).`,
		Usage:  "beanwire validate [flags] [file...]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Validate every document in a directory",
				Command:     "beanwire validate fixtures/*.json",
			},
			{
				Description: "Strict validation in a script",
				Command:     "beanwire validate --strict --quiet payload.json && echo valid",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, options, err := params.Options(logger)
			if err != nil {
				return err
			}
			if params.Strict {
				options.Lenient = false
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

			output := io.Writer(os.Stdout)
			if params.Quiet {
				output = io.Discard
			}
			invalid, err := validateAll(ctx, pool, inputs, options, output)
			if err != nil {
				return err
			}
			logger.Debug("validated documents", "documents", len(inputs), "invalid", invalid)
			if invalid > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// validateAll checks every input and writes one report line per input.
// It returns the number of invalid inputs.
func validateAll(ctx context.Context, pool *batch.Pool, inputs []input, options mapper.Options, w io.Writer) (int, error) {
	results, err := batch.Map(ctx, pool, inputs, func(_ context.Context, in input) (struct{}, error) {
		_, err := mapper.Read(in.text, codec.Raw, options)
		return struct{}{}, err
	})
	if err != nil {
		return 0, cli.Internal("%w", err)
	}

	invalid := 0
	for i, result := range results {
		if result.Err != nil {
			invalid++
			fmt.Fprintf(w, "%s: %v\n", inputs[i].name, result.Err)
			continue
		}
		fmt.Fprintf(w, "%s: ok\n", inputs[i].name)
	}
	return invalid, nil
}
