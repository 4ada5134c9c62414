// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the beanwire command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	cborcmd "github.com/hasys/mapper-xml/cmd/beanwire/cbor"
	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
	"github.com/hasys/mapper-xml/cmd/beanwire/document"
	"github.com/hasys/mapper-xml/lib/version"
)

// Root builds and returns the complete beanwire command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "beanwire",
		Description: `beanwire: inspect and convert wire documents.

Reformat, validate, and fingerprint documents in the wire format read and
written by the bean mapper, and transcode them to and from CBOR. Every
command reads a file argument or stdin and honors --config (or
$BEANWIRE_CONFIG) for reader, writer, and date settings.`,
		Subcommands: []*cli.Command{
			document.FormatCommand(),
			document.ValidateCommand(),
			document.DigestCommand(),
			cborcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Printf("beanwire %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Pretty-print a document",
				Command:     "beanwire fmt order.json",
			},
			{
				Description: "Validate many documents in parallel",
				Command:     "beanwire validate --strict data/*.json",
			},
		},
	}
}
