// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
)

// Command returns the "cbor" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "cbor",
		Summary: "Transcode wire documents to and from CBOR",
		Description: `Convert wire documents to deterministic CBOR and back.

Objects become CBOR maps with text keys, arrays become arrays, integers
become the smallest CBOR integer, and fractional numbers become float64.
Encoding is deterministic: equal documents always produce identical bytes.

All subcommands accept an optional trailing file path argument. When
provided, input is read from the file instead of stdin.`,
		Subcommands: []*cli.Command{
			encodeCommand(),
			decodeCommand(),
			diagCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Encode a document to CBOR",
				Command:     "beanwire cbor encode order.json > order.cbor",
			},
			{
				Description: "Round-trip through zstd-compressed CBOR",
				Command:     "beanwire cbor encode --compress zstd order.json | beanwire cbor decode",
			},
			{
				Description: "Inspect CBOR structure with diagnostic notation",
				Command:     "beanwire cbor diag order.cbor",
			},
		},
	}
}
