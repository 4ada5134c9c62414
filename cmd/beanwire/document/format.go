// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
	"github.com/hasys/mapper-xml/lib/stream"
)

const defaultIndent = "  "

type formatParams struct {
	cli.ConfigParams
	Indent  string `flag:"indent,i" desc:"indent per nesting level (default: writer.indent from config, else two spaces)"`
	Compact bool   `flag:"compact,c" desc:"write each document on one line"`
	Lenient bool   `flag:"lenient,l" desc:"accept comments, unquoted names, single quotes, and several top-level values"`
	Color   string `flag:"color" desc:"colorize output: auto, always, or never" default:"auto"`
}

// FormatCommand returns the "fmt" command.
func FormatCommand() *cli.Command {
	var params formatParams

	return &cli.Command{
		Name:    "fmt",
		Summary: "Reformat a wire document",
		Description: `Read a wire document from a file or stdin and write it back with
uniform indentation. Names, values, and number text are copied token by
token, so property order and number precision are preserved.

In lenient mode (--lenient, or reader.lenient in the config) the input may
contain comments, unquoted names, single-quoted strings, NaN/Infinity, and
several top-level values. Each top-level value is written on its own.`,
		Usage:  "beanwire fmt [flags] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Pretty-print a document",
				Command:     "beanwire fmt order.json",
			},
			{
				Description: "Compact a lenient document from stdin",
				Command:     "cat notes.jsonc | beanwire fmt --lenient --compact",
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

			indent := params.Indent
			switch {
			case params.Compact:
				indent = ""
			case indent == "" && options.Indent != "":
				indent = options.Indent
			case indent == "":
				indent = defaultIndent
			}

			formatted, err := Format(string(data), indent, options.Lenient || params.Lenient, options.MaxDepth)
			if err != nil {
				return cli.Validation("%s: %w", displayName(path), err)
			}

			colorize, err := wantColor(params.Color)
			if err != nil {
				return err
			}
			return writeFormatted(os.Stdout, formatted, colorize)
		},
	}
}

// Format copies every top-level value of text into a writer with the
// given indent and returns the values separated by newlines.
func Format(text, indent string, lenient bool, maxDepth int) (string, error) {
	reader := stream.NewReader(text)
	defer reader.Close()
	reader.SetLenient(lenient)
	if maxDepth > 0 {
		reader.SetMaxDepth(maxDepth)
	}

	var documents []string
	for {
		token, err := reader.Peek()
		if err != nil {
			return "", err
		}
		if token == stream.EndDocument {
			break
		}
		writer := stream.NewWriter()
		writer.SetIndent(indent)
		writer.SetLenient(lenient)
		if err := reader.CopyTo(writer); err != nil {
			return "", err
		}
		if err := writer.Close(); err != nil {
			return "", err
		}
		documents = append(documents, writer.Output())
	}
	if len(documents) == 0 {
		return "", stream.ErrUnexpectedEnd
	}
	return strings.Join(documents, "\n"), nil
}

func wantColor(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return cli.IsTerminal(os.Stdout), nil
	default:
		return false, cli.Validation("--color must be auto, always, or never, got %q", mode)
	}
}

func writeFormatted(w io.Writer, formatted string, colorize bool) error {
	if !colorize {
		_, err := io.WriteString(w, formatted+"\n")
		return err
	}
	var buffer bytes.Buffer
	if err := quick.Highlight(&buffer, formatted, "json", "terminal256", "monokai"); err != nil {
		return cli.Internal("highlight output: %w", err)
	}
	buffer.WriteByte('\n')
	_, err := w.Write(buffer.Bytes())
	return err
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "<stdin>"
	}
	return path
}
