// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hasys/mapper-xml/cmd/beanwire/cli"
	"github.com/hasys/mapper-xml/cmd/beanwire/commands"
)

func main() {
	os.Exit(exitCode(run(), os.Stderr))
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if os.Getenv("BEANWIRE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return commands.Root().Execute(ctx, os.Args[1:], cli.NewCommandLogger(level))
}

// exitCode reports err on stderr and returns the process exit code.
// Commands that print their own report return a [cli.ExitError], which
// is not printed again.
func exitCode(err error, stderr *os.File) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
