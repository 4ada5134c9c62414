// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the beanwire CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a params struct whose tagged
// fields become pflag flags, and a Run function. Commands are assembled
// into a tree in cmd/beanwire/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing, and
// structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Commands return categorized [ToolError] values for failures and
// [ExitError] for handled non-zero exits. [ConfigParams] is embedded by
// every command that reads or writes documents; it resolves the
// --config flag into mapper options.
package cli
