// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package document implements the beanwire commands that work on wire
// documents as text: fmt reformats, validate checks syntax, and digest
// hashes the canonical encoding.
//
// All three read an optional file argument (stdin otherwise) and take
// their reader and writer settings from the --config file. validate and
// digest accept several files and process them concurrently on a
// [batch.Pool] sized by the config's batch.workers.
package document
