// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for beanwire packages.
//
// [WriteFiles] lays out fixture documents and config files in a fresh
// temporary directory.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that concurrency
// tests fail instead of hanging when a worker never reports back.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no beanwire-internal dependencies.
package testutil
