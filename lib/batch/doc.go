// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package batch runs many independent mapper calls concurrently on a
// bounded worker pool.
//
// Each Write or Read call owns its own context, so documents never
// share identity tables or depth counters. Results come back in input
// order, one per input, each carrying its own error:
//
//	pool, err := batch.New(4, logger)
//	if err != nil { ... }
//	defer pool.Release()
//	results, err := pool.ReadAll(ctx, documents, descriptor, options)
package batch
