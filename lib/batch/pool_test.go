// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/testutil"
)

func newPool(t *testing.T, workers int) *Pool {
	t.Helper()
	pool, err := New(workers, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(pool.Release)
	return pool
}

func TestNewDefaultsToOneWorkerPerCPU(t *testing.T) {
	if got := newPool(t, 0).Workers(); got != runtime.NumCPU() {
		t.Errorf("got %d workers, want %d", got, runtime.NumCPU())
	}
	if got := newPool(t, 3).Workers(); got != 3 {
		t.Errorf("got %d workers, want 3", got)
	}
}

func TestReadAllKeepsInputOrder(t *testing.T) {
	pool := newPool(t, 4)
	documents := make([]string, 50)
	for i := range documents {
		documents[i] = fmt.Sprintf(`"doc-%d"`, i)
	}

	results, err := pool.ReadAll(context.Background(), documents, codec.String, mapper.DefaultOptions())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(results) != len(documents) {
		t.Fatalf("got %d results, want %d", len(results), len(documents))
	}
	for i, result := range results {
		if result.Err != nil {
			t.Errorf("result %d: %v", i, result.Err)
			continue
		}
		if want := fmt.Sprintf("doc-%d", i); result.Value != want {
			t.Errorf("result %d: got %v, want %s", i, result.Value, want)
		}
	}
	if err := Errors(results); err != nil {
		t.Errorf("Errors: %v", err)
	}
}

func TestReadAllReportsErrorsPerItem(t *testing.T) {
	pool := newPool(t, 2)
	results, err := pool.ReadAll(context.Background(), []string{`"ok"`, `[1,`, `"fine"`}, codec.String, mapper.DefaultOptions())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("well-formed documents failed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Fatal("malformed document did not fail")
	}
	joined := Errors(results)
	if joined == nil || !strings.Contains(joined.Error(), "item 1:") {
		t.Errorf("Errors: got %v", joined)
	}
}

func TestWriteAll(t *testing.T) {
	pool := newPool(t, 2)
	values := []any{"a", nil, "c"}
	results, err := pool.WriteAll(context.Background(), values, codec.String, mapper.DefaultOptions())
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	for i, want := range []string{`"a"`, `null`, `"c"`} {
		if results[i].Err != nil || results[i].Value != want {
			t.Errorf("result %d: got %q, %v; want %s", i, results[i].Value, results[i].Err, want)
		}
	}
}

func TestMapRecoversPanics(t *testing.T) {
	pool := newPool(t, 2)
	results, err := Map(context.Background(), pool, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			panic("two")
		}
		return n * 10, nil
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if !errors.Is(results[1].Err, ErrPanic) {
		t.Errorf("got %v, want ErrPanic", results[1].Err)
	}
	if results[0].Value != 10 || results[2].Value != 30 {
		t.Errorf("got %+v", results)
	}
}

func TestMapCancelledContext(t *testing.T) {
	pool := newPool(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results, err := Map(ctx, pool, []string{"a", "b"}, func(context.Context, string) (string, error) {
		calls.Add(1)
		return "", nil
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("fn called %d times after cancellation", calls.Load())
	}
	for i, result := range results {
		if !errors.Is(result.Err, context.Canceled) {
			t.Errorf("result %d: got %v, want context.Canceled", i, result.Err)
		}
	}
}

func TestMapAfterRelease(t *testing.T) {
	pool, err := New(1, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pool.Release()
	if _, err := Map(context.Background(), pool, []int{1}, func(context.Context, int) (int, error) { return 0, nil }); err == nil {
		t.Error("expected error from a released pool")
	}
}

func TestMapRunsItemsConcurrently(t *testing.T) {
	pool := newPool(t, 2)
	var running atomic.Int32
	bothRunning := make(chan struct{})
	release := make(chan struct{})
	done := make(chan []Result[int], 1)

	go func() {
		results, err := Map(context.Background(), pool, []int{1, 2}, func(_ context.Context, n int) (int, error) {
			if running.Add(1) == 2 {
				close(bothRunning)
			}
			<-release
			return n, nil
		})
		if err != nil {
			t.Errorf("Map: %v", err)
		}
		done <- results
	}()

	// Both items must be running at once before either may finish.
	testutil.RequireClosed(t, bothRunning, 5*time.Second, "both items running")
	close(release)

	results := testutil.RequireReceive(t, done, 5*time.Second, "waiting for results")
	if len(results) != 2 || results[0].Value != 1 || results[1].Value != 2 {
		t.Errorf("got %+v", results)
	}
}
