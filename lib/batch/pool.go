// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/hasys/mapper-xml/lib/mapper"
)

// ErrPanic wraps a panic raised by a task.
var ErrPanic = errors.New("batch: task panicked")

// Pool is a bounded set of goroutines for independent calls. It is
// safe for concurrent use.
type Pool struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Result is the outcome of one input.
type Result[T any] struct {
	Value T
	Err   error
}

// New creates a pool of workers goroutines. Zero or less means one per
// CPU. A nil logger discards pool diagnostics.
func New(workers int, logger *slog.Logger) (*Pool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pool, err := ants.NewPool(workers,
		ants.WithLogger(antsLogger{logger}),
		ants.WithPanicHandler(func(recovered any) {
			logger.Error("batch worker panicked outside a task", "panic", recovered)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	return &Pool{pool: pool, logger: logger}, nil
}

// Workers returns the pool capacity.
func (p *Pool) Workers() int {
	return p.pool.Cap()
}

// Release stops the pool. Tasks already running finish; submitting
// afterwards fails.
func (p *Pool) Release() {
	p.pool.Release()
}

// Map applies fn to every input on the pool and waits for all of them.
// Inputs not yet started when ctx is cancelled fail with ctx.Err().
// The returned error is non-nil only when the pool rejects a task.
func Map[In, Out any](ctx context.Context, p *Pool, inputs []In, fn func(context.Context, In) (Out, error)) ([]Result[Out], error) {
	results := make([]Result[Out], len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if recovered := recover(); recovered != nil {
					p.logger.Error("batch task panicked", "index", i, "panic", recovered)
					results[i].Err = fmt.Errorf("%w: %v", ErrPanic, recovered)
				}
			}()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Value, results[i].Err = fn(ctx, input)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submitting task %d: %w", i, err)
		}
	}
	wg.Wait()
	return results, nil
}

// ReadAll deserializes every document with deserializer, each in its
// own call.
func (p *Pool) ReadAll(ctx context.Context, documents []string, deserializer mapper.Deserializer, options mapper.Options) ([]Result[any], error) {
	return Map(ctx, p, documents, func(_ context.Context, document string) (any, error) {
		return mapper.Read(document, deserializer, options)
	})
}

// WriteAll serializes every value with serializer, each in its own
// call.
func (p *Pool) WriteAll(ctx context.Context, values []any, serializer mapper.Serializer, options mapper.Options) ([]Result[string], error) {
	return Map(ctx, p, values, func(_ context.Context, value any) (string, error) {
		return mapper.Write(value, serializer, options)
	})
}

// Errors joins the errors of results, prefixing each with its index.
func Errors[T any](results []Result[T]) error {
	var errs []error
	for i, result := range results {
		if result.Err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, result.Err))
		}
	}
	return errors.Join(errs...)
}

type antsLogger struct {
	logger *slog.Logger
}

func (l antsLogger) Printf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
