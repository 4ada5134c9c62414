// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteFiles(t *testing.T) {
	directory := WriteFiles(t, map[string]string{
		"top.json":         `[1]`,
		"nested/deep.yaml": "reader:\n  lenient: false\n",
	})
	for name, want := range map[string]string{
		"top.json":         `[1]`,
		"nested/deep.yaml": "reader:\n  lenient: false\n",
	} {
		got, err := os.ReadFile(filepath.Join(directory, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "buffered value"); got != 7 {
		t.Errorf("got %d, want 7", got)
	}

	closed := make(chan struct{})
	close(closed)
	RequireClosed(t, closed, time.Second, "closed channel")
}

type fatalRecorder struct {
	message string
}

func (r *fatalRecorder) Helper() {}

func (r *fatalRecorder) Fatalf(format string, args ...any) {
	r.message = format
	// RequireReceive panics after Fatalf returns; stop here the way
	// testing.T does with runtime.Goexit.
	panic(r)
}

func TestRequireReceiveTimesOut(t *testing.T) {
	recorder := &fatalRecorder{}
	func() {
		defer func() {
			if recovered := recover(); recovered != recorder {
				t.Fatalf("unexpected panic %v", recovered)
			}
		}()
		RequireReceive(recorder, make(chan int), time.Millisecond, "never sent")
	}()
	if recorder.message == "" {
		t.Error("Fatalf was not called")
	}
}
