// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFiles creates a temporary directory holding one file per entry
// of files (relative name to content) and returns the directory.
// Parent directories inside the name are created as needed. The
// directory is removed when the test completes.
//
//	dir := testutil.WriteFiles(t, map[string]string{"good.json": `{"ok":true}`})
func WriteFiles(t testing.TB, files map[string]string) string {
	t.Helper()
	directory := t.TempDir()
	for name, content := range files {
		path := filepath.Join(directory, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return directory
}
