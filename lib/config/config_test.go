// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/hasys/mapper-xml/lib/dateformat"
	"github.com/hasys/mapper-xml/lib/mapper"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if !cfg.Reader.Lenient {
		t.Error("expected reader.lenient=true")
	}
	if cfg.Reader.MaxDepth != mapper.DefaultMaxDepth {
		t.Errorf("expected max_depth=%d, got %d", mapper.DefaultMaxDepth, cfg.Reader.MaxDepth)
	}
	if !cfg.Reader.FailOnUnknownProperties {
		t.Error("expected fail_on_unknown_properties=true")
	}
	if !cfg.Writer.SerializeNulls || !cfg.Writer.WriteEmptyArrays {
		t.Error("expected nulls and empty arrays to be written by default")
	}
	if cfg.Dates.Timezone != "UTC" {
		t.Errorf("expected timezone=UTC, got %s", cfg.Dates.Timezone)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresConfigEnv(t *testing.T) {
	t.Setenv(EnvVar, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when BEANWIRE_CONFIG is not set")
	}
	if !strings.HasPrefix(err.Error(), "BEANWIRE_CONFIG environment variable not set") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	configPath := writeConfig(t, "beanwire.yaml", `
environment: production
writer:
  indent: "  "
`)
	t.Setenv(EnvVar, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != Production {
		t.Errorf("expected environment=production, got %s", cfg.Environment)
	}
	if cfg.Writer.Indent != "  " {
		t.Errorf("expected indent of two spaces, got %q", cfg.Writer.Indent)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, "beanwire.yaml", `
reader:
  lenient: false
  max_depth: 50
  fail_on_unknown_properties: false
  accept_single_value_as_array: true

writer:
  serialize_nulls: false
  write_single_element_arrays_unwrapped: true

dates:
  pattern: "%Y-%m-%d"
  timezone: Europe/London

batch:
  workers: 3
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Reader.Lenient {
		t.Error("expected reader.lenient=false")
	}
	if cfg.Reader.MaxDepth != 50 {
		t.Errorf("expected max_depth=50, got %d", cfg.Reader.MaxDepth)
	}
	if cfg.Reader.FailOnUnknownProperties {
		t.Error("expected fail_on_unknown_properties=false")
	}
	if !cfg.Reader.AcceptSingleValueAsArray {
		t.Error("expected accept_single_value_as_array=true")
	}
	if cfg.Writer.SerializeNulls {
		t.Error("expected serialize_nulls=false")
	}
	if !cfg.Writer.WriteEmptyArrays {
		t.Error("expected write_empty_arrays to keep its default")
	}
	if cfg.Dates.Pattern != "%Y-%m-%d" {
		t.Errorf("expected pattern=%%Y-%%m-%%d, got %s", cfg.Dates.Pattern)
	}
	if cfg.Dates.CacheSize != dateformat.DefaultCacheSize {
		t.Errorf("expected cache_size to keep its default, got %d", cfg.Dates.CacheSize)
	}
	if cfg.Batch.Workers != 3 {
		t.Errorf("expected workers=3, got %d", cfg.Batch.Workers)
	}
}

func TestLoadFile_JSONWithComments(t *testing.T) {
	configPath := writeConfig(t, "beanwire.jsonc", `{
  // Strict reading for the pipeline.
  "environment": "production",
  "reader": {
    "lenient": false, /* no comments in documents */
    "max_depth": 20,
  },
}`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Environment != Production {
		t.Errorf("expected environment=production, got %s", cfg.Environment)
	}
	if cfg.Reader.Lenient {
		t.Error("expected reader.lenient=false")
	}
	if cfg.Reader.MaxDepth != 20 {
		t.Errorf("expected max_depth=20, got %d", cfg.Reader.MaxDepth)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	configPath := writeConfig(t, "broken.yaml", "reader: [unclosed\n")
	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), configPath) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	configPath := writeConfig(t, "beanwire.yaml", `
environment: production

reader:
  lenient: true
  max_depth: 100

writer:
  indent: "\t"

development:
  reader:
    max_depth: 7

production:
  reader:
    lenient: false
  writer:
    indent: ""
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Reader.Lenient {
		t.Error("expected lenient=false from production override")
	}
	if cfg.Writer.Indent != "" {
		t.Errorf("expected compact output from production override, got %q", cfg.Writer.Indent)
	}
	// Keys absent from the production section keep their base values.
	if cfg.Reader.MaxDepth != 100 {
		t.Errorf("expected max_depth=100, got %d", cfg.Reader.MaxDepth)
	}
}

func TestVariableExpansion(t *testing.T) {
	t.Setenv("BEANWIRE_TEST_ZONE", "Asia/Tokyo")
	configPath := writeConfig(t, "beanwire.yaml", `
dates:
  timezone: ${BEANWIRE_TEST_ZONE}
  pattern: ${BEANWIRE_TEST_UNSET_PATTERN:-%d/%m/%Y}
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Dates.Timezone != "Asia/Tokyo" {
		t.Errorf("expected timezone=Asia/Tokyo, got %s", cfg.Dates.Timezone)
	}
	if cfg.Dates.Pattern != "%d/%m/%Y" {
		t.Errorf("expected pattern=%%d/%%m/%%Y, got %s", cfg.Dates.Pattern)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${BEANWIRE_TEST_HOME}/beanwire",
			vars:     map[string]string{"BEANWIRE_TEST_HOME": "/home/user"},
			expected: "/home/user/beanwire",
		},
		{
			input:    "${BEANWIRE_TEST_MISSING:-default}",
			expected: "default",
		},
		{
			input:    "${BEANWIRE_TEST_PRESENT:-default}",
			vars:     map[string]string{"BEANWIRE_TEST_PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${BEANWIRE_TEST_A}/${BEANWIRE_TEST_B}",
			vars:     map[string]string{"BEANWIRE_TEST_A": "first", "BEANWIRE_TEST_B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			for name, value := range tt.vars {
				t.Setenv(name, value)
			}
			if result := expandVars(tt.input); result != tt.expected {
				t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid environment",
			modify: func(c *Config) {
				c.Environment = "staging"
			},
			wantErr: true,
		},
		{
			name: "zero max depth",
			modify: func(c *Config) {
				c.Reader.MaxDepth = 0
			},
			wantErr: true,
		},
		{
			name: "indent with letters",
			modify: func(c *Config) {
				c.Writer.Indent = "xx"
			},
			wantErr: true,
		},
		{
			name: "unknown timezone",
			modify: func(c *Config) {
				c.Dates.Timezone = "Mars/Olympus_Mons"
			},
			wantErr: true,
		},
		{
			name: "zero cache size",
			modify: func(c *Config) {
				c.Dates.CacheSize = 0
			},
			wantErr: true,
		},
		{
			name: "negative workers",
			modify: func(c *Config) {
				c.Batch.Workers = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Reader.MaxDepth = -1
	cfg.Batch.Workers = -2

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"reader.max_depth", "batch.workers"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestMapperOptions(t *testing.T) {
	cfg := Default()
	cfg.Reader.Lenient = false
	cfg.Writer.Lenient = false
	cfg.Reader.MaxDepth = 12
	cfg.Writer.Indent = "  "
	cfg.Writer.WriteDatesAsTimestamps = true
	cfg.Dates.Timezone = "America/New_York"
	cfg.Dates.Pattern = "%Y/%m/%d"

	options, err := cfg.MapperOptions()
	if err != nil {
		t.Fatalf("MapperOptions failed: %v", err)
	}
	if options.Lenient {
		t.Error("expected strict options")
	}
	if options.MaxDepth != 12 {
		t.Errorf("expected MaxDepth=12, got %d", options.MaxDepth)
	}
	if options.Indent != "  " {
		t.Errorf("expected two-space indent, got %q", options.Indent)
	}
	if !options.WriteDatesAsTimestamps {
		t.Error("expected WriteDatesAsTimestamps=true")
	}

	// 03:00 UTC is the previous day in New York.
	formatted, err := options.DateFormat.Format(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC), "", nil)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if formatted != "2024/02/29" {
		t.Errorf("expected 2024/02/29, got %s", formatted)
	}

	cfg.Writer.Lenient = true
	if options, _ = cfg.MapperOptions(); !options.Lenient {
		t.Error("writer.lenient should enable lenient options")
	}

	cfg.Dates.Timezone = "Nowhere/Special"
	if _, err := cfg.MapperOptions(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestEnvironmentOverrides_SectionAbsent(t *testing.T) {
	configPath := writeConfig(t, "beanwire.yaml", `
environment: production

reader:
  max_depth: 42

development:
  reader:
    max_depth: 7
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Production.Kind != 0 {
		t.Errorf("expected no production section, got kind %d", cfg.Production.Kind)
	}
	if cfg.Reader.MaxDepth != 42 {
		t.Errorf("expected base max_depth=42, got %d", cfg.Reader.MaxDepth)
	}
}
