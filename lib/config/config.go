// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/hasys/mapper-xml/lib/dateformat"
	"github.com/hasys/mapper-xml/lib/mapper"
)

// EnvVar names the environment variable [Load] reads the config path
// from.
const EnvVar = "BEANWIRE_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local use: lenient reading, pretty output.
	Development Environment = "development"
	// Production is for pipelines: the file's production section
	// applies.
	Production Environment = "production"
)

// Config is the beanwire configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	Sections `yaml:",inline"`

	// Development and Production hold per-environment overrides with
	// the same layout as the base sections. Only the keys present in
	// the selected section replace base values. A zero Kind means the
	// file has no such section.
	Development yaml.Node `yaml:"development,omitempty"`
	Production  yaml.Node `yaml:"production,omitempty"`
}

// Sections groups the settings that environment sections may override.
type Sections struct {
	Reader ReaderConfig `yaml:"reader"`
	Writer WriterConfig `yaml:"writer"`
	Dates  DatesConfig  `yaml:"dates"`
	Batch  BatchConfig  `yaml:"batch"`
}

// ReaderConfig configures deserialization.
type ReaderConfig struct {
	// Lenient accepts the relaxed wire syntax (comments, unquoted
	// names, NaN, multiple top-level values).
	Lenient bool `yaml:"lenient"`

	// MaxDepth bounds bean nesting. Default: 1000.
	MaxDepth int `yaml:"max_depth"`

	// FailOnUnknownProperties rejects properties a bean does not
	// declare. Default: true.
	FailOnUnknownProperties bool `yaml:"fail_on_unknown_properties"`

	// AcceptSingleValueAsArray reads a bare value where an array is
	// expected, and a base64 string where a byte array is expected.
	AcceptSingleValueAsArray bool `yaml:"accept_single_value_as_array"`

	// ReadUnknownEnumsAsNull reads unknown enum names as null instead
	// of failing.
	ReadUnknownEnumsAsNull bool `yaml:"read_unknown_enums_as_null"`
}

// WriterConfig configures serialization.
type WriterConfig struct {
	// Indent is the per-level indent; empty writes compact output.
	Indent string `yaml:"indent"`

	// Lenient allows non-finite numbers and top-level scalars.
	Lenient bool `yaml:"lenient"`

	SerializeNulls                    bool `yaml:"serialize_nulls"`
	WriteNullMapValues                bool `yaml:"write_null_map_values"`
	WriteEmptyArrays                  bool `yaml:"write_empty_arrays"`
	WriteSingleElementArraysUnwrapped bool `yaml:"write_single_element_arrays_unwrapped"`
	WriteDatesAsTimestamps            bool `yaml:"write_dates_as_timestamps"`
	WriteDateKeysAsTimestamps         bool `yaml:"write_date_keys_as_timestamps"`
}

// DatesConfig configures the date formatter.
type DatesConfig struct {
	// Pattern is the default strftime pattern. Empty selects ISO-8601
	// with milliseconds.
	Pattern string `yaml:"pattern"`

	// Timezone is an IANA zone name. Default: UTC.
	Timezone string `yaml:"timezone"`

	// CacheSize bounds the compiled pattern cache. Default: 64.
	CacheSize int `yaml:"cache_size"`
}

// BatchConfig configures concurrent conversion of many documents.
type BatchConfig struct {
	// Workers is the worker pool size. Zero means one per CPU.
	Workers int `yaml:"workers"`
}

// Default returns the configuration used as the base before a file is
// loaded. It matches [mapper.DefaultOptions].
func Default() *Config {
	defaults := mapper.DefaultOptions()
	return &Config{
		Environment: Development,
		Sections: Sections{
			Reader: ReaderConfig{
				Lenient:                  defaults.Lenient,
				MaxDepth:                 defaults.MaxDepth,
				FailOnUnknownProperties:  defaults.FailOnUnknownProperties,
				AcceptSingleValueAsArray: defaults.AcceptSingleValueAsArray,
				ReadUnknownEnumsAsNull:   defaults.ReadUnknownEnumsAsNull,
			},
			Writer: WriterConfig{
				Indent:             defaults.Indent,
				Lenient:            defaults.Lenient,
				SerializeNulls:     defaults.SerializeNulls,
				WriteNullMapValues: defaults.WriteNullMapValues,
				WriteEmptyArrays:   defaults.WriteEmptyArrays,
			},
			Dates: DatesConfig{
				Timezone:  "UTC",
				CacheSize: dateformat.DefaultCacheSize,
			},
		},
	}
}

// Load loads configuration from the file named by BEANWIRE_CONFIG.
//
// There are no fallbacks: if BEANWIRE_CONFIG is not set, this fails.
// Commands that can run without a file use [Default] instead of
// calling Load.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your beanwire.yaml config file, or use --config flag", EnvVar)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc may carry comments and trailing commas.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("applying %s overrides from %s: %w", cfg.Environment, path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is YAML, once the comments are gone.
		data = jsonc.ToJSON(data)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides decodes the section of the selected
// environment on top of the base sections.
func (c *Config) applyEnvironmentOverrides() error {
	var overrides *yaml.Node
	switch c.Environment {
	case Development:
		overrides = &c.Development
	case Production:
		overrides = &c.Production
	}
	if overrides == nil || overrides.Kind == 0 {
		return nil
	}
	return overrides.Decode(&c.Sections)
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// string settings.
func (c *Config) expandVariables() {
	c.Writer.Indent = expandVars(c.Writer.Indent)
	c.Dates.Pattern = expandVars(c.Dates.Pattern)
	c.Dates.Timezone = expandVars(c.Dates.Timezone)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns from the
// process environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]Environment{Development, Production}, c.Environment) {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Reader.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("reader.max_depth must be positive, got %d", c.Reader.MaxDepth))
	}
	if strings.Trim(c.Writer.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("writer.indent may only contain spaces and tabs, got %q", c.Writer.Indent))
	}
	if _, err := time.LoadLocation(c.Dates.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("dates.timezone: %w", err))
	}
	if c.Dates.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("dates.cache_size must be positive, got %d", c.Dates.CacheSize))
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// MapperOptions converts the configuration to call options.
func (c *Config) MapperOptions() (mapper.Options, error) {
	location, err := time.LoadLocation(c.Dates.Timezone)
	if err != nil {
		return mapper.Options{}, fmt.Errorf("dates.timezone: %w", err)
	}
	formatter := dateformat.New(c.Dates.CacheSize, location).WithPattern(c.Dates.Pattern)

	options := mapper.DefaultOptions()
	options.Lenient = c.Reader.Lenient || c.Writer.Lenient
	options.MaxDepth = c.Reader.MaxDepth
	options.FailOnUnknownProperties = c.Reader.FailOnUnknownProperties
	options.AcceptSingleValueAsArray = c.Reader.AcceptSingleValueAsArray
	options.ReadUnknownEnumsAsNull = c.Reader.ReadUnknownEnumsAsNull
	options.Indent = c.Writer.Indent
	options.SerializeNulls = c.Writer.SerializeNulls
	options.WriteNullMapValues = c.Writer.WriteNullMapValues
	options.WriteEmptyArrays = c.Writer.WriteEmptyArrays
	options.WriteSingleElementArraysUnwrapped = c.Writer.WriteSingleElementArraysUnwrapped
	options.WriteDatesAsTimestamps = c.Writer.WriteDatesAsTimestamps
	options.WriteDateKeysAsTimestamps = c.Writer.WriteDateKeysAsTimestamps
	options.DateFormat = formatter
	return options, nil
}
