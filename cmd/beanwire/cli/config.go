// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hasys/mapper-xml/lib/config"
	"github.com/hasys/mapper-xml/lib/mapper"
)

// ConfigParams is embedded in the params of every command that reads
// or writes documents.
type ConfigParams struct {
	Config string `flag:"config" desc:"path to a beanwire config file (default: $BEANWIRE_CONFIG, else built-in defaults)"`
}

// LoadConfig loads the file named by --config, or by BEANWIRE_CONFIG
// when the flag is empty. With neither set, it returns
// [config.Default].
func (p *ConfigParams) LoadConfig() (*config.Config, error) {
	path := p.Config
	if path == "" {
		path = os.Getenv(config.EnvVar)
	}
	if path == "" {
		return config.Default(), nil
	}

	cfg, err := config.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NotFound("config file %s does not exist", path)
	}
	if err != nil {
		return nil, Validation("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Options loads the configuration and converts it to mapper options
// that log through logger.
func (p *ConfigParams) Options(logger *slog.Logger) (*config.Config, mapper.Options, error) {
	cfg, err := p.LoadConfig()
	if err != nil {
		return nil, mapper.Options{}, err
	}
	options, err := cfg.MapperOptions()
	if err != nil {
		return nil, mapper.Options{}, Validation("%w", err)
	}
	options.Logger = logger
	return cfg, options, nil
}
