// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for beanwire.
//
// Configuration is loaded from a single file specified by either the
// BEANWIRE_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search. Files are YAML;
// a .json or .jsonc extension selects JSON with comments.
//
// The file supports environment-specific sections (development,
// production) that override base values when [Config].Environment
// matches. Only the keys present in the section are replaced.
//
// ${VAR} and ${VAR:-default} patterns are expanded in string settings
// after loading.
//
// [Config.MapperOptions] converts a loaded configuration to the
// per-call options of package mapper.
package config
