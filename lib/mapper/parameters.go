// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mapper

import (
	"slices"
	"time"
)

// Include decides when a property is written.
type Include uint8

const (
	// IncludeAlways writes the property whatever its value. Nulls are
	// still subject to the writer's null policy.
	IncludeAlways Include = iota
	// IncludeNonNull omits the property when its value is nil.
	IncludeNonNull
	// IncludeNonEmpty omits the property when its value is nil, an
	// empty string, an empty slice or an empty map.
	IncludeNonEmpty
)

func (i Include) String() string {
	switch i {
	case IncludeAlways:
		return "always"
	case IncludeNonNull:
		return "non_null"
	case IncludeNonEmpty:
		return "non_empty"
	default:
		return "unknown"
	}
}

// Parameters customize how one codec handles one value, usually a
// property. A nil *Parameters is valid and means "no customization";
// every accessor is nil-safe.
type Parameters struct {
	// Pattern is a strftime date pattern.
	Pattern string
	// Location is the zone dates are written in and read as.
	Location *time.Location
	// Unwrapped flattens a bean's properties into the enclosing object.
	Unwrapped bool
	// Ignored names properties skipped for this value.
	Ignored []string
	// IgnoreUnknown tolerates unknown properties for this value.
	IgnoreUnknown bool
	// Identity overrides the identity info of the target bean.
	Identity *IdentityInfo
	// TypeInfo overrides the type info of the target bean.
	TypeInfo *TypeInfo
	// Include is the property inclusion rule.
	Include Include
}

// IsIgnored reports whether name is in the ignored list.
func (p *Parameters) IsIgnored(name string) bool {
	return p != nil && slices.Contains(p.Ignored, name)
}

// IsUnwrapped reports whether the value is flattened into its parent.
func (p *Parameters) IsUnwrapped() bool {
	return p != nil && p.Unwrapped
}

// IgnoresUnknown reports whether unknown properties are tolerated.
func (p *Parameters) IgnoresUnknown() bool {
	return p != nil && p.IgnoreUnknown
}

// DatePattern returns the date pattern, empty for the default.
func (p *Parameters) DatePattern() string {
	if p == nil {
		return ""
	}
	return p.Pattern
}

// DateLocation returns the date zone, nil for the formatter default.
func (p *Parameters) DateLocation() *time.Location {
	if p == nil {
		return nil
	}
	return p.Location
}

// IdentityOverride returns the identity info override, if any.
func (p *Parameters) IdentityOverride() *IdentityInfo {
	if p == nil {
		return nil
	}
	return p.Identity
}

// TypeInfoOverride returns the type info override, if any.
func (p *Parameters) TypeInfoOverride() *TypeInfo {
	if p == nil {
		return nil
	}
	return p.TypeInfo
}

// InclusionRule returns the property inclusion rule.
func (p *Parameters) InclusionRule() Include {
	if p == nil {
		return IncludeAlways
	}
	return p.Include
}

// Child returns the parameters a container passes to its elements:
// date settings carry over, property-level settings do not.
func (p *Parameters) Child() *Parameters {
	if p == nil || (p.Pattern == "" && p.Location == nil) {
		return nil
	}
	return &Parameters{Pattern: p.Pattern, Location: p.Location}
}
