// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bean

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
)

// Descriptor describes how one bean type maps to the wire. It
// implements [mapper.Codec]. A Descriptor is immutable once built and
// safe for concurrent use.
type Descriptor struct {
	typ  reflect.Type
	name string

	properties []*Property
	byName     map[string]*Property
	required   []string
	ignored    map[string]bool

	ignoreUnknown bool

	identity *mapper.IdentityInfo
	typeInfo *mapper.TypeInfo
	subtypes map[reflect.Type]*Descriptor

	anyGetter func(bean any) (*codec.OrderedMap, error)
	anySetter func(bean any, name string, value any) error
	anyCodec  mapper.Codec

	backReferences map[string]func(bean, reference any) error

	newInstance func() any
	creator     *Creator

	routesOnce sync.Once
	routes     map[string]*Property
}

// Creator builds an instance from constructor parameters. Params are
// read from the stream in whatever order they appear; any other
// property met before the last parameter is buffered and applied once
// the instance exists.
type Creator struct {
	params []*Property
	byName map[string]*Property
	build  func(Args) (any, error)
}

// Args holds the decoded constructor parameters of a [Creator] by
// name. A parameter absent from the stream is absent from Args.
type Args map[string]any

// Arg returns the parameter called name converted to V, or the zero V
// when the parameter was absent or null.
func Arg[V any](args Args, name string) (V, error) {
	value, err := codec.As[V](args[name])
	if err != nil {
		return value, fmt.Errorf("parameter %q: %w", name, err)
	}
	return value, nil
}

// Type returns the Go type the descriptor describes.
func (d *Descriptor) Type() reflect.Type {
	return d.typ
}

// Name returns the type name used in error messages.
func (d *Descriptor) Name() string {
	return d.name
}

// Properties returns the declared properties in wire order.
func (d *Descriptor) Properties() []*Property {
	return append([]*Property(nil), d.properties...)
}

// Builder assembles the [Descriptor] of bean type B. Builder methods
// return the builder for chaining. A Builder is not safe for
// concurrent use; the Descriptor it builds is.
type Builder[B any] struct {
	d     *Descriptor
	built bool
}

// For starts the descriptor of *T. newInstance may be nil when the
// type is built by a [Builder.Creator] instead.
func For[T any](newInstance func() *T) *Builder[*T] {
	b := newBuilder[*T]()
	if newInstance != nil {
		b.d.newInstance = func() any { return newInstance() }
	}
	return b
}

// Interface starts the descriptor of an interface type. It has no
// instances of its own: reading resolves a registered subtype through
// the type info, writing dispatches on the runtime type.
func Interface[T any]() *Builder[T] {
	return newBuilder[T]()
}

func newBuilder[B any]() *Builder[B] {
	typ := reflect.TypeFor[B]()
	return &Builder[B]{d: &Descriptor{
		typ:            typ,
		name:           typ.String(),
		byName:         make(map[string]*Property),
		ignored:        make(map[string]bool),
		subtypes:       make(map[reflect.Type]*Descriptor),
		backReferences: make(map[string]func(bean, reference any) error),
		anyCodec:       codec.Dynamic,
	}}
}

// Ref returns the descriptor under construction, for use as the codec
// of a property that refers back to this type. It must not be used to
// serialize or deserialize before Build.
func (b *Builder[B]) Ref() *Descriptor {
	return b.d
}

// Named overrides the type name used in error messages and logs.
func (b *Builder[B]) Named(name string) *Builder[B] {
	b.d.name = name
	return b
}

// Extends copies the properties, required and ignored names, identity
// and type info and back references of parent. Call it before adding
// the type's own properties, which follow the inherited ones on the
// wire.
func (b *Builder[B]) Extends(parent *Descriptor) *Builder[B] {
	for _, property := range parent.properties {
		b.add(property)
	}
	for name := range parent.ignored {
		b.d.ignored[name] = true
	}
	if b.d.identity == nil {
		b.d.identity = parent.identity
	}
	if b.d.typeInfo == nil {
		b.d.typeInfo = parent.typeInfo
	}
	for name, setter := range parent.backReferences {
		b.d.backReferences[name] = setter
	}
	return b
}

// Add appends properties in wire order. A property whose name is
// already declared replaces the earlier one in place.
func (b *Builder[B]) Add(properties ...*Property) *Builder[B] {
	for _, property := range properties {
		b.add(property)
	}
	return b
}

func (b *Builder[B]) add(property *Property) {
	if _, ok := b.d.byName[property.name]; ok {
		for i, existing := range b.d.properties {
			if existing.name == property.name {
				b.d.properties[i] = property
			}
		}
	} else {
		b.d.properties = append(b.d.properties, property)
	}
	b.d.byName[property.name] = property
}

// Identity enables identity handling with info.
func (b *Builder[B]) Identity(info *mapper.IdentityInfo) *Builder[B] {
	b.d.identity = info
	return b
}

// TypeInfo enables type markers with info.
func (b *Builder[B]) TypeInfo(info *mapper.TypeInfo) *Builder[B] {
	b.d.typeInfo = info
	return b
}

// Subtype registers the descriptor of a concrete type that values of
// B may hold at run time.
func (b *Builder[B]) Subtype(subtypes ...*Descriptor) *Builder[B] {
	for _, subtype := range subtypes {
		b.d.subtypes[subtype.typ] = subtype
	}
	return b
}

// Ignore skips the named properties in both directions.
func (b *Builder[B]) Ignore(names ...string) *Builder[B] {
	for _, name := range names {
		b.d.ignored[name] = true
	}
	return b
}

// IgnoreUnknown tolerates unknown properties whatever the call's
// options say.
func (b *Builder[B]) IgnoreUnknown() *Builder[B] {
	b.d.ignoreUnknown = true
	return b
}

// AnyGetter writes the entries of the map returned by get inline after
// the declared properties.
func (b *Builder[B]) AnyGetter(get func(B) *codec.OrderedMap) *Builder[B] {
	b.d.anyGetter = func(bean any) (*codec.OrderedMap, error) {
		typed, ok := bean.(B)
		if !ok {
			return nil, fmt.Errorf("%w: any-getter expects %s, got %T", mapper.ErrTypeMismatch, b.d.typ, bean)
		}
		return get(typed), nil
	}
	return b
}

// AnySetter receives every property that is neither declared nor
// ignored, decoded with [codec.Dynamic] unless [Builder.AnyCodec] says
// otherwise.
func (b *Builder[B]) AnySetter(set func(bean B, name string, value any)) *Builder[B] {
	b.d.anySetter = func(bean any, name string, value any) error {
		typed, ok := bean.(B)
		if !ok {
			return fmt.Errorf("%w: any-setter expects %s, got %T", mapper.ErrTypeMismatch, b.d.typ, bean)
		}
		set(typed, name, value)
		return nil
	}
	return b
}

// AnyCodec sets the codec of any-getter and any-setter values.
func (b *Builder[B]) AnyCodec(valueCodec mapper.Codec) *Builder[B] {
	b.d.anyCodec = valueCodec
	return b
}

// BackReference declares the back side of a parent/child link: set
// stores the parent a [Property.ManagedReference] called name hands
// over. Back references are never written.
func (b *Builder[B]) BackReference(name string, set func(bean B, parent any)) *Builder[B] {
	b.d.backReferences[name] = func(bean, reference any) error {
		typed, ok := bean.(B)
		if !ok {
			return fmt.Errorf("%w: back reference %q expects %s, got %T", mapper.ErrTypeMismatch, name, b.d.typ, bean)
		}
		set(typed, reference)
		return nil
	}
	return b
}

// Creator builds instances with build instead of the zero-argument
// constructor, passing the decoded params.
func (b *Builder[B]) Creator(build func(Args) (B, error), params ...*Property) *Builder[B] {
	creator := &Creator{
		params: params,
		byName: make(map[string]*Property, len(params)),
		build: func(args Args) (any, error) {
			return build(args)
		},
	}
	for _, param := range params {
		creator.byName[param.name] = param
	}
	b.d.creator = creator
	return b
}

// Build completes the descriptor. The same pointer was handed out by
// Ref, so references taken earlier see the finished descriptor.
func (b *Builder[B]) Build() *Descriptor {
	if b.built {
		return b.d
	}
	b.built = true
	d := b.d

	seen := make(map[string]bool)
	for _, property := range d.properties {
		if property.required && !seen[property.name] {
			seen[property.name] = true
			d.required = append(d.required, property.name)
		}
	}
	if d.creator != nil {
		for _, param := range d.creator.params {
			if param.required && !seen[param.name] {
				seen[param.name] = true
				d.required = append(d.required, param.name)
			}
		}
	}
	return d
}

// idCodec returns the codec of ids. When the identity info names none
// it is the codec of the id property or constructor parameter, looked
// up in the subtypes too, or the natural codec of the generator's ids.
func (d *Descriptor) idCodec(info *mapper.IdentityInfo) mapper.Codec {
	if info.Codec != nil {
		return info.Codec
	}
	if info.IsPropertyBased() {
		if found := d.idPropertyCodec(info.PropertyName); found != nil {
			return found
		}
		for _, subtype := range d.subtypes {
			if found := subtype.idPropertyCodec(info.PropertyName); found != nil {
				return found
			}
		}
		return codec.Dynamic
	}
	switch info.Generator.(type) {
	case *mapper.IntSequenceGenerator:
		return codec.Int[int]{}
	case mapper.UUIDGenerator, *mapper.UUIDGenerator:
		return codec.UUID
	}
	return codec.Dynamic
}

func (d *Descriptor) idPropertyCodec(name string) mapper.Codec {
	if d.creator != nil {
		if param, ok := d.creator.byName[name]; ok {
			return param.codec
		}
	}
	if property, ok := d.byName[name]; ok {
		return property.codec
	}
	return nil
}

// resolveIdentity returns the identity info in effect for this
// descriptor: the call's override, then the descriptor's own, then the
// one inherited from the declared type.
func (d *Descriptor) resolveIdentity(params *mapper.Parameters, inherited *mapper.IdentityInfo) *mapper.IdentityInfo {
	if info := params.IdentityOverride(); info != nil {
		return info
	}
	if d.identity != nil {
		return d.identity
	}
	return inherited
}

func (d *Descriptor) resolveTypeInfo(params *mapper.Parameters, inherited *mapper.TypeInfo) *mapper.TypeInfo {
	if info := params.TypeInfoOverride(); info != nil {
		return info
	}
	if d.typeInfo != nil {
		return d.typeInfo
	}
	return inherited
}

// subtypeFor returns the descriptor registered for runtime type typ,
// or d itself when typ is d's own type.
func (d *Descriptor) subtypeFor(typ reflect.Type) (*Descriptor, bool) {
	if typ == d.typ {
		return d, true
	}
	subtype, ok := d.subtypes[typ]
	return subtype, ok
}

// unwrappedRoutes maps every property name handled by an unwrapped
// child bean to the parent property holding that child. It is computed
// on first use because the child descriptor may still be under
// construction when the parent is built.
func (d *Descriptor) unwrappedRoutes() map[string]*Property {
	d.routesOnce.Do(func() {
		d.routes = make(map[string]*Property)
		for _, property := range d.properties {
			if !property.unwrapped() {
				continue
			}
			child, ok := property.codec.(*Descriptor)
			if !ok || child == d {
				continue
			}
			for _, name := range child.handledNames() {
				if _, declared := d.byName[name]; declared {
					continue
				}
				if _, taken := d.routes[name]; !taken {
					d.routes[name] = property
				}
			}
		}
	})
	return d.routes
}

// handledNames lists the wire names a descriptor reads, including
// those of its own unwrapped children.
func (d *Descriptor) handledNames() []string {
	var names []string
	for _, property := range d.properties {
		if !property.unwrapped() {
			names = append(names, property.name)
		}
	}
	for name := range d.unwrappedRoutes() {
		names = append(names, name)
	}
	return names
}
