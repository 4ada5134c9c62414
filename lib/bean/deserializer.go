// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bean

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// Deserialize reads a bean. The value is one of:
//
//   - a bare id, when identity info is configured, resolved against
//     the beans already read in this call;
//   - a type-marked object in the configured inclusion, when type info
//     is configured (a leading array is always read as WRAPPER_ARRAY);
//   - a plain object.
func (d *Descriptor) Deserialize(r *stream.Reader, ctx *mapper.DeserializationContext, params *mapper.Parameters) (any, error) {
	if err := ctx.Enter(r, d.name); err != nil {
		return nil, err
	}
	defer ctx.Leave()

	identity := d.resolveIdentity(params, nil)
	typeInfo := d.resolveTypeInfo(params, nil)

	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if identity != nil && token != stream.BeginObject && token != stream.BeginArray {
		return d.readReference(r, ctx, identity)
	}
	if typeInfo == nil {
		if token != stream.BeginObject {
			return nil, ctx.DecodeError(r, d.name, "", fmt.Errorf("%w: expected BEGIN_OBJECT but was %s", mapper.ErrTypeMismatch, token))
		}
		if err := r.BeginObject(); err != nil {
			return nil, err
		}
		instance, err := d.deserializeInline(r, ctx, params, identity, typeInfo, "", &bufferedProperties{})
		if err != nil {
			return nil, err
		}
		return instance, r.EndObject()
	}

	inclusion := typeInfo.Inclusion
	if token == stream.BeginArray {
		inclusion = mapper.WrapperArray
	}
	switch inclusion {
	case mapper.WrapperObject:
		return d.readWrapperObject(r, ctx, params, identity, typeInfo)
	case mapper.WrapperArray:
		return d.readWrapperArray(r, ctx, params, identity, typeInfo)
	default:
		return d.readTypeProperty(r, ctx, params, identity, typeInfo)
	}
}

// readReference reads a bare id and returns the bean registered under
// it earlier in the call.
func (d *Descriptor) readReference(r *stream.Reader, ctx *mapper.DeserializationContext, identity *mapper.IdentityInfo) (any, error) {
	id, err := ctx.Deserialize(r, d.idCodec(identity), nil)
	if err != nil {
		return nil, ctx.DecodeError(r, d.name, identity.PropertyName, err)
	}
	instance, ok := ctx.ObjectByID(identity.Key(id))
	if !ok {
		return nil, ctx.DecodeError(r, d.name, identity.PropertyName, fmt.Errorf("%w: cannot find object with id %v", mapper.ErrUnknownObjectID, id))
	}
	return instance, nil
}

// resolve returns the descriptor of the type registered under marker.
func (d *Descriptor) resolve(r *stream.Reader, ctx *mapper.DeserializationContext, typeInfo *mapper.TypeInfo, marker string) (*Descriptor, error) {
	typ, ok := typeInfo.TypeOf(marker)
	if ok {
		if target, found := d.subtypeFor(typ); found {
			return target, nil
		}
	}
	return nil, ctx.DecodeError(r, d.name, "", fmt.Errorf("%w: no deserializer found for type %q", mapper.ErrUnknownType, marker))
}

// readTypeProperty reads an object whose marker is one of its
// properties. Properties ahead of the marker are buffered.
func (d *Descriptor) readTypeProperty(r *stream.Reader, ctx *mapper.DeserializationContext,
	params *mapper.Parameters, identity *mapper.IdentityInfo, typeInfo *mapper.TypeInfo) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.BeginObject {
		return nil, ctx.DecodeError(r, d.name, "", fmt.Errorf("%w: expected BEGIN_OBJECT but was %s", mapper.ErrTypeMismatch, token))
	}
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	buffered := &bufferedProperties{}
	marker := ""
	found := false
	for !found {
		more, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		name, err := r.NextName()
		if err != nil {
			return nil, err
		}
		if name == typeInfo.PropertyName {
			if marker, err = r.NextString(); err != nil {
				return nil, ctx.DecodeError(r, d.name, name, err)
			}
			found = true
			continue
		}
		if err := buffered.capture(r, name); err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, ctx.DecodeError(r, d.name, typeInfo.PropertyName, fmt.Errorf("%w: %q", mapper.ErrMissingTypeProperty, typeInfo.PropertyName))
	}
	target, err := d.resolve(r, ctx, typeInfo, marker)
	if err != nil {
		return nil, err
	}
	instance, err := target.deserializeInline(r, ctx, params, target.resolveIdentity(params, identity), typeInfo, marker, buffered)
	if err != nil {
		return nil, err
	}
	return instance, r.EndObject()
}

func (d *Descriptor) readWrapperObject(r *stream.Reader, ctx *mapper.DeserializationContext,
	params *mapper.Parameters, identity *mapper.IdentityInfo, typeInfo *mapper.TypeInfo) (any, error) {
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	marker, err := r.NextName()
	if err != nil {
		return nil, err
	}
	target, err := d.resolve(r, ctx, typeInfo, marker)
	if err != nil {
		return nil, err
	}
	instance, err := target.readWrapped(r, ctx, params, target.resolveIdentity(params, identity), typeInfo, marker)
	if err != nil {
		return nil, err
	}
	return instance, r.EndObject()
}

func (d *Descriptor) readWrapperArray(r *stream.Reader, ctx *mapper.DeserializationContext,
	params *mapper.Parameters, identity *mapper.IdentityInfo, typeInfo *mapper.TypeInfo) (any, error) {
	if err := r.BeginArray(); err != nil {
		return nil, err
	}
	marker, err := r.NextString()
	if err != nil {
		return nil, ctx.DecodeError(r, d.name, "", err)
	}
	target, err := d.resolve(r, ctx, typeInfo, marker)
	if err != nil {
		return nil, err
	}
	instance, err := target.readWrapped(r, ctx, params, target.resolveIdentity(params, identity), typeInfo, marker)
	if err != nil {
		return nil, err
	}
	return instance, r.EndArray()
}

// readWrapped reads the object inside a type wrapper.
func (d *Descriptor) readWrapped(r *stream.Reader, ctx *mapper.DeserializationContext,
	params *mapper.Parameters, identity *mapper.IdentityInfo, typeInfo *mapper.TypeInfo, marker string) (any, error) {
	token, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if token != stream.BeginObject {
		return nil, ctx.DecodeError(r, d.name, "", fmt.Errorf("%w: expected BEGIN_OBJECT but was %s", mapper.ErrTypeMismatch, token))
	}
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	instance, err := d.deserializeInline(r, ctx, params, identity, typeInfo, marker, &bufferedProperties{})
	if err != nil {
		return nil, err
	}
	return instance, r.EndObject()
}

// objectState is the progress of reading one object.
type objectState struct {
	d             *Descriptor
	instance      any
	params        *mapper.Parameters
	requiredLeft  map[string]bool
	ignoreUnknown bool

	children     map[*Property]*objectState
	childrenList []*Property
}

func (d *Descriptor) newState(ctx *mapper.DeserializationContext, params *mapper.Parameters) *objectState {
	state := &objectState{
		d:             d,
		params:        params,
		requiredLeft:  make(map[string]bool, len(d.required)),
		ignoreUnknown: d.ignoreUnknown || params.IgnoresUnknown() || !ctx.Options().FailOnUnknownProperties,
	}
	for _, name := range d.required {
		state.requiredLeft[name] = true
	}
	return state
}

// deserializeInline reads the properties of an object whose opening
// brace has been consumed, stopping before the closing brace.
// buffered holds properties already read ahead by the caller.
func (d *Descriptor) deserializeInline(r *stream.Reader, ctx *mapper.DeserializationContext,
	params *mapper.Parameters, identity *mapper.IdentityInfo, typeInfo *mapper.TypeInfo,
	marker string, buffered *bufferedProperties) (any, error) {
	state := d.newState(ctx, params)

	var id any
	hasID := false
	if identity != nil {
		var err error
		if id, hasID, err = d.scanIdentity(r, ctx, identity, buffered); err != nil {
			return nil, err
		}
	}

	decoded := make(map[string]any)
	if hasID && identity.IsPropertyBased() {
		decoded[identity.PropertyName] = id
	}
	instance, err := d.instantiate(r, ctx, state, buffered, decoded)
	if err != nil {
		return nil, err
	}
	state.instance = instance

	if hasID {
		if err := ctx.AddObjectID(identity.Key(id), instance); err != nil {
			return nil, ctx.DecodeError(r, d.name, identity.PropertyName, err)
		}
	}
	for name, value := range decoded {
		delete(state.requiredLeft, name)
		if err := d.setDecoded(r, ctx, state, name, value); err != nil {
			return nil, err
		}
	}

	if marker != "" && typeInfo != nil && typeInfo.PropertyName != "" {
		delete(state.requiredLeft, typeInfo.PropertyName)
		if property, ok := d.byName[typeInfo.PropertyName]; ok && property.writable() {
			if err := property.set(instance, marker); err != nil {
				return nil, ctx.DecodeError(r, d.name, property.name, err)
			}
		}
	}

	for _, entry := range buffered.drain() {
		if err := d.readProperty(replayReader(ctx, entry.raw), ctx, state, entry.name); err != nil {
			return nil, entry.relocate(err)
		}
	}
	for {
		more, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		name, err := r.NextName()
		if err != nil {
			return nil, err
		}
		if err := d.readProperty(r, ctx, state, name); err != nil {
			return nil, err
		}
	}

	if err := state.finish(r, ctx); err != nil {
		return nil, err
	}
	return instance, nil
}

// scanIdentity finds the id of the object being read, first among the
// buffered properties, then further down the stream, buffering every
// property that precedes it.
func (d *Descriptor) scanIdentity(r *stream.Reader, ctx *mapper.DeserializationContext,
	identity *mapper.IdentityInfo, buffered *bufferedProperties) (any, bool, error) {
	idCodec := d.idCodec(identity)
	if entry, ok := buffered.take(identity.PropertyName); ok {
		id, err := decodeBuffered(ctx, entry, idCodec, nil)
		if err != nil {
			return nil, false, ctx.DecodeError(r, d.name, identity.PropertyName, err)
		}
		return id, id != nil, nil
	}
	for {
		more, err := r.HasNext()
		if err != nil {
			return nil, false, err
		}
		if !more {
			return nil, false, nil
		}
		name, err := r.NextName()
		if err != nil {
			return nil, false, err
		}
		if name == identity.PropertyName {
			id, err := ctx.Deserialize(r, idCodec, nil)
			if err != nil {
				return nil, false, ctx.DecodeError(r, d.name, name, err)
			}
			return id, id != nil, nil
		}
		if err := buffered.capture(r, name); err != nil {
			return nil, false, err
		}
	}
}

// instantiate builds the instance. A creator consumes its parameters
// from decoded, from the buffer and from the stream, buffering any
// other property it passes on the way; decoded is left holding only
// the values the creator did not take.
func (d *Descriptor) instantiate(r *stream.Reader, ctx *mapper.DeserializationContext,
	state *objectState, buffered *bufferedProperties, decoded map[string]any) (any, error) {
	if d.creator == nil {
		if d.newInstance == nil {
			return nil, ctx.DecodeError(r, d.name, "", fmt.Errorf("%w: %s has no constructor", mapper.ErrCannotInstantiate, d.name))
		}
		return d.newInstance(), nil
	}

	args := make(Args, len(d.creator.params))
	found := make(map[string]bool, len(d.creator.params))
	for _, param := range d.creator.params {
		if value, ok := decoded[param.name]; ok {
			args[param.name] = value
			found[param.name] = true
			if _, declared := d.byName[param.name]; !declared {
				delete(decoded, param.name)
			}
			continue
		}
		if entry, ok := buffered.take(param.name); ok {
			value, err := decodeBuffered(ctx, entry, param.codec, param.params)
			if err != nil {
				return nil, ctx.DecodeError(r, d.name, param.name, err)
			}
			args[param.name] = value
			found[param.name] = true
		}
	}
	for len(found) < len(d.creator.params) {
		more, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		name, err := r.NextName()
		if err != nil {
			return nil, err
		}
		if param, ok := d.creator.byName[name]; ok && !found[name] {
			value, err := ctx.Deserialize(r, param.codec, param.params)
			if err != nil {
				return nil, ctx.DecodeError(r, d.name, name, err)
			}
			args[name] = value
			found[name] = true
			continue
		}
		if err := buffered.capture(r, name); err != nil {
			return nil, err
		}
	}
	for name := range found {
		delete(state.requiredLeft, name)
	}

	instance, err := d.creator.build(args)
	if err != nil {
		return nil, ctx.DecodeError(r, d.name, "", fmt.Errorf("%w: %w", mapper.ErrCannotInstantiate, err))
	}
	if mapper.IsNil(instance) {
		return nil, ctx.DecodeError(r, d.name, "", fmt.Errorf("%w: creator returned nil", mapper.ErrCannotInstantiate))
	}
	return instance, nil
}

// setDecoded applies a value decoded ahead of the instance, such as a
// property-based id, through the property's setter.
func (d *Descriptor) setDecoded(r *stream.Reader, ctx *mapper.DeserializationContext, state *objectState, name string, value any) error {
	property, ok := d.byName[name]
	if !ok || !property.writable() {
		return nil
	}
	if err := property.set(state.instance, value); err != nil {
		return ctx.DecodeError(r, d.name, name, err)
	}
	return nil
}

// readProperty reads the value of the property called name onto the
// instance, routing it to the declared property, an unwrapped child,
// the any-setter or the unknown-property policy.
func (d *Descriptor) readProperty(r *stream.Reader, ctx *mapper.DeserializationContext, state *objectState, name string) error {
	delete(state.requiredLeft, name)

	if d.ignored[name] || state.params.IsIgnored(name) {
		return r.SkipValue()
	}

	if property, ok := d.byName[name]; ok && !property.unwrapped() {
		if !property.writable() {
			return r.SkipValue()
		}
		value, err := ctx.Deserialize(r, property.codec, property.params)
		if err != nil {
			return ctx.DecodeError(r, d.name, name, err)
		}
		if err := property.set(state.instance, value); err != nil {
			return ctx.DecodeError(r, d.name, name, err)
		}
		if property.managedReference != "" && !mapper.IsNil(value) {
			if err := setBackReference(property.codec, property.managedReference, state.instance, value, ctx); err != nil {
				return ctx.DecodeError(r, d.name, name, err)
			}
		}
		return nil
	}

	if property, ok := d.unwrappedRoutes()[name]; ok {
		child, err := state.child(r, ctx, property)
		if err != nil {
			return err
		}
		return child.d.readProperty(r, ctx, child, name)
	}

	if d.anySetter != nil {
		value, err := ctx.Deserialize(r, d.anyCodec, nil)
		if err != nil {
			return ctx.DecodeError(r, d.name, name, err)
		}
		if err := d.anySetter(state.instance, name, value); err != nil {
			return ctx.DecodeError(r, d.name, name, err)
		}
		return nil
	}

	if state.ignoreUnknown {
		return r.SkipValue()
	}
	return ctx.DecodeError(r, d.name, name, fmt.Errorf("%w: %q", mapper.ErrUnknownProperty, name))
}

// child returns the state of the unwrapped bean held by property,
// creating the bean on first use.
func (s *objectState) child(r *stream.Reader, ctx *mapper.DeserializationContext, property *Property) (*objectState, error) {
	if child, ok := s.children[property]; ok {
		return child, nil
	}
	descriptor := property.codec.(*Descriptor)
	if descriptor.newInstance == nil {
		return nil, ctx.DecodeError(r, s.d.name, property.name,
			fmt.Errorf("%w: unwrapped %s needs a zero-argument constructor", mapper.ErrCannotInstantiate, descriptor.name))
	}
	child := descriptor.newState(ctx, property.params)
	child.instance = descriptor.newInstance()
	if s.children == nil {
		s.children = make(map[*Property]*objectState)
	}
	s.children[property] = child
	s.childrenList = append(s.childrenList, property)
	return child, nil
}

// finish attaches unwrapped children to the instance and checks that
// every required property was seen.
func (s *objectState) finish(r *stream.Reader, ctx *mapper.DeserializationContext) error {
	for _, property := range s.childrenList {
		child := s.children[property]
		if err := child.finish(r, ctx); err != nil {
			return err
		}
		if property.writable() {
			if err := property.set(s.instance, child.instance); err != nil {
				return ctx.DecodeError(r, s.d.name, property.name, err)
			}
		}
	}
	if len(s.requiredLeft) == 0 {
		return nil
	}
	missing := make([]string, 0, len(s.requiredLeft))
	for name := range s.requiredLeft {
		missing = append(missing, name)
	}
	slices.Sort(missing)
	return ctx.DecodeError(r, s.d.name, "",
		fmt.Errorf("%w: %s", mapper.ErrMissingRequired, strings.Join(missing, ", ")))
}
