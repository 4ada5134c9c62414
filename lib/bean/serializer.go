// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bean

import (
	"fmt"
	"reflect"

	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
	"github.com/hasys/mapper-xml/lib/stream"
)

// Serialize writes value, a bean of the descriptor's type or of one of
// its registered subtypes.
//
// A runtime type with no registered subtype descriptor is written with
// this descriptor and logged at debug level rather than failing the
// call. The output then lacks the subtype's own properties, so callers
// that need them must register every concrete type with
// [Builder.Subtype].
func (d *Descriptor) Serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext, params *mapper.Parameters) error {
	if mapper.IsNil(value) {
		return w.Null()
	}
	if err := ctx.Enter(d.name); err != nil {
		return err
	}
	defer ctx.Leave()

	target := d.dispatch(value, ctx)
	identity := target.resolveIdentity(params, d.resolveIdentity(params, nil))
	typeInfo := target.resolveTypeInfo(params, d.resolveTypeInfo(params, nil))
	return target.serialize(w, value, ctx, params, identity, typeInfo)
}

// dispatch returns the descriptor that writes value's runtime type.
func (d *Descriptor) dispatch(value any, ctx *mapper.SerializationContext) *Descriptor {
	runtime := reflect.TypeOf(value)
	if target, ok := d.subtypeFor(runtime); ok {
		return target
	}
	ctx.Logger().Debug("no descriptor registered for runtime type, writing declared type",
		"type", d.name,
		"runtime_type", runtime.String(),
	)
	return d
}

func (d *Descriptor) serialize(w *stream.Writer, value any, ctx *mapper.SerializationContext,
	params *mapper.Parameters, identity *mapper.IdentityInfo, typeInfo *mapper.TypeInfo) error {
	if params.IsUnwrapped() {
		return d.serializeProperties(w, value, ctx, params, identity, "")
	}

	var id *mapper.ObjectID
	if identity != nil {
		if existing, ok := ctx.ObjectID(value); ok {
			return d.writeID(w, existing, ctx)
		}
		generated, err := d.objectID(value, identity, ctx)
		if err != nil {
			return ctx.EncodeError(d.name, identity.PropertyName, err)
		}
		if identity.AlwaysAsID {
			return d.writeID(w, generated, ctx)
		}
		ctx.AddObjectID(value, generated)
		id = &generated
	}

	if typeInfo == nil {
		return d.serializeObject(w, value, ctx, params, identity, id, "", "")
	}
	marker, ok := typeInfo.Marker(reflect.TypeOf(value))
	if !ok {
		ctx.Logger().Warn("no type marker registered for runtime type, writing it without one",
			"type", d.name,
			"runtime_type", reflect.TypeOf(value).String(),
		)
		return d.serializeObject(w, value, ctx, params, identity, id, "", "")
	}

	switch typeInfo.Inclusion {
	case mapper.WrapperObject:
		if err := w.BeginObject(); err != nil {
			return err
		}
		if err := w.Name(marker); err != nil {
			return err
		}
		if err := d.serializeObject(w, value, ctx, params, identity, id, "", ""); err != nil {
			return err
		}
		return w.EndObject()
	case mapper.WrapperArray:
		if err := w.BeginArray(); err != nil {
			return err
		}
		if err := w.String(marker); err != nil {
			return err
		}
		if err := d.serializeObject(w, value, ctx, params, identity, id, "", ""); err != nil {
			return err
		}
		return w.EndArray()
	default:
		return d.serializeObject(w, value, ctx, params, identity, id, typeInfo.PropertyName, marker)
	}
}

// objectID returns the id of a bean written for the first time: the
// value of its id property, or the next id of the generator.
func (d *Descriptor) objectID(value any, identity *mapper.IdentityInfo, ctx *mapper.SerializationContext) (mapper.ObjectID, error) {
	idCodec := d.idCodec(identity)
	if !identity.IsPropertyBased() {
		return mapper.ObjectID{Value: ctx.GenerateID(identity), Codec: idCodec}, nil
	}
	property, ok := d.byName[identity.PropertyName]
	if !ok || !property.readable() {
		return mapper.ObjectID{}, fmt.Errorf("%w: no readable id property %q", mapper.ErrTypeMismatch, identity.PropertyName)
	}
	idValue, err := property.get(value)
	if err != nil {
		return mapper.ObjectID{}, err
	}
	return mapper.ObjectID{Value: idValue, Codec: idCodec}, nil
}

func (d *Descriptor) writeID(w *stream.Writer, id mapper.ObjectID, ctx *mapper.SerializationContext) error {
	if err := ctx.Serialize(w, id.Value, id.Codec, nil); err != nil {
		return ctx.EncodeError(d.name, "", err)
	}
	return nil
}

func (d *Descriptor) serializeObject(w *stream.Writer, value any, ctx *mapper.SerializationContext,
	params *mapper.Parameters, identity *mapper.IdentityInfo, id *mapper.ObjectID, typeProperty, marker string) error {
	if err := w.BeginObject(); err != nil {
		return err
	}
	if typeProperty != "" {
		if err := w.Name(typeProperty); err != nil {
			return err
		}
		if err := w.String(marker); err != nil {
			return err
		}
	}
	if id != nil {
		if err := w.Name(identity.PropertyName); err != nil {
			return err
		}
		if err := d.writeID(w, *id, ctx); err != nil {
			return err
		}
	}
	if err := d.serializeProperties(w, value, ctx, params, identity, typeProperty); err != nil {
		return err
	}
	return w.EndObject()
}

// serializeProperties writes the declared properties in order, then
// the any-getter entries, into the object that is already open.
func (d *Descriptor) serializeProperties(w *stream.Writer, value any, ctx *mapper.SerializationContext,
	params *mapper.Parameters, identity *mapper.IdentityInfo, typeProperty string) error {
	for _, property := range d.properties {
		if !property.readable() || d.ignored[property.name] || params.IsIgnored(property.name) {
			continue
		}
		if identity != nil && property.name == identity.PropertyName {
			continue
		}
		if typeProperty != "" && property.name == typeProperty {
			continue
		}
		if err := d.serializeProperty(w, value, property, ctx); err != nil {
			return ctx.EncodeError(d.name, property.name, err)
		}
	}

	if d.anyGetter == nil {
		return nil
	}
	extra, err := d.anyGetter(value)
	if err != nil {
		return ctx.EncodeError(d.name, "", err)
	}
	if extra == nil {
		return nil
	}
	if err := (codec.OrderedMapCodec{Value: d.anyCodec}).SerializeEntries(w, extra, ctx, nil); err != nil {
		return ctx.EncodeError(d.name, "", err)
	}
	return nil
}

func (d *Descriptor) serializeProperty(w *stream.Writer, bean any, property *Property, ctx *mapper.SerializationContext) error {
	value, err := property.get(bean)
	if err != nil {
		return err
	}
	if property.unwrapped() {
		if mapper.IsNil(value) {
			return nil
		}
		return property.codec.Serialize(w, value, ctx, property.params)
	}

	switch property.params.InclusionRule() {
	case mapper.IncludeNonNull:
		if mapper.IsNil(value) {
			return nil
		}
	case mapper.IncludeNonEmpty:
		if err := w.Name(property.name); err != nil {
			return err
		}
		if isEmpty(value) {
			w.CancelName()
			return nil
		}
		return ctx.Serialize(w, value, property.codec, property.params)
	}
	if err := w.Name(property.name); err != nil {
		return err
	}
	return ctx.Serialize(w, value, property.codec, property.params)
}
