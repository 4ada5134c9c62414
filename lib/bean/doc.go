// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bean serializes and deserializes structured record types
// ("beans") described by a [Descriptor].
//
// A Descriptor is an explicit table: the ordered list of properties,
// each with its accessor functions and value codec, plus optional
// identity info, type info, a subtype dispatch table, ignored and
// required names, an any-getter and any-setter, back-reference setters
// and the instance builder (a zero-argument constructor or a
// [Creator] taking constructor parameters). Descriptors are built with
// a [Builder] and never change afterwards, so one Descriptor serves
// any number of concurrent calls; all per-call state lives in the
// mapper contexts.
//
//	people := bean.For(func() *Person { return new(Person) })
//	people.Add(
//		bean.Field("name", codec.String,
//			func(p *Person) string { return p.Name },
//			func(p *Person, v string) { p.Name = v }).Required(),
//		bean.Field("friends", codec.SliceOf[*Person](people.Ref()),
//			func(p *Person) []*Person { return p.Friends },
//			func(p *Person, v []*Person) { p.Friends = v }),
//	)
//	descriptor := people.Build()
//
// A Descriptor is itself a [mapper.Codec] and can be used wherever a
// codec is expected, including as the element codec of slices and maps
// and recursively through [Builder.Ref].
//
// # Wire layout
//
// With type info, the marker of the runtime type is written as the
// first property (PROPERTY), as the single key of a wrapping object
// (WRAPPER_OBJECT) or as the first element of a wrapping two-element
// array (WRAPPER_ARRAY). With identity info, the id property follows
// the marker; a bean reached again in the same call is written as its
// bare id.
//
// # Reading out of order
//
// The stream does not have to list the type marker, the id or the
// constructor parameters first. Properties that precede them are
// captured as raw wire text and replayed onto the instance once it
// exists, so the result is the same whatever the property order.
package bean
