// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bean

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/hasys/mapper-xml/lib/codec"
	"github.com/hasys/mapper-xml/lib/mapper"
)

type address struct {
	Street string
	City   string
}

type person struct {
	Name     string
	Age      int
	Nickname *string
	Address  *address
	Tags     []string
}

func addressDescriptor() *Descriptor {
	return For(func() *address { return new(address) }).Add(
		Field("street", codec.String,
			func(a *address) string { return a.Street },
			func(a *address, v string) { a.Street = v }),
		Field("city", codec.String,
			func(a *address) string { return a.City },
			func(a *address, v string) { a.City = v }),
	).Build()
}

func personBuilder() *Builder[*person] {
	return For(func() *person { return new(person) }).Add(
		Field("name", codec.String,
			func(p *person) string { return p.Name },
			func(p *person, v string) { p.Name = v }).Required(),
		Field("age", codec.Int[int]{},
			func(p *person) int { return p.Age },
			func(p *person, v int) { p.Age = v }),
		Field("nickname", codec.PointerTo[string](codec.String),
			func(p *person) *string { return p.Nickname },
			func(p *person, v *string) { p.Nickname = v }),
		Field("address", addressDescriptor(),
			func(p *person) *address { return p.Address },
			func(p *person, v *address) { p.Address = v }),
		Field("tags", codec.SliceOf[string](codec.String),
			func(p *person) []string { return p.Tags },
			func(p *person, v []string) { p.Tags = v }),
	)
}

func samplePerson() *person {
	return &person{
		Name:    "Ada",
		Age:     36,
		Address: &address{Street: "12 St James's Square", City: "London"},
		Tags:    []string{"math", "engines"},
	}
}

func write(t *testing.T, value any, descriptor *Descriptor, options mapper.Options) string {
	t.Helper()
	output, err := mapper.Write(value, descriptor, options)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	return output
}

func read(t *testing.T, input string, descriptor mapper.Codec, options mapper.Options) any {
	t.Helper()
	value, err := mapper.Read(input, descriptor, options)
	if err != nil {
		t.Fatalf("Read(%s): %v", input, err)
	}
	return value
}

func TestRoundTrip(t *testing.T) {
	descriptor := personBuilder().Build()
	options := mapper.DefaultOptions()
	original := samplePerson()

	output := write(t, original, descriptor, options)
	want := `{"name":"Ada","age":36,"nickname":null,"address":{"street":"12 St James's Square","city":"London"},"tags":["math","engines"]}`
	if output != want {
		t.Fatalf("got %s, want %s", output, want)
	}

	decoded := read(t, output, descriptor, options)
	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("round trip: got %+v, want %+v", decoded, original)
	}

	if again := write(t, original, descriptor, options); again != output {
		t.Errorf("second encoding differs:\n%s\n%s", again, output)
	}
}

func TestObjectMapper(t *testing.T) {
	people := mapper.New[*person](personBuilder().Build(), mapper.DefaultOptions())
	got, err := people.Read(`{"name":"Grace","age":85}`)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Name != "Grace" || got.Age != 85 {
		t.Errorf("got %+v", got)
	}
	output, err := people.Write(&person{Name: "Alan"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := `{"name":"Alan","age":0,"nickname":null,"address":null,"tags":null}`; output != want {
		t.Errorf("got %s, want %s", output, want)
	}
}

func TestNullElision(t *testing.T) {
	descriptor := personBuilder().Build()
	value := &person{Name: "Ada", Age: 1}

	options := mapper.DefaultOptions()
	options.SerializeNulls = false
	output := write(t, value, descriptor, options)
	if strings.Contains(output, "nickname") || strings.Contains(output, "null") {
		t.Errorf("nulls not elided: %s", output)
	}
	if want := `{"name":"Ada","age":1}`; output != want {
		t.Errorf("got %s, want %s", output, want)
	}

	options.SerializeNulls = true
	if output := write(t, value, descriptor, options); !strings.Contains(output, `"nickname":null`) {
		t.Errorf("null not written: %s", output)
	}
}

func TestIncludeRules(t *testing.T) {
	descriptor := For(func() *person { return new(person) }).Add(
		Field("name", codec.String,
			func(p *person) string { return p.Name },
			func(p *person, v string) { p.Name = v }).With(&mapper.Parameters{Include: mapper.IncludeNonEmpty}),
		Field("nickname", codec.PointerTo[string](codec.String),
			func(p *person) *string { return p.Nickname },
			func(p *person, v *string) { p.Nickname = v }).With(&mapper.Parameters{Include: mapper.IncludeNonNull}),
		Field("tags", codec.SliceOf[string](codec.String),
			func(p *person) []string { return p.Tags },
			func(p *person, v []string) { p.Tags = v }).With(&mapper.Parameters{Include: mapper.IncludeNonEmpty}),
	).Build()

	output := write(t, &person{Tags: []string{}}, descriptor, mapper.DefaultOptions())
	if output != "{}" {
		t.Errorf("got %s, want {}", output)
	}
	nickname := ""
	output = write(t, &person{Name: "a", Nickname: &nickname, Tags: []string{"t"}}, descriptor, mapper.DefaultOptions())
	if want := `{"name":"a","nickname":"","tags":["t"]}`; output != want {
		t.Errorf("got %s, want %s", output, want)
	}
}

func TestRequiredProperties(t *testing.T) {
	descriptor := personBuilder().Build()
	inputs := []string{
		`{"age":3}`,
		`{"age":3,"tags":["x"]}`,
		`{"tags":[],"age":3,"nickname":"n"}`,
		`{}`,
	}
	for _, input := range inputs {
		_, err := mapper.Read(input, descriptor, mapper.DefaultOptions())
		if !errors.Is(err, mapper.ErrMissingRequired) {
			t.Errorf("Read(%s): got %v, want ErrMissingRequired", input, err)
			continue
		}
		if !strings.Contains(err.Error(), "name") {
			t.Errorf("Read(%s): error %q does not name the property", input, err)
		}
	}
	if _, err := mapper.Read(`{"age":3,"name":"late"}`, descriptor, mapper.DefaultOptions()); err != nil {
		t.Errorf("required property last: %v", err)
	}
}

func TestUnknownProperties(t *testing.T) {
	input := `{"name":"Ada","shoe_size":{"eu":[38,39]},"age":1}`

	strict := mapper.DefaultOptions()
	strict.FailOnUnknownProperties = true
	_, err := mapper.Read(input, personBuilder().Build(), strict)
	if !errors.Is(err, mapper.ErrUnknownProperty) {
		t.Fatalf("strict: got %v, want ErrUnknownProperty", err)
	}
	var decodeErr *mapper.DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Property != "shoe_size" {
		t.Errorf("strict: error %v does not name shoe_size", err)
	}

	lenient := mapper.DefaultOptions()
	lenient.FailOnUnknownProperties = false
	value := read(t, input, personBuilder().Build(), lenient).(*person)
	if value.Name != "Ada" || value.Age != 1 {
		t.Errorf("lenient: got %+v", value)
	}

	tolerant := personBuilder().IgnoreUnknown().Build()
	if _, err := mapper.Read(input, tolerant, strict); err != nil {
		t.Errorf("descriptor ignoring unknown: %v", err)
	}
	params := &mapper.Parameters{IgnoreUnknown: true}
	ctx := mapper.NewDeserializationContext(strict)
	if _, err := personBuilder().Build().Deserialize(ctx.NewReader(input), ctx, params); err != nil {
		t.Errorf("parameters ignoring unknown: %v", err)
	}
}

func TestIgnoredProperties(t *testing.T) {
	descriptor := personBuilder().Ignore("age", "secret").Build()
	output := write(t, &person{Name: "Ada", Age: 36}, descriptor, mapper.DefaultOptions())
	if strings.Contains(output, "age") {
		t.Errorf("ignored property written: %s", output)
	}
	value := read(t, `{"secret":{"a":[1]},"name":"Ada","age":99}`, descriptor, mapper.DefaultOptions()).(*person)
	if value.Age != 0 || value.Name != "Ada" {
		t.Errorf("got %+v", value)
	}

	params := &mapper.Parameters{Ignored: []string{"tags"}}
	ctx := mapper.NewSerializationContext(mapper.DefaultOptions())
	w := ctx.NewWriter()
	if err := descriptor.Serialize(w, &person{Name: "Ada", Tags: []string{"x"}}, ctx, params); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if strings.Contains(w.Output(), "tags") {
		t.Errorf("parameter-ignored property written: %s", w.Output())
	}
}

func TestDecodeErrorNamesProperty(t *testing.T) {
	_, err := mapper.Read(`{"name":"Ada","age":"many"}`, personBuilder().Build(), mapper.DefaultOptions())
	var decodeErr *mapper.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("got %v, want *DecodeError", err)
	}
	if decodeErr.Property != "age" || decodeErr.Type != "*bean.person" {
		t.Errorf("got type %q property %q, want *bean.person age", decodeErr.Type, decodeErr.Property)
	}
}

type samples struct {
	Scores []int
	Data   []byte
}

func samplesDescriptor() *Descriptor {
	return For(func() *samples { return new(samples) }).Add(
		Field("scores", codec.SliceOf[int](codec.Int[int]{}),
			func(s *samples) []int { return s.Scores },
			func(s *samples, v []int) { s.Scores = v }),
		Field("data", codec.Bytes,
			func(s *samples) []byte { return s.Data },
			func(s *samples, v []byte) { s.Data = v }),
	).Build()
}

func TestEmptyArrays(t *testing.T) {
	value := &samples{Scores: []int{}, Data: []byte{7}}

	options := mapper.DefaultOptions()
	options.WriteEmptyArrays = false
	if got, want := write(t, value, samplesDescriptor(), options), `{"scores":null,"data":"Bw=="}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	options.WriteEmptyArrays = true
	if got, want := write(t, value, samplesDescriptor(), options), `{"scores":[],"data":"Bw=="}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestByteArrays(t *testing.T) {
	value := &samples{Data: []byte{1, 2, 3}}
	output := write(t, value, samplesDescriptor(), mapper.DefaultOptions())
	if want := `{"scores":null,"data":"AQID"}`; output != want {
		t.Fatalf("got %s, want %s", output, want)
	}

	options := mapper.DefaultOptions()
	options.AcceptSingleValueAsArray = false
	if _, err := mapper.Read(output, samplesDescriptor(), options); !errors.Is(err, mapper.ErrTypeMismatch) {
		t.Errorf("plain string without accept-single-value: got %v, want ErrTypeMismatch", err)
	}

	options.AcceptSingleValueAsArray = true
	decoded := read(t, output, samplesDescriptor(), options).(*samples)
	if !reflect.DeepEqual(decoded.Data, []byte{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", decoded.Data)
	}

	fromArray := read(t, `{"data":[1,2,3]}`, samplesDescriptor(), mapper.DefaultOptions()).(*samples)
	if !reflect.DeepEqual(fromArray.Data, []byte{1, 2, 3}) {
		t.Errorf("array form: got %v", fromArray.Data)
	}
}

func TestDepthGuard(t *testing.T) {
	type link struct{ Next *link }
	links := For(func() *link { return new(link) })
	links.Add(Field("next", links.Ref(),
		func(l *link) *link { return l.Next },
		func(l *link, v *link) { l.Next = v }))
	descriptor := links.Build()

	options := mapper.DefaultOptions()
	options.MaxDepth = 3

	cycle := &link{}
	cycle.Next = cycle
	if _, err := mapper.Write(cycle, descriptor, options); !errors.Is(err, mapper.ErrMaxDepth) {
		t.Errorf("cyclic write: got %v, want ErrMaxDepth", err)
	}
	if _, err := mapper.Read(`{"next":{"next":{"next":{"next":null}}}}`, descriptor, options); !errors.Is(err, mapper.ErrMaxDepth) {
		t.Errorf("deep read: got %v, want ErrMaxDepth", err)
	}
	if _, err := mapper.Read(`{"next":{"next":null}}`, descriptor, options); err != nil {
		t.Errorf("shallow read: %v", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	descriptor := personBuilder().Build()
	options := mapper.DefaultOptions()
	want := write(t, samplePerson(), descriptor, options)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			output, err := mapper.Write(samplePerson(), descriptor, options)
			if err != nil {
				errs <- err
				return
			}
			if output != want {
				errs <- errors.New("output differs: " + output)
				return
			}
			if _, err := mapper.Read(output, descriptor, options); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
