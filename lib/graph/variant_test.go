// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bureau-foundation/confcache/lib/provider"
	"github.com/bureau-foundation/confcache/lib/stream"
)

// countingRegistry wraps MemoryServiceRegistry and counts Register
// calls.
type countingRegistry struct {
	*MemoryServiceRegistry
	registrations int
}

func (r *countingRegistry) Register(name string, implementationType provider.TypeRef, parameters any, maxUsages int) (*provider.ManagedService, error) {
	r.registrations++
	return r.MemoryServiceRegistry.Register(name, implementationType, parameters, maxUsages)
}

func TestValueSourceReferenceRoundtrip(t *testing.T) {
	var buffer bytes.Buffer
	options := Options{}
	encoder, decoder := encodeDecodePair(&buffer, options)
	ctx := context.Background()

	source := provider.NewSourceProvider(
		provider.NewValueSource("EnvVariableSource", "EnvVariableParameters",
			map[string]any{"name": "JAVA_HOME"}),
		nil)

	if err := encoder.EncodeProvider(ctx, source); err != nil {
		t.Fatalf("EncodeProvider: %v", err)
	}

	// Changing tag, then the source codec's ordinal 0.
	encoded := buffer.Bytes()
	if encoded[0] != tagChanging || encoded[1] != 0 {
		t.Errorf("prefix = %x, want [03 00]", encoded[:2])
	}

	value, err := decoder().DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	decoded, ok := value.Inner().(*provider.SourceProvider)
	if !ok {
		t.Fatalf("inner type = %T, want *provider.SourceProvider", value.Inner())
	}
	recovered := decoded.Source()
	if recovered.SourceType != "EnvVariableSource" || recovered.ParametersType != "EnvVariableParameters" {
		t.Errorf("recovered types = %s/%s", recovered.SourceType, recovered.ParametersType)
	}
	parameters, ok := recovered.Parameters.(map[string]any)
	if !ok || parameters["name"] != "JAVA_HOME" {
		t.Errorf("recovered parameters = %v", recovered.Parameters)
	}
}

func TestObtainedSourceIsFatal(t *testing.T) {
	var buffer bytes.Buffer
	encoder, _ := encodeDecodePair(&buffer, Options{})
	ctx := context.Background()

	source := provider.NewValueSource("EnvVariableSource", "EnvVariableParameters", nil)
	source.MarkObtained()

	err := encoder.EncodeProvider(ctx, provider.NewSourceProvider(source, nil))
	if !errors.Is(err, ErrObtainedSource) {
		t.Fatalf("error = %v, want ErrObtainedSource", err)
	}
}

func TestFalseSourceMarkerIsCorruption(t *testing.T) {
	var buffer bytes.Buffer
	writer := stream.NewWriter(&buffer)
	// A changing value dispatched to ordinal 0 whose marker byte is
	// false: no valid encoding produces this.
	if err := writer.Byte(tagChanging); err != nil {
		t.Fatal(err)
	}
	if err := writer.Byte(0); err != nil {
		t.Fatal(err)
	}
	if err := writer.Bool(false); err != nil {
		t.Fatal(err)
	}

	decoder := NewDecoder(stream.NewReader(&buffer), Options{})
	_, err := decoder.DecodeValue()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v, want ErrCorrupt", err)
	}
}

func TestInvalidSourceMarkerByteIsCorruption(t *testing.T) {
	var buffer bytes.Buffer
	writer := stream.NewWriter(&buffer)
	// A changing value dispatched to ordinal 0 whose marker byte is
	// neither 0 nor 1. The byte-level damage must classify as
	// corruption, not as a bare decode failure.
	if err := writer.Byte(tagChanging); err != nil {
		t.Fatal(err)
	}
	if err := writer.Byte(0); err != nil {
		t.Fatal(err)
	}
	if err := writer.Byte(7); err != nil {
		t.Fatal(err)
	}

	decoder := NewDecoder(stream.NewReader(&buffer), Options{})
	_, err := decoder.DecodeValue()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v, want ErrCorrupt", err)
	}
}

func TestManagedServiceSharedIdentity(t *testing.T) {
	registry := &countingRegistry{MemoryServiceRegistry: NewMemoryServiceRegistry()}
	options := Options{Services: registry}
	var buffer bytes.Buffer
	encoder, decoder := encodeDecodePair(&buffer, options)
	ctx := context.Background()

	service := &provider.ManagedService{
		Name:               "database",
		ImplementationType: "PostgresService",
		Parameters:         map[string]any{"port": "5432"},
		MaxUsages:          4,
	}

	// The same service instance encoded twice in one pass, through
	// two distinct provider wrappers.
	first := provider.NewServiceProvider(service)
	second := provider.NewServiceProvider(service)
	if err := encoder.EncodeProvider(ctx, first); err != nil {
		t.Fatalf("EncodeProvider first: %v", err)
	}
	if err := encoder.EncodeProvider(ctx, second); err != nil {
		t.Fatalf("EncodeProvider second: %v", err)
	}

	d := decoder()
	firstValue, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue first: %v", err)
	}
	secondValue, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue second: %v", err)
	}

	firstProvider := firstValue.Inner().(*provider.ServiceProvider)
	secondProvider := secondValue.Inner().(*provider.ServiceProvider)

	// Both occurrences resolve to the identical reconstructed
	// handle, and Register ran exactly once.
	if firstProvider != secondProvider {
		t.Error("decoded occurrences are distinct instances")
	}
	if firstProvider.Service() != secondProvider.Service() {
		t.Error("decoded service handles are distinct instances")
	}
	if registry.registrations != 1 {
		t.Errorf("Register called %d times, want 1", registry.registrations)
	}

	recovered := firstProvider.Service()
	if recovered.Name != "database" || recovered.ImplementationType != "PostgresService" || recovered.MaxUsages != 4 {
		t.Errorf("recovered service = %+v", recovered)
	}
}

func TestStructurallyEqualServicesStayDistinct(t *testing.T) {
	// Two distinct instances that happen to be structurally equal
	// must decode to two distinct instances. Distinct names keep the
	// registry from merging them; identity, not equality, drives the
	// table.
	options := Options{}
	var buffer bytes.Buffer
	encoder, decoder := encodeDecodePair(&buffer, options)
	ctx := context.Background()

	first := &provider.ManagedService{Name: "a", ImplementationType: "S", MaxUsages: 1}
	second := &provider.ManagedService{Name: "b", ImplementationType: "S", MaxUsages: 1}

	if err := encoder.EncodeValue(ctx, provider.ChangingValue(first)); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}
	if err := encoder.EncodeValue(ctx, provider.ChangingValue(second)); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	d := decoder()
	firstValue, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	secondValue, err := d.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if firstValue.Inner() == secondValue.Inner() {
		t.Error("distinct instances decoded to one instance")
	}
}

func TestDispatchDeterminism(t *testing.T) {
	var buffer bytes.Buffer
	encoder, _ := encodeDecodePair(&buffer, Options{})
	ctx := context.Background()

	service := &provider.ManagedService{Name: "cache", ImplementationType: "CacheService"}

	// Re-encoding the same value any number of times in one session
	// always selects the same candidate ordinal.
	var ordinals []byte
	for i := 0; i < 3; i++ {
		start := buffer.Len()
		if err := encoder.EncodeValue(ctx, provider.ChangingValue(service)); err != nil {
			t.Fatalf("EncodeValue: %v", err)
		}
		// Byte after the changing tag is the ordinal.
		ordinals = append(ordinals, buffer.Bytes()[start+1])
	}
	for _, ordinal := range ordinals {
		if ordinal != 1 {
			t.Fatalf("ordinals = %v, want all 1 (service codec)", ordinals)
		}
	}
}

func TestOutOfRangeOrdinalIsCorruption(t *testing.T) {
	var buffer bytes.Buffer
	writer := stream.NewWriter(&buffer)
	if err := writer.Byte(tagChanging); err != nil {
		t.Fatal(err)
	}
	if err := writer.Byte(200); err != nil {
		t.Fatal(err)
	}

	decoder := NewDecoder(stream.NewReader(&buffer), Options{})
	_, err := decoder.DecodeValue()
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v, want ErrCorrupt", err)
	}
}

func TestUnknownShapeWithoutFallbackIsFatal(t *testing.T) {
	// A variant set without the catch-all fallback: encoding a value
	// no candidate recognizes is a registration gap.
	options := Options{Variants: []VariantCodec{
		&sourceReferenceCodec{factory: UnboundSources{}},
	}}
	var buffer bytes.Buffer
	encoder := NewEncoder(stream.NewWriter(&buffer), options)

	err := encoder.EncodeValue(context.Background(), provider.ChangingValue(struct{ X int }{1}))
	if !errors.Is(err, ErrUnknownShape) {
		t.Fatalf("error = %v, want ErrUnknownShape", err)
	}
}

func TestMemoryServiceRegistryRejectsTypeConflict(t *testing.T) {
	registry := NewMemoryServiceRegistry()
	if _, err := registry.Register("db", "Postgres", nil, 0); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := registry.Register("db", "MySQL", nil, 0); err == nil {
		t.Fatal("expected type conflict error")
	}
}
