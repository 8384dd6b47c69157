// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"fmt"
	"sync"
)

// ValueSource identifies an external, not-yet-evaluated input (an
// environment variable, the output of an external command) by its
// source type, its parameter type, and a parameter instance. The
// triple is everything a factory needs to reconstruct a live source
// after decoding.
type ValueSource struct {
	// SourceType names the component that produces the value.
	SourceType TypeRef

	// ParametersType names the declared type of Parameters.
	ParametersType TypeRef

	// Parameters configures the source. Serialized through the
	// fallback value codec; must be representable there.
	Parameters any

	mu       sync.Mutex
	obtained bool
}

// NewValueSource returns a value source reference for the given
// source type, parameter type, and parameter instance.
func NewValueSource(sourceType, parametersType TypeRef, parameters any) *ValueSource {
	return &ValueSource{
		SourceType:     sourceType,
		ParametersType: parametersType,
		Parameters:     parameters,
	}
}

// MarkObtained records that the source's value was read while
// assembling build logic. An obtained source must never be
// serialized as a reference: its value was captured upstream as a
// fixed state, and reaching the reference codec afterwards is a
// caller contract breach.
func (s *ValueSource) MarkObtained() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obtained = true
}

// Obtained reports whether the source's value was already read as a
// build-logic input.
func (s *ValueSource) Obtained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.obtained
}

// SourceProvider is the provider form of a value source. It resolves
// as Changing: the source reference, not any evaluated value, is
// what gets serialized.
type SourceProvider struct {
	source *ValueSource
	obtain func(ctx context.Context) (any, bool, error)
}

// NewSourceProvider wraps a value source. obtain evaluates the
// source when the provider is consumed; it may be nil for a decoded
// reference that has not been bound to a live implementation, in
// which case Get fails.
func NewSourceProvider(source *ValueSource, obtain func(ctx context.Context) (any, bool, error)) *SourceProvider {
	return &SourceProvider{source: source, obtain: obtain}
}

// Source returns the underlying value source reference.
func (p *SourceProvider) Source() *ValueSource {
	return p.source
}

// Get evaluates the source and marks it obtained.
func (p *SourceProvider) Get(ctx context.Context) (any, bool, error) {
	if p.obtain == nil {
		return nil, false, fmt.Errorf("value source %s is not bound to an implementation", p.source.SourceType)
	}
	p.source.MarkObtained()
	return p.obtain(ctx)
}

// ChangingValue returns the provider itself: a value source is
// inherently dynamic and serializes as a reference.
func (p *SourceProvider) ChangingValue() any {
	return p
}
