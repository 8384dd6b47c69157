// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import "context"

// TypeRef names a declared value type as recorded in build
// configuration (for example "java.lang.String" or "int"). The codec
// persists type references verbatim; it never interprets them.
type TypeRef string

// Provider is a deferred computation yielding at most one value.
//
// Get resolves the computation. ok reports whether a value is
// present: (nil, false, nil) means no value is available. Resolution
// may block (an external source can run a process or read the
// environment), so it takes a context.
type Provider interface {
	Get(ctx context.Context) (value any, ok bool, err error)
}

// ChangingProvider is a Provider whose value cannot be flattened to
// a constant at serialization time. ChangingValue returns the
// recomputable representation handed to the variant codec registry.
type ChangingProvider interface {
	Provider

	ChangingValue() any
}

type fixedProvider struct {
	value any
}

func (p fixedProvider) Get(context.Context) (any, bool, error) {
	return p.value, true, nil
}

// Of returns a provider fixed to the given value. The value may be
// nil: a fixed nil is present, unlike Absent.
func Of(value any) Provider {
	return fixedProvider{value: value}
}

type absentProvider struct{}

func (absentProvider) Get(context.Context) (any, bool, error) {
	return nil, false, nil
}

// Absent returns a provider with no value.
func Absent() Provider {
	return absentProvider{}
}

type failedProvider struct {
	err error
}

func (p failedProvider) Get(context.Context) (any, bool, error) {
	return nil, false, p.err
}

// Failed returns a provider that replays err on every evaluation.
// This is the decode-side form of a computation that broke during
// encoding: decoding succeeds, consuming the value fails.
func Failed(err error) Provider {
	return failedProvider{err: err}
}

// Func returns a provider backed by fn. fn is invoked on every Get.
func Func(fn func(ctx context.Context) (any, bool, error)) Provider {
	return funcProvider{fn: fn}
}

type funcProvider struct {
	fn func(ctx context.Context) (any, bool, error)
}

func (p funcProvider) Get(ctx context.Context) (any, bool, error) {
	return p.fn(ctx)
}
