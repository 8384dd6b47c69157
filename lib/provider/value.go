// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"fmt"
)

// State classifies a resolved execution-time value. Exactly one
// state applies to any Value.
type State uint8

const (
	// StateBroken means resolving the computation returned an error.
	StateBroken State = iota
	// StateMissing means no value is available.
	StateMissing
	// StateFixed means a concrete value was produced.
	StateFixed
	// StateChanging means the value must be serialized as a
	// recomputable reference rather than a constant.
	StateChanging
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateBroken:
		return "broken"
	case StateMissing:
		return "missing"
	case StateFixed:
		return "fixed"
	case StateChanging:
		return "changing"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Value is the execution-time classification of a deferred
// computation: the result of resolving a Provider at serialization
// time. The zero Value is Broken with a nil error; construct values
// through [MissingValue], [FixedValue], [ChangingValue], and
// [BrokenValue].
type Value struct {
	state State
	fixed any
	inner any
	err   error
}

// MissingValue returns the Missing state.
func MissingValue() Value {
	return Value{state: StateMissing}
}

// FixedValue returns the Fixed state carrying value (which may be
// nil).
func FixedValue(value any) Value {
	return Value{state: StateFixed, fixed: value}
}

// ChangingValue returns the Changing state carrying the recomputable
// inner value.
func ChangingValue(inner any) Value {
	return Value{state: StateChanging, inner: inner}
}

// BrokenValue returns the Broken state carrying the captured error.
func BrokenValue(err error) Value {
	return Value{state: StateBroken, err: err}
}

// State returns the value's classification.
func (v Value) State() State {
	return v.state
}

// Fixed returns the concrete value of a Fixed state, nil otherwise.
func (v Value) Fixed() any {
	return v.fixed
}

// Inner returns the recomputable inner value of a Changing state,
// nil otherwise.
func (v Value) Inner() any {
	return v.inner
}

// Err returns the captured error of a Broken state, nil otherwise.
func (v Value) Err() error {
	return v.err
}

// Provider converts the value back into a live provider. Missing
// maps to Absent, Fixed to Of, Broken to Failed (the error replays
// on evaluation, not here). For Changing, the inner value is
// returned directly when it is itself a Provider (the decode-side
// reference codecs produce providers); otherwise it is treated as a
// fixed value.
func (v Value) Provider() Provider {
	switch v.state {
	case StateMissing:
		return Absent()
	case StateFixed:
		return Of(v.fixed)
	case StateBroken:
		return Failed(v.err)
	case StateChanging:
		if p, ok := v.inner.(Provider); ok {
			return p
		}
		return Of(v.inner)
	default:
		return Failed(fmt.Errorf("provider: invalid value state %d", v.state))
	}
}

// Resolve classifies a provider into its execution-time value.
//
// A ChangingProvider is never evaluated: its recomputable inner
// value is captured as Changing. Everything else is evaluated
// eagerly; an error becomes Broken (resolution failure is captured,
// not propagated — the caller keeps encoding), an absent result
// becomes Missing, and a concrete result becomes Fixed.
func Resolve(ctx context.Context, p Provider) Value {
	if p == nil {
		return MissingValue()
	}
	if changing, ok := p.(ChangingProvider); ok {
		return ChangingValue(changing.ChangingValue())
	}
	value, ok, err := p.Get(ctx)
	if err != nil {
		return BrokenValue(err)
	}
	if !ok {
		return MissingValue()
	}
	return FixedValue(value)
}
