// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package provider models confcache's deferred computations: values
// that are not yet computed, or computed lazily, which the codec in
// lib/graph must serialize without necessarily executing them.
//
// A [Provider] is the computation itself. [Resolve] classifies a
// provider into a four-state execution-time [Value]:
//
//   - Missing: no value is available.
//   - Fixed: a concrete value, safe to serialize directly.
//   - Changing: a value that cannot be flattened to a constant (a
//     not-yet-evaluated external source, a shared managed service)
//     and must be serialized as a recomputable reference.
//   - Broken: evaluating the computation returned an error; the
//     error itself is the payload, replayed only when the value is
//     later consumed.
//
// Exactly one state applies to a resolved value. [Value.Provider]
// converts a state back into a live provider, completing the
// round trip on the decode side.
//
// The package also defines the reference types serialized for the
// Changing state ([ValueSource], [ManagedService], and their provider
// wrappers) and the six typed property wrappers (scalar, list, set,
// map, directory, regular file) constructed through a
// [PropertyFactory].
package provider
