// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package graph implements the confcache object-graph codec: it
// persists resolved execution-time values (lib/provider) into a
// binary stream (lib/stream) so a later run reconstructs identical
// values without re-running the computations that produced them.
//
// The codec has four cooperating layers:
//
//   - The tagged value protocol ([Encoder.EncodeValue],
//     [Decoder.DecodeValue]) writes a one-byte state tag (broken,
//     missing, fixed, changing) followed by a state-specific payload.
//     A broken value serializes its captured error and decodes to a
//     provider that replays the error only when evaluated.
//
//   - The variant codec registry dispatches changing values among an
//     ordered set of [VariantCodec] candidates, recording the
//     matched candidate's ordinal as a single byte. Ordinals are the
//     wire format's compatibility contract: new candidates append at
//     the end, existing indices are never renumbered. The default
//     set is value-source references, managed-service references,
//     then the fallback value codec.
//
//   - Shared-identity preservation ([Encoder.EncodeShared],
//     [Decoder.DecodeShared]) assigns sequential ids to aliased
//     instances so two serialized occurrences of one instance decode
//     back to one instance. Identity is Go interface identity
//     (pointer identity for the pointer-shaped reference types the
//     codecs share), never structural equality. Each Encoder and
//     Decoder owns its table; tables live for exactly one pass.
//
//   - The six property codecs persist the typed wrapper shapes
//     (scalar, list, set, map, directory, regular file): declared
//     element type metadata first, then the value through the tagged
//     protocol. The scalar codec re-derives the execution-time value
//     from the provider at encode time; the container-shaped codecs
//     encode an already-resolved value. [Encoder.EncodeEntries]
//     frames a whole state stream as keyed, shape-tagged entries.
//
// Arbitrary fixed values and codec parameters pass through a
// pluggable [ValueCodec]; [CBORValueCodec] (deterministic CBOR via
// lib/codec) is the default, [MsgpackValueCodec] the alternative.
//
// Error taxonomy: a computation failure is captured as a broken
// value and never aborts a pass; an unrecognized changing value at
// encode time is fatal ([ErrUnknownShape]); an out-of-range tag or
// ordinal, or a reference codec reading an impossible marker, is
// fatal corruption ([ErrCorrupt]); encoding an already-obtained
// value source is a fatal caller contract breach
// ([ErrObtainedSource]). The codec never retries.
package graph
