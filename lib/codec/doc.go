// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides confcache's standard CBOR encoding
// configuration.
//
// The fallback value codec in lib/graph serializes arbitrary fixed
// values and reference parameters as CBOR blocks inside the state
// stream; this package provides the shared encoding and decoding
// modes so every value encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Determinism matters here because the
// state-file checksum covers the encoded payload — the same logical
// configuration must always produce identical bytes.
//
// Usage:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// [Diagnose] renders a CBOR block in diagnostic notation, and
// [RawMessage] carries a block without decoding it; the inspect tool
// uses both to print values from state files without knowing their
// original types.
package codec
