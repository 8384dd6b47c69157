// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Confcache-inspect decodes a state file and prints its entries:
// key, wrapper shape, declared type(s), execution-time state, and
// value. Value sources decode unbound (their reference metadata is
// shown, evaluation would fail) and managed services register into a
// throwaway in-memory registry, so any state file can be inspected
// without the build system that wrote it.
//
// The --fallback flag must match the value codec the file was
// written with; the stream does not record the choice. With --raw
// (cbor fallback only), stored values print in CBOR diagnostic
// notation instead of being decoded into Go values.
//
// Exit codes:
//
//	0  decoded, entries printed to stdout
//	1  file is corrupt or undecodable
//	2  bad arguments
package main
