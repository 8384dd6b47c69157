// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stream provides the byte-stream primitives underneath the
// confcache object-graph codec: single bytes, booleans, zigzag-varint
// integers, length-prefixed UTF-8 strings, raw byte blocks, and
// interned type references.
//
// A [Writer] produces one contiguous stream consumed by exactly one
// [Reader]. Both sides intern type references: the first occurrence
// of a type name writes a zero marker followed by the name, later
// occurrences write only the id assigned at first occurrence. The
// intern table belongs to a single Writer or Reader and is never
// shared between streams — id assignment depends on arrival order,
// so a reader only resolves ids from the writer that produced its
// stream.
//
// Strings and byte blocks carry a length guard ([MaxBlockLength]) so
// a corrupt stream fails with an error instead of a huge allocation.
package stream
