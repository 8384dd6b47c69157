// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package statefile frames one encoded configuration state stream
// on disk.
//
// A state file is a fixed header (magic "CCSF", format version,
// compression tag, uncompressed and compressed payload sizes), the
// possibly-compressed payload, and a keyed BLAKE3 checksum over
// header and payload. The checksum key is an ASCII domain-separation
// constant, so a state-file checksum can never collide with a hash
// of the same bytes from another confcache domain.
//
// Reading verifies magic, version, sizes, and checksum before
// returning the payload; any mismatch is fatal. The container does
// not interpret the payload — lib/graph owns the stream inside.
package statefile
