// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Confcache-verify checks a state file's container framing: magic,
// format version, sizes, and keyed BLAKE3 checksum. It does not
// decode the graph stream inside, so it works regardless of which
// fallback value codec produced the file.
//
// Exit codes:
//
//	0  file is well-formed, header printed to stdout
//	1  file is corrupt or unreadable
//	2  bad arguments
package main
