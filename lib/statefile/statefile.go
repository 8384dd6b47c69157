// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package statefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// File format constants.
const (
	// fileMagic identifies a ConfCache State File.
	fileMagic = "CCSF"

	// fileVersion is the container format version. The container
	// versions itself; the graph stream inside relies on tag and
	// ordinal stability instead.
	fileVersion = 1

	// headerSize: magic(4) + version(4) + compression(1) +
	// uncompressedSize(8) + compressedSize(8) = 25 bytes.
	headerSize = 25

	// checksumSize is the BLAKE3 digest length.
	checksumSize = 32

	// maxPayloadSize bounds a payload read from a header. 1 GB is
	// far beyond any real configuration state; larger values
	// indicate corruption.
	maxPayloadSize = 1 << 30
)

// checksumKey is the BLAKE3 keyed-hash key for state-file checksums.
// The bytes are the ASCII domain name zero-padded to 32 bytes, so
// the key is inspectable in hex dumps without losing any property of
// keyed hashing. Changing it invalidates every existing state file.
var checksumKey = [32]byte{
	'c', 'o', 'n', 'f', 'c', 'a', 'c', 'h', 'e', '.',
	's', 't', 'a', 't', 'e', 'f', 'i', 'l', 'e',
}

func newChecksumHasher() *blake3.Hasher {
	hasher, err := blake3.NewKeyed(checksumKey[:])
	if err != nil {
		panic("statefile: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

// Info describes a state file's container header.
type Info struct {
	Version          uint32
	Compression      CompressionTag
	UncompressedSize int64
	CompressedSize   int64
}

// Write frames payload into w: header, compressed payload, keyed
// checksum. If the payload does not shrink under the requested
// algorithm, the file records CompressionNone instead.
func Write(w io.Writer, payload []byte, tag CompressionTag) error {
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("payload size %d exceeds maximum %d", len(payload), maxPayloadSize)
	}

	compressed, err := compress(payload, tag)
	if err == errIncompressible {
		compressed, tag = payload, CompressionNone
	} else if err != nil {
		return err
	}

	var header [headerSize]byte
	copy(header[0:4], fileMagic)
	binary.LittleEndian.PutUint32(header[4:8], fileVersion)
	header[8] = byte(tag)
	binary.LittleEndian.PutUint64(header[9:17], uint64(len(payload)))
	binary.LittleEndian.PutUint64(header[17:25], uint64(len(compressed)))

	hasher := newChecksumHasher()
	hasher.Write(header[:])
	hasher.Write(compressed)

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if _, err := w.Write(hasher.Sum(nil)); err != nil {
		return fmt.Errorf("write checksum: %w", err)
	}
	return nil
}

// Read verifies and unframes a state file, returning the
// decompressed payload. Bad magic, an unsupported version, a size
// mismatch, or a checksum mismatch is fatal.
func Read(r io.Reader) ([]byte, error) {
	info, compressed, err := readVerified(r)
	if err != nil {
		return nil, err
	}
	return decompress(compressed, info.Compression, int(info.UncompressedSize))
}

// Inspect verifies a state file's framing and checksum without
// decompressing the payload.
func Inspect(r io.Reader) (Info, error) {
	info, _, err := readVerified(r)
	return info, err
}

func readVerified(r io.Reader) (Info, []byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Info{}, nil, fmt.Errorf("read header: %w", err)
	}

	if magic := string(header[0:4]); magic != fileMagic {
		return Info{}, nil, fmt.Errorf("invalid state file magic: got %q, want %q", magic, fileMagic)
	}
	version := binary.LittleEndian.Uint32(header[4:8])
	if version != fileVersion {
		return Info{}, nil, fmt.Errorf("unsupported state file version %d (this code supports %d)", version, fileVersion)
	}

	tag := CompressionTag(header[8])
	uncompressedSize := binary.LittleEndian.Uint64(header[9:17])
	compressedSize := binary.LittleEndian.Uint64(header[17:25])
	if uncompressedSize > maxPayloadSize || compressedSize > maxPayloadSize {
		return Info{}, nil, fmt.Errorf("payload sizes %d/%d exceed maximum %d",
			uncompressedSize, compressedSize, maxPayloadSize)
	}

	compressed := make([]byte, compressedSize)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return Info{}, nil, fmt.Errorf("read payload: %w", err)
	}

	var expected [checksumSize]byte
	if _, err := io.ReadFull(r, expected[:]); err != nil {
		return Info{}, nil, fmt.Errorf("read checksum: %w", err)
	}

	hasher := newChecksumHasher()
	hasher.Write(header[:])
	hasher.Write(compressed)
	if !bytes.Equal(hasher.Sum(nil), expected[:]) {
		return Info{}, nil, fmt.Errorf("state file checksum mismatch")
	}

	info := Info{
		Version:          version,
		Compression:      tag,
		UncompressedSize: int64(uncompressedSize),
		CompressedSize:   int64(compressedSize),
	}
	return info, compressed, nil
}
