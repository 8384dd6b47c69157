// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// MaxBlockLength is the maximum length accepted for a string or byte
// block. 64 MB is generous for configuration values; anything larger
// in a length prefix indicates a corrupt or hostile stream.
const MaxBlockLength = 64 * 1024 * 1024

// ErrInvalidEncoding marks a byte sequence no Writer produces (a
// bool byte other than 0 or 1, an invalid UTF-8 string). Callers
// classify it with errors.Is to distinguish corruption from I/O
// failure.
var ErrInvalidEncoding = errors.New("invalid encoding")

// Writer writes the codec's primitive values to an underlying
// io.Writer. Writers are single-use: one Writer produces one stream.
type Writer struct {
	w io.Writer

	// varintBuffer is scratch space for varint encoding, reused
	// across calls to avoid per-write allocation.
	varintBuffer [binary.MaxVarintLen64]byte

	// typeIDs interns type reference names. Ids start at 1; 0 on
	// the wire marks a first occurrence followed by the name.
	typeIDs map[string]uint64
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, typeIDs: make(map[string]uint64)}
}

// Byte writes a single byte.
func (w *Writer) Byte(value byte) error {
	if _, err := w.w.Write([]byte{value}); err != nil {
		return fmt.Errorf("write byte: %w", err)
	}
	return nil
}

// Bool writes a boolean as one byte (0 or 1).
func (w *Writer) Bool(value bool) error {
	b := byte(0)
	if value {
		b = 1
	}
	if _, err := w.w.Write([]byte{b}); err != nil {
		return fmt.Errorf("write bool: %w", err)
	}
	return nil
}

// Int writes a signed integer as a zigzag varint.
func (w *Writer) Int(value int64) error {
	n := binary.PutVarint(w.varintBuffer[:], value)
	if _, err := w.w.Write(w.varintBuffer[:n]); err != nil {
		return fmt.Errorf("write int: %w", err)
	}
	return nil
}

// String writes a length-prefixed UTF-8 string.
func (w *Writer) String(value string) error {
	if len(value) > MaxBlockLength {
		return fmt.Errorf("string length %d exceeds maximum %d", len(value), MaxBlockLength)
	}
	if err := w.Int(int64(len(value))); err != nil {
		return err
	}
	if len(value) == 0 {
		return nil
	}
	if _, err := io.WriteString(w.w, value); err != nil {
		return fmt.Errorf("write string: %w", err)
	}
	return nil
}

// Bytes writes a length-prefixed byte block.
func (w *Writer) Bytes(value []byte) error {
	if len(value) > MaxBlockLength {
		return fmt.Errorf("byte block length %d exceeds maximum %d", len(value), MaxBlockLength)
	}
	if err := w.Int(int64(len(value))); err != nil {
		return err
	}
	if len(value) == 0 {
		return nil
	}
	if _, err := w.w.Write(value); err != nil {
		return fmt.Errorf("write bytes: %w", err)
	}
	return nil
}

// TypeRef writes an interned type reference. The first occurrence of
// a name writes a zero marker followed by the name; later occurrences
// write only the id assigned at first occurrence. Id assignment order
// is part of the stream: the matching Reader rebuilds the same table
// from arrival order.
func (w *Writer) TypeRef(name string) error {
	if id, ok := w.typeIDs[name]; ok {
		return w.Int(int64(id))
	}
	if err := w.Int(0); err != nil {
		return err
	}
	if err := w.String(name); err != nil {
		return err
	}
	w.typeIDs[name] = uint64(len(w.typeIDs) + 1)
	return nil
}

// Reader reads the codec's primitive values from an underlying
// io.Reader. Readers are single-use: one Reader consumes one stream.
type Reader struct {
	r *bufio.Reader

	// typeNames is the intern table rebuilt from the stream, indexed
	// by id-1 (ids start at 1).
	typeNames []string
}

// NewReader returns a Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("read byte: %w", err)
	}
	return b, nil
}

// Bool reads a boolean. Any byte other than 0 or 1 is a corruption
// error.
func (r *Reader) Bool() (bool, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return false, fmt.Errorf("read bool: %w", err)
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("read bool: byte 0x%02x: %w", b, ErrInvalidEncoding)
	}
}

// Int reads a zigzag varint signed integer.
func (r *Reader) Int() (int64, error) {
	value, err := binary.ReadVarint(r.r)
	if err != nil {
		return 0, fmt.Errorf("read int: %w", err)
	}
	return value, nil
}

// String reads a length-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	data, err := r.block("string")
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("read string: invalid UTF-8: %w", ErrInvalidEncoding)
	}
	return string(data), nil
}

// Bytes reads a length-prefixed byte block.
func (r *Reader) Bytes() ([]byte, error) {
	return r.block("bytes")
}

func (r *Reader) block(what string) ([]byte, error) {
	length, err := r.Int()
	if err != nil {
		return nil, fmt.Errorf("read %s length: %w", what, err)
	}
	if length < 0 || length > MaxBlockLength {
		return nil, fmt.Errorf("read %s: length %d out of range (maximum %d)", what, length, MaxBlockLength)
	}
	if length == 0 {
		return nil, nil
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, fmt.Errorf("read %s: %w", what, err)
	}
	return data, nil
}

// TypeRef reads an interned type reference written by
// [Writer.TypeRef].
func (r *Reader) TypeRef() (string, error) {
	id, err := r.Int()
	if err != nil {
		return "", fmt.Errorf("read type reference: %w", err)
	}
	if id == 0 {
		name, err := r.String()
		if err != nil {
			return "", fmt.Errorf("read type reference name: %w", err)
		}
		r.typeNames = append(r.typeNames, name)
		return name, nil
	}
	if id < 0 || id > int64(len(r.typeNames)) {
		return "", fmt.Errorf("read type reference: id %d out of range (%d interned)", id, len(r.typeNames))
	}
	return r.typeNames[id-1], nil
}
