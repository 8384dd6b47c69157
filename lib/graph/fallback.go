// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bureau-foundation/confcache/lib/codec"
	"github.com/bureau-foundation/confcache/lib/stream"
)

// ValueCodec serializes arbitrary nullable values: fixed state
// payloads, value-source parameters, and managed-service parameters.
// Implementations write a self-delimiting encoding (here: a
// length-prefixed block) so the surrounding protocol never needs to
// know a value's size in advance.
//
// The encode and decode sides of one pass must use the same
// ValueCodec; the choice is not recorded in the stream.
type ValueCodec interface {
	Encode(w *stream.Writer, value any) error
	Decode(r *stream.Reader) (any, error)
}

// CBORValueCodec is the default ValueCodec: deterministic CBOR via
// lib/codec, framed as a length-prefixed block.
type CBORValueCodec struct{}

func (CBORValueCodec) Encode(w *stream.Writer, value any) error {
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	return w.Bytes(data)
}

func (CBORValueCodec) Decode(r *stream.Reader) (any, error) {
	data, err := r.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read value block: %w", err)
	}
	var value any
	if err := codec.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return value, nil
}

// MsgpackValueCodec is an alternative ValueCodec using msgpack,
// selectable in config for embedders whose surrounding tooling
// already speaks msgpack.
type MsgpackValueCodec struct{}

func (MsgpackValueCodec) Encode(w *stream.Writer, value any) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	return w.Bytes(data)
}

func (MsgpackValueCodec) Decode(r *stream.Reader) (any, error) {
	data, err := r.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read value block: %w", err)
	}
	var value any
	if err := msgpack.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return value, nil
}

// RawValueCodec reads fallback blocks without decoding them: Decode
// returns the block bytes as a codec.RawMessage. It only works on
// streams written with CBORValueCodec, whose framing it shares. The
// inspect tool uses it to show stored values verbatim, rendered in
// diagnostic notation, instead of through Go's default decoding.
type RawValueCodec struct{}

func (RawValueCodec) Encode(w *stream.Writer, value any) error {
	raw, ok := value.(codec.RawMessage)
	if !ok {
		return fmt.Errorf("raw codec cannot encode %T, only codec.RawMessage", value)
	}
	return w.Bytes(raw)
}

func (RawValueCodec) Decode(r *stream.Reader) (any, error) {
	data, err := r.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read value block: %w", err)
	}
	return codec.RawMessage(data), nil
}

// fallbackVariant is variant ordinal 2: the last-resort candidate
// handling every remaining object shape through the fallback value
// codec. It recognizes everything, so with the default variant set
// an encode never fails with ErrUnknownShape.
type fallbackVariant struct{}

func (fallbackVariant) Recognizes(any) bool {
	return true
}

func (fallbackVariant) Encode(e *Encoder, value any) error {
	return e.WriteAny(value)
}

func (fallbackVariant) Decode(d *Decoder) (any, error) {
	return d.ReadAny()
}
