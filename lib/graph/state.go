// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/confcache/lib/provider"
)

// State tags for the tagged value protocol. These values are wire
// format constants — renumbering them breaks every existing state
// stream.
const (
	tagBroken   byte = 0
	tagMissing  byte = 1
	tagFixed    byte = 2
	tagChanging byte = 3
)

// EncodeProvider resolves p to its execution-time value and encodes
// it. This is the provider encode path used by the scalar property
// codec: the classification happens here, at encode time. A
// resolution failure degrades to a broken value; it does not abort
// the pass.
func (e *Encoder) EncodeProvider(ctx context.Context, p provider.Provider) error {
	return e.EncodeValue(ctx, provider.Resolve(ctx, p))
}

// EncodeValue writes an already-resolved execution-time value: a
// one-byte state tag followed by the state-specific payload.
func (e *Encoder) EncodeValue(ctx context.Context, value provider.Value) error {
	switch value.State() {
	case provider.StateBroken:
		if err := e.writer.Byte(tagBroken); err != nil {
			return err
		}
		return e.encodeFailure(value.Err())

	case provider.StateMissing:
		return e.writer.Byte(tagMissing)

	case provider.StateFixed:
		if err := e.writer.Byte(tagFixed); err != nil {
			return err
		}
		return e.WriteAny(value.Fixed())

	case provider.StateChanging:
		if err := e.writer.Byte(tagChanging); err != nil {
			return err
		}
		return e.encodeVariant(value.Inner())

	default:
		return fmt.Errorf("encode value: invalid state %v", value.State())
	}
}

// DecodeValue reads an execution-time value written by EncodeValue.
// A broken value decodes successfully; its error replays only when
// the reconstructed provider is evaluated.
func (d *Decoder) DecodeValue() (provider.Value, error) {
	tag, err := d.reader.Byte()
	if err != nil {
		return provider.Value{}, fmt.Errorf("read state tag: %w", err)
	}
	switch tag {
	case tagBroken:
		replay, err := d.decodeFailure()
		if err != nil {
			return provider.Value{}, err
		}
		return provider.BrokenValue(replay), nil

	case tagMissing:
		return provider.MissingValue(), nil

	case tagFixed:
		value, err := d.ReadAny()
		if err != nil {
			return provider.Value{}, err
		}
		return provider.FixedValue(value), nil

	case tagChanging:
		inner, err := d.decodeVariant()
		if err != nil {
			return provider.Value{}, err
		}
		return provider.ChangingValue(inner), nil

	default:
		return provider.Value{}, fmt.Errorf("state tag 0x%02x: %w", tag, ErrCorrupt)
	}
}

// ReplayedError is the decoded form of an error captured during
// encoding. Kind labels the original error's Go type; Message is its
// text. The error surfaces only when the decoded provider is
// evaluated, at the original call site's expectations.
type ReplayedError struct {
	Kind    string
	Message string
}

func (e *ReplayedError) Error() string {
	return e.Message
}

// encodeFailure captures an error so writing can still succeed: the
// deferred-failure wrapper records the error's kind label and
// message rather than the live error value.
func (e *Encoder) encodeFailure(failure error) error {
	kind := fmt.Sprintf("%T", failure)
	message := ""
	if failure != nil {
		message = failure.Error()
	}
	if replayed, ok := failure.(*ReplayedError); ok {
		// Re-encoding a decoded failure keeps the original kind.
		kind = replayed.Kind
	}
	if err := e.writer.String(kind); err != nil {
		return err
	}
	return e.writer.String(message)
}

func (d *Decoder) decodeFailure() (*ReplayedError, error) {
	kind, err := d.reader.String()
	if err != nil {
		return nil, fmt.Errorf("read failure kind: %w", err)
	}
	message, err := d.reader.String()
	if err != nil {
		return nil, fmt.Errorf("read failure message: %w", err)
	}
	return &ReplayedError{Kind: kind, Message: message}, nil
}
