// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import "fmt"

// VariantCodec recognizes and (de)serializes one concrete runtime
// shape of a changing value. Candidates are tried in registration
// order at encode time; the matched candidate's ordinal is written
// as a single byte and selects the decoder directly at decode time.
type VariantCodec interface {
	// Recognizes reports whether this codec handles value's runtime
	// shape.
	Recognizes(value any) bool

	// Encode writes value. The ordinal byte has already been
	// written.
	Encode(e *Encoder, value any) error

	// Decode reconstructs a value written by Encode.
	Decode(d *Decoder) (any, error)
}

// encodeVariant dispatches value to the first recognizing candidate
// and writes that candidate's ordinal. Ordinal values are wire
// format constants: candidates append at the end, existing indices
// are never renumbered.
func (e *Encoder) encodeVariant(value any) error {
	for ordinal, candidate := range e.variants {
		if !candidate.Recognizes(value) {
			continue
		}
		if err := e.writer.Byte(byte(ordinal)); err != nil {
			return err
		}
		return candidate.Encode(e, value)
	}
	return fmt.Errorf("value of type %T: %w", value, ErrUnknownShape)
}

// decodeVariant reads an ordinal byte and delegates to the candidate
// at that index. An out-of-range ordinal is corruption, never a
// silent default.
func (d *Decoder) decodeVariant() (any, error) {
	ordinal, err := d.reader.Byte()
	if err != nil {
		return nil, fmt.Errorf("read variant ordinal: %w", err)
	}
	if int(ordinal) >= len(d.variants) {
		return nil, fmt.Errorf("variant ordinal %d out of range (%d registered): %w",
			ordinal, len(d.variants), ErrCorrupt)
	}
	return d.variants[ordinal].Decode(d)
}
