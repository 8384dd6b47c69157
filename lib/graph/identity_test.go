// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bureau-foundation/confcache/lib/stream"
)

type node struct {
	label string
}

func TestEncodeSharedWritesBodyOncePerInstance(t *testing.T) {
	var buffer bytes.Buffer
	encoder, decoder := encodeDecodePair(&buffer, Options{})

	shared := &node{label: "shared"}
	other := &node{label: "shared"} // structurally equal, distinct instance

	bodies := 0
	write := func(n *node) error {
		return encoder.EncodeShared(n, func() error {
			bodies++
			return encoder.Writer().String(n.label)
		})
	}
	for _, n := range []*node{shared, shared, other, shared} {
		if err := write(n); err != nil {
			t.Fatalf("EncodeShared: %v", err)
		}
	}
	if bodies != 2 {
		t.Errorf("body written %d times, want 2 (one per distinct instance)", bodies)
	}

	d := decoder()
	read := func() *node {
		instance, err := d.DecodeShared(func() (any, error) {
			label, err := d.Reader().String()
			if err != nil {
				return nil, err
			}
			return &node{label: label}, nil
		})
		if err != nil {
			t.Fatalf("DecodeShared: %v", err)
		}
		return instance.(*node)
	}

	first := read()
	second := read()
	third := read()
	fourth := read()

	if first != second || second != fourth {
		t.Error("occurrences of one instance decoded to distinct instances")
	}
	if third == first {
		t.Error("distinct instances decoded to one instance")
	}
	if first.label != "shared" || third.label != "shared" {
		t.Errorf("labels = %q, %q", first.label, third.label)
	}
}

func TestDecodeSharedOutOfSequenceIDIsCorruption(t *testing.T) {
	var buffer bytes.Buffer
	writer := stream.NewWriter(&buffer)
	// Id 3 as the first id in the stream: never produced by a valid
	// encoder, whose ids start at 0 and increment.
	if err := writer.Int(3); err != nil {
		t.Fatal(err)
	}

	decoder := NewDecoder(stream.NewReader(&buffer), Options{})
	_, err := decoder.DecodeShared(func() (any, error) { return nil, nil })
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v, want ErrCorrupt", err)
	}
}
