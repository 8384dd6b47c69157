// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bureau-foundation/confcache/lib/codec"
	"github.com/bureau-foundation/confcache/lib/provider"
	"github.com/bureau-foundation/confcache/lib/stream"
)

func TestRawValueCodecExposesStoredBytes(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(stream.NewWriter(&buffer), Options{})
	ctx := context.Background()

	stored := map[string]any{"jvm": "temurin-21", "parallel": true}
	if err := encoder.EncodeValue(ctx, provider.FixedValue(stored)); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	// The raw codec shares CBORValueCodec's framing, so the same
	// stream decodes into undecoded blocks.
	decoder := NewDecoder(stream.NewReader(&buffer), Options{Values: RawValueCodec{}})
	value, err := decoder.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	raw, ok := value.Fixed().(codec.RawMessage)
	if !ok {
		t.Fatalf("fixed value type = %T, want codec.RawMessage", value.Fixed())
	}

	notation, err := codec.Diagnose(raw)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"temurin-21"`) {
		t.Errorf("diagnostic notation %q missing stored value", notation)
	}

	// The block is the deterministic encoding of the stored value.
	want, err := codec.Marshal(stored)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(raw, want) {
		t.Errorf("raw block = %x, want %x", []byte(raw), want)
	}
}

func TestRawValueCodecReencodesVerbatim(t *testing.T) {
	block, err := codec.Marshal([]any{"a", "b"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(stream.NewWriter(&buffer), Options{Values: RawValueCodec{}})
	if err := encoder.EncodeValue(context.Background(), provider.FixedValue(codec.RawMessage(block))); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	decoder := NewDecoder(stream.NewReader(&buffer), Options{})
	value, err := decoder.DecodeValue()
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	list, ok := value.Fixed().([]any)
	if !ok || len(list) != 2 || list[0] != "a" {
		t.Errorf("fixed = %v, want [a b]", value.Fixed())
	}
}

func TestRawValueCodecRejectsDecodedValues(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(stream.NewWriter(&buffer), Options{Values: RawValueCodec{}})

	err := encoder.EncodeValue(context.Background(), provider.FixedValue("not raw"))
	if err == nil {
		t.Fatal("expected error encoding a non-raw value through the raw codec")
	}
}
