// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/confcache/lib/provider"
	"github.com/bureau-foundation/confcache/lib/stream"
)

// Sentinel errors. All fatal conditions wrap one of these so callers
// can classify failures with errors.Is.
var (
	// ErrCorrupt marks protocol corruption detected at decode time:
	// an unexpected tag byte, an out-of-range variant ordinal, or a
	// marker no valid encoding produces.
	ErrCorrupt = errors.New("corrupt state stream")

	// ErrUnknownShape marks a changing value no registered variant
	// codec recognizes. This is a registration gap: a new dynamic
	// shape needs a new candidate codec.
	ErrUnknownShape = errors.New("unrecognized value shape")

	// ErrObtainedSource marks an attempt to serialize a value source
	// whose value was already read as a build-logic input. The
	// resolved value must have been captured upstream as a fixed
	// state; reaching the reference codec afterwards is a caller
	// contract breach.
	ErrObtainedSource = errors.New("value source already obtained")
)

// asCorruption promotes a stream invalid-encoding error to ErrCorrupt
// so callers classifying with errors.Is(err, ErrCorrupt) catch
// byte-level damage as well as structural damage. Other errors pass
// through unchanged.
func asCorruption(err error) error {
	if errors.Is(err, stream.ErrInvalidEncoding) {
		return fmt.Errorf("%w: %w", err, ErrCorrupt)
	}
	return err
}

// Options configures an Encoder or Decoder. The zero value selects
// the defaults noted on each field.
type Options struct {
	// Values serializes arbitrary fixed values and codec
	// parameters. Defaults to CBORValueCodec.
	Values ValueCodec

	// Sources instantiates live value sources from decoded
	// references. Defaults to UnboundSources, which reconstructs
	// references whose evaluation fails until a real factory binds
	// them (sufficient for inspection tooling).
	Sources SourceFactory

	// Services registers managed services from decoded references
	// and reports usage limits at encode time. Defaults to a fresh
	// MemoryServiceRegistry.
	Services ServiceRegistry

	// Properties constructs property wrappers on decode. Defaults
	// to provider.DefaultFactory.
	Properties provider.PropertyFactory

	// Variants overrides the candidate codec list. Defaults to the
	// standard ordered set: value-source references (ordinal 0),
	// managed-service references (1), fallback values (2). Override
	// only with a list that preserves existing ordinals.
	Variants []VariantCodec
}

func (o Options) withDefaults() Options {
	if o.Values == nil {
		o.Values = CBORValueCodec{}
	}
	if o.Sources == nil {
		o.Sources = UnboundSources{}
	}
	if o.Services == nil {
		o.Services = NewMemoryServiceRegistry()
	}
	if o.Properties == nil {
		o.Properties = provider.DefaultFactory{}
	}
	if o.Variants == nil {
		o.Variants = []VariantCodec{
			&sourceReferenceCodec{factory: o.Sources},
			&serviceReferenceCodec{registry: o.Services},
			fallbackVariant{},
		}
	}
	return o
}

// Encoder writes one encode pass. It owns the pass's identity table
// and must not be reused for a second stream.
type Encoder struct {
	writer     *stream.Writer
	values     ValueCodec
	variants   []VariantCodec
	identities identityWriteTable
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w *stream.Writer, options Options) *Encoder {
	options = options.withDefaults()
	return &Encoder{
		writer:     w,
		values:     options.Values,
		variants:   options.Variants,
		identities: newIdentityWriteTable(),
	}
}

// Writer exposes the underlying stream for variant codec
// implementations.
func (e *Encoder) Writer() *stream.Writer {
	return e.writer
}

// WriteAny serializes an arbitrary value through the fallback value
// codec.
func (e *Encoder) WriteAny(value any) error {
	return e.values.Encode(e.writer, value)
}

// Decoder reads one decode pass. It owns the pass's identity table
// and must not be reused for a second stream.
type Decoder struct {
	reader     *stream.Reader
	values     ValueCodec
	variants   []VariantCodec
	properties provider.PropertyFactory
	identities identityReadTable
}

// NewDecoder returns a Decoder reading from r. The options must
// match the ones the stream was encoded with (same value codec, same
// variant ordering).
func NewDecoder(r *stream.Reader, options Options) *Decoder {
	options = options.withDefaults()
	return &Decoder{
		reader:     r,
		values:     options.Values,
		variants:   options.Variants,
		properties: options.Properties,
		identities: newIdentityReadTable(),
	}
}

// Reader exposes the underlying stream for variant codec
// implementations.
func (d *Decoder) Reader() *stream.Reader {
	return d.reader
}

// ReadAny deserializes an arbitrary value through the fallback value
// codec.
func (d *Decoder) ReadAny() (any, error) {
	return d.values.Decode(d.reader)
}
