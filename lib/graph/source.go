// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"

	"github.com/bureau-foundation/confcache/lib/provider"
)

// SourceFactory instantiates a live, not-yet-evaluated provider from
// a decoded value-source reference.
type SourceFactory interface {
	Instantiate(sourceType, parametersType provider.TypeRef, parameters any) (*provider.SourceProvider, error)
}

// UnboundSources is the default SourceFactory: it reconstructs the
// reference without binding it to an implementation, so the decoded
// provider carries full reference metadata but fails if evaluated.
// Inspection tooling decodes arbitrary state files this way; a build
// system embedding the codec supplies a real factory.
type UnboundSources struct{}

func (UnboundSources) Instantiate(sourceType, parametersType provider.TypeRef, parameters any) (*provider.SourceProvider, error) {
	return provider.NewSourceProvider(
		provider.NewValueSource(sourceType, parametersType, parameters), nil), nil
}

// sourceReferenceCodec is variant ordinal 0: value-source
// references, serialized as the (source type, parameter type,
// parameter instance) triple under shared-identity preservation.
type sourceReferenceCodec struct {
	factory SourceFactory
}

func (c *sourceReferenceCodec) Recognizes(value any) bool {
	switch value.(type) {
	case *provider.SourceProvider, *provider.ValueSource:
		return true
	default:
		return false
	}
}

func (c *sourceReferenceCodec) Encode(e *Encoder, value any) error {
	source, err := sourceOf(value)
	if err != nil {
		return err
	}
	if source.Obtained() {
		// An obtained source's value was captured upstream as a
		// fixed state; its reference must never be re-serialized.
		return fmt.Errorf("value source %s: %w", source.SourceType, ErrObtainedSource)
	}
	if err := e.writer.Bool(true); err != nil {
		return err
	}
	return e.EncodeShared(source, func() error {
		if err := e.writer.TypeRef(string(source.SourceType)); err != nil {
			return err
		}
		if err := e.writer.TypeRef(string(source.ParametersType)); err != nil {
			return err
		}
		return e.WriteAny(source.Parameters)
	})
}

func (c *sourceReferenceCodec) Decode(d *Decoder) (any, error) {
	present, err := d.reader.Bool()
	if err != nil {
		return nil, fmt.Errorf("read value source marker: %w", asCorruption(err))
	}
	if !present {
		// No valid encoding writes false.
		return nil, fmt.Errorf("value source marker is false: %w", ErrCorrupt)
	}
	return d.DecodeShared(func() (any, error) {
		sourceType, err := d.reader.TypeRef()
		if err != nil {
			return nil, fmt.Errorf("read source type: %w", err)
		}
		parametersType, err := d.reader.TypeRef()
		if err != nil {
			return nil, fmt.Errorf("read source parameters type: %w", err)
		}
		parameters, err := d.ReadAny()
		if err != nil {
			return nil, fmt.Errorf("read source parameters: %w", err)
		}
		instantiated, err := c.factory.Instantiate(
			provider.TypeRef(sourceType), provider.TypeRef(parametersType), parameters)
		if err != nil {
			return nil, fmt.Errorf("instantiate value source %s: %w", sourceType, err)
		}
		return instantiated, nil
	})
}

// sourceOf unwraps the two runtime shapes the codec recognizes. The
// identity table is keyed by the *ValueSource so two providers
// wrapping one source share one encoded reference.
func sourceOf(value any) (*provider.ValueSource, error) {
	switch v := value.(type) {
	case *provider.SourceProvider:
		return v.Source(), nil
	case *provider.ValueSource:
		return v, nil
	default:
		return nil, fmt.Errorf("source reference codec: unexpected type %T", value)
	}
}
