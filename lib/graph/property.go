// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"context"

	"github.com/bureau-foundation/confcache/lib/provider"
)

// Property codecs. Each follows the same two-phase shape: declared
// type metadata first (one type reference, or key then value for
// maps), then the value through the tagged value protocol. Decode
// mirrors encode exactly and reconstructs the wrapper through the
// property factory.
//
// The scalar codec routes through the provider encode path
// (EncodeProvider re-derives the execution-time value at encode
// time); the container-shaped codecs encode a value the caller has
// already resolved. The asymmetry is part of the format's contract
// with embedders: a single-value property skips the upfront
// fixed-value resolution that container wrappers perform before
// reaching the codec.

// EncodeScalarProperty writes a single-value property.
func (e *Encoder) EncodeScalarProperty(ctx context.Context, p *provider.Property) error {
	if err := e.writer.TypeRef(string(p.Type)); err != nil {
		return err
	}
	return e.EncodeProvider(ctx, p.Provider)
}

// DecodeScalarProperty reads a property written by
// EncodeScalarProperty.
func (d *Decoder) DecodeScalarProperty() (*provider.Property, error) {
	t, err := d.reader.TypeRef()
	if err != nil {
		return nil, err
	}
	value, err := d.DecodeValue()
	if err != nil {
		return nil, err
	}
	return d.properties.Scalar(provider.TypeRef(t), value.Provider()), nil
}

// EncodeListProperty writes a list property with an already-resolved
// value.
func (e *Encoder) EncodeListProperty(ctx context.Context, p *provider.ListProperty, value provider.Value) error {
	if err := e.writer.TypeRef(string(p.ElementType)); err != nil {
		return err
	}
	return e.EncodeValue(ctx, value)
}

// DecodeListProperty reads a property written by EncodeListProperty.
func (d *Decoder) DecodeListProperty() (*provider.ListProperty, error) {
	elementType, err := d.reader.TypeRef()
	if err != nil {
		return nil, err
	}
	value, err := d.DecodeValue()
	if err != nil {
		return nil, err
	}
	return d.properties.List(provider.TypeRef(elementType), value.Provider()), nil
}

// EncodeSetProperty writes a set property with an already-resolved
// value.
func (e *Encoder) EncodeSetProperty(ctx context.Context, p *provider.SetProperty, value provider.Value) error {
	if err := e.writer.TypeRef(string(p.ElementType)); err != nil {
		return err
	}
	return e.EncodeValue(ctx, value)
}

// DecodeSetProperty reads a property written by EncodeSetProperty.
func (d *Decoder) DecodeSetProperty() (*provider.SetProperty, error) {
	elementType, err := d.reader.TypeRef()
	if err != nil {
		return nil, err
	}
	value, err := d.DecodeValue()
	if err != nil {
		return nil, err
	}
	return d.properties.Set(provider.TypeRef(elementType), value.Provider()), nil
}

// EncodeMapProperty writes a map property with an already-resolved
// value. Key type precedes value type on the wire.
func (e *Encoder) EncodeMapProperty(ctx context.Context, p *provider.MapProperty, value provider.Value) error {
	if err := e.writer.TypeRef(string(p.KeyType)); err != nil {
		return err
	}
	if err := e.writer.TypeRef(string(p.ValueType)); err != nil {
		return err
	}
	return e.EncodeValue(ctx, value)
}

// DecodeMapProperty reads a property written by EncodeMapProperty.
func (d *Decoder) DecodeMapProperty() (*provider.MapProperty, error) {
	keyType, err := d.reader.TypeRef()
	if err != nil {
		return nil, err
	}
	valueType, err := d.reader.TypeRef()
	if err != nil {
		return nil, err
	}
	value, err := d.DecodeValue()
	if err != nil {
		return nil, err
	}
	return d.properties.Map(provider.TypeRef(keyType), provider.TypeRef(valueType), value.Provider()), nil
}

// EncodeDirectoryProperty writes a directory-location property with
// an already-resolved value.
func (e *Encoder) EncodeDirectoryProperty(ctx context.Context, p *provider.DirectoryProperty, value provider.Value) error {
	if err := e.writer.TypeRef(string(p.Type)); err != nil {
		return err
	}
	return e.EncodeValue(ctx, value)
}

// DecodeDirectoryProperty reads a property written by
// EncodeDirectoryProperty.
func (d *Decoder) DecodeDirectoryProperty() (*provider.DirectoryProperty, error) {
	t, err := d.reader.TypeRef()
	if err != nil {
		return nil, err
	}
	value, err := d.DecodeValue()
	if err != nil {
		return nil, err
	}
	return d.properties.Directory(provider.TypeRef(t), value.Provider()), nil
}

// EncodeRegularFileProperty writes a file-location property with an
// already-resolved value.
func (e *Encoder) EncodeRegularFileProperty(ctx context.Context, p *provider.RegularFileProperty, value provider.Value) error {
	if err := e.writer.TypeRef(string(p.Type)); err != nil {
		return err
	}
	return e.EncodeValue(ctx, value)
}

// DecodeRegularFileProperty reads a property written by
// EncodeRegularFileProperty.
func (d *Decoder) DecodeRegularFileProperty() (*provider.RegularFileProperty, error) {
	t, err := d.reader.TypeRef()
	if err != nil {
		return nil, err
	}
	value, err := d.DecodeValue()
	if err != nil {
		return nil, err
	}
	return d.properties.RegularFile(provider.TypeRef(t), value.Provider()), nil
}
