// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/confcache/lib/provider"
)

// Shape tags for top-level entries, selecting the property codec.
// These values are wire format constants — renumbering them breaks
// every existing state stream.
const (
	shapeScalar      byte = 0
	shapeList        byte = 1
	shapeSet         byte = 2
	shapeMap         byte = 3
	shapeDirectory   byte = 4
	shapeRegularFile byte = 5
)

// maxEntries bounds the entry count read from a stream header. One
// million keyed properties is far beyond any real configuration
// state; a larger count indicates corruption, and trusting it would
// mean allocating from attacker-controlled input.
const maxEntries = 1 << 20

// Entry is one keyed property in a state stream. Property holds one
// of the six wrapper types from lib/provider.
type Entry struct {
	Key      string
	Property any
}

// EncodeEntries writes a whole state stream: an entry count followed
// by (key, shape tag, property) triples. Container-shaped properties
// are resolved here, before their codec runs; the scalar codec
// resolves inside its own encode path.
func (e *Encoder) EncodeEntries(ctx context.Context, entries []Entry) error {
	if err := e.writer.Int(int64(len(entries))); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := e.writer.String(entry.Key); err != nil {
			return err
		}
		if err := e.encodeEntry(ctx, entry); err != nil {
			return fmt.Errorf("entry %q: %w", entry.Key, err)
		}
	}
	return nil
}

func (e *Encoder) encodeEntry(ctx context.Context, entry Entry) error {
	switch p := entry.Property.(type) {
	case *provider.Property:
		if err := e.writer.Byte(shapeScalar); err != nil {
			return err
		}
		return e.EncodeScalarProperty(ctx, p)

	case *provider.ListProperty:
		if err := e.writer.Byte(shapeList); err != nil {
			return err
		}
		return e.EncodeListProperty(ctx, p, provider.Resolve(ctx, p.Provider))

	case *provider.SetProperty:
		if err := e.writer.Byte(shapeSet); err != nil {
			return err
		}
		return e.EncodeSetProperty(ctx, p, provider.Resolve(ctx, p.Provider))

	case *provider.MapProperty:
		if err := e.writer.Byte(shapeMap); err != nil {
			return err
		}
		return e.EncodeMapProperty(ctx, p, provider.Resolve(ctx, p.Provider))

	case *provider.DirectoryProperty:
		if err := e.writer.Byte(shapeDirectory); err != nil {
			return err
		}
		return e.EncodeDirectoryProperty(ctx, p, provider.Resolve(ctx, p.Provider))

	case *provider.RegularFileProperty:
		if err := e.writer.Byte(shapeRegularFile); err != nil {
			return err
		}
		return e.EncodeRegularFileProperty(ctx, p, provider.Resolve(ctx, p.Provider))

	default:
		return fmt.Errorf("property of type %T: %w", entry.Property, ErrUnknownShape)
	}
}

// DecodeEntries reads a state stream written by EncodeEntries.
func (d *Decoder) DecodeEntries() ([]Entry, error) {
	count, err := d.reader.Int()
	if err != nil {
		return nil, fmt.Errorf("read entry count: %w", err)
	}
	if count < 0 || count > maxEntries {
		return nil, fmt.Errorf("entry count %d out of range (maximum %d): %w", count, maxEntries, ErrCorrupt)
	}
	entries := make([]Entry, 0, count)
	for i := int64(0); i < count; i++ {
		key, err := d.reader.String()
		if err != nil {
			return nil, fmt.Errorf("read entry key: %w", asCorruption(err))
		}
		property, err := d.decodeEntryProperty()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		entries = append(entries, Entry{Key: key, Property: property})
	}
	return entries, nil
}

func (d *Decoder) decodeEntryProperty() (any, error) {
	shape, err := d.reader.Byte()
	if err != nil {
		return nil, fmt.Errorf("read shape tag: %w", err)
	}
	switch shape {
	case shapeScalar:
		return d.DecodeScalarProperty()
	case shapeList:
		return d.DecodeListProperty()
	case shapeSet:
		return d.DecodeSetProperty()
	case shapeMap:
		return d.DecodeMapProperty()
	case shapeDirectory:
		return d.DecodeDirectoryProperty()
	case shapeRegularFile:
		return d.DecodeRegularFileProperty()
	default:
		return nil, fmt.Errorf("shape tag 0x%02x: %w", shape, ErrCorrupt)
	}
}
