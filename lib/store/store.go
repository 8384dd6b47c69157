// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists encoded configuration state under keys
// inside a cache directory. A key maps to one state file; saving
// runs one encode pass (lib/graph) framed by the on-disk container
// (lib/statefile), loading mirrors it with one decode pass. Each
// pass gets a fresh encoder or decoder, so identity tables are never
// shared between passes.
package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/confcache/lib/config"
	"github.com/bureau-foundation/confcache/lib/graph"
	"github.com/bureau-foundation/confcache/lib/statefile"
	"github.com/bureau-foundation/confcache/lib/stream"
)

// stateFileSuffix is appended to keys to form file names.
const stateFileSuffix = ".ccstate"

// Store reads and writes keyed state files in a cache directory.
type Store struct {
	dir         string
	compression statefile.CompressionTag
	options     graph.Options
}

// New creates a store from configuration. The graph options carry
// the collaborators (source factory, service registry, property
// factory) for the passes this store runs; the config selects the
// cache directory, compression, and fallback value codec. A
// fallback codec set explicitly in options wins over the config
// selection.
func New(cfg *config.Config, options graph.Options) (*Store, error) {
	compression, err := cfg.CompressionTag()
	if err != nil {
		return nil, err
	}
	if options.Values == nil {
		switch cfg.Fallback {
		case "msgpack":
			options.Values = graph.MsgpackValueCodec{}
		default:
			options.Values = graph.CBORValueCodec{}
		}
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{dir: cfg.CacheDir, compression: compression, options: options}, nil
}

// Path returns the state file path for a key.
func (s *Store) Path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("state key is empty")
	}
	if strings.ContainsAny(key, "/\\") || key == "." || key == ".." {
		return "", fmt.Errorf("state key %q contains path elements", key)
	}
	return filepath.Join(s.dir, key+stateFileSuffix), nil
}

// Save encodes entries in one pass and writes the state file for
// key. The file is written to a temporary name and renamed into
// place, so a crash never leaves a partial state file under the key.
func (s *Store) Save(ctx context.Context, key string, entries []graph.Entry) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	var payload bytes.Buffer
	encoder := graph.NewEncoder(stream.NewWriter(&payload), s.options)
	if err := encoder.EncodeEntries(ctx, entries); err != nil {
		return fmt.Errorf("encode state %q: %w", key, err)
	}

	var framed bytes.Buffer
	if err := statefile.Write(&framed, payload.Bytes(), s.compression); err != nil {
		return fmt.Errorf("frame state %q: %w", key, err)
	}

	temporary := path + ".tmp"
	if err := os.WriteFile(temporary, framed.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write state %q: %w", key, err)
	}
	if err := os.Rename(temporary, path); err != nil {
		os.Remove(temporary)
		return fmt.Errorf("publish state %q: %w", key, err)
	}
	return nil
}

// Load reads and decodes the state file for key in one pass.
func (s *Store) Load(key string) ([]graph.Entry, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	payload, err := statefile.Read(file)
	if err != nil {
		return nil, fmt.Errorf("read state %q: %w", key, err)
	}

	decoder := graph.NewDecoder(stream.NewReader(bytes.NewReader(payload)), s.options)
	entries, err := decoder.DecodeEntries()
	if err != nil {
		return nil, fmt.Errorf("decode state %q: %w", key, err)
	}
	return entries, nil
}

// Has reports whether a state file exists for key.
func (s *Store) Has(key string) bool {
	path, err := s.Path(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Remove deletes the state file for key. Removing a missing key is
// not an error.
func (s *Store) Remove(key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
