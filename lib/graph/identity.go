// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import "fmt"

// Identity tables preserve shared identity across independently
// serialized occurrences of one instance. The write table maps
// instances to sequential ids assigned at first encounter; the read
// table maps ids back to the first-decoded instance. The two tables
// are parallel structures keyed by arrival order: the id sequence
// assigned on write, in write order, equals the id sequence resolved
// on read, in read order. Both are append-only for the lifetime of
// one pass.

type identityWriteTable struct {
	next int64
	ids  map[any]int64
}

func newIdentityWriteTable() identityWriteTable {
	return identityWriteTable{ids: make(map[any]int64)}
}

type identityReadTable struct {
	next      int64
	instances map[int64]any
}

func newIdentityReadTable() identityReadTable {
	return identityReadTable{instances: make(map[int64]any)}
}

// EncodeShared writes value under shared-identity preservation. On
// the first encounter of value in this pass it writes the next
// sequential id and invokes writeBody; on a later encounter of the
// same instance it writes the existing id alone. The id is recorded
// before writeBody runs so cyclic or mutually-referential structures
// hit the id-only path instead of recursing forever.
//
// Identity is interface identity, so value must be comparable; the
// reference codecs only pass pointers.
func (e *Encoder) EncodeShared(value any, writeBody func() error) error {
	if id, ok := e.identities.ids[value]; ok {
		return e.writer.Int(id)
	}
	id := e.identities.next
	e.identities.next++
	e.identities.ids[value] = id
	if err := e.writer.Int(id); err != nil {
		return err
	}
	return writeBody()
}

// DecodeShared reads a value written by EncodeShared. On the first
// encounter of an id it invokes readBody to reconstruct the
// instance, records it under that id, and returns it; on a later
// encounter it returns the recorded instance without consuming
// further stream bytes.
func (d *Decoder) DecodeShared(readBody func() (any, error)) (any, error) {
	id, err := d.reader.Int()
	if err != nil {
		return nil, fmt.Errorf("read identity id: %w", err)
	}
	if id < 0 {
		return nil, fmt.Errorf("identity id %d is negative: %w", id, ErrCorrupt)
	}
	if instance, ok := d.identities.instances[id]; ok {
		return instance, nil
	}
	// Ids arrive in assignment order; a first encounter must be the
	// next unassigned id. The id is reserved before readBody runs so
	// nested shared values inside the body see their own ids in
	// sequence, mirroring the write side.
	if id != d.identities.next {
		return nil, fmt.Errorf("identity id %d out of sequence (expected %d): %w",
			id, d.identities.next, ErrCorrupt)
	}
	d.identities.next++
	instance, err := readBody()
	if err != nil {
		return nil, err
	}
	d.identities.instances[id] = instance
	return instance, nil
}
