// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package triad

import (
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/pof"
)

// Validate - check every link and merkle root from the root down
//
// triads not yet attached to their parent slot only have their parent
// hash checked; a child root that moved on after attach is logged but
// is not an error, see StaleChildren
func (m *Matrix) Validate() error {
	if 0 == m.Len() {
		return nil
	}
	root, ok := m.Get(Root)
	if !ok {
		return fault.ErrTriadNotFound
	}
	if err := m.validate(root, nil); nil != err {
		return err
	}

	for _, c := range m.Coordinates() {
		parent, ok := c.Parent()
		if !ok {
			continue
		}
		t, _ := m.Get(c)
		p, ok := m.Get(parent)
		if !ok {
			return fault.ErrParentNotFound
		}
		if t.parentHash != p.LinkHash() {
			m.log.Errorf("validate: %q  detached parent hash mismatch", c)
			return fault.ErrParentHashMismatch
		}
	}
	return nil
}

func (m *Matrix) validate(t *Triad, ancestors []int64) error {
	if !pof.ValidTimestamp(t.timestamp, ancestors) {
		m.log.Errorf("validate: %q  timestamp: %d  not after median", t.coordinate, t.timestamp)
		return fault.ErrInvalidTimestamp
	}

	t.lock.RLock()
	children := t.children
	childRoots := t.childRoots
	computed := t.computeRoot()
	stored := t.merkleRoot
	t.lock.RUnlock()

	if computed != stored {
		m.log.Errorf("validate: %q  merkle root: %s  expected: %s", t.coordinate, stored, computed)
		return fault.ErrMerkleRootMismatch
	}

	link := t.LinkHash()
	lineage := append(append([]int64(nil), ancestors...), t.timestamp)

	for slot, c := range children {
		if c.IsRoot() {
			continue
		}
		expected, _ := t.coordinate.Child(slot)
		if expected != c {
			return fault.ErrCoordinateMismatch
		}
		child, ok := m.Get(c)
		if !ok {
			m.log.Errorf("validate: %q  slot: %d  missing child: %q", t.coordinate, slot, c)
			return fault.ErrTriadNotFound
		}
		if child.parentHash != link {
			m.log.Errorf("validate: %q  parent hash: %s  expected: %s", c, child.parentHash, link)
			return fault.ErrParentHashMismatch
		}
		if current := child.MerkleRoot(); current != childRoots[slot] {
			m.log.Warnf("validate: %q  slot: %d  child root: %s  attached as: %s", t.coordinate, slot, current, childRoots[slot])
		}
		if err := m.validate(child, lineage); nil != err {
			return err
		}
	}
	return nil
}

// StaleChildren - attached children whose merkle root changed after
// their parent recorded it
//
// a parent keeps the child root it held when its slot was claimed, since
// its own committed root was agreed over that value; a grandchild
// attaching later moves the child root on without touching the parent
func (m *Matrix) StaleChildren() []Coordinate {
	stale := make([]Coordinate, 0)
	for _, c := range m.Coordinates() {
		t, ok := m.Get(c)
		if !ok {
			continue
		}
		t.lock.RLock()
		children := t.children
		childRoots := t.childRoots
		t.lock.RUnlock()

		for slot, child := range children {
			if child.IsRoot() {
				continue
			}
			if ct, ok := m.Get(child); ok && ct.MerkleRoot() != childRoots[slot] {
				stale = append(stale, child)
			}
		}
	}
	return stale
}
