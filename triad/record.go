// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package triad

import (
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pof"
)

// Record - point in time copy of a triad for storage and publishing
type Record struct {
	Coordinate   Coordinate               `json:"coordinate"`
	Transactions [][]byte                 `json:"transactions"`
	ParentHash   merkle.Digest            `json:"parentHash"`
	Timestamp    int64                    `json:"timestamp"`
	MerkleRoot   merkle.Digest            `json:"merkleRoot"`
	Children     [SlotCount]Coordinate    `json:"children"`
	ChildRoots   [SlotCount]merkle.Digest `json:"childRoots"`
	Difficulty   pof.Difficulty           `json:"difficulty"`
	Solution     pof.Solution             `json:"solution"`
	Solved       bool                     `json:"solved"`
	Status       Status                   `json:"status"`
	Committee    []string                 `json:"committee,omitempty"`
	Digest       merkle.Digest            `json:"digest"`
}

// Record - snapshot of the triad
func (t *Triad) Record() Record {
	digest := t.Digest()

	t.lock.RLock()
	defer t.lock.RUnlock()

	return Record{
		Coordinate:   t.coordinate,
		Transactions: t.Transactions(),
		ParentHash:   t.parentHash,
		Timestamp:    t.timestamp,
		MerkleRoot:   t.merkleRoot,
		Children:     t.children,
		ChildRoots:   t.childRoots,
		Difficulty:   t.difficulty,
		Solution:     t.solution,
		Solved:       t.solved,
		Status:       t.status,
		Committee:    append([]string(nil), t.committee...),
		Digest:       digest,
	}
}

// rebuild a triad from a record, both digests must agree with the
// recomputed values
func fromRecord(r Record) (*Triad, error) {
	if !r.Coordinate.Valid() {
		return nil, fault.ErrInvalidCoordinate
	}
	if r.Status < Pending || r.Status > Final {
		return nil, fault.ErrInvalidStatus
	}

	t := newTriad(r.Coordinate, r.Transactions, r.ParentHash, r.Timestamp)
	for slot, c := range r.Children {
		if c.IsRoot() {
			continue
		}
		expected, _ := r.Coordinate.Child(slot)
		if expected != c {
			return nil, fault.ErrCoordinateMismatch
		}
		t.children[slot] = c
		t.childRoots[slot] = r.ChildRoots[slot]
	}
	t.merkleRoot = t.computeRoot()
	if t.merkleRoot != r.MerkleRoot {
		return nil, fault.ErrMerkleRootMismatch
	}

	t.difficulty = r.Difficulty
	t.solution = r.Solution
	t.solved = r.Solved
	t.status = r.Status
	t.committee = append([]string(nil), r.Committee...)

	if t.Digest() != r.Digest {
		return nil, fault.ErrInvalidProof
	}
	return t, nil
}
