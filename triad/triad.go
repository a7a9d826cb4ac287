// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package triad

import (
	"encoding/binary"
	"sync"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pof"
)

// Triad - one node of the matrix
//
// the coordinate, transactions, parent hash and timestamp are fixed at
// creation; everything else is guarded by the triad's own lock
type Triad struct {
	lock sync.RWMutex

	coordinate   Coordinate
	transactions [][]byte
	txHashes     []merkle.Digest
	txRoot       merkle.Digest
	parentHash   merkle.Digest
	timestamp    int64

	merkleRoot merkle.Digest
	children   [SlotCount]Coordinate
	childRoots [SlotCount]merkle.Digest

	difficulty pof.Difficulty
	solution   pof.Solution
	solved     bool
	status     Status
	committee  []string
}

func newTriad(coordinate Coordinate, transactions [][]byte, parentHash merkle.Digest, timestamp int64) *Triad {
	t := &Triad{
		coordinate:   coordinate,
		transactions: make([][]byte, len(transactions)),
		txHashes:     make([]merkle.Digest, len(transactions)),
		parentHash:   parentHash,
		timestamp:    timestamp,
		status:       Pending,
	}
	for i, tx := range transactions {
		t.transactions[i] = append([]byte(nil), tx...)
		t.txHashes[i] = merkle.NewDigest(tx)
	}
	t.txRoot = merkle.Root(t.txHashes)
	t.merkleRoot = t.computeRoot()
	return t
}

// leaves are the attached child roots in slot order then the
// transaction hashes; caller holds the lock or owns the triad
func (t *Triad) computeRoot() merkle.Digest {
	leaves := make([]merkle.Digest, 0, SlotCount+len(t.txHashes))
	for slot, c := range t.children {
		if !c.IsRoot() {
			leaves = append(leaves, t.childRoots[slot])
		}
	}
	leaves = append(leaves, t.txHashes...)
	return merkle.Root(leaves)
}

// Coordinate - position in the matrix
func (t *Triad) Coordinate() Coordinate {
	return t.coordinate
}

// Transactions - copy of the transaction records
func (t *Triad) Transactions() [][]byte {
	txs := make([][]byte, len(t.transactions))
	for i, tx := range t.transactions {
		txs[i] = append([]byte(nil), tx...)
	}
	return txs
}

// ParentHash - the parent's LinkHash, zero for root
func (t *Triad) ParentHash() merkle.Digest {
	return t.parentHash
}

// Timestamp - creation time in unix seconds
func (t *Triad) Timestamp() int64 {
	return t.timestamp
}

// MerkleRoot - root over child roots and transactions
func (t *Triad) MerkleRoot() merkle.Digest {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.merkleRoot
}

// PayloadHash - the value the puzzle is built on
func (t *Triad) PayloadHash() merkle.Digest {
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(t.timestamp))
	return merkle.NewDigestOf([]byte(t.coordinate), t.parentHash[:], t.txRoot[:], ts)
}

// Digest - the committed digest voted on by committees
func (t *Triad) Digest() merkle.Digest {
	payload := t.PayloadHash()
	t.lock.RLock()
	defer t.lock.RUnlock()
	return merkle.NewDigestOf(payload[:], pof.PackNonce(t.solution.Nonce), t.solution.Hash[:])
}

// LinkHash - hash of the committed digest, carried by each child as
// its parent hash
func (t *Triad) LinkHash() merkle.Digest {
	digest := t.Digest()
	return merkle.NewDigest(digest[:])
}

// Children - child coordinates by slot, root coordinate marks an empty slot
func (t *Triad) Children() [SlotCount]Coordinate {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.children
}

// Occupied - list of filled slots
func (t *Triad) Occupied() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	slots := make([]int, 0, SlotCount)
	for slot, c := range t.children {
		if !c.IsRoot() {
			slots = append(slots, slot)
		}
	}
	return slots
}

// Status - current lifecycle status
func (t *Triad) Status() Status {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.status
}

// Advance - move the status forward
func (t *Triad) Advance(status Status) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.status.precedes(status) {
		return fault.ErrStatusRegression
	}
	t.status = status
	return nil
}

// Solution - the accepted solution and whether one was set
func (t *Triad) Solution() (pof.Solution, pof.Difficulty, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.solution, t.difficulty, t.solved
}

// SetSolution - record the solution, write once and only while pending
func (t *Triad) SetSolution(difficulty pof.Difficulty, solution pof.Solution) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.solved {
		return fault.ErrAlreadySolved
	}
	if Pending != t.status {
		return fault.ErrStatusRegression
	}
	t.difficulty = difficulty
	t.solution = solution
	t.solved = true
	return nil
}

// Committee - identities that voted on the triad
func (t *Triad) Committee() []string {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return append([]string(nil), t.committee...)
}

// SetCommittee - record the committee
func (t *Triad) SetCommittee(committee []string) {
	t.lock.Lock()
	t.committee = append([]string(nil), committee...)
	t.lock.Unlock()
}

// Puzzle - build the puzzle for this triad
func (t *Triad) Puzzle(engine *pof.Engine, difficulty pof.Difficulty, seed []byte) (*pof.Puzzle, error) {
	return engine.CreatePuzzle(t.PayloadHash(), difficulty, seed, t.timestamp)
}
