// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package triad

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pof"
)

var rootTransactions = [][]byte{
	[]byte("A->B:5"),
	[]byte("B->C:3"),
}

func TestCreateRoot(t *testing.T) {
	m := NewMatrix(nil)
	root, err := m.CreateRoot(rootTransactions)
	assert.Nil(t, err, "create root")

	h1 := merkle.NewDigest(rootTransactions[0])
	h2 := merkle.NewDigest(rootTransactions[1])
	expected := merkle.NewDigestOf(h1[:], h2[:])

	assert.Equal(t, expected, root.MerkleRoot(), "merkle root")
	assert.Equal(t, Root, root.Coordinate(), "coordinate")
	assert.True(t, root.ParentHash().IsZero(), "root parent hash")
	assert.Equal(t, Pending, root.Status(), "status")
	assert.Equal(t, rootTransactions, root.Transactions(), "transactions")

	_, err = m.CreateRoot(nil)
	assert.Equal(t, fault.ErrTriadExists, err, "second root")
}

func TestEmptyTriadRoot(t *testing.T) {
	m := NewMatrix(nil)
	root, _ := m.CreateRoot(nil)
	assert.Equal(t, merkle.NewDigest(nil), root.MerkleRoot(), "empty root")
}

func TestCreateChildErrors(t *testing.T) {
	m := NewMatrix(nil)
	_, err := m.Create(nil, Root, 0)
	assert.Equal(t, fault.ErrParentNotFound, err, "no root yet")

	_, _ = m.CreateRoot(rootTransactions)
	_, err = m.Create(nil, Root, 0)
	assert.Equal(t, fault.ErrUnsolvedTriad, err, "unsolved parent")

	solveTriad(t, m, Root)

	_, err = m.Create(nil, Root, 3)
	assert.Equal(t, fault.ErrInvalidSlot, err, "slot 3")
	_, err = m.Create(nil, Root, -1)
	assert.Equal(t, fault.ErrInvalidSlot, err, "slot -1")
	_, err = m.Create(nil, "1", 0)
	assert.Equal(t, fault.ErrParentNotFound, err, "missing parent")
	_, err = m.Create(nil, "x", 0)
	assert.Equal(t, fault.ErrInvalidCoordinate, err, "bad parent")

	_, err = m.Create(nil, Root, 2)
	assert.Nil(t, err, "first child")
	_, err = m.Create(nil, Root, 2)
	assert.Equal(t, fault.ErrTriadExists, err, "duplicate child")
}

func TestAttachChild(t *testing.T) {
	m := NewMatrix(nil)
	root, _ := m.CreateRoot(rootTransactions)
	solveTriad(t, m, Root)

	digestBefore := root.Digest()
	payloadBefore := root.PayloadHash()
	rootBefore := root.MerkleRoot()

	child, err := m.Create(nil, Root, 0)
	assert.Nil(t, err, "create child")
	assert.Equal(t, Coordinate("0"), child.Coordinate(), "child coordinate")
	assert.Equal(t, merkle.NewDigest(digestBefore[:]), child.ParentHash(), "child parent hash")
	assert.NotEqual(t, digestBefore, child.ParentHash(), "parent hash is the bare digest")
	assert.Equal(t, rootBefore, root.MerkleRoot(), "root changed before attach")

	newRoot, err := m.AttachChild(Root, 0, child.Coordinate())
	assert.Nil(t, err, "attach")
	assert.NotEqual(t, rootBefore, newRoot, "merkle root unchanged")
	assert.Equal(t, newRoot, root.MerkleRoot(), "returned root differs")

	h1 := merkle.NewDigest(rootTransactions[0])
	h2 := merkle.NewDigest(rootTransactions[1])
	expected := merkle.Root([]merkle.Digest{child.MerkleRoot(), h1, h2})
	assert.Equal(t, expected, newRoot, "child root not first leaf")

	assert.Equal(t, digestBefore, root.Digest(), "digest changed")
	assert.Equal(t, payloadBefore, root.PayloadHash(), "payload changed")
	assert.Equal(t, merkle.NewDigest(nil), child.MerkleRoot(), "child root changed")
	assert.Equal(t, []int{0}, root.Occupied(), "occupied")

	_, err = m.AttachChild(Root, 0, child.Coordinate())
	assert.Equal(t, fault.ErrSlotOccupied, err, "occupied slot")
	_, err = m.AttachChild(Root, 1, child.Coordinate())
	assert.Equal(t, fault.ErrCoordinateMismatch, err, "wrong slot")
	_, err = m.AttachChild(Root, 3, "3")
	assert.Equal(t, fault.ErrInvalidSlot, err, "bad slot")
	_, err = m.AttachChild(Root, 1, "1")
	assert.Equal(t, fault.ErrTriadNotFound, err, "missing child")
	_, err = m.AttachChild("2", 1, "21")
	assert.Equal(t, fault.ErrParentNotFound, err, "missing parent")

	assert.Nil(t, m.Validate(), "validate")
}

func TestAttachOnlyChangesParent(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(rootTransactions)
	solveTriad(t, m, Root)
	c0, _ := m.Create([][]byte{[]byte("x")}, Root, 0)
	solveTriad(t, m, "0")
	_, _ = m.AttachChild(Root, 0, "0")

	root, _ := m.Get(Root)
	rootBefore := root.MerkleRoot()
	c0Before := c0.MerkleRoot()

	_, _ = m.Create(nil, "0", 1)
	_, err := m.AttachChild("0", 1, "01")
	assert.Nil(t, err, "attach grandchild")

	assert.NotEqual(t, c0Before, c0.MerkleRoot(), "parent root unchanged")
	assert.Equal(t, rootBefore, root.MerkleRoot(), "grandparent root changed")
}

func TestConcurrentAttach(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(nil)
	solveTriad(t, m, Root)
	_, _ = m.Create(nil, Root, 1)

	const racers = 16
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.AttachChild(Root, 1, "1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if nil == err {
			successes += 1
		} else {
			assert.Equal(t, fault.ErrSlotOccupied, err, "wrong error")
		}
	}
	assert.Equal(t, 1, successes, "slot claimed more than once")
}

func TestGetChain(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(nil)
	solveTriad(t, m, Root)
	_, _ = m.Create(nil, Root, 0)
	solveTriad(t, m, "0")
	_, _ = m.Create(nil, "0", 1)

	chain := m.GetChain("01")
	assert.Equal(t, 3, len(chain), "chain length")
	assert.Equal(t, Root, chain[0].Coordinate(), "first")
	assert.Equal(t, Coordinate("0"), chain[1].Coordinate(), "second")
	assert.Equal(t, Coordinate("01"), chain[2].Coordinate(), "third")

	assert.Nil(t, m.GetChain("2"), "missing chain")

	_, ok := m.Get("2")
	assert.False(t, ok, "missing triad found")

	assert.Equal(t, []Coordinate{"", "0", "01"}, m.Coordinates(), "coordinates")
	assert.Equal(t, []Coordinate{"0"}, m.Level(1), "level 1")
	assert.Equal(t, 3, m.Len(), "length")
}

func TestAdvance(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(nil)

	assert.Nil(t, m.Advance(Root, LocallyAgreed), "to locally agreed")
	assert.Equal(t, fault.ErrStatusRegression, m.Advance(Root, Pending), "back to pending")
	assert.Equal(t, fault.ErrStatusRegression, m.Advance(Root, LocallyAgreed), "same status")
	assert.Nil(t, m.Advance(Root, Final), "to final")
	assert.Equal(t, fault.ErrStatusRegression, m.Advance(Root, Status(9)), "past final")
	assert.Equal(t, fault.ErrTriadNotFound, m.Advance("1", Final), "missing")
}

func TestFailedWriteLeavesMatrixUnchanged(t *testing.T) {
	p := newMemoryPersister()
	m := NewMatrix(p)
	_, _ = m.CreateRoot(nil)
	solveTriad(t, m, Root)
	_, _ = m.Create(nil, Root, 0)
	solveTriad(t, m, "0")

	p.failing = 1
	assert.Equal(t, errDiskFull, m.Advance("0", LocallyAgreed), "advance")
	c, _ := m.Get("0")
	assert.Equal(t, Pending, c.Status(), "status moved without being stored")
	assert.Nil(t, m.Advance("0", LocallyAgreed), "advance after recovery")
	assert.Equal(t, LocallyAgreed, p.records["0"].Status, "stored status")

	r, _ := m.Get(Root)
	before := r.MerkleRoot()
	p.failing = 1
	_, err := m.AttachChild(Root, 0, "0")
	assert.Equal(t, errDiskFull, err, "attach")
	assert.Equal(t, []int{}, r.Occupied(), "slot kept after failed write")
	assert.Equal(t, before, r.MerkleRoot(), "root changed after failed write")

	root, err := m.AttachChild(Root, 0, "0")
	assert.Nil(t, err, "attach after recovery")
	assert.Equal(t, root, p.records[Root].MerkleRoot, "stored root")
	assert.Equal(t, []int{0}, r.Occupied(), "slot")
}

func TestSolutionWriteOnce(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(nil)
	solveTriad(t, m, Root)

	err := m.SetSolution(Root, testDifficulty, pof.Solution{Nonce: 1})
	assert.Equal(t, fault.ErrAlreadySolved, err, "second solution")
	assert.Equal(t, fault.ErrTriadNotFound, m.SetSolution("0", testDifficulty, pof.Solution{}), "missing")

	r, _ := m.Get(Root)
	_, difficulty, solved := r.Solution()
	assert.True(t, solved, "not solved")
	assert.Equal(t, testDifficulty, difficulty, "difficulty")
}

func TestSetCommittee(t *testing.T) {
	m := NewMatrix(nil)
	r, _ := m.CreateRoot(nil)

	members := []string{"a", "b", "c", "d"}
	assert.Nil(t, m.SetCommittee(Root, members), "set")
	members[0] = "z"
	assert.Equal(t, []string{"a", "b", "c", "d"}, r.Committee(), "committee aliased")
	assert.Equal(t, fault.ErrTriadNotFound, m.SetCommittee("0", nil), "missing")
}

func TestPersistAndLoad(t *testing.T) {
	p := newMemoryPersister()
	m := NewMatrix(p)
	_, _ = m.CreateRoot(rootTransactions)
	solveTriad(t, m, Root)
	_, _ = m.Create([][]byte{[]byte("C->D:1")}, Root, 2)
	solveTriad(t, m, "2")
	_, _ = m.AttachChild(Root, 2, "2")
	_ = m.Advance("2", LocallyAgreed)

	assert.Equal(t, 2, len(p.records), "records")
	assert.Equal(t, LocallyAgreed, p.records["2"].Status, "persisted status")

	loaded := NewMatrix(nil)
	assert.Nil(t, loaded.Load(p.all()), "load")
	assert.Nil(t, loaded.Validate(), "validate loaded")

	original, _ := m.Get(Root)
	restored, _ := loaded.Get(Root)
	assert.Equal(t, original.Record(), restored.Record(), "root differs")

	assert.Equal(t, fault.ErrAlreadyInitialised, loaded.Load(p.all()), "second load")

	records := p.all()
	for i := range records {
		if "2" == records[i].Coordinate {
			records[i].MerkleRoot = merkle.Digest{}
		}
	}
	assert.Equal(t, fault.ErrMerkleRootMismatch, NewMatrix(nil).Load(records), "tampered root")

	orphan := []Record{p.records["2"]}
	assert.Equal(t, fault.ErrParentNotFound, NewMatrix(nil).Load(orphan), "orphan")
}

func TestValidateDetectsTampering(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(rootTransactions)
	solveTriad(t, m, Root)
	c, _ := m.Create(nil, Root, 0)
	_, _ = m.AttachChild(Root, 0, "0")
	assert.Nil(t, m.Validate(), "clean matrix")

	c.lock.Lock()
	c.txHashes = append(c.txHashes, merkle.NewDigest([]byte("forged")))
	c.lock.Unlock()
	assert.Equal(t, fault.ErrMerkleRootMismatch, m.Validate(), "forged transaction")
}

func TestStaleChildRoots(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(rootTransactions)
	solveTriad(t, m, Root)
	_, _ = m.Create(nil, Root, 0)
	solveTriad(t, m, "0")
	_, _ = m.Create(nil, "0", 1)

	_, err := m.AttachChild(Root, 0, "0")
	assert.Nil(t, err, "attach child")
	assert.Equal(t, []Coordinate{}, m.StaleChildren(), "fresh attach")

	r, _ := m.Get(Root)
	rootBefore := r.MerkleRoot()

	// grandchild arrives after its parent already took the root slot
	_, err = m.AttachChild("0", 1, "01")
	assert.Nil(t, err, "attach grandchild")
	assert.Equal(t, []Coordinate{"0"}, m.StaleChildren(), "stale child root")
	assert.Equal(t, rootBefore, r.MerkleRoot(), "root changed by grandchild")
	assert.Nil(t, m.Validate(), "snapshot is not a validation error")
}

func TestValidateDetachedParentHash(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(nil)
	solveTriad(t, m, Root)
	c, _ := m.Create(nil, Root, 1)
	assert.Nil(t, m.Validate(), "clean matrix")

	c.parentHash = merkle.Digest{}
	assert.Equal(t, fault.ErrParentHashMismatch, m.Validate(), "forged parent hash")
}

func TestInsertParentHashMismatch(t *testing.T) {
	m := NewMatrix(nil)
	_, _ = m.CreateRoot(nil)
	solveTriad(t, m, Root)

	c, err := m.Candidate(nil, Root, 0)
	assert.Nil(t, err, "candidate")
	c.parentHash = merkle.NewDigest([]byte("elsewhere"))
	assert.Equal(t, fault.ErrParentHashMismatch, m.Insert(c), "wrong parent")
}

func TestCandidateTimestampAfterMedian(t *testing.T) {
	fixed := time.Unix(1600000000, 0)
	m := NewMatrix(nil)
	m.clock = func() time.Time { return fixed }

	_, _ = m.CreateRoot(nil)
	solveTriad(t, m, Root)
	parent := Root
	for i := 0; i < pof.MedianWindow-1; i += 1 {
		tr, err := m.Create(nil, parent, 0)
		assert.Nil(t, err, "create: %d", i)
		parent = tr.Coordinate()
		solveTriad(t, m, parent)
	}

	tr, err := m.Create(nil, parent, 0)
	assert.Nil(t, err, "create deep")
	assert.Equal(t, fixed.Unix()+1, tr.Timestamp(), "timestamp not moved past median")
}
