// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package triad

import (
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pof"
)

// Persister - receives a record every time a triad changes
type Persister interface {
	Put(Record) error
}

// Matrix - arena of triads keyed by coordinate
//
// the matrix lock only guards the arena map, a slot claim is made under
// the parent triad's own lock
type Matrix struct {
	lock      sync.RWMutex
	log       *logger.L
	triads    map[Coordinate]*Triad
	persister Persister
	clock     func() time.Time
}

// NewMatrix - empty matrix, persister may be nil
func NewMatrix(persister Persister) *Matrix {
	return &Matrix{
		log:       logger.New("triad"),
		triads:    make(map[Coordinate]*Triad),
		persister: persister,
		clock:     time.Now,
	}
}

// CreateRoot - create and insert the root triad
func (m *Matrix) CreateRoot(transactions [][]byte) (*Triad, error) {
	t := m.RootCandidate(transactions)
	if err := m.Insert(t); nil != err {
		return nil, err
	}
	return t, nil
}

// Create - create and insert the triad at parent+slot
func (m *Matrix) Create(transactions [][]byte, parent Coordinate, slot int) (*Triad, error) {
	t, err := m.Candidate(transactions, parent, slot)
	if nil != err {
		return nil, err
	}
	if err := m.Insert(t); nil != err {
		return nil, err
	}
	return t, nil
}

// RootCandidate - detached root triad
func (m *Matrix) RootCandidate(transactions [][]byte) *Triad {
	return newTriad(Root, transactions, merkle.Digest{}, m.clock().Unix())
}

// Candidate - detached triad for parent+slot
//
// the parent must exist and be solved so that its digest is final; the
// timestamp is moved past the median of the ancestors when the clock
// is behind it
func (m *Matrix) Candidate(transactions [][]byte, parent Coordinate, slot int) (*Triad, error) {
	if !ValidSlot(slot) {
		return nil, fault.ErrInvalidSlot
	}
	if !parent.Valid() {
		return nil, fault.ErrInvalidCoordinate
	}
	coordinate, err := parent.Child(slot)
	if nil != err {
		return nil, err
	}

	chain := m.GetChain(parent)
	if 0 == len(chain) {
		return nil, fault.ErrParentNotFound
	}
	p := chain[len(chain)-1]
	if _, _, solved := p.Solution(); !solved {
		return nil, fault.ErrUnsolvedTriad
	}

	timestamps := make([]int64, len(chain))
	for i, a := range chain {
		timestamps[i] = a.Timestamp()
	}
	timestamp := m.clock().Unix()
	if !pof.ValidTimestamp(timestamp, timestamps) {
		median := pof.MedianTime(timestamps[len(timestamps)-pof.MedianWindow:])
		timestamp = int64(median) + 1
		m.log.Warnf("candidate: %q  clock behind median: %.0f", coordinate, median)
	}

	return newTriad(coordinate, transactions, p.LinkHash(), timestamp), nil
}

// Insert - add a detached triad to the arena
func (m *Matrix) Insert(t *Triad) error {
	m.lock.Lock()

	if _, ok := m.triads[t.coordinate]; ok {
		m.lock.Unlock()
		return fault.ErrTriadExists
	}
	if parent, ok := t.coordinate.Parent(); ok {
		p, ok := m.triads[parent]
		if !ok {
			m.lock.Unlock()
			return fault.ErrParentNotFound
		}
		if p.LinkHash() != t.parentHash {
			m.lock.Unlock()
			return fault.ErrParentHashMismatch
		}
	}
	m.triads[t.coordinate] = t

	m.lock.Unlock()

	m.log.Debugf("insert: %q  transactions: %d  merkle root: %s", t.coordinate, len(t.transactions), t.MerkleRoot())
	return m.persist(t)
}

// AttachChild - claim a parent slot for a child and return the new parent root
func (m *Matrix) AttachChild(parent Coordinate, slot int, child Coordinate) (merkle.Digest, error) {
	if !ValidSlot(slot) {
		return merkle.Digest{}, fault.ErrInvalidSlot
	}
	expected, err := parent.Child(slot)
	if nil != err {
		return merkle.Digest{}, err
	}
	if expected != child {
		return merkle.Digest{}, fault.ErrCoordinateMismatch
	}

	p, ok := m.Get(parent)
	if !ok {
		return merkle.Digest{}, fault.ErrParentNotFound
	}
	c, ok := m.Get(child)
	if !ok {
		return merkle.Digest{}, fault.ErrTriadNotFound
	}
	childRoot := c.MerkleRoot()

	p.lock.Lock()
	if !p.children[slot].IsRoot() {
		p.lock.Unlock()
		return merkle.Digest{}, fault.ErrSlotOccupied
	}
	previousRoot := p.merkleRoot
	p.children[slot] = child
	p.childRoots[slot] = childRoot
	p.merkleRoot = p.computeRoot()
	root := p.merkleRoot
	p.lock.Unlock()

	// the slot is held while the record is written so a concurrent
	// attach cannot claim it, a failed write releases it again
	if err := m.persist(p); nil != err {
		p.lock.Lock()
		p.children[slot] = Root
		p.childRoots[slot] = merkle.Digest{}
		p.merkleRoot = previousRoot
		p.lock.Unlock()
		return merkle.Digest{}, err
	}

	m.log.Infof("attach: %q  slot: %d  parent root: %s", parent, slot, root)
	return root, nil
}

// Get - triad at a coordinate
func (m *Matrix) Get(coordinate Coordinate) (*Triad, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	t, ok := m.triads[coordinate]
	return t, ok
}

// GetChain - triads from the root down to and including from
//
// returns nil when any triad on the path is missing
func (m *Matrix) GetChain(from Coordinate) []*Triad {
	m.lock.RLock()
	defer m.lock.RUnlock()

	chain := make([]*Triad, 0, from.Depth()+1)
	for _, c := range append(from.Ancestors(), from) {
		t, ok := m.triads[c]
		if !ok {
			return nil
		}
		chain = append(chain, t)
	}
	return chain
}

// Len - number of triads
func (m *Matrix) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.triads)
}

// Coordinates - all coordinates, shallowest first then lexical
func (m *Matrix) Coordinates() []Coordinate {
	m.lock.RLock()
	coordinates := make([]Coordinate, 0, len(m.triads))
	for c := range m.triads {
		coordinates = append(coordinates, c)
	}
	m.lock.RUnlock()

	sortCoordinates(coordinates)
	return coordinates
}

// Level - coordinates at one depth in lexical order
func (m *Matrix) Level(depth int) []Coordinate {
	level := make([]Coordinate, 0)
	for _, c := range m.Coordinates() {
		if depth == c.Depth() {
			level = append(level, c)
		}
	}
	return level
}

// SetSolution - record a triad's solution and persist it
func (m *Matrix) SetSolution(coordinate Coordinate, difficulty pof.Difficulty, solution pof.Solution) error {
	t, ok := m.Get(coordinate)
	if !ok {
		return fault.ErrTriadNotFound
	}
	if err := t.SetSolution(difficulty, solution); nil != err {
		return err
	}
	return m.persist(t)
}

// SetCommittee - record a triad's committee and persist it
func (m *Matrix) SetCommittee(coordinate Coordinate, committee []string) error {
	t, ok := m.Get(coordinate)
	if !ok {
		return fault.ErrTriadNotFound
	}
	t.SetCommittee(committee)
	return m.persist(t)
}

// Advance - move a triad's status forward and persist it
func (m *Matrix) Advance(coordinate Coordinate, status Status) error {
	t, ok := m.Get(coordinate)
	if !ok {
		return fault.ErrTriadNotFound
	}

	// the new status is stored before it becomes visible
	r := t.Record()
	if !r.Status.precedes(status) {
		return fault.ErrStatusRegression
	}
	r.Status = status
	if err := m.put(r); nil != err {
		return err
	}
	if err := t.Advance(status); nil != err {
		return err
	}
	m.log.Debugf("advance: %q  status: %s", coordinate, status)
	return nil
}

// Load - rebuild the arena from stored records
//
// only valid on an empty matrix; records may be in any order
func (m *Matrix) Load(records []Record) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if 0 != len(m.triads) {
		return fault.ErrAlreadyInitialised
	}

	sort.Slice(records, func(i, j int) bool {
		return lessCoordinate(records[i].Coordinate, records[j].Coordinate)
	})

	triads := make(map[Coordinate]*Triad, len(records))
	for _, r := range records {
		t, err := fromRecord(r)
		if nil != err {
			m.log.Errorf("load: %q  error: %s", r.Coordinate, err)
			return err
		}
		if _, ok := triads[t.coordinate]; ok {
			return fault.ErrTriadExists
		}
		if parent, ok := t.coordinate.Parent(); ok {
			if _, ok := triads[parent]; !ok {
				return fault.ErrParentNotFound
			}
		}
		triads[t.coordinate] = t
	}
	m.triads = triads
	m.log.Infof("loaded: %d triads", len(triads))
	return nil
}

func (m *Matrix) persist(t *Triad) error {
	if nil == m.persister {
		return nil
	}
	return m.put(t.Record())
}

func (m *Matrix) put(r Record) error {
	if nil == m.persister {
		return nil
	}
	err := m.persister.Put(r)
	if nil != err {
		m.log.Errorf("persist: %q  status: %s  error: %s", r.Coordinate, r.Status, err)
	}
	return err
}

func lessCoordinate(a Coordinate, b Coordinate) bool {
	if a.Depth() != b.Depth() {
		return a.Depth() < b.Depth()
	}
	return a < b
}

func sortCoordinates(coordinates []Coordinate) {
	sort.Slice(coordinates, func(i, j int) bool {
		return lessCoordinate(coordinates[i], coordinates[j])
	})
}
