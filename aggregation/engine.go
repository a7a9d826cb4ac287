// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregation

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/messagebus"
	"github.com/seirchain/seird/pbft"
	"github.com/seirchain/seird/signature"
	"github.com/seirchain/seird/triad"
)

// defaults
const (
	DefaultFinalityDepth = 3
	DefaultChildTimeout  = 30 * time.Second
)

// Members - key lookup and the scheme used to sign commits
type Members interface {
	pbft.KeyLookup
	Scheme() signature.Scheme
}

// Configuration - engine parameters
type Configuration struct {
	FinalityDepth int           // k, zero selects the default
	ChildTimeout  time.Duration // zero selects the default
	Policy        ChildPolicy
	Clock         func() time.Time // nil selects time.Now
}

type expectation struct {
	slots [triad.SlotCount]bool
	since time.Time
}

// Engine - aggregation state for one matrix
type Engine struct {
	lock sync.Mutex

	log          *logger.L
	matrix       *triad.Matrix
	members      Members
	bus          *messagebus.Bus
	depth        int
	childTimeout time.Duration
	policy       ChildPolicy
	clock        func() time.Time

	expected  map[triad.Coordinate]*expectation
	proofs    map[triad.Coordinate]*Proof
	conflicts map[triad.Coordinate]map[merkle.Digest]struct{}
}

// New - create an engine, bus may be nil
func New(matrix *triad.Matrix, members Members, bus *messagebus.Bus, configuration Configuration) *Engine {
	depth := configuration.FinalityDepth
	if depth <= 0 {
		depth = DefaultFinalityDepth
	}
	childTimeout := configuration.ChildTimeout
	if childTimeout <= 0 {
		childTimeout = DefaultChildTimeout
	}
	clock := configuration.Clock
	if nil == clock {
		clock = time.Now
	}
	return &Engine{
		log:          logger.New("aggregation"),
		matrix:       matrix,
		members:      members,
		bus:          bus,
		depth:        depth,
		childTimeout: childTimeout,
		policy:       configuration.Policy,
		clock:        clock,
		expected:     make(map[triad.Coordinate]*expectation),
		proofs:       make(map[triad.Coordinate]*Proof),
		conflicts:    make(map[triad.Coordinate]map[merkle.Digest]struct{}),
	}
}

// FinalityDepth - k
func (e *Engine) FinalityDepth() int {
	return e.depth
}

// Expect - note that a child is being agreed for its parent's slot
func (e *Engine) Expect(child triad.Coordinate) error {
	parent, ok := child.Parent()
	if !ok || !child.Valid() {
		return fault.ErrInvalidCoordinate
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	x, ok := e.expected[parent]
	if !ok {
		x = &expectation{since: e.clock()}
		e.expected[parent] = x
	}
	x.slots[child.Slot()] = true
	return nil
}

// ReadyToPropose - nil when the parent may go to its committee
//
// every expected child must be attached, after the child timeout the
// policy decides whether to proceed without the missing ones
func (e *Engine) ReadyToPropose(parent triad.Coordinate, now time.Time) error {
	p, ok := e.matrix.Get(parent)
	if !ok {
		return fault.ErrTriadNotFound
	}

	e.lock.Lock()
	x, ok := e.expected[parent]
	var expected [triad.SlotCount]bool
	var since time.Time
	if ok {
		expected = x.slots
		since = x.since
	}
	e.lock.Unlock()

	if !ok {
		return nil
	}

	children := p.Children()
	missing := make([]int, 0, triad.SlotCount)
	for slot, want := range expected {
		if want && children[slot].IsRoot() {
			missing = append(missing, slot)
		}
	}
	if 0 == len(missing) {
		return nil
	}

	if now.Sub(since) < e.childTimeout {
		return fault.ErrIncompleteChildren
	}

	switch e.policy {
	case ProceedPartial:
		e.log.Warnf("parent: %q  proceeding without slots: %v", parent, missing)
		return nil
	default:
		e.log.Infof("parent: %q  still waiting for slots: %v", parent, missing)
		return fault.ErrIncompleteChildren
	}
}

// LocallyAgreed - record a committee decision and aggregate it
func (e *Engine) LocallyAgreed(coordinate triad.Coordinate, certificate *pbft.QuorumCertificate) (*Proof, error) {
	if nil == certificate {
		return nil, fault.ErrMissingParameters
	}
	t, ok := e.matrix.Get(coordinate)
	if !ok {
		return nil, fault.ErrTriadNotFound
	}
	digest := t.Digest()
	if certificate.Digest != digest {
		e.log.Warnf("agreed: %q  certificate digest: %s  expected: %s", coordinate, certificate.Digest, digest)
		return nil, fault.ErrInvalidProof
	}

	scheme := e.members.Scheme()
	if err := certificate.Verify(scheme, e.members, t.Committee()); nil != err {
		e.log.Warnf("agreed: %q  certificate error: %s", coordinate, err)
		return nil, err
	}

	aggregated, err := scheme.Aggregate(certificate.Signatures)
	if nil != err {
		return nil, err
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	// a triad left LocallyAgreed by an earlier failed attempt carries on
	// from where that attempt stopped
	switch t.Status() {
	case triad.Pending:
		if err := e.matrix.Advance(coordinate, triad.LocallyAgreed); nil != err {
			return nil, err
		}
		e.send(messagebus.TriadLocallyAgreed, coordinate, digest)
	case triad.LocallyAgreed:
		e.log.Warnf("agreed: %q  resuming aggregation", coordinate)
	default:
		return nil, fault.ErrStatusRegression
	}

	if parent, ok := coordinate.Parent(); ok {
		if err := e.attach(parent, coordinate); nil != err {
			return nil, err
		}
	}

	depth := 1
	for _, c := range t.Children() {
		if child, ok := e.proofs[c]; ok && !c.IsRoot() && child.Depth+1 > depth {
			depth = child.Depth + 1
		}
	}

	proof := &Proof{
		Coordinate:          coordinate,
		Digest:              digest,
		RootDigest:          t.MerkleRoot(),
		View:                certificate.View,
		Sequence:            certificate.Sequence,
		AggregatedSignature: aggregated,
		Signers:             append([]string(nil), certificate.Signers...),
		Depth:               depth,
	}

	if err := e.matrix.Advance(coordinate, triad.Aggregated); nil != err {
		return nil, err
	}
	e.proofs[coordinate] = proof
	e.log.Infof("aggregated: %q  signers: %d  depth: %d", coordinate, len(proof.Signers), depth)

	e.sweep(coordinate)
	return proof, nil
}

// claim the child's slot unless an earlier attempt already holds it;
// caller holds the lock
func (e *Engine) attach(parent triad.Coordinate, child triad.Coordinate) error {
	p, ok := e.matrix.Get(parent)
	if !ok {
		return fault.ErrParentNotFound
	}
	if p.Children()[child.Slot()] == child {
		return nil
	}
	if _, err := e.matrix.AttachChild(parent, child.Slot(), child); nil != err {
		fault.Criticalf("agreed: %q  attach to: %q  error: %s", child, parent, err)
		return err
	}
	return nil
}

// Proof - the proof produced for a coordinate
func (e *Engine) Proof(coordinate triad.Coordinate) (*Proof, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	p, ok := e.proofs[coordinate]
	return p, ok
}

// VerifyProof - check the aggregated signature against the signers' keys
func (e *Engine) VerifyProof(proof *Proof, publicKeys []signature.PublicKey) bool {
	if nil == proof || 0 == len(publicKeys) || len(publicKeys) != len(proof.Signers) {
		return false
	}
	return e.members.Scheme().VerifyAggregated(proof.AggregatedSignature, publicKeys, proof.Message())
}

// ReportConflict - a different digest was seen for a coordinate
func (e *Engine) ReportConflict(coordinate triad.Coordinate, digest merkle.Digest) error {
	t, ok := e.matrix.Get(coordinate)
	if !ok {
		return fault.ErrTriadNotFound
	}
	if t.Digest() == digest {
		return nil
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	c, ok := e.conflicts[coordinate]
	if !ok {
		c = make(map[merkle.Digest]struct{})
		e.conflicts[coordinate] = c
	}
	c[digest] = struct{}{}
	e.log.Warnf("conflict: %q  digest: %s", coordinate, digest)
	return nil
}

// HasConflict - true once a conflict was reported
func (e *Engine) HasConflict(coordinate triad.Coordinate) bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return 0 != len(e.conflicts[coordinate])
}

// finalise anything the new aggregation completed, the triad itself and
// its descendants down to k levels; caller holds the lock
func (e *Engine) sweep(from triad.Coordinate) {
	level := []triad.Coordinate{from}
	for d := 0; d <= e.depth && 0 != len(level); d += 1 {
		next := make([]triad.Coordinate, 0, len(level)*triad.SlotCount)
		for _, c := range level {
			t, ok := e.matrix.Get(c)
			if !ok {
				continue
			}
			if triad.Aggregated == t.Status() && e.final(c) {
				if err := e.matrix.Advance(c, triad.Final); nil != err {
					e.log.Errorf("final: %q  error: %s", c, err)
				} else {
					e.log.Infof("final: %q", c)
					e.send(messagebus.TriadFinal, c, t.Digest())
				}
			}
			for _, child := range t.Children() {
				if !child.IsRoot() {
					next = append(next, child)
				}
			}
		}
		level = next
	}
}

// k nearest ancestors aggregated and no conflicts; caller holds the lock
func (e *Engine) final(c triad.Coordinate) bool {
	if 0 != len(e.conflicts[c]) {
		return false
	}
	ancestors := c.Ancestors()
	if len(ancestors) < e.depth {
		return false
	}
	for _, a := range ancestors[len(ancestors)-e.depth:] {
		if 0 != len(e.conflicts[a]) {
			return false
		}
		t, ok := e.matrix.Get(a)
		if !ok || t.Status() < triad.Aggregated {
			return false
		}
	}
	return true
}

func (e *Engine) send(command string, coordinate triad.Coordinate, digest merkle.Digest) {
	if nil == e.bus {
		return
	}
	e.bus.Send(command, []byte(coordinate), digest[:])
}
