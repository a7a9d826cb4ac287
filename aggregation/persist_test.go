// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregation_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seirchain/seird/aggregation"
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/messagebus"
	"github.com/seirchain/seird/triad"
)

var errDiskFull = fault.ProcessError("disk full")

// store that refuses writes once armed
type unreliableStore struct {
	sync.Mutex
	pass int // writes allowed before failing
	fail int // writes refused after that
}

func (s *unreliableStore) Put(r triad.Record) error {
	s.Lock()
	defer s.Unlock()
	if s.pass > 0 {
		s.pass -= 1
		return nil
	}
	if s.fail > 0 {
		s.fail -= 1
		return errDiskFull
	}
	return nil
}

func (s *unreliableStore) arm(pass int, fail int) {
	s.Lock()
	s.pass = pass
	s.fail = fail
	s.Unlock()
}

func TestAgreeAfterFailedStatusWrite(t *testing.T) {
	registry := newRegistry(t)
	store := &unreliableStore{}
	m := triad.NewMatrix(store)
	root := grow(t, m, triad.Root, -1)
	c := grow(t, m, root, 0)
	e := aggregation.New(m, registry, nil, aggregation.Configuration{})

	store.arm(0, 1)
	_, err := e.LocallyAgreed(c, certify(t, registry, m, c, quorum))
	assert.Equal(t, errDiskFull, err, "first attempt")
	assert.Equal(t, triad.Pending, status(m, c), "status after failed write")

	proof, err := e.LocallyAgreed(c, certify(t, registry, m, c, quorum))
	assert.Nil(t, err, "retry")
	assert.NotNil(t, proof, "proof")
	assert.Equal(t, triad.Aggregated, status(m, c), "status after retry")
}

func TestAgreeResumesAfterFailedAttach(t *testing.T) {
	registry := newRegistry(t)
	store := &unreliableStore{}
	m := triad.NewMatrix(store)
	root := grow(t, m, triad.Root, -1)
	c := grow(t, m, root, 0)
	bus := messagebus.New()
	events := bus.Chan(10)
	e := aggregation.New(m, registry, bus, aggregation.Configuration{})

	// the status write succeeds and the parent write does not
	store.arm(1, 1)
	_, err := e.LocallyAgreed(c, certify(t, registry, m, c, quorum))
	assert.Equal(t, errDiskFull, err, "first attempt")
	assert.Equal(t, triad.LocallyAgreed, status(m, c), "status after failed attach")

	parent, _ := m.Get(root)
	assert.Equal(t, []int{}, parent.Occupied(), "slot claimed by failed attach")
	_, ok := e.Proof(c)
	assert.False(t, ok, "proof stored by failed attempt")

	proof, err := e.LocallyAgreed(c, certify(t, registry, m, c, quorum))
	assert.Nil(t, err, "retry")
	assert.Equal(t, triad.Aggregated, status(m, c), "status after retry")
	assert.Equal(t, []int{0}, parent.Occupied(), "slot after retry")

	stored, ok := e.Proof(c)
	assert.True(t, ok, "proof not stored")
	assert.Equal(t, proof, stored, "stored proof")

	assert.Equal(t, 1, len(events), "locally agreed events")

	_, err = e.LocallyAgreed(c, certify(t, registry, m, c, quorum))
	assert.Equal(t, fault.ErrStatusRegression, err, "agree after aggregation")
}

func TestAgreeResumesAfterFailedAggregatedWrite(t *testing.T) {
	registry := newRegistry(t)
	store := &unreliableStore{}
	m := triad.NewMatrix(store)
	root := grow(t, m, triad.Root, -1)
	c := grow(t, m, root, 0)
	e := aggregation.New(m, registry, nil, aggregation.Configuration{})

	// status and attach succeed, the aggregated status write fails
	store.arm(2, 1)
	_, err := e.LocallyAgreed(c, certify(t, registry, m, c, quorum))
	assert.Equal(t, errDiskFull, err, "first attempt")
	assert.Equal(t, triad.LocallyAgreed, status(m, c), "status after failed write")

	parent, _ := m.Get(root)
	assert.Equal(t, []int{0}, parent.Occupied(), "slot")

	_, err = e.LocallyAgreed(c, certify(t, registry, m, c, quorum))
	assert.Nil(t, err, "retry")
	assert.Equal(t, triad.Aggregated, status(m, c), "status after retry")
	assert.Equal(t, []int{0}, parent.Occupied(), "slot after retry")
}
