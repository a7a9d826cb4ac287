// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package network

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/aggregation"
	"github.com/seirchain/seird/difficulty"
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pbft"
	"github.com/seirchain/seird/pof"
	"github.com/seirchain/seird/transport"
	"github.com/seirchain/seird/triad"
	"github.com/seirchain/seird/vrf"
)

// defaults
const (
	DefaultViewTimeout   = 2 * time.Second
	DefaultRetryInterval = 100 * time.Millisecond
)

// ProofStore - optional persistence of aggregated proofs
type ProofStore interface {
	PutProof(proof *aggregation.Proof) error
}

// Configuration - parameters of a network
type Configuration struct {
	Difficulty    pof.Difficulty         // used when Controller is nil
	Controller    *difficulty.Controller // optional retargeting
	Seed          []byte                 // puzzle and committee seed
	CommitteeSize int
	ViewTimeout   time.Duration // zero selects the default
	MaxViews      uint64
	RetryInterval time.Duration // back off while children are incomplete
	Slasher       pbft.Slasher  // optional
	Proofs        ProofStore    // optional
}

// Network - the orchestrator
type Network struct {
	log         *logger.L
	matrix      *triad.Matrix
	engine      *pof.Engine
	registry    *vrf.Registry
	selector    *vrf.Selector
	aggregation *aggregation.Engine
	transport   transport.Transport
	config      Configuration

	lock      sync.Mutex
	sequence  uint64
	instances map[uint64]*instance
	solving   map[triad.Coordinate]map[uint64]context.CancelFunc
	attempt   uint64
}

// New - create a network and register its vote handler on the transport
func New(matrix *triad.Matrix, engine *pof.Engine, registry *vrf.Registry, agg *aggregation.Engine, tr transport.Transport, config Configuration) (*Network, error) {
	if nil == matrix || nil == engine || nil == registry || nil == agg || nil == tr {
		return nil, fault.ErrMissingParameters
	}
	if config.CommitteeSize < pbft.MinimumCommittee || config.CommitteeSize > pbft.MaximumCommittee {
		return nil, fault.ErrCommitteeSize
	}
	if nil == config.Controller {
		if err := config.Difficulty.Validate(); nil != err {
			return nil, err
		}
	}
	if config.ViewTimeout <= 0 {
		config.ViewTimeout = DefaultViewTimeout
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = DefaultRetryInterval
	}

	n := &Network{
		log:         logger.New("network"),
		matrix:      matrix,
		engine:      engine,
		registry:    registry,
		selector:    vrf.NewSelector(registry),
		aggregation: agg,
		transport:   tr,
		config:      config,
		instances:   make(map[uint64]*instance),
		solving:     make(map[triad.Coordinate]map[uint64]context.CancelFunc),
	}
	tr.OnReceive(n.receive)
	return n, nil
}

// Matrix - the matrix being built
func (n *Network) Matrix() *triad.Matrix {
	return n.matrix
}

// difficulty for the next puzzle
func (n *Network) difficulty() pof.Difficulty {
	if nil != n.config.Controller {
		return n.config.Controller.Difficulty()
	}
	return n.config.Difficulty
}

// committee selection seed for a triad
func (n *Network) committeeSeed(t *triad.Triad) []byte {
	parentHash := t.ParentHash()
	seed := merkle.NewDigestOf(n.config.Seed, []byte(t.Coordinate()), parentHash[:])
	return seed[:]
}

// Propose - solve a triad for parent+slot and agree it
//
// a parent with expected children is only agreed once they have
// attached, so this suits leaves; use Build for whole levels
func (n *Network) Propose(ctx context.Context, parent triad.Coordinate, slot int, transactions [][]byte) (*aggregation.Proof, error) {
	t, err := n.Solve(ctx, parent, slot, transactions)
	if nil != err {
		return nil, err
	}
	return n.Agree(ctx, t.Coordinate())
}

// ProposeRoot - solve and agree the root
func (n *Network) ProposeRoot(ctx context.Context, transactions [][]byte) (*aggregation.Proof, error) {
	t, err := n.SolveRoot(ctx, transactions)
	if nil != err {
		return nil, err
	}
	return n.Agree(ctx, t.Coordinate())
}
