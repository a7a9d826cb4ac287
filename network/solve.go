// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package network

import (
	"context"
	"time"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/triad"
)

// SolveRoot - build, solve and insert the root
func (n *Network) SolveRoot(ctx context.Context, transactions [][]byte) (*triad.Triad, error) {
	return n.solve(ctx, n.matrix.RootCandidate(transactions))
}

// Solve - build, solve and insert the triad for parent+slot
//
// the solve is abandoned with fault.ErrTriadExists as soon as another
// solve wins the same slot
func (n *Network) Solve(ctx context.Context, parent triad.Coordinate, slot int, transactions [][]byte) (*triad.Triad, error) {
	candidate, err := n.matrix.Candidate(transactions, parent, slot)
	if nil != err {
		return nil, err
	}
	if err := n.aggregation.Expect(candidate.Coordinate()); nil != err {
		return nil, err
	}
	return n.solve(ctx, candidate)
}

func (n *Network) solve(ctx context.Context, candidate *triad.Triad) (*triad.Triad, error) {
	coordinate := candidate.Coordinate()
	if _, ok := n.matrix.Get(coordinate); ok {
		return nil, fault.ErrTriadExists
	}

	d := n.difficulty()
	puzzle, err := candidate.Puzzle(n.engine, d, n.config.Seed)
	if nil != err {
		return nil, err
	}

	ctx, id := n.startSolving(ctx, coordinate)
	defer n.stopSolving(coordinate, id)

	start := time.Now()
	solution, err := n.engine.Solve(ctx, puzzle)
	if nil != err {
		if _, ok := n.matrix.Get(coordinate); ok {
			n.log.Infof("solve: %q  lost to a competing triad", coordinate)
			return nil, fault.ErrTriadExists
		}
		return nil, err
	}
	elapsed := time.Since(start)

	if !n.engine.VerifySolution(puzzle, solution) {
		return nil, fault.ErrInvalidProof
	}
	if err := candidate.SetSolution(d, solution); nil != err {
		return nil, err
	}
	if err := n.matrix.Insert(candidate); nil != err {
		return nil, err
	}
	n.won(coordinate, id)

	if nil != n.config.Controller {
		n.config.Controller.Record(elapsed)
	}
	n.log.Infof("solved: %q  difficulty: %s  nonce: %d  time: %s", coordinate, d, solution.Nonce, elapsed)
	return candidate, nil
}

// register a cancellable solve for a coordinate
func (n *Network) startSolving(ctx context.Context, coordinate triad.Coordinate) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	n.lock.Lock()
	defer n.lock.Unlock()

	n.attempt += 1
	id := n.attempt
	s, ok := n.solving[coordinate]
	if !ok {
		s = make(map[uint64]context.CancelFunc)
		n.solving[coordinate] = s
	}
	s[id] = cancel
	return ctx, id
}

func (n *Network) stopSolving(coordinate triad.Coordinate, id uint64) {
	n.lock.Lock()
	defer n.lock.Unlock()

	s := n.solving[coordinate]
	if cancel, ok := s[id]; ok {
		cancel()
		delete(s, id)
	}
	if 0 == len(s) {
		delete(n.solving, coordinate)
	}
}

// cancel every other solve for a coordinate that has been taken
func (n *Network) won(coordinate triad.Coordinate, winner uint64) {
	n.lock.Lock()
	defer n.lock.Unlock()

	for id, cancel := range n.solving[coordinate] {
		if id != winner {
			cancel()
		}
	}
}

// number of solves running for a coordinate
func (n *Network) solvers(coordinate triad.Coordinate) int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.solving[coordinate])
}
