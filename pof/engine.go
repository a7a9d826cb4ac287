// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pof

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
)

// DefaultBatchSize - attempts between cancellation checks
const DefaultBatchSize = 4096

// Engine - creates, solves and verifies puzzles
type Engine struct {
	log       *logger.L
	batchSize uint64
	transform Transform
}

// New - create an engine, zero batch size or nil transform select the defaults
func New(batchSize uint64, transform Transform) *Engine {
	if 0 == batchSize {
		batchSize = DefaultBatchSize
	}
	if nil == transform {
		transform = UpperHalfRehash{}
	}
	return &Engine{
		log:       logger.New("pof"),
		batchSize: batchSize,
		transform: transform,
	}
}

// Transform - the active transform policy
func (e *Engine) Transform() Transform {
	return e.transform
}

// CreatePuzzle - validate the difficulty and build an immutable puzzle
func (e *Engine) CreatePuzzle(payloadHash merkle.Digest, difficulty Difficulty, seed []byte, timestamp int64) (*Puzzle, error) {
	if err := difficulty.Validate(); nil != err {
		return nil, err
	}
	return &Puzzle{
		PayloadHash: payloadHash,
		Difficulty:  difficulty.clone(),
		Seed:        append([]byte(nil), seed...),
		Timestamp:   timestamp,
	}, nil
}

// Solve - search nonces from zero upward until one satisfies all levels
//
// the context is examined once per batch, so a cancelled solve returns
// within one batch of work
func (e *Engine) Solve(ctx context.Context, puzzle *Puzzle) (Solution, error) {
	if nil == puzzle {
		return Solution{}, fault.ErrMissingParameters
	}
	if err := puzzle.Difficulty.Validate(); nil != err {
		return Solution{}, err
	}

	e.log.Debugf("solve: payload: %s  difficulty: %s", puzzle.PayloadHash, puzzle.Difficulty)

	nonce := uint64(0)
	for {
		select {
		case <-ctx.Done():
			e.log.Debugf("solve: cancelled at nonce: %d", nonce)
			return Solution{}, ctx.Err()
		default:
		}

		for i := uint64(0); i < e.batchSize; i += 1 {
			h := puzzle.PrimaryHash(nonce)
			if e.accept(puzzle, h) {
				e.log.Infof("solved: nonce: %d  hash: %s", nonce, h)
				return Solution{Nonce: nonce, Hash: h}, nil
			}
			if math.MaxUint64 == nonce {
				return Solution{}, fault.ErrUnsolvedTriad
			}
			nonce += 1
		}
	}
}

// Verify - true if the nonce solves the puzzle
func (e *Engine) Verify(puzzle *Puzzle, nonce uint64) bool {
	if nil == puzzle || nil != puzzle.Difficulty.Validate() {
		return false
	}
	return e.accept(puzzle, puzzle.PrimaryHash(nonce))
}

// VerifySolution - Verify plus a check of the recorded hash
func (e *Engine) VerifySolution(puzzle *Puzzle, solution Solution) bool {
	if !e.Verify(puzzle, solution.Nonce) {
		return false
	}
	return puzzle.PrimaryHash(solution.Nonce) == solution.Hash
}

// VerifyPacked - Verify for a little endian encoded nonce
func (e *Engine) VerifyPacked(puzzle *Puzzle, nonce []byte) bool {
	if NonceLength != len(nonce) {
		return false
	}
	return e.Verify(puzzle, binary.LittleEndian.Uint64(nonce))
}

func (e *Engine) accept(puzzle *Puzzle, h merkle.Digest) bool {
	if h.LeadingZeros() < int(puzzle.Difficulty.Primary) {
		return false
	}
	g := h
	for _, k := range puzzle.Difficulty.Secondary {
		g = e.transform.Apply(g)
		if g.LeadingZeros() < int(k) {
			return false
		}
	}
	return true
}
