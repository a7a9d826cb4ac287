// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package network

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/seirchain/seird/aggregation"
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/triad"
)

// Layout - coordinates for count triads filled level by level
func Layout(count int) []triad.Coordinate {
	if count <= 0 {
		return nil
	}
	coordinates := []triad.Coordinate{triad.Root}
	for i := 0; len(coordinates) < count; i += 1 {
		for slot := 0; slot < triad.SlotCount && len(coordinates) < count; slot += 1 {
			c, _ := coordinates[i].Child(slot)
			coordinates = append(coordinates, c)
		}
	}
	return coordinates
}

// ProposeLevel - propose sibling triads under one parent in parallel
//
// batches[i] goes to slot i, a nil batch leaves the slot empty; the
// result holds the proof for each proposed slot
func (n *Network) ProposeLevel(ctx context.Context, parent triad.Coordinate, batches [][][]byte) ([]*aggregation.Proof, error) {
	if len(batches) > triad.SlotCount {
		return nil, fault.ErrInvalidSlot
	}

	proofs := make([]*aggregation.Proof, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	for slot, batch := range batches {
		if nil == batch {
			continue
		}
		slot, batch := slot, batch
		g.Go(func() error {
			p, err := n.Propose(gctx, parent, slot, batch)
			if nil != err {
				return err
			}
			proofs[slot] = p
			return nil
		})
	}
	if err := g.Wait(); nil != err {
		return nil, err
	}
	return proofs, nil
}

// Build - grow a new matrix from transaction batches
//
// batches are placed by Layout; every level is solved top down with
// siblings in parallel, then agreed bottom up so that each parent
// goes to its committee with all of its children attached
func (n *Network) Build(ctx context.Context, batches [][][]byte) ([]*aggregation.Proof, error) {
	coordinates := Layout(len(batches))
	if 0 == len(coordinates) {
		return nil, fault.ErrMissingParameters
	}

	levels := make([][]int, 0)
	for i, c := range coordinates {
		d := c.Depth()
		if d == len(levels) {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], i)
	}

	for _, level := range levels {
		g, gctx := errgroup.WithContext(ctx)
		for _, i := range level {
			i := i
			g.Go(func() error {
				c := coordinates[i]
				if c.IsRoot() {
					_, err := n.SolveRoot(gctx, batches[i])
					return err
				}
				parent, _ := c.Parent()
				_, err := n.Solve(gctx, parent, c.Slot(), batches[i])
				return err
			})
		}
		if err := g.Wait(); nil != err {
			return nil, err
		}
	}

	proofs := make([]*aggregation.Proof, len(coordinates))
	for d := len(levels) - 1; d >= 0; d -= 1 {
		g, gctx := errgroup.WithContext(ctx)
		for _, i := range levels[d] {
			i := i
			g.Go(func() error {
				p, err := n.Agree(gctx, coordinates[i])
				if nil != err {
					return err
				}
				proofs[i] = p
				return nil
			})
		}
		if err := g.Wait(); nil != err {
			return nil, err
		}
	}
	return proofs, nil
}
