// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vrf

import (
	"bytes"
	"sort"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
)

// Ticket - one identity's VRF result for a seed
type Ticket struct {
	Identity string        `json:"identity"`
	Output   merkle.Digest `json:"output"`
	Proof    []byte        `json:"proof"`
}

// Selector - leader selection over a registry
type Selector struct {
	log      *logger.L
	registry *Registry
}

// NewSelector - create a selector
func NewSelector(registry *Registry) *Selector {
	return &Selector{
		log:      logger.New("vrf"),
		registry: registry,
	}
}

// Rank - tickets for all eligible identities, lowest output first
//
// equal outputs are ordered by identity
func (s *Selector) Rank(seed []byte) ([]Ticket, error) {
	return s.RankOf(s.registry.Eligible(), seed)
}

// RankOf - tickets for a subset of identities, excluded ones are skipped
func (s *Selector) RankOf(identities []string, seed []byte) ([]Ticket, error) {
	tickets := make([]Ticket, 0, len(identities))
	for _, id := range identities {
		if s.registry.IsExcluded(id) {
			continue
		}
		output, proof, err := s.registry.Prove(id, seed)
		if nil != err {
			s.log.Errorf("rank: %s  error: %s", id, err)
			return nil, err
		}
		tickets = append(tickets, Ticket{
			Identity: id,
			Output:   output,
			Proof:    proof,
		})
	}
	if 0 == len(tickets) {
		return nil, fault.ErrNoEligibleMiners
	}

	sort.Slice(tickets, func(i, j int) bool {
		c := bytes.Compare(tickets[i].Output[:], tickets[j].Output[:])
		if 0 != c {
			return c < 0
		}
		return tickets[i].Identity < tickets[j].Identity
	})
	return tickets, nil
}

// SelectLeader - the eligible identity with the lowest output
func (s *Selector) SelectLeader(seed []byte) (string, merkle.Digest, []byte, error) {
	tickets, err := s.Rank(seed)
	if nil != err {
		return "", merkle.Digest{}, nil, err
	}
	t := tickets[0]
	s.log.Debugf("leader: %s  output: %s", t.Identity, t.Output)
	return t.Identity, t.Output, t.Proof, nil
}

// Verify - check a claimed ticket using only the registered public key
func (s *Selector) Verify(identity string, seed []byte, output merkle.Digest, proof []byte) bool {
	k, ok := s.registry.PublicKey(identity)
	if !ok {
		return false
	}
	return VerifyWith(s.registry.scheme, k, seed, output, proof)
}
