// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pbft

import (
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/signature"
)

// QuorumCertificate - the commit votes that decided a digest
type QuorumCertificate struct {
	View       uint64        `json:"view"`
	Sequence   uint64        `json:"sequence"`
	Digest     merkle.Digest `json:"digest"`
	Signers    []string      `json:"signers"`
	Signatures [][]byte      `json:"signatures"`
}

// Message - the commit message every signature covers
func (c *QuorumCertificate) Message() []byte {
	return SignedMessage(PhaseCommit, c.View, c.Sequence, c.Digest)
}

// KeyLookup - public keys by identity
type KeyLookup interface {
	PublicKey(identity string) (signature.PublicKey, bool)
}

// Verify - check a certificate against the committee it came from
func (c *QuorumCertificate) Verify(scheme signature.Scheme, keys KeyLookup, committee []string) error {
	if nil == c || len(c.Signers) != len(c.Signatures) {
		return fault.ErrMissingParameters
	}
	n := len(committee)
	if n < MinimumCommittee || n > MaximumCommittee {
		return fault.ErrCommitteeSize
	}

	members := make(map[string]bool, n)
	for _, id := range committee {
		members[id] = true
	}

	message := c.Message()
	seen := make(map[string]bool, len(c.Signers))
	for i, id := range c.Signers {
		if !members[id] || seen[id] {
			return fault.ErrNotCommitteeMember
		}
		seen[id] = true
		k, ok := keys.PublicKey(id)
		if !ok || !scheme.Verify(c.Signatures[i], message, k) {
			return fault.ErrInvalidSignature
		}
	}
	if len(seen) < Quorum(n) {
		return fault.ErrQuorumNotReached
	}
	return nil
}
