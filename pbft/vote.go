// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pbft

import (
	"encoding/binary"
	"fmt"

	"github.com/seirchain/seird/merkle"
)

// Phase - the kind of vote
type Phase uint8

// vote phases
const (
	PhasePrePrepare Phase = iota
	PhasePrepare    Phase = iota
	PhaseCommit     Phase = iota
	PhaseViewChange Phase = iota
)

// String - phase name
func (p Phase) String() string {
	switch p {
	case PhasePrePrepare:
		return "PrePrepare"
	case PhasePrepare:
		return "Prepare"
	case PhaseCommit:
		return "Commit"
	case PhaseViewChange:
		return "ViewChange"
	default:
		return "*Unknown*"
	}
}

// Vote - a signed protocol message
type Vote struct {
	View      uint64        `json:"view"`
	Sequence  uint64        `json:"sequence"`
	Phase     Phase         `json:"phase"`
	Digest    merkle.Digest `json:"digest"`
	Sender    string        `json:"sender"`
	Signature []byte        `json:"signature"`
}

// String - for logging
func (v Vote) String() string {
	return fmt.Sprintf("%s v:%d s:%d from:%s digest:%s", v.Phase, v.View, v.Sequence, v.Sender, v.Digest)
}

// SignedMessage - bytes covered by a vote signature
//
// the sender is not included so that commit signatures from a quorum
// are all over one message and can be aggregated
func SignedMessage(phase Phase, view uint64, sequence uint64, digest merkle.Digest) []byte {
	buffer := make([]byte, 0, 1+8+8+merkle.DigestLength)
	buffer = append(buffer, byte(phase))
	buffer = binary.BigEndian.AppendUint64(buffer, view)
	buffer = binary.BigEndian.AppendUint64(buffer, sequence)
	buffer = append(buffer, digest[:]...)
	return buffer
}

// Message - bytes covered by this vote's signature
func (v Vote) Message() []byte {
	return SignedMessage(v.Phase, v.View, v.Sequence, v.Digest)
}

// slot for duplicate and conflict detection
type voteKey struct {
	phase    Phase
	view     uint64
	sequence uint64
	sender   string
}

func (v Vote) key() voteKey {
	return voteKey{
		phase:    v.Phase,
		view:     v.View,
		sequence: v.Sequence,
		sender:   v.Sender,
	}
}
