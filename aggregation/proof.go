// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregation

import (
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pbft"
	"github.com/seirchain/seird/triad"
)

// Proof - succinct record that a committee agreed on a triad
//
// the aggregated signature covers the commit message for Digest, the
// root digest is the triad's merkle root once attached and Depth is the
// number of aggregated levels it summarises, 1 for a leaf
type Proof struct {
	Coordinate          triad.Coordinate `json:"coordinate"`
	Digest              merkle.Digest    `json:"digest"`
	RootDigest          merkle.Digest    `json:"rootDigest"`
	View                uint64           `json:"view"`
	Sequence            uint64           `json:"sequence"`
	AggregatedSignature []byte           `json:"aggregatedSignature"`
	Signers             []string         `json:"signers"`
	Depth               int              `json:"depth"`
}

// Message - the bytes every aggregated signature covers
func (p *Proof) Message() []byte {
	return pbft.SignedMessage(pbft.PhaseCommit, p.View, p.Sequence, p.Digest)
}
