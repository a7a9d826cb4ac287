// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pof

import (
	"encoding/binary"

	"github.com/seirchain/seird/merkle"
)

// NonceLength - bytes in a packed nonce
const NonceLength = 8

// Puzzle - immutable description of the work required for a payload
type Puzzle struct {
	PayloadHash merkle.Digest `json:"payloadHash"`
	Difficulty  Difficulty    `json:"difficulty"`
	Seed        []byte        `json:"seed"`
	Timestamp   int64         `json:"timestamp"`
}

// Solution - a nonce and the primary hash it produced
type Solution struct {
	Nonce uint64        `json:"nonce"`
	Hash  merkle.Digest `json:"hash"`
}

// PackNonce - little endian nonce bytes
func PackNonce(nonce uint64) []byte {
	buffer := make([]byte, NonceLength)
	binary.LittleEndian.PutUint64(buffer, nonce)
	return buffer
}

// PrimaryHash - the hash h for a nonce
func (p *Puzzle) PrimaryHash(nonce uint64) merkle.Digest {
	return merkle.NewDigestOf(p.PayloadHash[:], p.Seed, PackNonce(nonce))
}
