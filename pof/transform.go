// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pof

import (
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/seirchain/seird/merkle"
)

// Transform - the g function applied between secondary levels
type Transform interface {
	Apply(merkle.Digest) merkle.Digest
	Name() string
}

// names accepted by TransformByName
const (
	UpperHalfRehashName = "upper-half-rehash"
	FoldHalvesName      = "fold-halves"
)

// UpperHalfRehash - SHA3-256 of the most significant 16 bytes
type UpperHalfRehash struct{}

// Apply - compute g(h)
func (UpperHalfRehash) Apply(h merkle.Digest) merkle.Digest {
	return sha3.Sum256(h[:merkle.DigestLength/2])
}

// Name - policy name
func (UpperHalfRehash) Name() string {
	return UpperHalfRehashName
}

// FoldHalves - SHA-256 of the two halves xored together
type FoldHalves struct{}

// Apply - compute g(h)
func (FoldHalves) Apply(h merkle.Digest) merkle.Digest {
	half := merkle.DigestLength / 2
	folded := make([]byte, half)
	for i := 0; i < half; i += 1 {
		folded[i] = h[i] ^ h[i+half]
	}
	return merkle.NewDigest(folded)
}

// Name - policy name
func (FoldHalves) Name() string {
	return FoldHalvesName
}

// TransformByName - select a policy, unknown names give the default
func TransformByName(name string) Transform {
	switch strings.ToLower(name) {
	case FoldHalvesName:
		return FoldHalves{}
	default:
		return UpperHalfRehash{}
	}
}
