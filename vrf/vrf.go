// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vrf

import (
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/signature"
)

var defaultScheme signature.Scheme = signature.NewBLS()

// Prove - compute the output and proof for a seed
func Prove(scheme signature.Scheme, privateKey signature.PrivateKey, seed []byte) (merkle.Digest, []byte, error) {
	proof, err := scheme.Sign(seed, privateKey)
	if nil != err {
		return merkle.Digest{}, nil, err
	}
	return merkle.NewDigest(proof), proof, nil
}

// Verify - check an output and proof with the BLS scheme
func Verify(publicKey signature.PublicKey, seed []byte, output merkle.Digest, proof []byte) bool {
	return VerifyWith(defaultScheme, publicKey, seed, output, proof)
}

// VerifyWith - check an output and proof with a specific scheme
func VerifyWith(scheme signature.Scheme, publicKey signature.PublicKey, seed []byte, output merkle.Digest, proof []byte) bool {
	if 0 == len(proof) || 0 == len(publicKey) {
		return false
	}
	if merkle.NewDigest(proof) != output {
		return false
	}
	return scheme.Verify(proof, seed, publicKey)
}
