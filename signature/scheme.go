// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

// PublicKey - encoded public key
type PublicKey []byte

// PrivateKey - encoded private key
type PrivateKey []byte

// KeyPair - a matched public and private key
type KeyPair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey
}

// Scheme - the signature capability consumed by the consensus core
type Scheme interface {
	Sign(message []byte, privateKey PrivateKey) ([]byte, error)
	Verify(signature []byte, message []byte, publicKey PublicKey) bool
	Aggregate(signatures [][]byte) ([]byte, error)
	VerifyAggregated(aggregated []byte, publicKeys []PublicKey, message []byte) bool
	CheckKeyPair(keyPair KeyPair) error
}
