// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature

import (
	"crypto/cipher"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing"
	"go.dedis.ch/kyber/v3/pairing/bn256"
	"go.dedis.ch/kyber/v3/sign/bls"
	"go.dedis.ch/kyber/v3/util/random"

	"github.com/seirchain/seird/fault"
)

// BLS - BLS signatures over bn256, public keys in G2, signatures in G1
type BLS struct {
	suite pairing.Suite
}

// NewBLS - create the BLS scheme
func NewBLS() *BLS {
	return &BLS{
		suite: bn256.NewSuite(),
	}
}

// GenerateKeyPair - fresh key pair from the system random source
func (b *BLS) GenerateKeyPair() (KeyPair, error) {
	return b.keyPair(random.New())
}

// KeyPairFromSeed - deterministic key pair derived from a seed
func (b *BLS) KeyPairFromSeed(seed []byte) (KeyPair, error) {
	return b.keyPair(b.suite.XOF(seed))
}

func (b *BLS) keyPair(stream cipher.Stream) (KeyPair, error) {
	private, public := bls.NewKeyPair(b.suite, stream)

	privateBytes, err := private.MarshalBinary()
	if nil != err {
		return KeyPair{}, err
	}
	publicBytes, err := public.MarshalBinary()
	if nil != err {
		return KeyPair{}, err
	}
	return KeyPair{
		PublicKey:  publicBytes,
		PrivateKey: privateBytes,
	}, nil
}

// CheckKeyPair - ensure the key material decodes and both halves match
func (b *BLS) CheckKeyPair(keyPair KeyPair) error {
	private, err := b.privateKey(keyPair.PrivateKey)
	if nil != err {
		return err
	}
	public, err := b.publicKey(keyPair.PublicKey)
	if nil != err {
		return err
	}
	derived := b.suite.G2().Point().Mul(private, nil)
	if !derived.Equal(public) {
		return fault.ErrInvalidKey
	}
	return nil
}

// Sign - sign a message
func (b *BLS) Sign(message []byte, privateKey PrivateKey) ([]byte, error) {
	private, err := b.privateKey(privateKey)
	if nil != err {
		return nil, err
	}
	return bls.Sign(b.suite, private, message)
}

// Verify - check a single signature, false for any malformed input
func (b *BLS) Verify(signature []byte, message []byte, publicKey PublicKey) bool {
	public, err := b.publicKey(publicKey)
	if nil != err {
		return false
	}
	return b.verify(public, message, signature)
}

// Aggregate - combine signatures over the same message
func (b *BLS) Aggregate(signatures [][]byte) ([]byte, error) {
	if 0 == len(signatures) {
		return nil, fault.ErrMissingParameters
	}
	return bls.AggregateSignatures(b.suite, signatures...)
}

// VerifyAggregated - check an aggregate against the signers' public keys
func (b *BLS) VerifyAggregated(aggregated []byte, publicKeys []PublicKey, message []byte) bool {
	if 0 == len(publicKeys) {
		return false
	}
	points := make([]kyber.Point, 0, len(publicKeys))
	for _, k := range publicKeys {
		p, err := b.publicKey(k)
		if nil != err {
			return false
		}
		points = append(points, p)
	}
	return b.verify(bls.AggregatePublicKeys(b.suite, points...), message, aggregated)
}

// kyber decoding can panic on some malformed points, so verification
// recovers and reports false
func (b *BLS) verify(public kyber.Point, message []byte, signature []byte) (ok bool) {
	defer func() {
		if r := recover(); nil != r {
			ok = false
		}
	}()
	return nil == bls.Verify(b.suite, public, message, signature)
}

func (b *BLS) privateKey(buffer []byte) (kyber.Scalar, error) {
	s := b.suite.G2().Scalar()
	if err := s.UnmarshalBinary(buffer); nil != err {
		return nil, fault.ErrInvalidKey
	}
	return s, nil
}

func (b *BLS) publicKey(buffer []byte) (kyber.Point, error) {
	p := b.suite.G2().Point()
	if err := p.UnmarshalBinary(buffer); nil != err {
		return nil, fault.ErrInvalidKey
	}
	return p, nil
}
