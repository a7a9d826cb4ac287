// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seirchain/seird/signature"
)

func TestSignVerify(t *testing.T) {
	b := signature.NewBLS()
	k, err := b.KeyPairFromSeed([]byte("signer-one"))
	assert.Nil(t, err, "key pair")
	assert.Nil(t, b.CheckKeyPair(k), "check key pair")

	message := []byte("commit 0 1 digest")
	sig, err := b.Sign(message, k.PrivateKey)
	assert.Nil(t, err, "sign")

	assert.True(t, b.Verify(sig, message, k.PublicKey), "genuine signature rejected")
	assert.False(t, b.Verify(sig, []byte("other message"), k.PublicKey), "wrong message accepted")

	other, _ := b.KeyPairFromSeed([]byte("signer-two"))
	assert.False(t, b.Verify(sig, message, other.PublicKey), "wrong key accepted")
}

func TestDeterministicKeys(t *testing.T) {
	b := signature.NewBLS()
	k1, _ := b.KeyPairFromSeed([]byte("same"))
	k2, _ := b.KeyPairFromSeed([]byte("same"))
	assert.Equal(t, k1.PublicKey, k2.PublicKey, "seeded keys differ")
}

func TestMalformedInput(t *testing.T) {
	b := signature.NewBLS()
	k, _ := b.KeyPairFromSeed([]byte("signer"))

	assert.False(t, b.Verify([]byte{1, 2, 3}, []byte("m"), k.PublicKey), "garbage signature accepted")
	assert.False(t, b.Verify(nil, []byte("m"), signature.PublicKey{9, 9}), "garbage key accepted")

	_, err := b.Sign([]byte("m"), signature.PrivateKey{1})
	assert.NotNil(t, err, "short private key accepted")

	bad := signature.KeyPair{PublicKey: []byte{0}, PrivateKey: k.PrivateKey}
	assert.NotNil(t, b.CheckKeyPair(bad), "malformed public key accepted")

	other, _ := b.KeyPairFromSeed([]byte("other"))
	mixed := signature.KeyPair{PublicKey: other.PublicKey, PrivateKey: k.PrivateKey}
	assert.NotNil(t, b.CheckKeyPair(mixed), "mismatched halves accepted")
}

func TestAggregate(t *testing.T) {
	b := signature.NewBLS()
	message := []byte("commit quorum")

	var sigs [][]byte
	var keys []signature.PublicKey
	for _, name := range []string{"a", "b", "c"} {
		k, _ := b.KeyPairFromSeed([]byte(name))
		s, err := b.Sign(message, k.PrivateKey)
		assert.Nil(t, err, "sign")
		sigs = append(sigs, s)
		keys = append(keys, k.PublicKey)
	}

	aggregated, err := b.Aggregate(sigs)
	assert.Nil(t, err, "aggregate")
	assert.True(t, b.VerifyAggregated(aggregated, keys, message), "aggregate rejected")
	assert.False(t, b.VerifyAggregated(aggregated, keys[:2], message), "aggregate accepted with missing key")
	assert.False(t, b.VerifyAggregated(aggregated, nil, message), "aggregate accepted without keys")

	_, err = b.Aggregate(nil)
	assert.NotNil(t, err, "empty aggregate")
}
