// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"math/bits"

	"github.com/seirchain/seird/fault"
)

// DigestLength - number of bytes in the digest
const DigestLength = 32

// Digest - type for a SHA-256 digest
//
// stored as a big endian byte array, d[0] is the most significant
// byte, so the integer value of the hash is the byte order
type Digest [DigestLength]byte

// NewDigest - create a digest from a byte slice
func NewDigest(record []byte) Digest {
	return sha256.Sum256(record)
}

// NewDigestOf - digest of the concatenation of several byte slices
func NewDigestOf(parts ...[]byte) Digest {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// IsZero - true for the all zero digest, used as "no digest"
func (digest Digest) IsZero() bool {
	return Digest{} == digest
}

// LeadingZeros - number of leading zero bits of the 256 bit value
func (digest Digest) LeadingZeros() int {
	n := 0
	for _, b := range digest {
		if 0 != b {
			return n + bits.LeadingZeros8(b)
		}
		n += 8
	}
	return n
}

// String - hex for the fmt package (%s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - hex for the fmt package (%#v)
func (digest Digest) GoString() string {
	return "<SHA-256:" + hex.EncodeToString(digest[:]) + ">"
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(digest))
	buffer := make([]byte, size)
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if DigestLength != hex.DecodedLen(len(s)) {
		return fault.ErrInvalidKey
	}
	buffer := make([]byte, DigestLength)
	if _, err := hex.Decode(buffer, s); nil != err {
		return err
	}
	copy(digest[:], buffer)
	return nil
}

// DigestFromBytes - convert and validate a binary byte slice to a digest
func DigestFromBytes(digest *Digest, buffer []byte) error {
	if DigestLength != len(buffer) {
		return fault.ErrInvalidKey
	}
	copy(digest[:], buffer)
	return nil
}
