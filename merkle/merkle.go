// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

// FullMerkleTree - compute the complete tree from a set of leaf digests
//
// structure is:
//  1. N * leaf digests
//  2. level 1..m digests
//  3. merkle root digest (last element)
//
// an odd level duplicates its last digest before folding
func FullMerkleTree(leaves []Digest) []Digest {

	idCount := len(leaves)

	totalLength := 0
	for n := idCount; n > 1; n = (n + 1) / 2 {
		totalLength += n
	}
	totalLength += 1 // the root

	tree := make([]Digest, totalLength)
	copy(tree[:], leaves)

	n := idCount
	j := 0
	for workLength := idCount; workLength > 1; workLength = (workLength + 1) / 2 {
		for i := 0; i < workLength; i += 2 {
			k := j + 1
			if i+1 == workLength {
				k = j // compensate for odd number
			}
			tree[n] = NewDigestOf(tree[j][:], tree[k][:])
			n += 1
			j = k + 1
		}
	}
	return tree
}

// Root - merkle root of a list of leaves
//
// an empty list gives the digest of no data and a single leaf is its
// own root
func Root(leaves []Digest) Digest {
	if 0 == len(leaves) {
		return NewDigest(nil)
	}
	tree := FullMerkleTree(leaves)
	return tree[len(tree)-1]
}
