// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle_test

import (
	"testing"

	"github.com/seirchain/seird/merkle"
)

func leaves(items ...string) []merkle.Digest {
	d := make([]merkle.Digest, len(items))
	for i, s := range items {
		d[i] = merkle.NewDigest([]byte(s))
	}
	return d
}

func TestEmptyRoot(t *testing.T) {
	if merkle.Root(nil) != merkle.NewDigest([]byte{}) {
		t.Errorf("empty root is not the digest of no data")
	}
}

func TestSingleRoot(t *testing.T) {
	l := leaves("one")
	if merkle.Root(l) != l[0] {
		t.Errorf("single leaf is not its own root")
	}
}

func TestOddDuplicatesLast(t *testing.T) {
	l := leaves("a", "b", "c")

	ab := merkle.NewDigestOf(l[0][:], l[1][:])
	cc := merkle.NewDigestOf(l[2][:], l[2][:])
	expected := merkle.NewDigestOf(ab[:], cc[:])

	if r := merkle.Root(l); r != expected {
		t.Errorf("root: %s  expected: %s", r, expected)
	}

	tree := merkle.FullMerkleTree(l)
	if 6 != len(tree) {
		t.Fatalf("tree length: %d  expected: 6", len(tree))
	}
	if tree[3] != ab || tree[4] != cc {
		t.Errorf("intermediate level mismatch")
	}
}

func TestRootDeterministic(t *testing.T) {
	l := leaves("A->B:5", "B->C:3", "C->D:1", "D->E:9", "E->F:2")
	r1 := merkle.Root(l)
	r2 := merkle.Root(leaves("A->B:5", "B->C:3", "C->D:1", "D->E:9", "E->F:2"))
	if r1 != r2 {
		t.Errorf("root not deterministic: %s != %s", r1, r2)
	}
	if r1 == merkle.Root(l[:4]) {
		t.Errorf("root did not change when a leaf was removed")
	}
}
