// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package triad - the ternary triad matrix
//
// Every triad has a coordinate made of base 3 digits, the root has the
// empty coordinate and the child in slot s of the triad at c is at c+s.
// Triads live in an arena keyed by coordinate; parents refer to their
// children by coordinate only, so there are no owning pointers.
//
// Each triad commits to two digests:
//
//	payload hash = H(coordinate ‖ parent digest ‖ transaction root ‖ timestamp)
//	digest       = H(payload hash ‖ nonce ‖ solution hash)
//
// neither of which changes when a child attaches; the merkle root over
// [child roots in slot order] ++ [transaction hashes] does.
package triad
