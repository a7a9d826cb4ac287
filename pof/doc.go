// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pof - Proof-of-Fractal puzzles
//
// A puzzle binds the payload hash of a candidate triad to a difficulty
// made of a primary leading zero bit count k0 and optional secondary
// counts k1..kJ.  A nonce n solves the puzzle when
//
//	h = SHA-256(payload ‖ seed ‖ n as 8 byte little endian)
//
// has at least k0 leading zero bits and g^j(h) has at least kj leading
// zero bits for every secondary level j.  The transform g is a policy
// (see Transform); it is a self-similarity device and is not claimed
// to add any security beyond the primary work.
package pof
