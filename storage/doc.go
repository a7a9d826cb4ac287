// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage maintains the on-disk triad store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table owns one prefix byte, assigned when Initialise builds Pool.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. coordinate   = slot digits '0'..'2', root is the empty string
// 4. digest       = 32 byte SHA-256
// 5. record       = JSON encoded triad.Record
// 6. proof        = JSON encoded aggregation.Proof
//
// Triads:
//
//	T ++ coordinate            - latest record of each triad
//	                             data: record
//	P ++ coordinate            - aggregated proof
//	                             data: proof
//	F ++ coordinate            - final index
//	                             data: digest
//
// Version:
//
//	0x00 ++ VERSION            - key layout version
//	                             data: big endian uint32
package storage
