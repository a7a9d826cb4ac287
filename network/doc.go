// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package network drives triads through the matrix
//
// a triad is first solved and inserted, which fixes its digest so that
// children can be built under it, and later agreed by its committee.
// Agreement runs bottom up: a parent goes to its committee once the
// aggregation engine reports its expected children attached.
//
// every committee member is a local validator whose key pair is held
// by the registry; votes travel over a transport.Transport and each
// agreement instance is identified by its own sequence number.
package network
