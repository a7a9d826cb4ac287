// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package aggregation - recursive proof aggregation and finality
//
// When a committee agrees on a triad the engine attaches it to its
// parent slot, folds the commit signatures of the quorum into one
// aggregated signature and marks the triad Aggregated.  Parents are
// proposed after their children, so aggregation climbs from the leaves
// to the root.
//
// Finality: a triad becomes Final once it is Aggregated and its k
// nearest ancestors are Aggregated too, with no conflicting digest
// reported for the triad or any of those ancestors.  Triads closer than
// k levels to the root (the root included) therefore never become
// Final.  Final is never revoked.
package aggregation
