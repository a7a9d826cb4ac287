// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pbft - per committee Byzantine agreement on one triad digest
//
// A Replica is a state machine driven only by injected events:
//
//	Start(candidate)      begin agreement on the local candidate digest
//	MessageReceived(vote) a vote from another member
//	TimeoutFired(view)    the view timer expired
//
// every event returns the votes the caller must broadcast.  Nothing
// runs in the background so a whole committee can be stepped from a
// single goroutine.
//
// With committee size C, f = ⌊(C-1)/3⌋ and a quorum is 2f+1 matching
// votes.  The leader of view v is rank[v mod len(rank)].
package pbft
