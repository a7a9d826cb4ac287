// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pbft

// State - replica state
type State int

// all replica states
const (
	StateIdle       State = iota // not started
	StatePrePrepare State = iota // waiting for the leader's proposal
	StatePrepare    State = iota // prepared, waiting for a prepare quorum
	StateCommit     State = iota // committed, waiting for a commit quorum
	StateCommitted  State = iota // agreement reached
	StateViewChange State = iota // waiting for a view change quorum
	StateAborted    State = iota // gave up
)

// String - state name
func (state State) String() string {
	switch state {
	case StateIdle:
		return "Idle"
	case StatePrePrepare:
		return "PrePrepare"
	case StatePrepare:
		return "Prepare"
	case StateCommit:
		return "Commit"
	case StateCommitted:
		return "Committed"
	case StateViewChange:
		return "ViewChange"
	case StateAborted:
		return "Aborted"
	default:
		return "*Unknown*"
	}
}

// Terminal - no further events change the state
func (state State) Terminal() bool {
	return StateCommitted == state || StateAborted == state
}
