// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pbft

import (
	"fmt"

	"github.com/seirchain/seird/fault"
)

// Evidence - two validly signed votes for the same slot with different digests
type Evidence struct {
	Sender string `json:"sender"`
	First  Vote   `json:"first"`
	Second Vote   `json:"second"`
}

// Slasher - called once for each piece of evidence
type Slasher interface {
	Slash(Evidence) error
}

// ConflictingVoteError - returned when a vote conflicts with an earlier one
type ConflictingVoteError struct {
	Evidence Evidence
}

// Error - the error interface
func (e *ConflictingVoteError) Error() string {
	return fmt.Sprintf("%s: %s %s v:%d s:%d", fault.ErrConflictingVote, e.Evidence.Sender, e.Evidence.First.Phase, e.Evidence.First.View, e.Evidence.First.Sequence)
}

// Unwrap - the underlying fault
func (e *ConflictingVoteError) Unwrap() error {
	return fault.ErrConflictingVote
}
