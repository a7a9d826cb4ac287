// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type EvidenceError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ProcessError("already initialised")
	ErrAlreadySolved        = ExistsError("already solved")
	ErrCommitteeSize        = InvalidError("committee size out of range")
	ErrConflictingVote      = EvidenceError("conflicting vote")
	ErrCoordinateMismatch   = InvalidError("coordinate does not match parent slot")
	ErrDuplicateIdentity    = ExistsError("duplicate identity")
	ErrFinalityUnreachable  = InvalidError("finality unreachable")
	ErrIncompleteChildren   = ProcessError("incomplete children")
	ErrIncompatibleDatabase = InvalidError("incompatible database")
	ErrInvalidCoordinate    = InvalidError("invalid coordinate")
	ErrInvalidDifficulty    = InvalidError("invalid difficulty")
	ErrInvalidEnvelope      = InvalidError("invalid envelope")
	ErrInvalidFilter        = InvalidError("invalid filter")
	ErrInvalidKey           = InvalidError("invalid key")
	ErrInvalidProbability   = InvalidError("invalid probability")
	ErrInvalidProof         = InvalidError("invalid aggregated proof")
	ErrInvalidSignature     = InvalidError("invalid signature")
	ErrInvalidSlot          = InvalidError("invalid slot")
	ErrInvalidStatus        = InvalidError("invalid status")
	ErrInvalidStructPointer = InvalidError("invalid struct pointer")
	ErrInvalidTimestamp     = InvalidError("invalid timestamp")
	ErrLeaderTimeout        = ProcessError("leader timeout")
	ErrMerkleRootMismatch   = InvalidError("merkle root mismatch")
	ErrMissingParameters    = InvalidError("missing parameters")
	ErrNoEligibleMiners     = NotFoundError("no eligible miners")
	ErrNotCommitteeMember   = InvalidError("not a committee member")
	ErrNotInitialised       = ProcessError("not initialised")
	ErrParentHashMismatch   = InvalidError("parent hash mismatch")
	ErrParentNotFound       = NotFoundError("parent not found")
	ErrQuorumNotReached     = ProcessError("quorum not reached")
	ErrRateLimited          = ProcessError("rate limited")
	ErrSlotOccupied         = ExistsError("slot occupied")
	ErrStatusRegression     = ProcessError("status regression")
	ErrTriadExists          = ExistsError("triad already exists")
	ErrTriadNotFound        = NotFoundError("triad not found")
	ErrUnsolvedTriad        = ProcessError("triad has no solution")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e EvidenceError) Error() string { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrEvidence(e error) bool { _, ok := e.(EvidenceError); return ok }
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
