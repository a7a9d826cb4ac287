// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package triad

import (
	"github.com/seirchain/seird/fault"
)

// Status - lifecycle of a triad, only ever advances
type Status int

// all statuses in order
const (
	Pending       Status = iota
	LocallyAgreed Status = iota
	Aggregated    Status = iota
	Final         Status = iota
)

// String - status name
func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case LocallyAgreed:
		return "LocallyAgreed"
	case Aggregated:
		return "Aggregated"
	case Final:
		return "Final"
	default:
		return "*Unknown*"
	}
}

// a status may only move to a later one, and never past Final
func (s Status) precedes(next Status) bool {
	return s < next && next <= Final
}

// MarshalText - status name for JSON
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - status from its name
func (s *Status) UnmarshalText(buffer []byte) error {
	switch string(buffer) {
	case "Pending":
		*s = Pending
	case "LocallyAgreed":
		*s = LocallyAgreed
	case "Aggregated":
		*s = Aggregated
	case "Final":
		*s = Final
	default:
		return fault.ErrInvalidStatus
	}
	return nil
}
