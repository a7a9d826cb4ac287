// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregation

import (
	"strings"
)

// ChildPolicy - what to do when expected children miss the timeout
type ChildPolicy int

// child policies
const (
	ProceedPartial ChildPolicy = iota // propose with the children present
	RetryChildren  ChildPolicy = iota // keep waiting, caller backs off
)

// String - policy name
func (p ChildPolicy) String() string {
	switch p {
	case ProceedPartial:
		return "proceed-partial"
	case RetryChildren:
		return "retry-children"
	default:
		return "*Unknown*"
	}
}

// PolicyFromString - parse a policy name, unknown names give ProceedPartial
func PolicyFromString(s string) ChildPolicy {
	switch strings.ToLower(s) {
	case "retry-children", "retry":
		return RetryChildren
	default:
		return ProceedPartial
	}
}
