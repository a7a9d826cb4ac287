// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/seirchain/seird/pbft"
)

// Handler - called once for each vote delivered to a member
type Handler func(to string, vote pbft.Vote)

// Transport - vote delivery for a committee
type Transport interface {
	Broadcast(committee []string, vote pbft.Vote) error
	OnReceive(handler Handler)
}
