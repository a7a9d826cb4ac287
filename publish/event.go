// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/messagebus"
)

// Event - JSON form of a bus message
type Event struct {
	Command    string        `json:"command"`
	Coordinate string        `json:"coordinate"`
	Digest     merkle.Digest `json:"digest"`
}

// decode a triad event, false for anything else
func eventFromMessage(item messagebus.Message) (Event, bool) {
	switch item.Command {
	case messagebus.TriadLocallyAgreed, messagebus.TriadFinal:
	default:
		return Event{}, false
	}
	if 2 != len(item.Parameters) {
		return Event{}, false
	}
	e := Event{
		Command:    item.Command,
		Coordinate: string(item.Parameters[0]),
	}
	if err := merkle.DigestFromBytes(&e.Digest, item.Parameters[1]); nil != err {
		return Event{}, false
	}
	return e, true
}
