// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// event commands
const (
	TriadLocallyAgreed = "triadLocallyAgreed"
	TriadFinal         = "triadFinal"
)

// Message - a command and its parameters
type Message struct {
	Command    string
	Parameters [][]byte
}

// Bus - broadcast to every listener
//
// a listener whose buffer is full misses the message, Send never blocks
type Bus struct {
	sync.Mutex
	listeners map[chan Message]struct{}
	dropped   uint64
	closed    bool
}

// New - create a bus with no listeners
func New() *Bus {
	return &Bus{
		listeners: make(map[chan Message]struct{}),
	}
}

// Send - deliver to all current listeners
func (b *Bus) Send(command string, parameters ...[]byte) {
	m := Message{
		Command:    command,
		Parameters: parameters,
	}

	b.Lock()
	defer b.Unlock()

	if b.closed {
		return
	}
	for l := range b.listeners {
		select {
		case l <- m:
		default:
			b.dropped += 1
		}
	}
}

// Chan - register a listener with a buffer of size messages
func (b *Bus) Chan(size int) <-chan Message {
	l := make(chan Message, size)

	b.Lock()
	defer b.Unlock()

	if b.closed {
		close(l)
		return l
	}
	b.listeners[l] = struct{}{}
	return l
}

// Release - remove a listener and close its channel
func (b *Bus) Release(queue <-chan Message) {
	b.Lock()
	defer b.Unlock()

	for l := range b.listeners {
		if (<-chan Message)(l) == queue {
			delete(b.listeners, l)
			close(l)
			return
		}
	}
}

// Close - close every listener, later sends are ignored
func (b *Bus) Close() {
	b.Lock()
	defer b.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for l := range b.listeners {
		close(l)
	}
	b.listeners = nil
}

// Dropped - messages lost to full listeners
func (b *Bus) Dropped() uint64 {
	b.Lock()
	defer b.Unlock()
	return b.dropped
}
