// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus_test

import (
	"sync"
	"testing"

	"github.com/seirchain/seird/messagebus"
)

func TestBroadcast(t *testing.T) {
	items := []string{"c1", "c2", "c3"}

	bus := messagebus.New()

	// nothing listening so these messages should be dropped
	for _, item := range items {
		bus.Send("ignored:" + item)
	}

	const listeners = 5

	var l [listeners]int
	var wg sync.WaitGroup

	queues := make([]<-chan messagebus.Message, listeners)
	for i := 0; i < listeners; i += 1 {
		queues[i] = bus.Chan(len(items))
	}

	for _, item := range items {
		bus.Send(item, []byte(item))
	}

	for i := 0; i < listeners; i += 1 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for _, item := range items {
				received := <-queues[n]
				if received.Command != item {
					t.Errorf("actual: %q  expected: %q", received.Command, item)
					continue
				}
				if 1 != len(received.Parameters) || item != string(received.Parameters[0]) {
					t.Errorf("parameters: %q", received.Parameters)
					continue
				}
				l[n] += 1
			}
		}(i)
	}

	wg.Wait()
	for i, n := range l {
		if n != len(items) {
			t.Errorf("listener[%d] received: %d  expected: %d", i, n, len(items))
		}
	}
}

func TestFullListener(t *testing.T) {
	bus := messagebus.New()
	queue := bus.Chan(1)

	bus.Send(messagebus.TriadFinal)
	bus.Send(messagebus.TriadFinal)

	if 1 != bus.Dropped() {
		t.Errorf("dropped: %d  expected: 1", bus.Dropped())
	}
	if m := <-queue; messagebus.TriadFinal != m.Command {
		t.Errorf("actual: %q", m.Command)
	}
}

func TestReleaseAndClose(t *testing.T) {
	bus := messagebus.New()
	q1 := bus.Chan(1)
	q2 := bus.Chan(1)

	bus.Release(q1)
	if _, ok := <-q1; ok {
		t.Error("released queue still open")
	}

	bus.Close()
	if _, ok := <-q2; ok {
		t.Error("queue still open after close")
	}

	bus.Send(messagebus.TriadLocallyAgreed)
	bus.Close()

	q3 := bus.Chan(1)
	if _, ok := <-q3; ok {
		t.Error("queue open on closed bus")
	}
}
