// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/background"
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/messagebus"
)

// Configuration - the "publishing" block of the Lua configuration,
// either outlet may be left empty
type Configuration struct {
	Broadcast []string `gluamapper:"broadcast" json:"broadcast"` // zmq PUB endpoints
	Websocket string   `gluamapper:"websocket" json:"websocket"` // listen address
}

// the running outlets, nil when not initialised
var outlets struct {
	sync.Mutex
	log     *logger.L
	running *background.T
}

// Initialise - relay agreement and finality events from the bus to the
// configured outlets
func Initialise(configuration *Configuration, bus *messagebus.Bus) error {
	outlets.Lock()
	defer outlets.Unlock()

	if nil != outlets.running {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New("publish")

	processes := background.Processes{}
	if 0 != len(configuration.Broadcast) {
		zmqOutlet := &broadcaster{}
		if err := zmqOutlet.initialise(configuration.Broadcast, bus); nil != err {
			log.Errorf("broadcast: %v  error: %s", configuration.Broadcast, err)
			return err
		}
		processes = append(processes, zmqOutlet)
	}
	if "" != configuration.Websocket {
		processes = append(processes, NewFeed(configuration.Websocket, bus))
	}

	log.Infof("outlets: %d", len(processes))
	outlets.log = log
	outlets.running = background.Start(processes, nil)
	return nil
}

// Finalise - stop the outlets and close their sockets
func Finalise() error {
	outlets.Lock()
	defer outlets.Unlock()

	if nil == outlets.running {
		return fault.ErrNotInitialised
	}

	outlets.running.Stop()
	outlets.running = nil

	outlets.log.Info("stopped")
	outlets.log.Flush()
	return nil
}
