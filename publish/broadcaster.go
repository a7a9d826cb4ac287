// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/seirchain/seird/messagebus"
)

type broadcaster struct {
	log    *logger.L
	socket *zmq.Socket
	queue  <-chan messagebus.Message
}

// initialise the broadcaster
func (brdc *broadcaster) initialise(broadcast []string, bus *messagebus.Bus) error {

	log := logger.New("broadcaster")
	brdc.log = log

	log.Info("initialising…")

	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		log.Errorf("socket error: %s", err)
		return err
	}
	socket.SetLinger(0)

	for i, address := range broadcast {
		if err := socket.Bind(address); nil != err {
			log.Errorf("broadcast[%d]=%q  error: %s", i, address, err)
			socket.Close()
			return err
		}
		log.Infof("broadcast on: %q", address)
	}
	brdc.socket = socket
	brdc.queue = bus.Chan(1000)
	return nil
}

// forward bus events until shutdown
func (brdc *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {

	log := brdc.log

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-brdc.queue:
			if !ok {
				break loop
			}
			log.Debugf("sending: %s  data: %x", item.Command, item.Parameters)
			brdc.process(&item)
		}
	}
	brdc.socket.Close()
	log.Info("stopped")
}

// send one event as a multipart message
func (brdc *broadcaster) process(item *messagebus.Message) {
	flags := zmq.DONTWAIT
	if 0 != len(item.Parameters) {
		flags |= zmq.SNDMORE
	}
	if _, err := brdc.socket.Send(item.Command, flags); nil != err {
		brdc.log.Errorf("send: %s  error: %s", item.Command, err)
		return
	}
	last := len(item.Parameters) - 1
	for i, p := range item.Parameters {
		flags := zmq.DONTWAIT
		if i != last {
			flags |= zmq.SNDMORE
		}
		if _, err := brdc.socket.SendBytes(p, flags); nil != err {
			brdc.log.Errorf("send: %s  part: %d  error: %s", item.Command, i, err)
			return
		}
	}
}
