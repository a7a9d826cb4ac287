// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/messagebus"
	"github.com/seirchain/seird/triad"
)

// Indexer - background process recording final events
type Indexer struct {
	log   *logger.L
	store TriadStore
	queue <-chan messagebus.Message
}

// NewIndexer - listen on the bus for final events
func NewIndexer(bus *messagebus.Bus) *Indexer {
	return &Indexer{
		log:   logger.New("storage"),
		queue: bus.Chan(1000),
	}
}

// Run - background loop
func (ix *Indexer) Run(args interface{}, shutdown <-chan struct{}) {
	log := ix.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-ix.queue:
			if !ok {
				break loop
			}
			ix.process(item)
		}
	}

	// drain anything already queued
	for {
		select {
		case item, ok := <-ix.queue:
			if !ok {
				log.Info("stopped")
				return
			}
			ix.process(item)
		default:
			log.Info("stopped")
			return
		}
	}
}

func (ix *Indexer) process(item messagebus.Message) {
	if messagebus.TriadFinal != item.Command || 2 != len(item.Parameters) {
		return
	}
	coordinate := triad.Coordinate(item.Parameters[0])
	digest := merkle.Digest{}
	if err := merkle.DigestFromBytes(&digest, item.Parameters[1]); nil != err {
		ix.log.Errorf("final: %q  digest error: %s", coordinate, err)
		return
	}
	if err := ix.store.MarkFinal(coordinate, digest); nil != err {
		ix.log.Errorf("final: %q  store error: %s", coordinate, err)
		return
	}
	ix.log.Debugf("final: %q  digest: %s", coordinate, digest)
}
