// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"math/rand"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pbft"
)

// Configuration - limits and fault injection for a hub
type Configuration struct {
	Rate            float64       // votes per second per sender, zero is unlimited
	Burst           int           // bucket size, at least 1 when Rate is set
	DuplicateWindow time.Duration // zero disables suppression
	DropRate        float64       // probability a delivery is lost
	DuplicateRate   float64       // probability a delivery arrives twice
	Reorder         bool          // shuffle each batch of deliveries
	Seed            int64         // randomness for the injected faults
}

// Statistics - counters since the hub was created
type Statistics struct {
	Sent       uint64
	Delivered  uint64
	Dropped    uint64
	Duplicated uint64
	Suppressed uint64
	Limited    uint64
	Malformed  uint64
}

type delivery struct {
	to     string
	packed []byte
}

// Hub - in-process transport
type Hub struct {
	sync.Mutex

	log      *logger.L
	config   Configuration
	handlers []Handler
	limiters map[string]*rate.Limiter
	seen     *cache.Cache
	random   *rand.Rand
	pending  []delivery
	signal   chan struct{}
	stats    Statistics
}

// NewHub - create a hub, nothing is delivered until Deliver is called or
// the hub is running as a background process
func NewHub(config Configuration) *Hub {
	if config.Rate > 0 && config.Burst < 1 {
		config.Burst = 1
	}

	h := &Hub{
		log:      logger.New("transport"),
		config:   config,
		limiters: make(map[string]*rate.Limiter),
		random:   rand.New(rand.NewSource(config.Seed)),
		signal:   make(chan struct{}, 1),
	}
	if config.DuplicateWindow > 0 {
		h.seen = cache.New(config.DuplicateWindow, 2*config.DuplicateWindow)
	}
	return h
}

// OnReceive - add a handler for every delivery
func (h *Hub) OnReceive(handler Handler) {
	h.Lock()
	h.handlers = append(h.handlers, handler)
	h.Unlock()
}

// Broadcast - queue a vote for every committee member except its sender
func (h *Hub) Broadcast(committee []string, vote pbft.Vote) error {
	packed, err := Pack(vote)
	if nil != err {
		return err
	}

	h.Lock()

	if nil != h.seen {
		key := merkle.NewDigest(packed).String()
		if _, found := h.seen.Get(key); found {
			h.stats.Suppressed += 1
			h.Unlock()
			return nil
		}
		h.seen.SetDefault(key, struct{}{})
	}

	if h.config.Rate > 0 {
		limiter, ok := h.limiters[vote.Sender]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(h.config.Rate), h.config.Burst)
			h.limiters[vote.Sender] = limiter
		}
		if !limiter.Allow() {
			h.stats.Limited += 1
			h.Unlock()
			h.log.Warnf("sender: %s  rate limited", vote.Sender)
			return fault.ErrRateLimited
		}
	}

	for _, to := range committee {
		if to == vote.Sender {
			continue
		}
		h.pending = append(h.pending, delivery{to: to, packed: packed})
		h.stats.Sent += 1
	}
	h.Unlock()

	select {
	case h.signal <- struct{}{}:
	default:
	}
	return nil
}

// Pending - deliveries waiting
func (h *Hub) Pending() int {
	h.Lock()
	defer h.Unlock()
	return len(h.pending)
}

// Statistics - a copy of the counters
func (h *Hub) Statistics() Statistics {
	h.Lock()
	defer h.Unlock()
	return h.stats
}

// Deliver - hand the queued batch to the handlers
//
// returns the number of deliveries taken from the queue, votes that
// handlers broadcast while this runs wait for the next call
func (h *Hub) Deliver() int {
	h.Lock()
	batch := h.pending
	h.pending = nil
	taken := len(batch)

	deliveries := make([]delivery, 0, len(batch))
	for _, d := range batch {
		if h.config.DropRate > 0 && h.random.Float64() < h.config.DropRate {
			h.stats.Dropped += 1
			continue
		}
		deliveries = append(deliveries, d)
		if h.config.DuplicateRate > 0 && h.random.Float64() < h.config.DuplicateRate {
			h.stats.Duplicated += 1
			deliveries = append(deliveries, d)
		}
	}
	if h.config.Reorder {
		h.random.Shuffle(len(deliveries), func(i, j int) {
			deliveries[i], deliveries[j] = deliveries[j], deliveries[i]
		})
	}
	handlers := append([]Handler(nil), h.handlers...)
	h.Unlock()

	delivered := uint64(0)
	malformed := uint64(0)
	for _, d := range deliveries {
		vote, err := Unpack(d.packed)
		if nil != err {
			h.log.Errorf("to: %s  unpack error: %s", d.to, err)
			malformed += 1
			continue
		}
		for _, handler := range handlers {
			handler(d.to, vote)
		}
		delivered += 1
	}

	h.Lock()
	h.stats.Delivered += delivered
	h.stats.Malformed += malformed
	h.Unlock()

	return taken
}

// Run - background delivery loop
func (h *Hub) Run(args interface{}, shutdown <-chan struct{}) {
	h.log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-h.signal:
			for 0 != h.Deliver() {
			}
		}
	}
	h.log.Info("stopped")
}
