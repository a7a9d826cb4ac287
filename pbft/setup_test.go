// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pbft_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pbft"
	"github.com/seirchain/seird/signature"
	"github.com/seirchain/seird/vrf"
)

const (
	testingDirName = "testing"
	testSequence   = 7
)

var testCommittee = []string{"a", "b", "c", "d"}

func TestMain(m *testing.M) {
	_ = os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(rc)
}

// a committee stepped from one goroutine over a FIFO queue
type cluster struct {
	t         *testing.T
	scheme    *signature.BLS
	registry  *vrf.Registry
	replicas  map[string]*pbft.Replica
	queue     []pbft.Vote
	delivered []pbft.Vote
	errors    map[string][]error
	drop      func(to string, v pbft.Vote) bool
}

func newRegistry(t *testing.T, ids []string) (*vrf.Registry, *signature.BLS) {
	scheme := signature.NewBLS()
	registry := vrf.NewRegistry(scheme)
	for _, id := range ids {
		k, err := scheme.KeyPairFromSeed([]byte("pbft-" + id))
		if nil != err {
			t.Fatalf("key pair: %s  error: %s", id, err)
		}
		if err := registry.Register(id, 1, k); nil != err {
			t.Fatalf("register: %s  error: %s", id, err)
		}
	}
	return registry, scheme
}

func newCluster(t *testing.T, ids []string, maxViews uint64, slasher pbft.Slasher) *cluster {
	registry, scheme := newRegistry(t, ids)
	c := &cluster{
		t:        t,
		scheme:   scheme,
		registry: registry,
		replicas: make(map[string]*pbft.Replica),
		errors:   make(map[string][]error),
	}
	for _, id := range ids {
		r, err := pbft.NewReplica(pbft.Configuration{
			Identity:  id,
			Committee: ids,
			Sequence:  testSequence,
			MaxViews:  maxViews,
			Members:   registry,
			Slasher:   slasher,
		})
		if nil != err {
			t.Fatalf("replica: %s  error: %s", id, err)
		}
		c.replicas[id] = r
	}
	return c
}

func (c *cluster) start(candidates map[string]merkle.Digest) {
	for _, id := range sortedKeys(c.replicas) {
		out, err := c.replicas[id].Start(candidates[id])
		if nil != err {
			c.t.Fatalf("start: %s  error: %s", id, err)
		}
		c.queue = append(c.queue, out...)
	}
}

func (c *cluster) startAll(candidate merkle.Digest) {
	candidates := make(map[string]merkle.Digest)
	for id := range c.replicas {
		candidates[id] = candidate
	}
	c.start(candidates)
}

// deliver every queued vote to every other member until quiet
func (c *cluster) run() {
	for 0 != len(c.queue) {
		v := c.queue[0]
		c.queue = c.queue[1:]
		c.delivered = append(c.delivered, v)
		for _, id := range sortedKeys(c.replicas) {
			if id == v.Sender {
				continue
			}
			if nil != c.drop && c.drop(id, v) {
				continue
			}
			out, err := c.replicas[id].MessageReceived(v)
			if nil != err {
				c.errors[id] = append(c.errors[id], err)
			}
			c.queue = append(c.queue, out...)
		}
	}
}

func (c *cluster) timeout(ids ...string) {
	for _, id := range ids {
		r := c.replicas[id]
		out, err := r.TimeoutFired(r.View())
		if nil != err {
			c.errors[id] = append(c.errors[id], err)
		}
		c.queue = append(c.queue, out...)
	}
}

func (c *cluster) forge(sender string, phase pbft.Phase, view uint64, digest merkle.Digest) pbft.Vote {
	v := pbft.Vote{
		View:     view,
		Sequence: testSequence,
		Phase:    phase,
		Digest:   digest,
		Sender:   sender,
	}
	sig, err := c.registry.Sign(sender, v.Message())
	if nil != err {
		c.t.Fatalf("forge: %s  error: %s", sender, err)
	}
	v.Signature = sig
	return v
}

func sortedKeys(m map[string]*pbft.Replica) []string {
	keys := make([]string, 0, len(m))
	for _, id := range testCommittee {
		if _, ok := m[id]; ok {
			keys = append(keys, id)
		}
	}
	return keys
}
