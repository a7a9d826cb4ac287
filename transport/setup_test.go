// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport_test

import (
	"os"
	"sync"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pbft"
)

const (
	testingDirName = "testing"
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

type received struct {
	to   string
	vote pbft.Vote
}

type recorder struct {
	sync.Mutex
	items []received
}

func (r *recorder) handle(to string, vote pbft.Vote) {
	r.Lock()
	r.items = append(r.items, received{to: to, vote: vote})
	r.Unlock()
}

func (r *recorder) recipients() []string {
	r.Lock()
	defer r.Unlock()
	s := make([]string, 0, len(r.items))
	for _, item := range r.items {
		s = append(s, item.to)
	}
	return s
}

func testVote(sender string, view uint64) pbft.Vote {
	return pbft.Vote{
		View:      view,
		Sequence:  3,
		Phase:     pbft.PhasePrepare,
		Digest:    merkle.NewDigest([]byte("candidate")),
		Sender:    sender,
		Signature: []byte{0x01, 0x02, 0x03},
	}
}
