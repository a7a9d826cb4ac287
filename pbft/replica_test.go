// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pbft_test

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/mocks"
	"github.com/seirchain/seird/pbft"
	"github.com/seirchain/seird/signature"
	"github.com/seirchain/seird/vrf"
)

var (
	candidate = merkle.NewDigest([]byte("candidate triad"))
	bogus     = merkle.NewDigest([]byte("bogus triad"))
)

func TestQuorum(t *testing.T) {
	tests := []struct {
		n      int
		f      int
		quorum int
	}{
		{4, 1, 3},
		{5, 1, 3},
		{6, 1, 3},
		{7, 2, 5},
		{10, 3, 7},
	}
	for _, item := range tests {
		assert.Equal(t, item.f, pbft.FaultTolerance(item.n), "f for: %d", item.n)
		assert.Equal(t, item.quorum, pbft.Quorum(item.n), "quorum for: %d", item.n)
	}
}

func TestNewReplicaErrors(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	registry, _ := newRegistry(t, ids)

	tests := []struct {
		identity  string
		committee []string
		rank      []string
		err       error
	}{
		{"a", ids[:3], nil, fault.ErrCommitteeSize},
		{"a", ids, nil, fault.ErrCommitteeSize},
		{"z", ids[:4], nil, fault.ErrNotCommitteeMember},
		{"a", []string{"a", "b", "c", "a"}, nil, fault.ErrDuplicateIdentity},
		{"a", ids[:4], []string{"e"}, fault.ErrNotCommitteeMember},
		{"a", ids[:4], nil, nil},
		{"a", ids[:10], nil, nil},
	}
	for i, item := range tests {
		_, err := pbft.NewReplica(pbft.Configuration{
			Identity:  item.identity,
			Committee: item.committee,
			Rank:      item.rank,
			Members:   registry,
		})
		assert.Equal(t, item.err, err, "%d: wrong error", i)
	}

	_, err := pbft.NewReplica(pbft.Configuration{Identity: "a", Committee: ids[:4]})
	assert.Equal(t, fault.ErrMissingParameters, err, "no members")
}

func TestAgreement(t *testing.T) {
	c := newCluster(t, testCommittee, 0, nil)
	c.startAll(candidate)
	c.run()

	for id, r := range c.replicas {
		assert.Equal(t, pbft.StateCommitted, r.State(), "%s: not committed", id)
		assert.Equal(t, 0, len(c.errors[id]), "%s: errors: %v", id, c.errors[id])

		cert, ok := r.Certificate()
		assert.True(t, ok, "%s: no certificate", id)
		assert.Equal(t, candidate, cert.Digest, "%s: wrong digest", id)
		assert.Equal(t, uint64(testSequence), cert.Sequence, "%s: wrong sequence", id)
		assert.True(t, len(cert.Signers) >= pbft.Quorum(len(testCommittee)), "%s: signers: %v", id, cert.Signers)
		assert.Nil(t, cert.Verify(c.scheme, c.registry, testCommittee), "%s: certificate rejected", id)

		aggregated, err := c.scheme.Aggregate(cert.Signatures)
		assert.Nil(t, err, "%s: aggregate", id)
		keys, _ := c.registry.PublicKeys(cert.Signers)
		assert.True(t, c.scheme.VerifyAggregated(aggregated, keys, cert.Message()), "%s: aggregate rejected", id)
	}

	r := c.replicas["a"]
	out, err := r.TimeoutFired(0)
	assert.Nil(t, err, "timeout after commit")
	assert.Equal(t, 0, len(out), "votes after commit")

	_, err = r.Start(candidate)
	assert.Equal(t, fault.ErrAlreadyInitialised, err, "second start")
}

func TestCertificateVerifyRejects(t *testing.T) {
	c := newCluster(t, testCommittee, 0, nil)
	c.startAll(candidate)
	c.run()

	cert, _ := c.replicas["b"].Certificate()

	short := *cert
	short.Signers = cert.Signers[:2]
	short.Signatures = cert.Signatures[:2]
	assert.Equal(t, fault.ErrQuorumNotReached, short.Verify(c.scheme, c.registry, testCommittee), "short certificate")

	wrong := *cert
	wrong.Digest = bogus
	assert.Equal(t, fault.ErrInvalidSignature, wrong.Verify(c.scheme, c.registry, testCommittee), "wrong digest")

	stranger := *cert
	stranger.Signers = append([]string{"x"}, cert.Signers[1:]...)
	assert.Equal(t, fault.ErrNotCommitteeMember, stranger.Verify(c.scheme, c.registry, testCommittee), "stranger")

	var missing *pbft.QuorumCertificate
	assert.Equal(t, fault.ErrMissingParameters, missing.Verify(c.scheme, c.registry, testCommittee), "nil certificate")
}

func TestDuplicatesAndReordering(t *testing.T) {
	c := newCluster(t, testCommittee, 0, nil)
	c.startAll(candidate)

	// deliver everything twice, newest first
	for 0 != len(c.queue) {
		batch := c.queue
		c.queue = nil
		for i := len(batch) - 1; i >= 0; i -= 1 {
			v := batch[i]
			for _, id := range testCommittee {
				if id == v.Sender {
					continue
				}
				for n := 0; n < 2; n += 1 {
					out, err := c.replicas[id].MessageReceived(v)
					assert.Nil(t, err, "%s: error", id)
					c.queue = append(c.queue, out...)
				}
			}
		}
	}

	for id, r := range c.replicas {
		assert.Equal(t, pbft.StateCommitted, r.State(), "%s: not committed", id)
		cert, _ := r.Certificate()
		seen := make(map[string]bool)
		for _, s := range cert.Signers {
			assert.False(t, seen[s], "%s: signer counted twice: %s", id, s)
			seen[s] = true
		}
	}
}

func TestCrashedMember(t *testing.T) {
	c := newCluster(t, testCommittee, 0, nil)
	c.drop = func(to string, v pbft.Vote) bool {
		return "d" == to || "d" == v.Sender
	}
	c.startAll(candidate)
	c.run()

	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, pbft.StateCommitted, c.replicas[id].State(), "%s: not committed", id)
		cert, _ := c.replicas[id].Certificate()
		assert.Equal(t, []string{"a", "b", "c"}, cert.Signers, "%s: signers", id)
	}
	assert.Equal(t, pbft.StatePrePrepare, c.replicas["d"].State(), "isolated member advanced")
}

func TestTwoCrashedMembers(t *testing.T) {
	c := newCluster(t, testCommittee, 0, nil)
	c.drop = func(to string, v pbft.Vote) bool {
		return "c" == to || "c" == v.Sender || "d" == to || "d" == v.Sender
	}
	c.startAll(candidate)
	c.run()

	for id, r := range c.replicas {
		assert.NotEqual(t, pbft.StateCommitted, r.State(), "%s: committed without quorum", id)
	}
}

func TestByzantineConflictingPrepare(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	slasher := mocks.NewMockSlasher(ctl)
	slasher.EXPECT().Slash(gomock.Any()).DoAndReturn(func(e pbft.Evidence) error {
		assert.Equal(t, "d", e.Sender, "wrong offender")
		assert.NotEqual(t, e.First.Digest, e.Second.Digest, "evidence digests agree")
		return nil
	}).Times(1)

	c := newCluster(t, testCommittee, 0, slasher)
	c.startAll(candidate)
	c.queue = append(c.queue, c.forge("d", pbft.PhasePrepare, 0, bogus))
	c.run()

	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, pbft.StateCommitted, c.replicas[id].State(), "%s: not committed", id)
		cert, _ := c.replicas[id].Certificate()
		assert.Equal(t, candidate, cert.Digest, "%s: wrong digest", id)
	}
	assert.True(t, c.registry.IsExcluded("d"), "offender not excluded")

	conflicts := 0
	for _, id := range []string{"a", "b", "c"} {
		for _, err := range c.errors[id] {
			if errors.Is(err, fault.ErrConflictingVote) {
				conflicts += 1
				var cv *pbft.ConflictingVoteError
				assert.True(t, errors.As(err, &cv), "not a conflicting vote error")
				assert.Equal(t, "d", cv.Evidence.Sender, "wrong sender")
			}
		}
	}
	assert.True(t, conflicts >= 1, "conflict not reported")

	evidence := 0
	for _, r := range c.replicas {
		evidence += len(r.Evidence())
	}
	assert.Equal(t, conflicts, evidence, "evidence and errors disagree")
}

func TestByzantineLeaderViewChange(t *testing.T) {
	c := newCluster(t, testCommittee, 0, nil)
	c.start(map[string]merkle.Digest{
		"a": bogus,
		"b": candidate,
		"c": candidate,
		"d": candidate,
	})
	c.run()

	for _, id := range []string{"b", "c", "d"} {
		assert.Equal(t, pbft.StatePrePrepare, c.replicas[id].State(), "%s: moved without a valid proposal", id)
	}
	assert.Equal(t, pbft.StatePrepare, c.replicas["a"].State(), "faulty leader")

	c.timeout("a", "b", "c", "d")
	c.run()

	for _, id := range []string{"b", "c", "d"} {
		r := c.replicas[id]
		assert.Equal(t, pbft.StateCommitted, r.State(), "%s: not committed", id)
		assert.Equal(t, uint64(1), r.View(), "%s: wrong view", id)
		assert.Equal(t, "b", r.Leader(r.View()), "%s: wrong leader", id)
		cert, _ := r.Certificate()
		assert.Equal(t, candidate, cert.Digest, "%s: wrong digest", id)
	}
	assert.Equal(t, pbft.StateAborted, c.replicas["a"].State(), "faulty leader did not abort")
}

func TestViewsExhausted(t *testing.T) {
	c := newCluster(t, testCommittee, 2, nil)
	c.drop = func(to string, v pbft.Vote) bool { return true }
	c.startAll(candidate)
	c.run()

	r := c.replicas["b"]
	out, err := r.TimeoutFired(0)
	assert.Nil(t, err, "first timeout")
	assert.Equal(t, 1, len(out), "view change votes")
	assert.Equal(t, pbft.PhaseViewChange, out[0].Phase, "not a view change")
	assert.Equal(t, uint64(1), out[0].View, "wrong target view")
	assert.Equal(t, pbft.StateViewChange, r.State(), "not changing view")

	out, err = r.TimeoutFired(5)
	assert.Nil(t, err, "stale timeout")
	assert.Equal(t, 0, len(out), "stale timeout produced votes")

	_, err = r.TimeoutFired(0)
	assert.Equal(t, fault.ErrLeaderTimeout, err, "views not exhausted")
	assert.Equal(t, pbft.StateAborted, r.State(), "not aborted")
}

func TestEarlyVotes(t *testing.T) {
	c := newCluster(t, testCommittee, 0, nil)

	late := c.replicas["c"]
	delete(c.replicas, "c")
	c.startAll(candidate)
	c.run()

	for _, v := range c.delivered {
		out, err := late.MessageReceived(v)
		assert.Nil(t, err, "early vote: %s", v)
		assert.Equal(t, 0, len(out), "idle replica produced votes")
	}
	assert.Equal(t, pbft.StateIdle, late.State(), "idle replica advanced")

	out, err := late.Start(candidate)
	assert.Nil(t, err, "late start")
	assert.Equal(t, 2, len(out), "late start votes")
	assert.Equal(t, pbft.PhasePrepare, out[0].Phase, "first vote")
	assert.Equal(t, pbft.PhaseCommit, out[1].Phase, "second vote")
	assert.Equal(t, pbft.StateCommitted, late.State(), "stored votes not counted")
}

func TestRejectedVotes(t *testing.T) {
	c := newCluster(t, testCommittee, 0, nil)
	r := c.replicas["b"]
	_, _ = r.Start(candidate)

	v := c.forge("a", pbft.PhasePrePrepare, 0, candidate)

	stranger := v
	stranger.Sender = "x"
	_, err := r.MessageReceived(stranger)
	assert.Equal(t, fault.ErrNotCommitteeMember, err, "stranger")

	tampered := v
	tampered.Digest = bogus
	_, err = r.MessageReceived(tampered)
	assert.Equal(t, fault.ErrInvalidSignature, err, "tampered digest")

	impersonated := v
	impersonated.Sender = "c"
	_, err = r.MessageReceived(impersonated)
	assert.Equal(t, fault.ErrInvalidSignature, err, "impersonation")

	other := c.forge("a", pbft.PhasePrePrepare, 0, candidate)
	other.Sequence = testSequence + 1
	out, err := r.MessageReceived(other)
	assert.Nil(t, err, "other sequence")
	assert.Equal(t, 0, len(out), "other sequence produced votes")
	assert.Equal(t, pbft.StatePrePrepare, r.State(), "other sequence advanced")

	out, err = r.MessageReceived(v)
	assert.Nil(t, err, "genuine proposal")
	assert.Equal(t, 1, len(out), "prepare not sent")
	assert.Equal(t, pbft.PhasePrepare, out[0].Phase, "wrong phase")
}

func TestSignerFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	scheme := mocks.NewMockScheme(ctl)
	scheme.EXPECT().CheckKeyPair(gomock.Any()).Return(nil).AnyTimes()
	scheme.EXPECT().Sign(gomock.Any(), gomock.Any()).Return(nil, fault.ErrInvalidKey).AnyTimes()

	registry := vrf.NewRegistry(scheme)
	for _, id := range testCommittee {
		k := signature.KeyPair{PublicKey: []byte(id), PrivateKey: []byte(id)}
		assert.Nil(t, registry.Register(id, 1, k), "register: %s", id)
	}
	r, err := pbft.NewReplica(pbft.Configuration{
		Identity:  "a",
		Committee: testCommittee,
		Members:   registry,
	})
	assert.Nil(t, err, "replica")

	_, err = r.Start(candidate)
	assert.Equal(t, fault.ErrInvalidKey, err, "signing error not returned")
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "Committed", pbft.StateCommitted.String(), "committed")
	assert.Equal(t, "*Unknown*", pbft.State(42).String(), "unknown")
	assert.Equal(t, "ViewChange", pbft.PhaseViewChange.String(), "view change")
	assert.True(t, pbft.StateAborted.Terminal(), "aborted")
	assert.False(t, pbft.StateCommit.Terminal(), "commit")
}
