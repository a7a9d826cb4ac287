// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package network

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/seirchain/seird/aggregation"
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/pbft"
	"github.com/seirchain/seird/triad"
)

// one committee agreeing one triad
type instance struct {
	coordinate triad.Coordinate
	sequence   uint64
	committee  []string
	replicas   map[string]*pbft.Replica
	done       chan *pbft.QuorumCertificate
	once       sync.Once
}

func (inst *instance) finish(certificate *pbft.QuorumCertificate) {
	inst.once.Do(func() {
		inst.done <- certificate
	})
}

// replicas that can still take part
func (inst *instance) live() int {
	n := 0
	for _, r := range inst.replicas {
		if pbft.StateAborted != r.State() {
			n += 1
		}
	}
	return n
}

// Agree - run the committee for a solved triad and aggregate the result
//
// waits, backing off, while expected children are still missing
func (n *Network) Agree(ctx context.Context, coordinate triad.Coordinate) (*aggregation.Proof, error) {
	t, ok := n.matrix.Get(coordinate)
	if !ok {
		return nil, fault.ErrTriadNotFound
	}
	if _, _, solved := t.Solution(); !solved {
		return nil, fault.ErrUnsolvedTriad
	}

	if err := n.waitForChildren(ctx, coordinate); nil != err {
		return nil, err
	}

	seed := n.committeeSeed(t)
	committee, err := n.registry.Committee(seed, n.config.CommitteeSize)
	if nil != err {
		return nil, err
	}
	tickets, err := n.selector.RankOf(committee, seed)
	if nil != err {
		return nil, err
	}
	leader := tickets[0]
	if !n.selector.Verify(leader.Identity, seed, leader.Output, leader.Proof) {
		n.log.Errorf("agree: %q  leader: %s  ticket does not verify", coordinate, leader.Identity)
		return nil, fault.ErrInvalidProof
	}
	rank := make([]string, len(tickets))
	for i, ticket := range tickets {
		rank[i] = ticket.Identity
	}

	if err := n.matrix.SetCommittee(coordinate, committee); nil != err {
		return nil, err
	}

	inst, err := n.newInstance(coordinate, committee, rank)
	if nil != err {
		return nil, err
	}
	defer n.dropInstance(inst)

	n.log.Infof("agree: %q  seq: %d  leader: %s  committee: %v", coordinate, inst.sequence, leader.Identity, committee)

	digest := t.Digest()
	for _, id := range rank {
		r := inst.replicas[id]
		out, err := r.Start(digest)
		if nil != err {
			return nil, err
		}
		n.send(inst, out)
		n.check(inst, r)
	}

	timer := time.NewTimer(n.config.ViewTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case certificate := <-inst.done:
			return n.aggregate(coordinate, certificate)

		case <-timer.C:
			for _, id := range rank {
				r := inst.replicas[id]
				out, err := r.TimeoutFired(r.View())
				if nil != err && fault.ErrLeaderTimeout != err {
					n.log.Warnf("agree: %q  %s: timeout error: %s", coordinate, id, err)
				}
				n.send(inst, out)
				n.check(inst, r)
			}
			if inst.live() < pbft.Quorum(len(committee)) {
				select {
				case certificate := <-inst.done:
					return n.aggregate(coordinate, certificate)
				default:
				}
				n.log.Errorf("agree: %q  seq: %d  aborted", coordinate, inst.sequence)
				return nil, fault.ErrLeaderTimeout
			}
			timer.Reset(n.config.ViewTimeout)
		}
	}
}

func (n *Network) waitForChildren(ctx context.Context, coordinate triad.Coordinate) error {
	for {
		err := n.aggregation.ReadyToPropose(coordinate, time.Now())
		if fault.ErrIncompleteChildren != err {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.config.RetryInterval):
		}
	}
}

func (n *Network) aggregate(coordinate triad.Coordinate, certificate *pbft.QuorumCertificate) (*aggregation.Proof, error) {
	proof, err := n.aggregation.LocallyAgreed(coordinate, certificate)
	if nil != err {
		return nil, err
	}
	if nil != n.config.Proofs {
		if err := n.config.Proofs.PutProof(proof); nil != err {
			n.log.Errorf("agree: %q  store proof error: %s", coordinate, err)
			return nil, err
		}
	}
	return proof, nil
}

func (n *Network) newInstance(coordinate triad.Coordinate, committee []string, rank []string) (*instance, error) {
	n.lock.Lock()
	n.sequence += 1
	sequence := n.sequence
	n.lock.Unlock()

	inst := &instance{
		coordinate: coordinate,
		sequence:   sequence,
		committee:  committee,
		replicas:   make(map[string]*pbft.Replica, len(committee)),
		done:       make(chan *pbft.QuorumCertificate, 1),
	}
	for _, id := range committee {
		r, err := pbft.NewReplica(pbft.Configuration{
			Identity:  id,
			Committee: committee,
			Rank:      rank,
			Sequence:  sequence,
			MaxViews:  n.config.MaxViews,
			Members:   n.registry,
			Slasher:   n.config.Slasher,
		})
		if nil != err {
			return nil, err
		}
		inst.replicas[id] = r
	}

	n.lock.Lock()
	n.instances[sequence] = inst
	n.lock.Unlock()
	return inst, nil
}

func (n *Network) dropInstance(inst *instance) {
	n.lock.Lock()
	delete(n.instances, inst.sequence)
	n.lock.Unlock()
}

// transport handler
func (n *Network) receive(to string, vote pbft.Vote) {
	n.lock.Lock()
	inst, ok := n.instances[vote.Sequence]
	n.lock.Unlock()
	if !ok {
		return
	}
	r, ok := inst.replicas[to]
	if !ok {
		return
	}

	out, err := r.MessageReceived(vote)
	if nil != err {
		var conflict *pbft.ConflictingVoteError
		if errors.As(err, &conflict) {
			n.log.Warnf("agree: %q  %s: byzantine sender: %s", inst.coordinate, to, vote.Sender)
		} else {
			n.log.Debugf("agree: %q  %s: vote rejected: %s", inst.coordinate, to, err)
		}
	}
	n.send(inst, out)
	n.check(inst, r)
}

func (n *Network) send(inst *instance, votes []pbft.Vote) {
	for _, v := range votes {
		if err := n.transport.Broadcast(inst.committee, v); nil != err {
			n.log.Warnf("agree: %q  broadcast: %s  error: %s", inst.coordinate, v, err)
		}
	}
}

func (n *Network) check(inst *instance, r *pbft.Replica) {
	if pbft.StateCommitted != r.State() {
		return
	}
	if certificate, ok := r.Certificate(); ok {
		inst.finish(certificate)
	}
}
