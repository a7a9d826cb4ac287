// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pbft

import (
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/signature"
)

// committee size limits
const (
	MinimumCommittee = 4
	MaximumCommittee = 10
)

// DefaultMaxViews - views tried before aborting
const DefaultMaxViews = 4

// Members - the registry operations a replica needs
type Members interface {
	KeyLookup
	Scheme() signature.Scheme
	Sign(identity string, message []byte) ([]byte, error)
	Exclude(identity string) bool
	IsExcluded(identity string) bool
}

// Configuration - fixed parameters of one agreement instance
type Configuration struct {
	Identity  string   // the local member
	Committee []string // all members
	Rank      []string // leader priority, committee order if empty
	Sequence  uint64
	MaxViews  uint64 // zero selects DefaultMaxViews
	Members   Members
	Slasher   Slasher // optional
}

// FaultTolerance - f for a committee of n
func FaultTolerance(n int) int {
	return (n - 1) / 3
}

// Quorum - 2f+1 for a committee of n
func Quorum(n int) int {
	return 2*FaultTolerance(n) + 1
}

// Replica - one member's view of an agreement
type Replica struct {
	lock sync.Mutex

	log       *logger.L
	identity  string
	committee []string
	members   map[string]bool
	rank      []string
	sequence  uint64
	maxViews  uint64
	quorum    int
	registry  Members
	slasher   Slasher

	state     State
	view      uint64
	target    uint64 // view requested while in StateViewChange
	candidate merkle.Digest
	proposed  merkle.Digest

	votes       map[voteKey]Vote
	evidence    []Evidence
	certificate *QuorumCertificate
}

// NewReplica - validate the configuration and create an idle replica
func NewReplica(config Configuration) (*Replica, error) {
	n := len(config.Committee)
	if n < MinimumCommittee || n > MaximumCommittee {
		return nil, fault.ErrCommitteeSize
	}
	if nil == config.Members {
		return nil, fault.ErrMissingParameters
	}

	members := make(map[string]bool, n)
	for _, id := range config.Committee {
		if members[id] {
			return nil, fault.ErrDuplicateIdentity
		}
		members[id] = true
	}
	if !members[config.Identity] {
		return nil, fault.ErrNotCommitteeMember
	}

	rank := config.Rank
	if 0 == len(rank) {
		rank = config.Committee
	}
	for _, id := range rank {
		if !members[id] {
			return nil, fault.ErrNotCommitteeMember
		}
	}

	maxViews := config.MaxViews
	if 0 == maxViews {
		maxViews = DefaultMaxViews
	}

	return &Replica{
		log:       logger.New("pbft"),
		identity:  config.Identity,
		committee: append([]string(nil), config.Committee...),
		members:   members,
		rank:      append([]string(nil), rank...),
		sequence:  config.Sequence,
		maxViews:  maxViews,
		quorum:    Quorum(n),
		registry:  config.Members,
		slasher:   config.Slasher,
		state:     StateIdle,
		votes:     make(map[voteKey]Vote),
	}, nil
}

// Identity - the local member
func (r *Replica) Identity() string {
	return r.identity
}

// State - current state
func (r *Replica) State() State {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state
}

// View - current view
func (r *Replica) View() uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.view
}

// Leader - leader of a view
func (r *Replica) Leader(view uint64) string {
	return r.rank[view%uint64(len(r.rank))]
}

// Evidence - all conflicts observed so far
func (r *Replica) Evidence() []Evidence {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Evidence(nil), r.evidence...)
}

// Certificate - commit quorum, only once committed
func (r *Replica) Certificate() (*QuorumCertificate, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if nil == r.certificate {
		return nil, false
	}
	c := *r.certificate
	c.Signers = append([]string(nil), c.Signers...)
	c.Signatures = append([][]byte(nil), c.Signatures...)
	return &c, true
}

// Start - begin agreement on the local candidate
func (r *Replica) Start(candidate merkle.Digest) ([]Vote, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if StateIdle != r.state {
		return nil, fault.ErrAlreadyInitialised
	}
	r.candidate = candidate
	r.state = StatePrePrepare
	r.log.Debugf("%s: start: seq: %d  candidate: %s", r.identity, r.sequence, candidate)

	out, err := r.enterView(0)
	if nil != err {
		return nil, err
	}
	more, err := r.progress()
	return append(out, more...), err
}

// MessageReceived - process a vote from the transport
func (r *Replica) MessageReceived(vote Vote) ([]Vote, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !r.members[vote.Sender] {
		r.log.Debugf("%s: drop non-member: %s", r.identity, vote)
		return nil, fault.ErrNotCommitteeMember
	}
	if r.registry.IsExcluded(vote.Sender) {
		r.log.Debugf("%s: drop excluded: %s", r.identity, vote)
		return nil, fault.ErrNotCommitteeMember
	}
	if vote.Sequence != r.sequence {
		r.log.Debugf("%s: drop other sequence: %s", r.identity, vote)
		return nil, nil
	}
	k, ok := r.registry.PublicKey(vote.Sender)
	if !ok || !r.registry.Scheme().Verify(vote.Signature, vote.Message(), k) {
		r.log.Warnf("%s: drop bad signature: %s", r.identity, vote)
		return nil, fault.ErrInvalidSignature
	}

	if previous, ok := r.votes[vote.key()]; ok {
		if previous.Digest == vote.Digest {
			return nil, nil
		}
		return nil, r.conflict(previous, vote)
	}
	r.votes[vote.key()] = vote

	if StateIdle == r.state || r.state.Terminal() {
		return nil, nil
	}
	return r.progress()
}

// TimeoutFired - the timer for a view expired
//
// timers for views other than the current one are ignored
func (r *Replica) TimeoutFired(view uint64) ([]Vote, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if view != r.view || StateIdle == r.state || r.state.Terminal() {
		return nil, nil
	}

	target := r.view + 1
	if StateViewChange == r.state {
		target = r.target + 1
	}
	if target >= r.maxViews {
		r.state = StateAborted
		r.log.Warnf("%s: abort: seq: %d  views exhausted: %d", r.identity, r.sequence, r.maxViews)
		return nil, fault.ErrLeaderTimeout
	}

	r.state = StateViewChange
	r.target = target
	r.log.Infof("%s: view change: %d → %d", r.identity, r.view, target)

	v, err := r.sign(PhaseViewChange, target, r.candidate)
	if nil != err {
		return nil, err
	}
	more, err := r.progress()
	return append([]Vote{v}, more...), err
}

// run every rule until nothing changes; caller holds the lock
func (r *Replica) progress() ([]Vote, error) {
	out := make([]Vote, 0)
	for !r.state.Terminal() {
		changed := false

		if view, ok := r.viewChangeQuorum(); ok {
			v, err := r.enterView(view)
			if nil != err {
				return out, err
			}
			out = append(out, v...)
			continue
		}

		if d, ok := r.foreignPrepareQuorum(); ok {
			r.state = StateAborted
			r.log.Warnf("%s: abort: prepare quorum for foreign digest: %s", r.identity, d)
			break
		}

		switch r.state {
		case StatePrePrepare:
			pp, ok := r.votes[voteKey{PhasePrePrepare, r.view, r.sequence, r.Leader(r.view)}]
			if !ok {
				break
			}
			if pp.Digest != r.candidate {
				r.log.Warnf("%s: proposal: %s  does not match candidate: %s", r.identity, pp.Digest, r.candidate)
				break
			}
			r.proposed = pp.Digest
			v, err := r.sign(PhasePrepare, r.view, r.proposed)
			if nil != err {
				return out, err
			}
			out = append(out, v)
			r.state = StatePrepare
			changed = true

		case StatePrepare:
			if r.count(PhasePrepare, r.view, r.proposed) < r.quorum {
				break
			}
			v, err := r.sign(PhaseCommit, r.view, r.proposed)
			if nil != err {
				return out, err
			}
			out = append(out, v)
			r.state = StateCommit
			changed = true

		case StateCommit:
			if r.count(PhaseCommit, r.view, r.proposed) < r.quorum {
				break
			}
			r.certificate = r.buildCertificate()
			r.state = StateCommitted
			r.log.Infof("%s: committed: seq: %d  view: %d  digest: %s", r.identity, r.sequence, r.view, r.proposed)
			changed = true
		}

		if !changed {
			break
		}
	}
	return out, nil
}

// move to a view, the leader proposes its candidate; caller holds the lock
func (r *Replica) enterView(view uint64) ([]Vote, error) {
	if view >= r.maxViews {
		r.state = StateAborted
		return nil, fault.ErrLeaderTimeout
	}
	if view != r.view {
		r.log.Infof("%s: enter view: %d  leader: %s", r.identity, view, r.Leader(view))
	}
	r.view = view
	r.target = view
	r.proposed = merkle.Digest{}
	r.state = StatePrePrepare

	if r.Leader(view) != r.identity {
		return nil, nil
	}
	v, err := r.sign(PhasePrePrepare, view, r.candidate)
	if nil != err {
		return nil, err
	}
	return []Vote{v}, nil
}

// lowest view above the current one with a view change quorum
func (r *Replica) viewChangeQuorum() (uint64, bool) {
	counts := make(map[uint64]int)
	for k := range r.votes {
		if PhaseViewChange == k.phase && k.sequence == r.sequence && k.view > r.view {
			counts[k.view] += 1
		}
	}
	best := uint64(0)
	found := false
	for view, n := range counts {
		if n >= r.quorum && (!found || view < best) {
			best = view
			found = true
		}
	}
	return best, found
}

// prepare quorum in the current view for a digest other than the candidate
func (r *Replica) foreignPrepareQuorum() (merkle.Digest, bool) {
	counts := make(map[merkle.Digest]int)
	for k, v := range r.votes {
		if PhasePrepare == k.phase && k.view == r.view && k.sequence == r.sequence && v.Digest != r.candidate {
			counts[v.Digest] += 1
		}
	}
	for d, n := range counts {
		if n >= r.quorum {
			return d, true
		}
	}
	return merkle.Digest{}, false
}

func (r *Replica) count(phase Phase, view uint64, digest merkle.Digest) int {
	n := 0
	for k, v := range r.votes {
		if phase == k.phase && view == k.view && r.sequence == k.sequence && digest == v.Digest {
			n += 1
		}
	}
	return n
}

// sign a vote and record it as received from self
func (r *Replica) sign(phase Phase, view uint64, digest merkle.Digest) (Vote, error) {
	v := Vote{
		View:     view,
		Sequence: r.sequence,
		Phase:    phase,
		Digest:   digest,
		Sender:   r.identity,
	}
	signature, err := r.registry.Sign(r.identity, v.Message())
	if nil != err {
		return Vote{}, err
	}
	v.Signature = signature
	r.votes[v.key()] = v
	return v, nil
}

func (r *Replica) buildCertificate() *QuorumCertificate {
	signers := make([]string, 0, r.quorum)
	for k, v := range r.votes {
		if PhaseCommit == k.phase && r.view == k.view && r.sequence == k.sequence && r.proposed == v.Digest {
			signers = append(signers, k.sender)
		}
	}
	sort.Strings(signers)

	signatures := make([][]byte, len(signers))
	for i, id := range signers {
		signatures[i] = r.votes[voteKey{PhaseCommit, r.view, r.sequence, id}].Signature
	}
	return &QuorumCertificate{
		View:       r.view,
		Sequence:   r.sequence,
		Digest:     r.proposed,
		Signers:    signers,
		Signatures: signatures,
	}
}

// record evidence, exclude and slash the sender; caller holds the lock
func (r *Replica) conflict(first Vote, second Vote) error {
	e := Evidence{
		Sender: second.Sender,
		First:  first,
		Second: second,
	}
	r.evidence = append(r.evidence, e)
	r.log.Warnf("%s: conflicting votes from: %s  %s  and  %s", r.identity, e.Sender, first.Digest, second.Digest)

	if r.registry.Exclude(e.Sender) && nil != r.slasher {
		if err := r.slasher.Slash(e); nil != err {
			r.log.Errorf("%s: slash: %s  error: %s", r.identity, e.Sender, err)
		}
	}
	return &ConflictingVoteError{Evidence: e}
}
