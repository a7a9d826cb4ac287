// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vrf

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/signature"
)

// Validator - a miner or committee member
type Validator struct {
	Identity     string              `json:"identity"`
	StakeWeight  uint64              `json:"stakeWeight"`
	VRFPublicKey signature.PublicKey `json:"vrfPublicKey"`
}

type entry struct {
	validator Validator
	keyPair   signature.KeyPair
	excluded  bool
}

// Registry - all known validators and their keys
type Registry struct {
	lock       sync.RWMutex
	log        *logger.L
	scheme     signature.Scheme
	validators map[string]*entry
}

// NewRegistry - empty registry using a signature scheme
func NewRegistry(scheme signature.Scheme) *Registry {
	return &Registry{
		log:        logger.New("vrf"),
		scheme:     scheme,
		validators: make(map[string]*entry),
	}
}

// Scheme - the registry's signature scheme
func (r *Registry) Scheme() signature.Scheme {
	return r.scheme
}

// Register - add a validator, nothing is stored on error
func (r *Registry) Register(identity string, stakeWeight uint64, keyPair signature.KeyPair) error {
	if "" == identity {
		return fault.ErrMissingParameters
	}
	if err := r.scheme.CheckKeyPair(keyPair); nil != err {
		r.log.Errorf("register: %s  invalid key: %s", identity, err)
		return fault.ErrInvalidKey
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.validators[identity]; ok {
		return fault.ErrDuplicateIdentity
	}
	r.validators[identity] = &entry{
		validator: Validator{
			Identity:     identity,
			StakeWeight:  stakeWeight,
			VRFPublicKey: append(signature.PublicKey(nil), keyPair.PublicKey...),
		},
		keyPair: keyPair,
	}
	r.log.Infof("registered: %s  stake: %d", identity, stakeWeight)
	return nil
}

// Validator - public details of a validator
func (r *Registry) Validator(identity string) (Validator, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	e, ok := r.validators[identity]
	if !ok {
		return Validator{}, false
	}
	return e.validator, true
}

// PublicKey - a validator's public key
func (r *Registry) PublicKey(identity string) (signature.PublicKey, bool) {
	v, ok := r.Validator(identity)
	return v.VRFPublicKey, ok
}

// PublicKeys - keys for a list of identities in the same order
func (r *Registry) PublicKeys(identities []string) ([]signature.PublicKey, error) {
	keys := make([]signature.PublicKey, 0, len(identities))
	for _, id := range identities {
		k, ok := r.PublicKey(id)
		if !ok {
			return nil, fault.ErrNotCommitteeMember
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Sign - sign with a locally held validator key
func (r *Registry) Sign(identity string, message []byte) ([]byte, error) {
	r.lock.RLock()
	e, ok := r.validators[identity]
	r.lock.RUnlock()
	if !ok {
		return nil, fault.ErrNotCommitteeMember
	}
	return r.scheme.Sign(message, e.keyPair.PrivateKey)
}

// Prove - VRF output and proof for a locally held validator
func (r *Registry) Prove(identity string, seed []byte) (merkle.Digest, []byte, error) {
	r.lock.RLock()
	e, ok := r.validators[identity]
	r.lock.RUnlock()
	if !ok {
		return merkle.Digest{}, nil, fault.ErrNotCommitteeMember
	}
	return Prove(r.scheme, e.keyPair.PrivateKey, seed)
}

// Exclude - remove a validator from all future selections
func (r *Registry) Exclude(identity string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.validators[identity]
	if !ok || e.excluded {
		return false
	}
	e.excluded = true
	r.log.Warnf("excluded: %s", identity)
	return true
}

// IsExcluded - true once excluded
func (r *Registry) IsExcluded(identity string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	e, ok := r.validators[identity]
	return ok && e.excluded
}

// Eligible - sorted identities that are not excluded
func (r *Registry) Eligible() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	ids := make([]string, 0, len(r.validators))
	for id, e := range r.validators {
		if !e.excluded {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Committee - deterministic seeded shuffle of the eligible validators
//
// the first size identities of a Fisher-Yates shuffle driven by
// SHA-256(seed ‖ round)
func (r *Registry) Committee(seed []byte, size int) ([]string, error) {
	ids := r.Eligible()
	if size <= 0 || size > len(ids) {
		return nil, fault.ErrCommitteeSize
	}

	round := make([]byte, 8)
	for i := len(ids) - 1; i > 0; i -= 1 {
		binary.BigEndian.PutUint64(round, uint64(i))
		h := merkle.NewDigestOf(seed, round)
		j := int(binary.BigEndian.Uint64(h[:8]) % uint64(i+1))
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids[:size], nil
}
