// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/json"

	"github.com/seirchain/seird/aggregation"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/triad"
)

// TriadStore - persists matrix records and aggregation proofs
type TriadStore struct{}

// Put - store the latest record of a triad
func (TriadStore) Put(r triad.Record) error {
	buffer, err := json.Marshal(r)
	if nil != err {
		return err
	}
	return Pool.Triads.Put([]byte(r.Coordinate), buffer)
}

// Records - every stored record, for triad.Matrix.Load
func (TriadStore) Records() ([]triad.Record, error) {
	records := make([]triad.Record, 0, 64)
	err := Pool.Triads.Map(func(key []byte, value []byte) error {
		var r triad.Record
		if err := json.Unmarshal(value, &r); nil != err {
			return err
		}
		records = append(records, r)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return records, nil
}

// PutProof - store an aggregated proof
func (TriadStore) PutProof(proof *aggregation.Proof) error {
	buffer, err := json.Marshal(proof)
	if nil != err {
		return err
	}
	return Pool.Proofs.Put([]byte(proof.Coordinate), buffer)
}

// Proof - fetch an aggregated proof, nil if none stored
func (TriadStore) Proof(coordinate triad.Coordinate) (*aggregation.Proof, error) {
	buffer, err := Pool.Proofs.Get([]byte(coordinate))
	if nil != err || nil == buffer {
		return nil, err
	}
	proof := &aggregation.Proof{}
	if err := json.Unmarshal(buffer, proof); nil != err {
		return nil, err
	}
	return proof, nil
}

// MarkFinal - add a coordinate to the final index
func (TriadStore) MarkFinal(coordinate triad.Coordinate, digest merkle.Digest) error {
	return Pool.Final.Put([]byte(coordinate), digest[:])
}

// FinalDigest - the digest recorded when a coordinate became final
func (TriadStore) FinalDigest(coordinate triad.Coordinate) (merkle.Digest, bool, error) {
	digest := merkle.Digest{}
	buffer, err := Pool.Final.Get([]byte(coordinate))
	if nil != err || nil == buffer {
		return digest, false, err
	}
	if err := merkle.DigestFromBytes(&digest, buffer); nil != err {
		return digest, false, err
	}
	return digest, true, nil
}
