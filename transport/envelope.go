// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/hashicorp/go-msgpack/codec"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
	"github.com/seirchain/seird/pbft"
)

const envelopeVersion = 1

var msgpackHandle = &codec.MsgpackHandle{}

// wire form of a vote
type envelope struct {
	Version   uint8  `codec:"v"`
	Phase     uint8  `codec:"p"`
	View      uint64 `codec:"w"`
	Sequence  uint64 `codec:"s"`
	Digest    []byte `codec:"d"`
	Sender    string `codec:"f"`
	Signature []byte `codec:"g"`
}

// Pack - encode a vote
func Pack(vote pbft.Vote) ([]byte, error) {
	e := envelope{
		Version:   envelopeVersion,
		Phase:     uint8(vote.Phase),
		View:      vote.View,
		Sequence:  vote.Sequence,
		Digest:    vote.Digest[:],
		Sender:    vote.Sender,
		Signature: vote.Signature,
	}

	buffer := make([]byte, 0, 192)
	if err := codec.NewEncoderBytes(&buffer, msgpackHandle).Encode(&e); nil != err {
		return nil, err
	}
	return buffer, nil
}

// Unpack - decode a vote, the signature is not checked here
func Unpack(buffer []byte) (pbft.Vote, error) {
	e := envelope{}
	if err := codec.NewDecoderBytes(buffer, msgpackHandle).Decode(&e); nil != err {
		return pbft.Vote{}, fault.ErrInvalidEnvelope
	}
	if envelopeVersion != e.Version || "" == e.Sender || e.Phase > uint8(pbft.PhaseViewChange) {
		return pbft.Vote{}, fault.ErrInvalidEnvelope
	}

	vote := pbft.Vote{
		View:      e.View,
		Sequence:  e.Sequence,
		Phase:     pbft.Phase(e.Phase),
		Sender:    e.Sender,
		Signature: e.Signature,
	}
	if err := merkle.DigestFromBytes(&vote.Digest, e.Digest); nil != err {
		return pbft.Vote{}, fault.ErrInvalidEnvelope
	}
	return vote, nil
}
