// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/transport"
)

func TestEnvelope(t *testing.T) {
	v := testVote("b", 5)
	packed, err := transport.Pack(v)
	assert.Nil(t, err, "pack")

	unpacked, err := transport.Unpack(packed)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, v, unpacked, "vote changed in transit")
}

func TestEnvelopeRejects(t *testing.T) {
	_, err := transport.Unpack([]byte{0xc1, 0x00})
	assert.Equal(t, fault.ErrInvalidEnvelope, err, "garbage")

	_, err = transport.Unpack(nil)
	assert.Equal(t, fault.ErrInvalidEnvelope, err, "empty")

	anonymous := testVote("", 0)
	packed, err := transport.Pack(anonymous)
	assert.Nil(t, err, "pack")
	_, err = transport.Unpack(packed)
	assert.Equal(t, fault.ErrInvalidEnvelope, err, "no sender")
}
