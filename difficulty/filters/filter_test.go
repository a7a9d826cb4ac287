// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seirchain/seird/difficulty/filters"
	"github.com/seirchain/seird/fault"
)

func TestSMM(t *testing.T) {
	f := filters.NewSMM(1, 3)
	assert.Equal(t, 1.0, f.Process(5), "one outlier")
	assert.Equal(t, 5.0, f.Process(5), "majority")
	assert.Equal(t, 5.0, f.Current(), "current")
	assert.Equal(t, "Simple Moving Median 3", f.Name(), "name")
}

func TestWMA(t *testing.T) {
	f := filters.NewWMA(2, 3)
	assert.Equal(t, 2.0, f.Current(), "start")
	assert.InDelta(t, 2.0, f.Process(2), 1e-12, "steady")
	assert.InDelta(t, 5.0, f.Process(8), 1e-12, "newest weighs most")
}

func TestCamm(t *testing.T) {
	f := filters.NewCamm(10, 3, 3)
	assert.InDelta(t, 10.0, f.Process(100), 1e-12, "median removes a single spike")
	assert.Equal(t, "Camm 3,3", f.Name(), "name")
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "none", "smm", "WMA", "camm"} {
		f, err := filters.ByName(name, 7)
		assert.Nil(t, err, "name: %q", name)
		assert.Equal(t, 7.0, f.Current(), "start: %q", name)
	}
	_, err := filters.ByName("kalman", 1)
	assert.Equal(t, fault.ErrInvalidFilter, err, "unknown")

	f, _ := filters.ByName("none", 1)
	assert.Equal(t, 3.5, f.Process(3.5), "pass through")
}
