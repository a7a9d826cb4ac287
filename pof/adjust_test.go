// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pof_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seirchain/seird/pof"
)

func TestAdjustDifficulty(t *testing.T) {
	tests := []struct {
		current  uint
		actual   time.Duration
		target   time.Duration
		clamp    float64
		expected uint
	}{
		{20, 10 * time.Second, 10 * time.Second, 0.25, 20},
		{20, 20 * time.Second, 10 * time.Second, 0.25, 15},
		{20, 5 * time.Second, 10 * time.Second, 0.25, 25},
		{20, 11 * time.Second, 10 * time.Second, 0.25, 18},
		{20, 10100 * time.Millisecond, 10 * time.Second, 0.25, 19},
		{20, 9900 * time.Millisecond, 10 * time.Second, 0.25, 21},
		{1, 100 * time.Second, 10 * time.Second, 0.25, 1},
		{256, time.Second, 10 * time.Second, 0.25, 256},
		{0, 10 * time.Second, 10 * time.Second, 0.25, 1},
		{4, 40 * time.Second, 10 * time.Second, 0, 3},
		{20, 0, 10 * time.Second, 0.25, 20},
	}

	for i, item := range tests {
		actual := pof.AdjustDifficulty(item.current, item.actual, item.target, item.clamp)
		assert.Equal(t, item.expected, actual, "%d: wrong difficulty", i)
	}
}

func TestAdjustDifficultyProperties(t *testing.T) {
	target := 10 * time.Second
	for k0 := uint(2); k0 < 256; k0 += 7 {
		for _, actual := range []time.Duration{time.Second, 9 * time.Second, 11 * time.Second, time.Minute} {
			n := pof.AdjustDifficulty(k0, actual, target, pof.DefaultClamp)
			if actual > target {
				assert.True(t, n < k0, "k0: %d actual: %s: not lowered: %d", k0, actual, n)
			} else {
				assert.True(t, n > k0, "k0: %d actual: %s: not raised: %d", k0, actual, n)
			}
			limit := pof.DefaultClamp * float64(k0)
			change := math.Abs(float64(n) - float64(k0))
			if limit >= 1 {
				assert.True(t, change <= limit, "k0: %d actual: %s: change: %f exceeds clamp: %f", k0, actual, change, limit)
			} else {
				assert.Equal(t, 1.0, change, "k0: %d actual: %s: forced step", k0, actual)
			}
			assert.True(t, n >= pof.MinimumBits, "below minimum")
		}
	}
}

func TestAdjustDifficultyWithinClamp(t *testing.T) {
	tests := []struct {
		current  uint
		expected uint
	}{
		{4, 3},
		{5, 4},
		{6, 5},
		{8, 6},
		{9, 7},
		{13, 10},
		{100, 75},
	}
	for _, item := range tests {
		actual := pof.AdjustDifficulty(item.current, 40*time.Second, 10*time.Second, pof.DefaultClamp)
		assert.Equal(t, item.expected, actual, "k0: %d", item.current)
	}

	// every k0 with a slow period, small k0 only moves by the forced bit
	for k0 := uint(1); k0 <= pof.MaximumBits; k0 += 1 {
		n := pof.AdjustDifficulty(k0, time.Hour, 10*time.Second, pof.DefaultClamp)
		change := float64(k0) - float64(n)
		if limit := pof.DefaultClamp * float64(k0); limit >= 1 {
			assert.True(t, change <= limit, "k0: %d  change: %f  clamp: %f", k0, change, limit)
		} else {
			assert.True(t, change <= 1, "k0: %d  change: %f", k0, change)
		}
	}
}

func TestValidTimestamp(t *testing.T) {
	previous := []int64{100, 101, 99, 104, 102, 98, 103, 97, 105, 96, 110}

	assert.True(t, pof.ValidTimestamp(0, previous[:10]), "short history must accept")
	assert.Equal(t, float64(101), pof.MedianTime(previous), "median")
	assert.True(t, pof.ValidTimestamp(102, previous), "above median rejected")
	assert.False(t, pof.ValidTimestamp(101, previous), "equal to median accepted")
	assert.False(t, pof.ValidTimestamp(50, previous), "below median accepted")

	longer := append([]int64{1000, 1000, 1000}, previous...)
	assert.True(t, pof.ValidTimestamp(102, longer), "only the last window counts")
}
