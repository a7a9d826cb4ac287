// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pof

import (
	"math"
	"time"
)

// DefaultClamp - largest fractional change of k0 in one period
const DefaultClamp = 0.25

// AdjustDifficulty - rescale k0 by target/actual
//
// the change is at most ⌊clamp·k0⌋ bits, so never more than the clamp
// fraction of k0, and at least one bit whenever actual and target
// differ; the one bit step is the only case allowed past the clamp, when
// clamp·k0 < 1 and no smaller integer step exists; slower than target
// lowers k0, faster raises it; the result is always in [MinimumBits,
// MaximumBits]
func AdjustDifficulty(current uint, actual time.Duration, target time.Duration, clamp float64) uint {
	if current < MinimumBits {
		current = MinimumBits
	} else if current > MaximumBits {
		current = MaximumBits
	}

	if actual <= 0 || target <= 0 || actual == target {
		return current
	}

	k := float64(current)
	proposed := k * float64(target) / float64(actual)

	bound := 1.0
	if clamp > 0 {
		bound = math.Max(1, math.Floor(clamp*k))
	}

	delta := proposed - k
	if delta > bound {
		delta = bound
	} else if delta < -bound {
		delta = -bound
	}

	step := int(math.Round(delta))
	if 0 == step {
		if actual > target {
			step = -1
		} else {
			step = 1
		}
	}

	result := int(current) + step
	if result < MinimumBits {
		return MinimumBits
	}
	if result > MaximumBits {
		return MaximumBits
	}
	return uint(result)
}
