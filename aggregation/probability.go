// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package aggregation

import (
	"math"

	"github.com/seirchain/seird/fault"
)

// FinalityProbability - 1 - (1 - p)^k for per layer resistance p
func FinalityProbability(p float64, k int) float64 {
	if k <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return 1 - math.Pow(1-p, float64(k))
}

// RequiredDepth - smallest k with maliciousFraction^k below errorProbability
func RequiredDepth(errorProbability float64, maliciousFraction float64) (int, error) {
	if errorProbability <= 0 || errorProbability >= 1 || maliciousFraction < 0 {
		return 0, fault.ErrInvalidProbability
	}
	if 0 == maliciousFraction {
		return 1, nil
	}
	if maliciousFraction >= 0.5 {
		return 0, fault.ErrFinalityUnreachable
	}
	k := int(math.Ceil(math.Log(errorProbability) / math.Log(maliciousFraction)))
	if k < 1 {
		k = 1
	}
	return k, nil
}
