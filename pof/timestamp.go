// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pof

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MedianWindow - number of previous timestamps in the median
const MedianWindow = 11

// ValidTimestamp - a timestamp must be after the median of the last window
//
// with fewer than MedianWindow previous timestamps there is nothing to
// compare against and any timestamp is accepted
func ValidTimestamp(timestamp int64, previous []int64) bool {
	if len(previous) < MedianWindow {
		return true
	}
	return float64(timestamp) > MedianTime(previous[len(previous)-MedianWindow:])
}

// MedianTime - median of a set of unix timestamps
func MedianTime(timestamps []int64) float64 {
	if 0 == len(timestamps) {
		return 0
	}
	values := make([]float64, len(timestamps))
	for i, t := range timestamps {
		values[i] = float64(t)
	}
	sort.Float64s(values)
	return stat.Quantile(0.5, stat.Empirical, values, nil)
}
