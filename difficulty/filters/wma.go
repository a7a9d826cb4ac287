// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filters

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// WMA - linearly weighted moving average: in a window of n samples the
// newest weighs n and the oldest weighs 1
type WMA struct {
	sync.RWMutex
	recent  window
	weights []float64
	average float64
}

// NewWMA - weighted average over the last n samples
func NewWMA(start float64, n uint64) Filter {
	if 0 == n {
		panic("weighted window: empty")
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = float64(i + 1)
	}
	return &WMA{
		recent:  newWindow(start, n),
		weights: weights,
		average: start,
	}
}

func (a *WMA) Name() string {
	return fmt.Sprintf("Weighted Moving Average %d", a.recent.size())
}

func (a *WMA) Process(s float64) float64 {
	if s < 0 {
		panic(fmt.Sprintf("weighted window: negative solve time: %f", s))
	}

	a.Lock()
	defer a.Unlock()

	a.recent.push(s)
	a.average = stat.Mean(a.recent.ordered(), a.weights)

	return a.average
}

func (a *WMA) Current() float64 {
	a.RLock()
	defer a.RUnlock()
	return a.average
}
