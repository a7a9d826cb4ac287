// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filters

import (
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// SMM - simple moving median, a single slow or fast solve cannot move it
type SMM struct {
	sync.RWMutex
	recent window
	median float64
}

// NewSMM - median of the last n samples, n must be odd
func NewSMM(start float64, n uint64) Filter {
	if 1 != n%2 {
		panic(fmt.Sprintf("median window: %d is not odd", n))
	}
	return &SMM{
		recent: newWindow(start, n),
		median: start,
	}
}

func (m *SMM) Name() string {
	return fmt.Sprintf("Simple Moving Median %d", m.recent.size())
}

func (m *SMM) Process(s float64) float64 {
	m.Lock()
	defer m.Unlock()

	m.recent.push(s)
	sorted := m.recent.ordered()
	sort.Float64s(sorted)
	m.median = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	return m.median
}

func (m *SMM) Current() float64 {
	m.RLock()
	defer m.RUnlock()
	return m.median
}
