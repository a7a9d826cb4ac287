// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filters

import (
	"fmt"
	"sync"
)

// Cascade - feeds each sample through a chain of filters, the output of
// one stage is the input to the next
type Cascade struct {
	sync.RWMutex
	label  string
	stages []Filter
	output float64
}

// NewCamm - median to reject outliers then a weighted average to smooth
func NewCamm(start float64, nMedian uint64, nWMA uint64) Filter {
	return &Cascade{
		label: fmt.Sprintf("Camm %d,%d", nMedian, nWMA),
		stages: []Filter{
			NewSMM(start, nMedian),
			NewWMA(start, nWMA),
		},
		output: start,
	}
}

func (c *Cascade) Name() string {
	return c.label
}

func (c *Cascade) Process(s float64) float64 {
	c.Lock()
	defer c.Unlock()

	for _, stage := range c.stages {
		s = stage.Process(s)
	}
	c.output = s
	return s
}

func (c *Cascade) Current() float64 {
	c.RLock()
	defer c.RUnlock()
	return c.output
}
