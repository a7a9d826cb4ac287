// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filters

import (
	"sync"
)

// PassThrough - no smoothing
type PassThrough struct {
	sync.RWMutex
	current float64
}

// NewPassThrough - filter that returns each sample unchanged
func NewPassThrough(start float64) Filter {
	return &PassThrough{current: start}
}

func (filter *PassThrough) Name() string {
	return "None"
}

func (filter *PassThrough) Process(s float64) float64 {
	filter.Lock()
	defer filter.Unlock()
	filter.current = s
	return s
}

func (filter *PassThrough) Current() float64 {
	filter.RLock()
	defer filter.RUnlock()
	return filter.current
}
