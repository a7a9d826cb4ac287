// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package filters smooths a series of solve time samples
package filters

import (
	"strings"

	"github.com/seirchain/seird/fault"
)

// Filter - interface for filter modules
type Filter interface {
	Process(s float64) float64
	Current() float64
	Name() string
}

// default window sizes
const (
	DefaultMedianWindow = 5
	DefaultWMAWindow    = 9
)

// ByName - create a filter from a configuration name
//
// names: none, smm, wma, camm
func ByName(name string, start float64) (Filter, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return NewPassThrough(start), nil
	case "smm":
		return NewSMM(start, DefaultMedianWindow), nil
	case "wma":
		return NewWMA(start, DefaultWMAWindow), nil
	case "camm":
		return NewCamm(start, DefaultMedianWindow, DefaultWMAWindow), nil
	default:
		return nil, fault.ErrInvalidFilter
	}
}
