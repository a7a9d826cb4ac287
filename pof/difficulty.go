// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pof

import (
	"fmt"

	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/merkle"
)

// limits on the number of leading zero bits
const (
	MinimumBits = 1
	MaximumBits = 8 * merkle.DigestLength
)

// Difficulty - primary and secondary leading zero bit requirements
type Difficulty struct {
	Primary   uint   `json:"primary"`
	Secondary []uint `json:"secondary,omitempty"`
}

// Validate - levels must be in range and never increase
func (d Difficulty) Validate() error {
	if d.Primary < MinimumBits || d.Primary > MaximumBits {
		return fault.ErrInvalidDifficulty
	}
	previous := d.Primary
	for _, k := range d.Secondary {
		if k > previous {
			return fault.ErrInvalidDifficulty
		}
		previous = k
	}
	return nil
}

// String - for logging
func (d Difficulty) String() string {
	if 0 == len(d.Secondary) {
		return fmt.Sprintf("%d", d.Primary)
	}
	return fmt.Sprintf("%d%v", d.Primary, d.Secondary)
}

func (d Difficulty) clone() Difficulty {
	c := Difficulty{Primary: d.Primary}
	if 0 != len(d.Secondary) {
		c.Secondary = append([]uint(nil), d.Secondary...)
	}
	return c
}
