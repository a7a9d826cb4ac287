// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package triad

import (
	"github.com/seirchain/seird/fault"
)

// SlotCount - children per triad
const SlotCount = 3

// Coordinate - path of slot digits from the root, root is ""
type Coordinate string

// Root - coordinate of the root triad
const Root = Coordinate("")

// ParseCoordinate - validate a string of '0', '1' and '2' digits
func ParseCoordinate(s string) (Coordinate, error) {
	c := Coordinate(s)
	if !c.Valid() {
		return Root, fault.ErrInvalidCoordinate
	}
	return c, nil
}

// Valid - all digits are slot numbers
func (c Coordinate) Valid() bool {
	for i := 0; i < len(c); i += 1 {
		if c[i] < '0' || c[i] >= '0'+SlotCount {
			return false
		}
	}
	return true
}

// ValidSlot - check a slot index
func ValidSlot(slot int) bool {
	return slot >= 0 && slot < SlotCount
}

// IsRoot - true only for the root coordinate
func (c Coordinate) IsRoot() bool {
	return 0 == len(c)
}

// Depth - number of digits, root is zero
func (c Coordinate) Depth() int {
	return len(c)
}

// Child - coordinate of a child slot
func (c Coordinate) Child(slot int) (Coordinate, error) {
	if !ValidSlot(slot) {
		return Root, fault.ErrInvalidSlot
	}
	return c + Coordinate([]byte{'0' + byte(slot)}), nil
}

// Parent - coordinate of the parent, false for root
func (c Coordinate) Parent() (Coordinate, bool) {
	if c.IsRoot() {
		return Root, false
	}
	return c[:len(c)-1], true
}

// Slot - slot this coordinate occupies in its parent, -1 for root
func (c Coordinate) Slot() int {
	if c.IsRoot() {
		return -1
	}
	return int(c[len(c)-1] - '0')
}

// Ancestors - coordinates from the root down to, but excluding, c
func (c Coordinate) Ancestors() []Coordinate {
	a := make([]Coordinate, 0, len(c))
	for i := 0; i < len(c); i += 1 {
		a = append(a, c[:i])
	}
	return a
}

// String - the persisted form
func (c Coordinate) String() string {
	return string(c)
}

// GoString - root is shown explicitly
func (c Coordinate) GoString() string {
	if c.IsRoot() {
		return "<root>"
	}
	return "<" + string(c) + ">"
}
