// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filters

// ring of the most recent solve time samples, oldest first from head
type window struct {
	values []float64
	head   int
}

func newWindow(fill float64, size uint64) window {
	w := window{
		values: make([]float64, size),
	}
	for i := range w.values {
		w.values[i] = fill
	}
	return w
}

// push replaces the oldest sample
func (w *window) push(s float64) {
	w.values[w.head] = s
	w.head = (w.head + 1) % len(w.values)
}

// ordered returns a copy with the oldest sample first
func (w *window) ordered() []float64 {
	out := make([]float64, 0, len(w.values))
	out = append(out, w.values[w.head:]...)
	return append(out, w.values[:w.head]...)
}

func (w *window) size() int {
	return len(w.values)
}
