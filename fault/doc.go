// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - the error values shared by every consensus package
//
// Each failure is a single typed value so callers compare with == or
// errors.Is.  Critical conditions that leave a matrix unusable are
// written through a dedicated log channel before the process aborts.
package fault
