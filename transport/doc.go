// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transport carries committee votes between replicas
//
// votes travel as msgpack envelopes.  The in-process Hub delivers at
// least once and can be told to drop, duplicate or reorder deliveries
// so that agreement can be exercised under an unreliable network.
// Repeated broadcasts of one envelope inside the duplicate window are
// suppressed and each sender is rate limited.
package transport
