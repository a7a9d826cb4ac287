// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature - pluggable sign/verify/aggregate capability
//
// Keys travel as opaque byte slices so that a committee, the VRF
// selector and the aggregation engine only depend on the Scheme
// interface.  The BLS scheme over the bn256 pairing is the
// implementation used by the daemon; BLS signatures are unique, so the
// same scheme also backs the VRF proofs.
package signature
