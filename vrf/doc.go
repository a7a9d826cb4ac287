// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vrf - verifiable leader and committee selection
//
// A VRF proof is a unique signature over the seed and its output is
// the SHA-256 of the proof, so anyone holding the public key can check
// both while nobody can grind the output without the private key.
// Validators and their keys are held by an explicit Registry which is
// passed to every consumer.
package vrf
