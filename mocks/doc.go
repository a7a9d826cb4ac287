// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mocks holds generated test doubles
package mocks

//go:generate mockgen -destination=transport.go -package=mocks github.com/seirchain/seird/transport Transport
//go:generate mockgen -destination=scheme.go -package=mocks github.com/seirchain/seird/signature Scheme
//go:generate mockgen -destination=slasher.go -package=mocks github.com/seirchain/seird/pbft Slasher
