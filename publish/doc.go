// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish sends triad events to outside listeners
//
// every message bus event is sent as a zmq multipart message
// (command, coordinate, digest) on the broadcast endpoints and as a
// JSON object to each connected websocket client.
package publish
