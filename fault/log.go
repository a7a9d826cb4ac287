// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"
)

// time for the log writer to drain before a panic unwinds
const drainDelay = 100 * time.Millisecond

// channel used for unrecoverable matrix conditions
var critical *logger.L

// Initialise - open the critical channel, call after logger.Initialise
func Initialise() error {
	if nil != critical {
		return ErrAlreadyInitialised
	}
	critical = logger.New("fault")
	return nil
}

// Finalise - flush the critical channel
func Finalise() {
	if nil == critical {
		return
	}
	critical.Flush()
}

// Criticalf - record a condition that breaks matrix consistency,
// prefixed by the caller's file and line
func Criticalf(format string, arguments ...interface{}) {
	if _, file, line, ok := runtime.Caller(1); ok {
		format = fmt.Sprintf("%s:%d: %s", file, line, format)
	}
	write(format, arguments...)
}

// PanicIfError - abort the node when a step it cannot recover from
// returned an error
func PanicIfError(step string, err error) {
	if nil == err {
		return
	}
	message := fmt.Sprintf("%s failed with error: %v", step, err)
	write("%s", message)
	time.Sleep(drainDelay)
	panic(message)
}

// before Initialise, or in tools without a log directory, use stderr
func write(format string, arguments ...interface{}) {
	if nil == critical {
		fmt.Fprintf(os.Stderr, "FAULT: "+format+"\n", arguments...)
		return
	}
	critical.Criticalf(format, arguments...)
	critical.Flush()
}
