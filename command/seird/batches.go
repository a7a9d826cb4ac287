// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// read transaction batches from files, "-" is stdin
//
// each file starts a new batch and a blank line ends one; lines
// starting with '#' are comments
func readBatches(fileNames []string) ([][][]byte, error) {
	batches := make([][][]byte, 0)
	for _, name := range fileNames {
		var r io.Reader
		if "-" == name {
			r = os.Stdin
		} else {
			f, err := os.Open(name)
			if nil != err {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		b, err := scanBatches(r)
		if nil != err {
			return nil, err
		}
		batches = append(batches, b...)
	}
	return batches, nil
}

func scanBatches(r io.Reader) ([][][]byte, error) {
	batches := make([][][]byte, 0)
	current := [][]byte(nil)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case "" == line:
			if nil != current {
				batches = append(batches, current)
				current = nil
			}
		case strings.HasPrefix(line, "#"):
		default:
			current = append(current, []byte(line))
		}
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}
	if nil != current {
		batches = append(batches, current)
	}
	return batches, nil
}
