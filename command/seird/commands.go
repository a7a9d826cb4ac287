// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/aggregation"
	"github.com/seirchain/seird/configuration"
	"github.com/seirchain/seird/signature"
	"github.com/seirchain/seird/storage"
	"github.com/seirchain/seird/triad"
	"github.com/seirchain/seird/vrf"
)

// setup command handler
//
// commands that cannot access the configuration file or the database
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "required-depth":
		if 2 != len(arguments) {
			exitwithstatus.Message("%s: required-depth needs: error-probability malicious-fraction", program)
		}
		e, err := strconv.ParseFloat(arguments[0], 64)
		if nil != err {
			exitwithstatus.Message("%s: error probability: %q  error: %s", program, arguments[0], err)
		}
		m, err := strconv.ParseFloat(arguments[1], 64)
		if nil != err {
			exitwithstatus.Message("%s: malicious fraction: %q  error: %s", program, arguments[1], err)
		}
		k, err := aggregation.RequiredDepth(e, m)
		if nil != err {
			exitwithstatus.Message("%s: required depth error: %s", program, err)
		}
		fmt.Printf("finality depth: %d  probability: %.6f\n", k, aggregation.FinalityProbability(1-m, k))

	case "version", "v":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] [--once] --config-file=FILE [[command|file...] params...]\n"+
			"\n"+
			"  files contain one transaction per line, a blank line ends a triad, '-' reads stdin\n"+
			"\n"+
			"  commands without a configuration file:\n"+
			"    help                   - this message\n"+
			"    version                - display the program version\n"+
			"    required-depth E M     - finality depth for error probability E with malicious fraction M\n"+
			"\n"+
			"  commands using the configuration file:\n"+
			"    config                 - print the effective configuration as JSON\n"+
			"    dump                   - print every stored triad as JSON\n"+
			"    final COORDINATE...    - print the final digest recorded for coordinates\n"+
			"    proof COORDINATE...    - print stored aggregated proofs\n",
			program)

	default:
		return false
	}

	// indicate processing complete and prefor normal exit from main
	return true
}

// configuration command handler
//
// commands that only need the parsed configuration
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := arguments[0]

	switch command {
	case "config":
		printJson(options)

	default:
		return false
	}

	return true
}

// data command handler
//
// commands that read the database
func processDataCommand(log *logger.L, arguments []string) bool {

	command := arguments[0]
	arguments = arguments[1:]

	store := storage.TriadStore{}

	switch command {
	case "dump":
		records, err := store.Records()
		if nil != err {
			exitwithstatus.Message("dump error: %s", err)
		}
		printJson(records)

	case "final":
		for _, s := range arguments {
			c, err := triad.ParseCoordinate(s)
			if nil != err {
				exitwithstatus.Message("final: %q  error: %s", s, err)
			}
			digest, ok, err := store.FinalDigest(c)
			if nil != err {
				exitwithstatus.Message("final: %q  error: %s", s, err)
			}
			if ok {
				fmt.Printf("%q  %s\n", c, digest)
			} else {
				fmt.Printf("%q  not final\n", c)
			}
		}

	case "proof":
		for _, s := range arguments {
			c, err := triad.ParseCoordinate(s)
			if nil != err {
				exitwithstatus.Message("proof: %q  error: %s", s, err)
			}
			p, err := store.Proof(c)
			if nil != err {
				exitwithstatus.Message("proof: %q  error: %s", s, err)
			}
			printJson(p)
		}

	default:
		return false
	}

	log.Infof("command: %s  complete", command)
	return true
}

// register every configured miner with a key pair derived from its seed
func newRegistry(miners []configuration.MinerType) (*vrf.Registry, error) {
	scheme := signature.NewBLS()
	registry := vrf.NewRegistry(scheme)
	for _, m := range miners {
		seed := m.Seed
		if "" == seed {
			seed = m.Identity
		}
		keyPair, err := scheme.KeyPairFromSeed([]byte(seed))
		if nil != err {
			return nil, err
		}
		stake := m.Stake
		if 0 == stake {
			stake = 1
		}
		if err := registry.Register(m.Identity, stake, keyPair); nil != err {
			return nil, fmt.Errorf("miner: %q  error: %s", m.Identity, err)
		}
	}
	return registry, nil
}

func printJson(data interface{}) {
	b, err := json.MarshalIndent(data, "", "  ")
	if nil != err {
		exitwithstatus.Message("json error: %s", err)
	}
	fmt.Fprintf(os.Stdout, "%s\n", b)
}
