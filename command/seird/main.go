// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/aggregation"
	"github.com/seirchain/seird/background"
	"github.com/seirchain/seird/configuration"
	"github.com/seirchain/seird/difficulty"
	"github.com/seirchain/seird/fault"
	"github.com/seirchain/seird/messagebus"
	"github.com/seirchain/seird/network"
	"github.com/seirchain/seird/pof"
	"github.com/seirchain/seird/publish"
	"github.com/seirchain/seird/storage"
	"github.com/seirchain/seird/transport"
	"github.com/seirchain/seird/triad"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "once", HasArg: getoptions.NO_ARGUMENT, Short: 'o'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// commands that need neither configuration nor database
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// commands that only enquire on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	verbose := len(options["verbose"]) > 0
	quiet := len(options["quiet"]) > 0
	if verbose {
		theConfiguration.Logging.Console = true
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// last resort channel for invariant failures
	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	log.Infof("database: %q", theConfiguration.Database.Name)
	log.Debugf("%s = %#v", "PoF", theConfiguration.PoF)
	log.Debugf("%s = %#v", "Consensus", theConfiguration.Consensus)
	log.Debugf("%s = %#v", "Transport", theConfiguration.Transport)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// these commands are allowed to access the database
	if len(arguments) > 0 && processDataCommand(log, arguments) {
		return
	}

	batches, err := readBatches(arguments)
	if nil != err {
		log.Criticalf("read transactions error: %s", err)
		exitwithstatus.Message("read transactions error: %s", err)
	}

	// rebuild the matrix from any earlier run
	store := storage.TriadStore{}
	matrix := triad.NewMatrix(store)
	records, err := store.Records()
	if nil == err {
		err = matrix.Load(records)
	}
	if nil == err {
		err = matrix.Validate()
	}
	if nil != err {
		log.Criticalf("matrix reload error: %s", err)
		exitwithstatus.Message("matrix reload error: %s", err)
	}
	log.Infof("matrix reloaded: %d triads", matrix.Len())
	if matrix.Len() > 0 && len(batches) > 0 {
		log.Critical("database already holds a matrix")
		exitwithstatus.Message("database already holds a matrix: %d triads", matrix.Len())
	}

	registry, err := newRegistry(theConfiguration.Miners)
	if nil != err {
		log.Criticalf("registry initialise error: %s", err)
		exitwithstatus.Message("registry initialise error: %s", err)
	}

	pofConfiguration := theConfiguration.PoF
	targetTime := configuration.Seconds(pofConfiguration.TargetTime)
	controller, err := difficulty.New(difficulty.Configuration{
		Initial:    pofConfiguration.InitialBits,
		Secondary:  pofConfiguration.Secondary,
		TargetTime: targetTime,
		Clamp:      pofConfiguration.Clamp,
		Period:     pofConfiguration.RetargetPeriod,
		Filter:     pofConfiguration.Filter,
	})
	if nil != err {
		log.Criticalf("difficulty initialise error: %s", err)
		exitwithstatus.Message("difficulty initialise error: %s", err)
	}

	// event bus for aggregation, storage and publishing
	bus := messagebus.New()
	defer bus.Close()

	// start up the publishing background processes
	err = publish.Initialise(&theConfiguration.Publishing, bus)
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}
	defer publish.Finalise()

	consensus := theConfiguration.Consensus
	agg := aggregation.New(matrix, registry, bus, aggregation.Configuration{
		FinalityDepth: consensus.FinalityDepth,
		ChildTimeout:  configuration.Seconds(consensus.ChildTimeout),
		Policy:        aggregation.PolicyFromString(consensus.ChildPolicy),
	})

	tc := theConfiguration.Transport
	hub := transport.NewHub(transport.Configuration{
		Rate:            tc.Rate,
		Burst:           tc.Burst,
		DuplicateWindow: configuration.Seconds(tc.DuplicateWindow),
		DropRate:        tc.DropRate,
		DuplicateRate:   tc.DuplicateRate,
		Reorder:         tc.Reorder,
		Seed:            tc.Seed,
	})

	// the retarget loop backs off after an idle target time
	processes := background.Start(background.Processes{
		hub,
		storage.NewIndexer(bus),
		controller,
	}, targetTime)
	defer processes.Stop()

	net, err := network.New(
		matrix,
		pof.New(pofConfiguration.BatchSize, pof.TransformByName(pofConfiguration.Transform)),
		registry,
		agg,
		hub,
		network.Configuration{
			Controller:    controller,
			Seed:          []byte(consensus.Seed),
			CommitteeSize: consensus.CommitteeSize,
			ViewTimeout:   configuration.Seconds(consensus.ViewTimeout),
			MaxViews:      consensus.MaxViews,
			Proofs:        store,
		})
	if nil != err {
		log.Criticalf("network initialise error: %s", err)
		exitwithstatus.Message("network initialise error: %s", err)
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(batches) > 0 {
		done := make(chan error, 1)
		go func() {
			done <- build(ctx, net, batches, quiet)
		}()

		select {
		case err = <-done:
		case sig := <-ch:
			log.Infof("received signal: %v", sig)
			cancel()
			err = <-done
		}
		if nil != err {
			log.Errorf("build error: %s", err)
			exitwithstatus.Message("build error: %s", err)
		}
	}

	log.Infof("difficulty: %s  retargets: %d", controller.Difficulty(), controller.Retargets())
	log.Infof("transport: %+v", hub.Statistics())
	if stale := matrix.StaleChildren(); 0 != len(stale) {
		log.Warnf("child roots changed after attach: %v", stale)
	}

	if len(options["once"]) > 0 || nil != ctx.Err() {
		return
	}

	// keep publishing until stopped
	if !quiet {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	sig := <-ch
	log.Infof("received signal: %v", sig)
	if !quiet {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// grow the matrix and print each proof
func build(ctx context.Context, net *network.Network, batches [][][]byte, quiet bool) error {
	proofs, err := net.Build(ctx, batches)
	if nil != err {
		return err
	}
	if quiet {
		return nil
	}
	for _, p := range proofs {
		t, _ := net.Matrix().Get(p.Coordinate)
		fmt.Printf("%-12q  %-13s  depth: %d  signers: %d  digest: %s\n", p.Coordinate, t.Status(), p.Depth, len(p.Signers), p.Digest)
	}
	return nil
}
