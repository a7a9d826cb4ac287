// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/seirchain/seird/aggregation"
	"github.com/seirchain/seird/difficulty"
	"github.com/seirchain/seird/pbft"
	"github.com/seirchain/seird/pof"
	"github.com/seirchain/seird/publish"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultDatabaseName     = "seird"

	defaultLogDirectory = "log"
	defaultLogFile      = "seird.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultCommitteeSize = pbft.MinimumCommittee
	defaultViewTimeout   = 2.0 // seconds
	defaultSeed          = "genesis"

	defaultRate            = 200.0
	defaultBurst           = 400
	defaultDuplicateWindow = 30.0 // seconds
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - LevelDB location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// PoFType - puzzle and retarget parameters
type PoFType struct {
	InitialBits    uint    `gluamapper:"initial_bits" json:"initial_bits"`
	Secondary      []uint  `gluamapper:"secondary" json:"secondary"`
	BatchSize      uint64  `gluamapper:"batch_size" json:"batch_size"`
	Transform      string  `gluamapper:"transform" json:"transform"`
	TargetTime     float64 `gluamapper:"target_time" json:"target_time"` // seconds
	Clamp          float64 `gluamapper:"clamp" json:"clamp"`
	RetargetPeriod int     `gluamapper:"retarget_period" json:"retarget_period"`
	Filter         string  `gluamapper:"filter" json:"filter"`
}

// ConsensusType - committee and finality parameters
type ConsensusType struct {
	CommitteeSize int     `gluamapper:"committee_size" json:"committee_size"`
	ViewTimeout   float64 `gluamapper:"view_timeout" json:"view_timeout"` // seconds
	MaxViews      uint64  `gluamapper:"max_views" json:"max_views"`
	FinalityDepth int     `gluamapper:"finality_depth" json:"finality_depth"`
	ChildTimeout  float64 `gluamapper:"child_timeout" json:"child_timeout"` // seconds
	ChildPolicy   string  `gluamapper:"child_policy" json:"child_policy"`
	Seed          string  `gluamapper:"seed" json:"seed"`
}

// TransportType - hub limits and fault injection
type TransportType struct {
	Rate            float64 `gluamapper:"rate" json:"rate"`
	Burst           int     `gluamapper:"burst" json:"burst"`
	DuplicateWindow float64 `gluamapper:"duplicate_window" json:"duplicate_window"` // seconds
	DropRate        float64 `gluamapper:"drop_rate" json:"drop_rate"`
	DuplicateRate   float64 `gluamapper:"duplicate_rate" json:"duplicate_rate"`
	Reorder         bool    `gluamapper:"reorder" json:"reorder"`
	Seed            int64   `gluamapper:"seed" json:"seed"`
}

// MinerType - a validator run by this process
type MinerType struct {
	Identity string `gluamapper:"identity" json:"identity"`
	Stake    uint64 `gluamapper:"stake" json:"stake"`
	Seed     string `gluamapper:"seed" json:"seed"` // key derivation seed
}

// Configuration - the whole file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	PoF        PoFType               `gluamapper:"pof" json:"pof"`
	Consensus  ConsensusType         `gluamapper:"consensus" json:"consensus"`
	Transport  TransportType         `gluamapper:"transport" json:"transport"`
	Publishing publish.Configuration `gluamapper:"publishing" json:"publishing"`
	Miners     []MinerType           `gluamapper:"miners" json:"miners"`
	Logging    logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// Seconds - convert a configuration value in seconds
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Default - a configuration with every default filled in
func Default() *Configuration {
	return &Configuration{
		DataDirectory: defaultDataDirectory,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabaseName,
		},

		PoF: PoFType{
			InitialBits:    difficulty.DefaultInitialBits,
			BatchSize:      pof.DefaultBatchSize,
			Transform:      pof.UpperHalfRehashName,
			TargetTime:     difficulty.DefaultTargetTime.Seconds(),
			Clamp:          pof.DefaultClamp,
			RetargetPeriod: difficulty.DefaultPeriod,
			Filter:         "camm",
		},

		Consensus: ConsensusType{
			CommitteeSize: defaultCommitteeSize,
			ViewTimeout:   defaultViewTimeout,
			MaxViews:      pbft.DefaultMaxViews,
			FinalityDepth: aggregation.DefaultFinalityDepth,
			ChildTimeout:  aggregation.DefaultChildTimeout.Seconds(),
			ChildPolicy:   aggregation.ProceedPartial.String(),
			Seed:          defaultSeed,
		},

		Transport: TransportType{
			Rate:            defaultRate,
			Burst:           defaultBurst,
			DuplicateWindow: defaultDuplicateWindow,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}
}

// GetConfiguration - will read decode and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := Default()

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	if err := options.check(); nil != err {
		return nil, err
	}

	// fail if any of these are not simple file names i.e. must not contain path separator
	mustNotBePaths := []string{
		options.Database.Name,
		options.Logging.File,
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(f) {
		case "", ".":
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", f)
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{&options.Database.Directory, &options.Logging.Directory} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}
	options.Database.Name = ensureAbsolute(options.Database.Directory, options.Database.Name)

	// done
	return options, nil
}

// value checks that do not depend on the file system
func (c *Configuration) check() error {
	d := pof.Difficulty{Primary: c.PoF.InitialBits, Secondary: c.PoF.Secondary}
	if err := d.Validate(); nil != err {
		return fmt.Errorf("pof: %s", err)
	}
	switch c.PoF.Transform {
	case pof.UpperHalfRehashName, pof.FoldHalvesName:
	default:
		return fmt.Errorf("pof transform: %q is not supported", c.PoF.Transform)
	}
	n := c.Consensus.CommitteeSize
	if n < pbft.MinimumCommittee || n > pbft.MaximumCommittee {
		return fmt.Errorf("consensus committee size: %d: out of range [%d..%d]", n, pbft.MinimumCommittee, pbft.MaximumCommittee)
	}
	if len(c.Miners) < n {
		return fmt.Errorf("miners: %d  fewer than committee size: %d", len(c.Miners), n)
	}
	seen := make(map[string]bool, len(c.Miners))
	for i, m := range c.Miners {
		if "" == m.Identity || seen[m.Identity] {
			return fmt.Errorf("miners[%d]: identity: %q missing or repeated", i, m.Identity)
		}
		seen[m.Identity] = true
	}
	return nil
}

// ensure the path is absolute
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
