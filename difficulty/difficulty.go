// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"gonum.org/v1/gonum/stat"

	"github.com/seirchain/seird/difficulty/filters"
	"github.com/seirchain/seird/pof"
)

// defaults
const (
	DefaultInitialBits = 16
	DefaultTargetTime  = 10 * time.Second
	DefaultPeriod      = 8
)

// Configuration - retarget parameters
type Configuration struct {
	Initial    uint          // k0 at start
	Secondary  []uint        // k1.., carried unchanged
	TargetTime time.Duration // desired solve time
	Clamp      float64       // zero selects pof.DefaultClamp
	Period     int           // solves per retarget
	Filter     string        // see filters.ByName
}

// Controller - retargets k0 from observed solve times
type Controller struct {
	sync.RWMutex

	log       *logger.L
	current   uint
	secondary []uint
	target    time.Duration
	clamp     float64
	period    int
	filter    filters.Filter

	samples   []float64 // seconds
	idle      bool      // no solve since the last tick
	retargets uint64
}

// New - create a controller, invalid values select defaults
func New(configuration Configuration) (*Controller, error) {
	current := configuration.Initial
	if current < pof.MinimumBits || current > pof.MaximumBits {
		current = DefaultInitialBits
	}
	target := configuration.TargetTime
	if target <= 0 {
		target = DefaultTargetTime
	}
	clamp := configuration.Clamp
	if clamp <= 0 {
		clamp = pof.DefaultClamp
	}
	period := configuration.Period
	if period <= 0 {
		period = DefaultPeriod
	}

	d := pof.Difficulty{Primary: current, Secondary: configuration.Secondary}
	if err := d.Validate(); nil != err {
		return nil, err
	}

	filter, err := filters.ByName(configuration.Filter, target.Seconds())
	if nil != err {
		return nil, err
	}

	return &Controller{
		log:       logger.New("difficulty"),
		current:   current,
		secondary: append([]uint(nil), configuration.Secondary...),
		target:    target,
		clamp:     clamp,
		period:    period,
		filter:    filter,
		samples:   make([]float64, 0, period),
		idle:      true,
	}, nil
}

// Difficulty - the value to use for the next puzzle
//
// secondary levels never exceed the level above them, so a lowered k0
// also caps them
func (c *Controller) Difficulty() pof.Difficulty {
	c.RLock()
	defer c.RUnlock()

	d := pof.Difficulty{Primary: c.current}
	previous := c.current
	for _, k := range c.secondary {
		if k > previous {
			k = previous
		}
		d.Secondary = append(d.Secondary, k)
		previous = k
	}
	return d
}

// Retargets - number of completed periods
func (c *Controller) Retargets() uint64 {
	c.RLock()
	defer c.RUnlock()
	return c.retargets
}

// Record - add the time one solve took
//
// returns true when this sample completed a period and k0 was
// recomputed from the filtered mean solve time
func (c *Controller) Record(elapsed time.Duration) bool {
	c.Lock()
	defer c.Unlock()

	c.idle = false
	c.samples = append(c.samples, elapsed.Seconds())
	if len(c.samples) < c.period {
		return false
	}

	mean := stat.Mean(c.samples, nil)
	smoothed := c.filter.Process(mean)
	c.samples = c.samples[:0]

	previous := c.current
	actual := time.Duration(smoothed * float64(time.Second))
	c.current = pof.AdjustDifficulty(previous, actual, c.target, c.clamp)
	c.retargets += 1

	c.log.Infof("retarget: mean: %.3fs  filtered: %.3fs  k0: %d → %d", mean, smoothed, previous, c.current)
	return true
}

// Backoff - lower k0 by one clamped step after a whole interval
// without any solve, returns the new k0
func (c *Controller) Backoff() uint {
	c.Lock()
	defer c.Unlock()

	previous := c.current
	c.current = pof.AdjustDifficulty(previous, 2*c.target, c.target, c.clamp)
	c.log.Warnf("backoff: k0: %d → %d", previous, c.current)
	return c.current
}

// Run - background loop, args is the tick interval (time.Duration)
// or nil for period × target time
func (c *Controller) Run(args interface{}, shutdown <-chan struct{}) {
	interval, ok := args.(time.Duration)
	if !ok || interval <= 0 {
		interval = time.Duration(c.period) * c.target
	}

	log := c.log
	log.Infof("starting…  interval: %s  filter: %s", interval, c.filter.Name())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			c.Lock()
			idle := c.idle
			c.idle = true
			c.Unlock()
			if idle {
				c.Backoff()
			}
		}
	}
	log.Info("stopped")
}
