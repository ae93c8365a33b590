// Package calibrate implements the operator flow for recording a channel's
// endpoints with the calibration button, and for clearing them with the
// clear button. It runs one step per refresh tick and never blocks.
package calibrate

import (
	"log"
	"time"

	"github.com/sweeney/drift-lights/internal/channel"
	"github.com/sweeney/drift-lights/internal/logic"
	"github.com/sweeney/drift-lights/internal/store"
)

// HoldTime is how long the calibration button must be held to start.
const HoldTime = 1500 * time.Millisecond

// Step is the endpoint being recorded.
type Step int

const (
	StepLow Step = iota
	StepHigh
	StepCenter
	numSteps
)

func (s Step) String() string {
	switch s {
	case StepLow:
		return "EP_L"
	case StepHigh:
		return "EP_H"
	case StepCenter:
		return "EP_C"
	default:
		return "?"
	}
}

// Blinks is the number of status light blinks per second shown while
// waiting for the operator to confirm the step.
func (s Step) Blinks() int {
	return int(s) + 1
}

type state int

const (
	stateIdle    state = iota
	stateRelease       // calibration started, waiting for the hold to end
	statePress         // waiting for the operator to confirm the current step
	stateConfirm       // reading captured, waiting for the button to be released
)

// Input is one tick's worth of button state.
type Input struct {
	Cal   bool
	Clear bool
	Now   logic.Millis
}

// Calibrator records endpoints for one target channel.
type Calibrator struct {
	bank    *channel.Bank
	target  channel.ID
	store   store.Store
	verbose int

	state    state
	step     Step
	holding  bool
	heldFrom logic.Millis
	clearDn  bool
	captured [numSteps]uint32
	status   bool
	lastErr  error
}

// New creates a Calibrator for target. Log lines are written at verbosity 2
// and above.
func New(bank *channel.Bank, target channel.ID, st store.Store, verbose int) *Calibrator {
	return &Calibrator{
		bank:    bank,
		target:  target,
		store:   st,
		verbose: verbose,
	}
}

// Active reports whether a calibration is in progress. The light effects are
// frozen while it is.
func (c *Calibrator) Active() bool {
	return c.state != stateIdle
}

// Step returns the endpoint currently being recorded.
func (c *Calibrator) Step() Step {
	return c.step
}

// Status returns the status light level for the current tick.
func (c *Calibrator) Status() bool {
	return c.status
}

// Err returns the error from the most recent calibration or clear, if any.
func (c *Calibrator) Err() error {
	return c.lastErr
}

// Process advances the flow by one tick.
func (c *Calibrator) Process(in Input) {
	switch c.state {
	case stateIdle:
		c.processIdle(in)

	case stateRelease:
		if !in.Cal {
			c.state = statePress
			c.status = blink(in.Now, c.step.Blinks())
		}

	case statePress:
		if !in.Cal {
			c.status = blink(in.Now, c.step.Blinks())
			return
		}
		c.bank.Poll()
		raw := c.bank.Channel(c.target).Raw()
		c.captured[c.step] = raw
		c.status = false
		c.logf("calibrate: recorded %s: %d", c.step, raw)
		c.state = stateConfirm

	case stateConfirm:
		if in.Cal {
			return
		}
		if c.step == StepCenter {
			c.finish()
			return
		}
		c.step++
		c.logf("calibrate: set %s then press the button", c.step)
		c.state = statePress
		c.status = blink(in.Now, c.step.Blinks())
	}
}

func (c *Calibrator) processIdle(in Input) {
	if in.Clear && !c.clearDn {
		c.clear()
	}
	c.clearDn = in.Clear

	if !in.Cal {
		c.holding = false
		return
	}
	if !c.holding {
		c.holding = true
		c.heldFrom = in.Now
	}
	if in.Now.Since(c.heldFrom) < HoldTime {
		return
	}

	c.holding = false
	c.step = StepLow
	c.state = stateRelease
	c.status = true
	c.lastErr = nil
	c.logf("calibrate: start calibration of %s", c.target)
	c.logf("calibrate: set %s then press the button", c.step)
}

func (c *Calibrator) finish() {
	c.state = stateIdle
	c.step = StepLow
	c.status = false

	ep := channel.Endpoints{
		Low:    c.captured[StepLow],
		Center: c.captured[StepCenter],
		High:   c.captured[StepHigh],
	}
	if err := c.bank.Channel(c.target).Calibrate(ep); err != nil {
		c.lastErr = err
		log.Printf("calibrate: %v (keeping %s)", err, c.bank.Channel(c.target).Endpoints())
		return
	}
	c.logf("calibrate: end calibration: %s", ep)
}

func (c *Calibrator) clear() {
	c.logf("calibrate: clearing stored endpoints")
	if err := c.store.ClearAll(); err != nil {
		c.lastErr = err
		log.Printf("calibrate: %v", err)
	}
	c.bank.Reload()
}

func (c *Calibrator) logf(format string, args ...any) {
	if c.verbose >= 2 {
		log.Printf(format, args...)
	}
}

// blink returns the status light level for a pattern of n short blinks at
// the start of every second.
func blink(now logic.Millis, n int) bool {
	phase := uint32(now) % 1000
	return phase < 250*uint32(n) && phase%250 < 125
}
