// Package channel turns receiver PWM edges into calibrated channel values.
//
// Edge is called from the GPIO event handler and is the only writer of a
// channel's latest pulse width. Bank.Poll, called once per refresh tick, is
// the only reader. The handoff is a single atomic word per channel, so a
// reader never observes a half-written width and the edge handler is never
// blocked.
package channel

import (
	"fmt"
	"log"
	"sync/atomic"
)

// ID identifies an input channel.
type ID int

const (
	Steer ID = iota
	Throttle
	Aux1
	Aux2
	NumChannels
)

func (id ID) String() string {
	switch id {
	case Steer:
		return "steer"
	case Throttle:
		return "throttle"
	case Aux1:
		return "aux1"
	case Aux2:
		return "aux2"
	default:
		return fmt.Sprintf("ch%d", int(id))
	}
}

// Micros is a wrapping microsecond timestamp from a monotonic clock.
// It wraps every 2^32 us (about 71.6 minutes); pulse widths are unsigned
// differences and stay correct across the wrap.
type Micros uint32

// DefaultPulse is the pulse width reported before the first capture.
const DefaultPulse = 1500

// Store persists calibration endpoints per channel.
type Store interface {
	Load(id ID) (Endpoints, error)
	Save(id ID, ep Endpoints) error
}

// Channel holds the input state of one receiver channel.
type Channel struct {
	id    ID
	pin   int
	store Store

	ep    Endpoints
	raw   uint32
	value int

	// Edge handler state. rise is only touched by Edge.
	rise  Micros
	pulse atomic.Uint32
}

// New creates a channel and loads its endpoints from store.
// A negative pin marks the channel as not connected.
func New(id ID, pin int, store Store) *Channel {
	c := &Channel{id: id, pin: pin, store: store, raw: DefaultPulse}
	c.pulse.Store(DefaultPulse)
	c.Reload()
	c.value = Normalize(c.raw, c.ep)
	return c
}

// ID returns the channel identifier.
func (c *Channel) ID() ID { return c.id }

// Pin returns the input pin, or a negative number if the channel is disabled.
func (c *Channel) Pin() int { return c.pin }

// Enabled reports whether the channel has an input pin.
func (c *Channel) Enabled() bool { return c.pin >= 0 }

// Endpoints returns the active calibration endpoints.
func (c *Channel) Endpoints() Endpoints { return c.ep }

// Raw returns the pulse width staged by the last poll, in microseconds.
func (c *Channel) Raw() uint32 { return c.raw }

// Value returns the normalized value computed by the last poll.
func (c *Channel) Value() int { return c.value }

// Edge records a signal transition at ts. A rising edge starts a pulse; a
// falling edge publishes its width.
func (c *Channel) Edge(rising bool, ts Micros) {
	if rising {
		c.rise = ts
		return
	}
	c.pulse.Store(uint32(ts - c.rise))
}

// stage copies the latest published width into the tick-local raw field.
func (c *Channel) stage() {
	c.raw = c.pulse.Load()
}

// update recomputes the normalized value from the staged raw width.
func (c *Channel) update() {
	c.value = Normalize(c.raw, c.ep)
}

// Calibrate validates ep, persists it and makes it active.
// Invalid endpoints are rejected and the current ones stay in place.
func (c *Channel) Calibrate(ep Endpoints) error {
	if !ep.Valid() {
		return fmt.Errorf("channel %s: invalid endpoints %s", c.id, ep)
	}
	if c.store != nil {
		if err := c.store.Save(c.id, ep); err != nil {
			return fmt.Errorf("channel %s: save endpoints: %w", c.id, err)
		}
	}
	c.ep = ep
	return nil
}

// Reload re-reads the endpoints from the store, falling back to defaults for
// anything missing or implausible.
func (c *Channel) Reload() {
	ep := Defaults
	if c.store != nil {
		loaded, err := c.store.Load(c.id)
		if err != nil {
			log.Printf("channel %s: load endpoints: %v (using defaults)", c.id, err)
		} else {
			ep = loaded
		}
	}
	c.ep = ep.Sanitize()
}
