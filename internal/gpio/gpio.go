// Package gpio provides receiver edge capture and button reading with
// hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"time"

	"github.com/sweeney/drift-lights/internal/channel"
)

// Reader reads the operator buttons.
type Reader interface {
	// Read returns the logical states of the calibration and clear buttons.
	// The raw GPIO values are inverted: the buttons pull the line low when pressed.
	// Returns (calPressed, clearPressed, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Capture feeds receiver pulse edges into channels until closed.
type Capture interface {
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultChip     = "gpiochip0"
	DefaultPinThrot = 17 // Throttle channel from the receiver
	DefaultPinCal   = 20 // Endpoint calibration button
	DefaultPinClear = 19 // Clear calibration button
)

// eventMicros converts a kernel edge timestamp (monotonic, since boot) into
// the wrapping microsecond clock used for pulse timing.
func eventMicros(ts time.Duration) channel.Micros {
	return channel.Micros(uint64(ts / time.Microsecond))
}

// deliver applies one edge to c.
func deliver(c *channel.Channel, rising bool, ts time.Duration) {
	c.Edge(rising, eventMicros(ts))
}
