//go:build linux

package gpio

import (
	"fmt"

	"github.com/sweeney/drift-lights/internal/channel"
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

var (
	_ Reader  = (*RealReader)(nil)
	_ Capture = (*RealCapture)(nil)
)

// RealReader reads the buttons from actual hardware using the Linux GPIO character device.
type RealReader struct {
	chip     *gpiocdev.Chip
	calPin   *gpiocdev.Line
	clearPin *gpiocdev.Line
}

// NewRealReader creates a button reader on the given chip and BCM pins.
func NewRealReader(chipName string, pinCal, pinClear int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Buttons short the line to ground, so hold it high when released.
	calLine, err := chip.RequestLine(pinCal, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request calibration button pin %d: %w", pinCal, err)
	}

	clearLine, err := chip.RequestLine(pinClear, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		calLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request clear button pin %d: %w", pinClear, err)
	}

	return &RealReader{
		chip:     chip,
		calPin:   calLine,
		clearPin: clearLine,
	}, nil
}

// Read returns the logical button states.
// Inverts raw GPIO: raw low (0) = pressed.
func (r *RealReader) Read() (bool, bool, error) {
	calRaw, err := r.calPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read calibration button: %w", err)
	}

	clearRaw, err := r.clearPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read clear button: %w", err)
	}

	return calRaw == 0, clearRaw == 0, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var err error
	if r.calPin != nil {
		err = multierr.Append(err, wrap("close calibration button", r.calPin.Close()))
	}
	if r.clearPin != nil {
		err = multierr.Append(err, wrap("close clear button", r.clearPin.Close()))
	}
	if r.chip != nil {
		err = multierr.Append(err, wrap("close chip", r.chip.Close()))
	}
	return err
}

// RealCapture times receiver pulses from kernel edge events. Each requested
// line delivers its events on its own goroutine, which makes it the single
// writer of its channel's pulse width.
type RealCapture struct {
	chip  *gpiocdev.Chip
	lines []*gpiocdev.Line
}

// NewRealCapture requests every enabled channel's pin with edge detection on
// both edges. Disabled channels are never requested.
func NewRealCapture(chipName string, bank *channel.Bank) (*RealCapture, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	c := &RealCapture{chip: chip}
	for _, ch := range bank.Channels() {
		if !ch.Enabled() {
			continue
		}
		ch := ch
		line, err := chip.RequestLine(ch.Pin(),
			gpiocdev.AsInput,
			gpiocdev.WithBothEdges,
			gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
				deliver(ch, evt.Type == gpiocdev.LineEventRisingEdge, evt.Timestamp)
			}))
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", ch.ID(), ch.Pin(), err)
		}
		c.lines = append(c.lines, line)
	}
	return c, nil
}

// Close stops edge delivery and releases the lines.
func (c *RealCapture) Close() error {
	var err error
	for _, l := range c.lines {
		err = multierr.Append(err, wrap("close capture line", l.Close()))
	}
	c.lines = nil
	if c.chip != nil {
		err = multierr.Append(err, wrap("close chip", c.chip.Close()))
		c.chip = nil
	}
	return err
}

func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
