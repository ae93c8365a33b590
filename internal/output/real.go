//go:build linux

package output

import (
	"fmt"
	"image/color"

	"github.com/stianeikeland/go-rpio/v4"
	"github.com/sweeney/drift-lights/internal/logic"
)

var _ Sink = (*RealSink)(nil)

// The PWM clock runs at pwmHz*pwmCycle so that one cycle spans 0-255.
const (
	pwmHz    = 1000
	pwmCycle = 255
)

// RealSink drives the lights on a Raspberry Pi: headlight and brake
// intensity on hardware PWM, hazard/backfire/status as digital outputs, and
// the decel bar and brake strip as one WS2812 chain on SPI0.
type RealSink struct {
	pins    Pins
	spi     bool
	pixels  int
	buf     []byte
	digital []rpio.Pin
}

// NewRealSink maps the GPIO registers and configures every enabled output.
// pixels is the total chain length (decel + brake strip).
func NewRealSink(pins Pins, pixels int) (*RealSink, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio memory: %w", err)
	}

	s := &RealSink{pins: pins, pixels: pixels}
	for _, p := range []int{pins.Head, pins.Brake} {
		if p < 0 {
			continue
		}
		pin := rpio.Pin(p)
		pin.Mode(rpio.Pwm)
		pin.Freq(pwmHz * pwmCycle)
		pin.DutyCycle(0, pwmCycle)
	}
	for _, p := range []int{pins.Hazard, pins.Backfire, pins.Status} {
		if p < 0 {
			continue
		}
		pin := rpio.Pin(p)
		pin.Output()
		pin.Low()
		s.digital = append(s.digital, pin)
	}

	if pixels > 0 {
		if err := rpio.SpiBegin(rpio.Spi0); err != nil {
			rpio.Close()
			return nil, fmt.Errorf("begin spi0: %w", err)
		}
		rpio.SpiSpeed(ws2812SPIHz)
		s.spi = true
		s.buf = make([]byte, 0, EncodedLen(pixels))
	}
	return s, nil
}

// Show pushes f to the hardware.
func (s *RealSink) Show(f logic.Frame) error {
	setDuty(s.pins.Head, f.Headlight)
	setDuty(s.pins.Brake, f.Brake)
	setLevel(s.pins.Hazard, f.Hazard)
	setLevel(s.pins.Backfire, f.Backfire)
	setLevel(s.pins.Status, f.Status)

	if s.spi {
		if n := len(f.Decel) + len(f.BrakeStrip); n != s.pixels {
			return fmt.Errorf("frame has %d pixels, chain has %d", n, s.pixels)
		}
		s.buf = EncodeWS2812(s.buf[:0], f.Decel, f.BrakeStrip)
		rpio.SpiTransmit(s.buf...)
	}
	return nil
}

// SetStatus drives only the status light.
func (s *RealSink) SetStatus(on bool) error {
	setLevel(s.pins.Status, on)
	return nil
}

// Close switches every output off and releases the hardware.
func (s *RealSink) Close() error {
	setDuty(s.pins.Head, 0)
	setDuty(s.pins.Brake, 0)
	for _, pin := range s.digital {
		pin.Low()
	}
	if s.spi {
		s.buf = EncodeWS2812(s.buf[:0], make([]color.RGBA, s.pixels))
		rpio.SpiTransmit(s.buf...)
		rpio.SpiEnd(rpio.Spi0)
	}
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close gpio memory: %w", err)
	}
	return nil
}

func setDuty(p int, v uint8) {
	if p < 0 {
		return
	}
	rpio.Pin(p).DutyCycle(uint32(v), pwmCycle)
}

func setLevel(p int, on bool) {
	if p < 0 {
		return
	}
	if on {
		rpio.Pin(p).High()
	} else {
		rpio.Pin(p).Low()
	}
}
