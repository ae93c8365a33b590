// Package logic contains the pure light-effect logic for the drift-lights daemon.
// This package has NO external dependencies (no GPIO, SPI, OS, or time.Sleep).
// Time is always injectable via Millis parameters.
package logic

import (
	"image/color"
	"time"
)

// Millis is a wrapping millisecond timestamp from a monotonic clock.
// It wraps every 2^32 ms (about 49.7 days); differences computed with Since
// stay correct across the wrap as long as the real interval is shorter.
type Millis uint32

// Since returns the time elapsed from earlier to m.
func (m Millis) Since(earlier Millis) time.Duration {
	return time.Duration(uint32(m-earlier)) * time.Millisecond
}

// Add returns m shifted by d (negative d moves backwards), wrapping as needed.
func (m Millis) Add(d time.Duration) Millis {
	return m + Millis(int64(d/time.Millisecond))
}

// MillisSince converts the time elapsed since start into a wrapping Millis.
func MillisSince(start, now time.Time) Millis {
	return Millis(uint64(now.Sub(start).Milliseconds()))
}

// Thresholds on the normalized throttle value [-100, 100].
const (
	BrakeThresh       = -30 // below this the brake lights come on
	DecelNullThresh   = 10  // within +/- this the decel bar shows idle
	DecelBrakeThresh  = -60 // below this the whole decel bar turns red
	BackfireThreshLow = 10  // backfire on falling throttle above this
	BackfireThreshHi  = 80  // backfire always above this
	HeadlightDeadband = 10  // |throttle| at or above this counts as driving
)

// Smoothing weights (0 disables smoothing).
const (
	HeadSmoothing      = 4
	BrakeSmoothing     = 2
	DecelSmoothingUp   = 2
	DecelSmoothingDown = 1
	BackfireSmoothing  = 8
)

// Timings.
const (
	DecelUpdateRate     = 50 * time.Millisecond
	BackfireMaxInterval = 200 * time.Millisecond
	BackfireMaxDuration = 50 * time.Millisecond
	HazardOff           = 500 * time.Millisecond
	HazardOn            = 500 * time.Millisecond
	HeadlightDimTimeout = 3000 * time.Millisecond
)

// Intensities (0-255).
const (
	HeadLightMax  = 128
	HeadLightMid  = 64
	BrakeLightMax = 255
	BrakeLightMid = 64
)

// Strip colors.
var (
	DecelRed    = color.RGBA{R: 0xaa, A: 0xff}
	DecelYellow = color.RGBA{R: 0xaa, G: 0x88, A: 0xff}
	DecelGreen  = color.RGBA{G: 0xaa, A: 0xff}
	DecelBlue   = color.RGBA{B: 0xaa, A: 0xff}
	BrakeRed    = color.RGBA{R: 0xaa, A: 0xff}
	Black       = color.RGBA{}
)

// Config holds the feature toggles resolved once at start-up.
// Everything else is a package constant.
type Config struct {
	// DecelPixels is the number of pixels on the decel bar strip.
	DecelPixels int
	// DecelReverse mirrors the decel bar pixel order.
	DecelReverse bool
	// BrakePixels is the number of pixels on the auxiliary brake strip.
	BrakePixels int
	// BrakeAsTail keeps the brake lights dimmed when not braking.
	BrakeAsTail bool
	// HeadlightDimTimeout dims the headlights after this much idle time.
	// Negative disables dimming.
	HeadlightDimTimeout time.Duration
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		DecelPixels:         8,
		DecelReverse:        true,
		BrakePixels:         16,
		BrakeAsTail:         true,
		HeadlightDimTimeout: HeadlightDimTimeout,
	}
}

// Frame is the set of output signals computed in one refresh tick.
type Frame struct {
	Headlight  uint8
	Brake      uint8
	Hazard     bool
	Backfire   bool
	Status     bool
	Decel      []color.RGBA
	BrakeStrip []color.RGBA
}

// Clone returns a deep copy of f, safe to keep after the next tick.
func (f Frame) Clone() Frame {
	c := f
	c.Decel = append([]color.RGBA(nil), f.Decel...)
	c.BrakeStrip = append([]color.RGBA(nil), f.BrakeStrip...)
	return c
}

// Random supplies bounded random integers. *math/rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}
