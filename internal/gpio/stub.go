//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/drift-lights/internal/channel"
)

var (
	_ Reader  = (*RealReader)(nil)
	_ Capture = (*RealCapture)(nil)
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pinCal, pinClear int) (*RealReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (bool, bool, error) {
	return false, false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// RealCapture is not available on non-Linux platforms.
type RealCapture struct{}

// NewRealCapture returns an error on non-Linux platforms.
func NewRealCapture(chipName string, bank *channel.Bank) (*RealCapture, error) {
	return nil, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (c *RealCapture) Close() error {
	return nil
}
