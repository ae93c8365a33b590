//go:build !linux

package output

import (
	"errors"

	"github.com/sweeney/drift-lights/internal/logic"
)

var _ Sink = (*RealSink)(nil)

var errUnsupported = errors.New("output: not supported on this platform (requires Linux)")

// RealSink is not available on non-Linux platforms.
type RealSink struct{}

// NewRealSink returns an error on non-Linux platforms.
func NewRealSink(pins Pins, pixels int) (*RealSink, error) {
	return nil, errUnsupported
}

// Show is not implemented on non-Linux platforms.
func (s *RealSink) Show(f logic.Frame) error {
	return errUnsupported
}

// SetStatus is not implemented on non-Linux platforms.
func (s *RealSink) SetStatus(on bool) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (s *RealSink) Close() error {
	return nil
}
