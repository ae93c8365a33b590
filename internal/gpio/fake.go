package gpio

import (
	"errors"
	"time"

	"github.com/sweeney/drift-lights/internal/channel"
)

var (
	_ Reader  = (*FakeReader)(nil)
	_ Capture = (*FakeCapture)(nil)
)

// FakeReader is a test double that returns scripted button values.
type FakeReader struct {
	// Samples contains scripted (cal, clear) values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single button reading (already in logical form).
type Sample struct {
	Cal   bool // true = pressed
	Clear bool // true = pressed
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.Cal, sample.Clear, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeCapture synthesizes receiver pulses on a channel, standing in for the
// kernel edge events.
type FakeCapture struct {
	ch *channel.Channel
	// Now is the simulated kernel timestamp of the next rising edge.
	Now time.Duration
	// Period is the receiver frame period between rising edges.
	Period time.Duration
	// Closed tracks if Close was called
	Closed bool
}

// NewFakeCapture creates a FakeCapture feeding ch at the standard 50 Hz frame rate.
func NewFakeCapture(ch *channel.Channel) *FakeCapture {
	return &FakeCapture{ch: ch, Period: 20 * time.Millisecond}
}

// Pulse delivers one rising and one falling edge width apart and advances
// the simulated clock by one frame.
func (f *FakeCapture) Pulse(width time.Duration) {
	deliver(f.ch, true, f.Now)
	deliver(f.ch, false, f.Now+width)
	f.Now += f.Period
}

// Close marks the capture as closed.
func (f *FakeCapture) Close() error {
	f.Closed = true
	return nil
}
