package output

import "github.com/sweeney/drift-lights/internal/logic"

var _ Sink = (*FakeSink)(nil)

// FakeSink records pushed frames for test assertions.
type FakeSink struct {
	// Frames contains a copy of every frame passed to Show.
	Frames []logic.Frame

	// Status contains every value passed to SetStatus.
	Status []bool

	// ShowError, if set, will be returned by Show.
	ShowError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSink creates a FakeSink.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Show records a copy of f.
func (f *FakeSink) Show(fr logic.Frame) error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Frames = append(f.Frames, fr.Clone())
	return nil
}

// SetStatus records the status light value.
func (f *FakeSink) SetStatus(on bool) error {
	f.Status = append(f.Status, on)
	return nil
}

// Last returns the most recent frame, or the zero frame if none was shown.
func (f *FakeSink) Last() logic.Frame {
	if len(f.Frames) == 0 {
		return logic.Frame{}
	}
	return f.Frames[len(f.Frames)-1]
}

// Close marks the sink as closed.
func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}
