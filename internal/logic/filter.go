package logic

import "math"

// Filter is a single-pole exponential moving average evaluated once per tick.
// A smoothing weight of 0 passes values through unchanged. The effective time
// constant scales with the refresh rate.
type Filter struct {
	avg    float64
	smooth uint32
}

// NewFilter creates a Filter with the given smoothing weight.
func NewFilter(smooth uint32) *Filter {
	return &Filter{smooth: smooth}
}

// Step folds v into the running average and returns the rounded result.
func (f *Filter) Step(v int) int {
	s := float64(f.smooth)
	f.avg = (f.avg*s + float64(v)) / (s + 1)
	return int(math.Round(f.avg))
}

// Value returns the current rounded average without changing it.
func (f *Filter) Value() int {
	return int(math.Round(f.avg))
}

// Reset forces the running average to v.
func (f *Filter) Reset(v int) {
	f.avg = float64(v)
}
