package logic

import "time"

// Backfire flashes the backfire light at random when the throttle is lifted
// sharply from a high value, or while it is held near full.
type Backfire struct {
	filter *Filter
	rnd    Random
	timer  Timer
	last   int
}

// NewBackfire creates a backfire effect drawing its timings from rnd.
func NewBackfire(rnd Random) *Backfire {
	return &Backfire{
		filter: NewFilter(BackfireSmoothing),
		rnd:    rnd,
	}
}

// Triggered reports whether the filtered throttle qualifies for a backfire
// given the previous tick's value.
func Triggered(throttle, last int) bool {
	return (throttle < last && last >= BackfireThreshLow) || throttle >= BackfireThreshHi
}

// Update steps the effect and reports whether the backfire light is on.
// A trigger while a flash cycle is pending or running is ignored.
func (b *Backfire) Update(throttle int, now Millis) bool {
	t := b.filter.Step(throttle)
	if Triggered(t, b.last) && !b.timer.Enabled() {
		b.timer.Arm(now, b.random(BackfireMaxInterval), b.random(BackfireMaxDuration), false)
	}
	b.last = t
	return b.timer.On(now)
}

// Phase returns the state of the current flash cycle at now.
func (b *Backfire) Phase(now Millis) Phase {
	return b.timer.Phase(now)
}

// CycleStart returns the instant the current flash cycle was triggered.
func (b *Backfire) CycleStart() Millis {
	return b.timer.Start()
}

func (b *Backfire) random(limit time.Duration) time.Duration {
	ms := int(limit / time.Millisecond)
	if ms <= 0 || b.rnd == nil {
		return 0
	}
	return time.Duration(b.rnd.Intn(ms)) * time.Millisecond
}
