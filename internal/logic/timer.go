package logic

import "time"

// Phase is the state of a Timer at a given instant.
type Phase int

const (
	PhaseIdle    Phase = iota // not armed
	PhaseWaiting              // armed, delay not yet elapsed
	PhaseActive               // output on
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "WAITING"
	case PhaseActive:
		return "ACTIVE"
	default:
		return "IDLE"
	}
}

// Timer is a blink schedule anchored at the instant it was armed: the output
// is off for Delay, then on for Duration. A one-shot timer disarms itself at
// the end of that cycle; a periodic timer repeats it until disarmed.
//
// Arming an enabled timer is a no-op, so a trigger that keeps firing never
// restarts or stretches a cycle that is already running.
type Timer struct {
	enabled  bool
	periodic bool
	start    Millis
	delay    time.Duration
	duration time.Duration
}

// Arm starts a cycle at now unless one is already running.
// It reports whether the timer was armed by this call.
func (t *Timer) Arm(now Millis, delay, duration time.Duration, periodic bool) bool {
	if t.enabled {
		return false
	}
	t.enabled = true
	t.periodic = periodic
	t.start = now
	t.delay = delay
	t.duration = duration
	return true
}

// Disarm stops the timer immediately.
func (t *Timer) Disarm() {
	t.enabled = false
}

// Enabled reports whether a cycle is running.
func (t *Timer) Enabled() bool {
	return t.enabled
}

// Start returns the instant the current cycle was armed.
func (t *Timer) Start() Millis {
	return t.start
}

// Phase advances the timer to now and returns its phase.
func (t *Timer) Phase(now Millis) Phase {
	if !t.enabled {
		return PhaseIdle
	}
	elapsed := now.Since(t.start)
	cycle := t.delay + t.duration
	if t.periodic {
		if cycle <= 0 {
			return PhaseActive
		}
		elapsed %= cycle
	} else if elapsed >= cycle {
		t.enabled = false
		return PhaseIdle
	}
	if elapsed >= t.delay {
		return PhaseActive
	}
	return PhaseWaiting
}

// On advances the timer to now and reports whether the output is on.
func (t *Timer) On(now Millis) bool {
	return t.Phase(now) == PhaseActive
}
