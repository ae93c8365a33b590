package logic

import "time"

// Headlight drives the headlights and the hazard lights.
//
// The headlights run at full beam while the throttle is active. After
// dimTimeout of idle throttle they dim and the hazard lights start blinking;
// the next active tick restores full beam and stops the hazards.
type Headlight struct {
	filter     *Filter
	hazard     Timer
	dimTimeout time.Duration

	started    bool
	idleStart  Millis
	lastTarget int
}

// NewHeadlight creates a headlight effect. A negative dimTimeout disables dimming.
func NewHeadlight(dimTimeout time.Duration) *Headlight {
	return &Headlight{
		filter:     NewFilter(HeadSmoothing),
		dimTimeout: dimTimeout,
	}
}

// Target returns the intensity the headlights are heading for at now and
// updates the idle anchor and hazard schedule accordingly.
func (h *Headlight) Target(throttle int, now Millis) int {
	if !h.started {
		h.started = true
		h.idleStart = now
	}

	if abs(throttle) >= HeadlightDeadband || h.dimTimeout < 0 {
		h.idleStart = now
		h.hazard.Disarm()
		return HeadLightMax
	}

	if now.Since(h.idleStart) >= h.dimTimeout {
		// Keep the anchor exactly one timeout behind so it never falls far
		// enough back to wrap.
		h.idleStart = now.Add(-h.dimTimeout)
		h.hazard.Arm(now, HazardOff, HazardOn, true)
		return HeadLightMid
	}
	return HeadLightMax
}

// Update computes the headlight intensity and hazard output for this tick.
func (h *Headlight) Update(throttle int, now Millis) (intensity uint8, hazard bool) {
	target := h.Target(throttle, now)

	if target > h.lastTarget {
		// Punch up: jump the filter to full and overshoot the target so the
		// lights come back without a visible fade-in.
		h.filter.Reset(255)
		target = int((float64(target)*1.2 + float64(h.lastTarget)) / 2)
	} else {
		h.filter.Step(target)
	}
	h.lastTarget = target

	return uint8(Clamp(h.filter.Value(), 0, 255)), h.hazard.On(now)
}

// HazardArmed reports whether the hazard blink schedule is running.
func (h *Headlight) HazardArmed() bool {
	return h.hazard.Enabled()
}
