package logic

// Lights runs the four light effects from one throttle value per tick.
type Lights struct {
	Headlight *Headlight
	Brake     *Brake
	Decel     *Decel
	Backfire  *Backfire
}

// NewLights builds the effects for cfg.
func NewLights(cfg Config, rnd Random) *Lights {
	return &Lights{
		Headlight: NewHeadlight(cfg.HeadlightDimTimeout),
		Brake:     NewBrake(cfg.BrakePixels, cfg.BrakeAsTail),
		Decel:     NewDecel(cfg.DecelPixels, cfg.DecelReverse),
		Backfire:  NewBackfire(rnd),
	}
}

// Update advances every effect and returns the resulting frame.
// The strip slices in the frame are owned by the effects and are overwritten
// by the next Update; use Frame.Clone to keep them.
func (l *Lights) Update(throttle int, now Millis) Frame {
	var f Frame
	f.Headlight, f.Hazard = l.Headlight.Update(throttle, now)
	f.Brake = l.Brake.Update(throttle)
	l.Decel.Update(throttle, now)
	f.Backfire = l.Backfire.Update(throttle, now)
	f.Decel = l.Decel.Pixels()
	f.BrakeStrip = l.Brake.Strip()
	return f
}

// DemoThrottle returns a synthetic throttle: full for the first 5 s of every
// 20 s, idle otherwise. Used to exercise the lights without a receiver.
func DemoThrottle(now Millis) int {
	if (uint32(now)/1000)%20 < 5 {
		return 100
	}
	return 0
}

// EffectState is the internal state of the effects, for diagnostics.
type EffectState struct {
	DecelEffective int
	HazardArmed    bool
	Backfire       Phase
	BackfireStart  Millis
}

// State reports the effects' internal state at now.
func (l *Lights) State(now Millis) EffectState {
	return EffectState{
		DecelEffective: l.Decel.Effective(),
		HazardArmed:    l.Headlight.HazardArmed(),
		Backfire:       l.Backfire.Phase(now),
		BackfireStart:  l.Backfire.CycleStart(),
	}
}
