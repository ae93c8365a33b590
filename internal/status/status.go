// Package status provides a thread-safe status tracker for the drift-lights daemon.
// It is written by the refresh loop and read by the diagnostic console.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/drift-lights/internal/channel"
	"github.com/sweeney/drift-lights/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	RefreshMs int64
	StorePath string
	Demo      bool
	Lights    logic.Config
}

// ChannelInfo is the state of one receiver channel after a poll.
type ChannelInfo struct {
	ID        channel.ID
	Enabled   bool
	Raw       uint32
	Value     int
	Endpoints channel.Endpoints
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and owns its slices; safe to use after the lock is released.
type Snapshot struct {
	Channels    []ChannelInfo
	Throttle    int
	Frame       logic.Frame
	Effects     logic.EffectState
	Calibrating bool
	Step        string
	Ticks       uint64
	StartTime   time.Time
	Now         time.Time
	Config      Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the channel values, the throttle that drove the lights, the
// frame that was shown and the effects' state. Called from runLoop on every tick.
func (t *Tracker) Update(chans []*channel.Channel, throttle int, f logic.Frame, fx logic.EffectState) {
	infos := make([]ChannelInfo, len(chans))
	for i, c := range chans {
		infos[i] = ChannelInfo{
			ID:        c.ID(),
			Enabled:   c.Enabled(),
			Raw:       c.Raw(),
			Value:     c.Value(),
			Endpoints: c.Endpoints(),
		}
	}
	f = f.Clone()

	t.mu.Lock()
	t.snap.Channels = infos
	t.snap.Throttle = throttle
	t.snap.Frame = f
	t.snap.Effects = fx
	t.snap.Ticks++
	t.mu.Unlock()
}

// SetCalibration records whether a calibration is running and which step it is on.
func (t *Tracker) SetCalibration(active bool, step string) {
	t.mu.Lock()
	t.snap.Calibrating = active
	t.snap.Step = step
	if !active {
		t.snap.Step = ""
	}
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	// Update replaces these slices rather than writing into them, so sharing
	// the backing arrays with the tracker is safe.
	s.Now = time.Now()
	return s
}
