package channel

import "fmt"

// Plausible pulse width range for a hobby receiver, in microseconds.
const (
	MinPulse = 500
	MaxPulse = 2500
)

// Endpoints are the calibrated reference pulse widths of a channel, in microseconds.
type Endpoints struct {
	Low    uint32 `json:"l"`
	Center uint32 `json:"c"`
	High   uint32 `json:"h"`
}

// Defaults are substituted for missing or implausible endpoints.
var Defaults = Endpoints{Low: 1000, Center: 1500, High: 2000}

func inRange(v uint32) bool {
	return v >= MinPulse && v <= MaxPulse
}

// Ordered reports whether Low < Center < High.
func (e Endpoints) Ordered() bool {
	return e.Low < e.Center && e.Center < e.High
}

// Valid reports whether every endpoint is in range and they are ordered.
func (e Endpoints) Valid() bool {
	return inRange(e.Low) && inRange(e.Center) && inRange(e.High) && e.Ordered()
}

// Sanitize replaces each out-of-range endpoint with its default. If the
// result is still not ordered, all three defaults are returned.
func (e Endpoints) Sanitize() Endpoints {
	if !inRange(e.Low) {
		e.Low = Defaults.Low
	}
	if !inRange(e.Center) {
		e.Center = Defaults.Center
	}
	if !inRange(e.High) {
		e.High = Defaults.High
	}
	if !e.Ordered() {
		return Defaults
	}
	return e
}

func (e Endpoints) String() string {
	return fmt.Sprintf("l=%d c=%d h=%d", e.Low, e.Center, e.High)
}
