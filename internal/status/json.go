package status

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/drift-lights/internal/channel"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Throttle      int           `json:"throttle"`
	Calibrating   bool          `json:"calibrating"`
	Step          string        `json:"step,omitempty"`
	Ticks         uint64        `json:"ticks"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	Channels      []ChannelJSON `json:"channels"`
	Lights        LightsJSON    `json:"lights"`
	Effects       EffectsJSON   `json:"effects"`
	Config        ConfigJSON    `json:"config"`
}

// ChannelJSON is the JSON representation of one channel.
type ChannelJSON struct {
	Name      string            `json:"name"`
	Enabled   bool              `json:"enabled"`
	Raw       uint32            `json:"raw"`
	Value     int               `json:"value"`
	Endpoints channel.Endpoints `json:"endpoints"`
}

// LightsJSON is the JSON representation of the last shown frame.
type LightsJSON struct {
	Headlight  uint8    `json:"headlight"`
	Brake      uint8    `json:"brake"`
	Hazard     bool     `json:"hazard"`
	Backfire   bool     `json:"backfire"`
	Decel      []string `json:"decel"`
	BrakeStrip []string `json:"brake_strip"`
}

// EffectsJSON is the JSON representation of the effects' internal state.
type EffectsJSON struct {
	DecelEffective  int    `json:"decel_effective"`
	HazardArmed     bool   `json:"hazard_armed"`
	Backfire        string `json:"backfire"`
	BackfireStartMs uint32 `json:"backfire_start_ms"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	RefreshMs     int64  `json:"refresh_ms"`
	StorePath     string `json:"store_path"`
	Demo          bool   `json:"demo,omitempty"`
	DecelPixels   int    `json:"decel_pixels"`
	DecelReverse  bool   `json:"decel_reverse"`
	BrakePixels   int    `json:"brake_pixels"`
	BrakeAsTail   bool   `json:"brake_as_tail"`
	HeadlightDimS int64  `json:"headlight_dim_seconds"`
}

// FormatJSON returns the JSON status of snap on a single line, as logged on
// shutdown and at the highest verbosity.
func FormatJSON(snap Snapshot) []byte {
	inner := StatusInner{
		Throttle:      snap.Throttle,
		Calibrating:   snap.Calibrating,
		Step:          snap.Step,
		Ticks:         snap.Ticks,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Channels:      make([]ChannelJSON, 0, len(snap.Channels)),
		Lights: LightsJSON{
			Headlight:  snap.Frame.Headlight,
			Brake:      snap.Frame.Brake,
			Hazard:     snap.Frame.Hazard,
			Backfire:   snap.Frame.Backfire,
			Decel:      hexColors(snap.Frame.Decel),
			BrakeStrip: hexColors(snap.Frame.BrakeStrip),
		},
		Effects: EffectsJSON{
			DecelEffective:  snap.Effects.DecelEffective,
			HazardArmed:     snap.Effects.HazardArmed,
			Backfire:        snap.Effects.Backfire.String(),
			BackfireStartMs: uint32(snap.Effects.BackfireStart),
		},
		Config: ConfigJSON{
			RefreshMs:     snap.Config.RefreshMs,
			StorePath:     snap.Config.StorePath,
			Demo:          snap.Config.Demo,
			DecelPixels:   snap.Config.Lights.DecelPixels,
			DecelReverse:  snap.Config.Lights.DecelReverse,
			BrakePixels:   snap.Config.Lights.BrakePixels,
			BrakeAsTail:   snap.Config.Lights.BrakeAsTail,
			HeadlightDimS: int64(snap.Config.Lights.HeadlightDimTimeout / time.Second),
		},
	}
	for _, c := range snap.Channels {
		inner.Channels = append(inner.Channels, ChannelJSON{
			Name:      c.ID.String(),
			Enabled:   c.Enabled,
			Raw:       c.Raw,
			Value:     c.Value,
			Endpoints: c.Endpoints,
		})
	}

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

// FormatEndpoints returns the indented JSON of stored endpoints keyed by
// channel name, as printed by -print-state.
func FormatEndpoints(eps map[channel.ID]channel.Endpoints) []byte {
	out := make(map[string]channel.Endpoints, len(eps))
	for id, ep := range eps {
		out[id.String()] = ep
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return data
}

// FormatChannels returns a one-line debug summary of every enabled channel.
func FormatChannels(chans []ChannelInfo) string {
	var b strings.Builder
	for _, c := range chans {
		if !c.Enabled {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%d(%d)", c.ID, c.Value, c.Raw)
	}
	return b.String()
}
