package status

import (
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"
)

// ANSI control sequences for the virtual lights view.
const (
	ansiHome  = "\x1b[H"
	ansiClear = "\x1b[2J"
	ansiReset = "\x1b[0m"
	block     = "██"
)

// Render draws the lights of snap as one block of ANSI-coloured text.
func Render(snap Snapshot) string {
	var b strings.Builder
	b.WriteString(ansiHome)

	f := snap.Frame
	fmt.Fprintf(&b, "head  %s %3d", swatch(gray(f.Headlight)), f.Headlight)
	if snap.Effects.HazardArmed {
		b.WriteString("  hazard")
	}
	b.WriteString("\x1b[K\n")
	fmt.Fprintf(&b, "brake %s %3d\x1b[K\n", swatch(red(f.Brake)), f.Brake)
	fmt.Fprintf(&b, "fire  %s %s\x1b[K\n", swatch(onOff(f.Backfire, color.RGBA{R: 0xff, G: 0x60, A: 0xff})), snap.Effects.Backfire)
	fmt.Fprintf(&b, "decel %s %4d\x1b[K\n", strip(f.Decel), snap.Effects.DecelEffective)
	fmt.Fprintf(&b, "strip %s\x1b[K\n", strip(f.BrakeStrip))

	if snap.Calibrating {
		fmt.Fprintf(&b, "calibrating %s\x1b[K\n", snap.Step)
	} else {
		fmt.Fprintf(&b, "throttle %4d  %s\x1b[K\n", snap.Throttle, FormatChannels(snap.Channels))
	}
	return b.String()
}

func swatch(c color.RGBA) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s%s", c.R, c.G, c.B, block, ansiReset)
}

func strip(px []color.RGBA) string {
	var b strings.Builder
	for _, c := range px {
		b.WriteString(swatch(c))
	}
	return b.String()
}

func gray(v uint8) color.RGBA { return color.RGBA{R: v, G: v, B: v, A: 0xff} }
func red(v uint8) color.RGBA { return color.RGBA{R: v, A: 0xff} }

func onOff(on bool, c color.RGBA) color.RGBA {
	if on {
		return c
	}
	return color.RGBA{A: 0xff}
}

func hexColors(px []color.RGBA) []string {
	out := make([]string, len(px))
	for i, c := range px {
		out[i] = fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	}
	return out
}

// Console periodically redraws the virtual lights from a Tracker.
type Console struct {
	tracker  *Tracker
	out      io.Writer
	interval time.Duration
}

// NewConsole creates a Console writing to out every interval.
func NewConsole(tracker *Tracker, out io.Writer, interval time.Duration) *Console {
	return &Console{tracker: tracker, out: out, interval: interval}
}

// Draw writes one view of the current snapshot.
func (c *Console) Draw() error {
	_, err := io.WriteString(c.out, Render(c.tracker.Snapshot()))
	return err
}

// Run redraws until stop is closed. It runs on its own goroutine so a slow
// terminal never delays the refresh loop.
func (c *Console) Run(stop <-chan struct{}) {
	io.WriteString(c.out, ansiClear)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.Draw(); err != nil {
				return
			}
		}
	}
}
