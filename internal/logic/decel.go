package logic

import (
	"image/color"
	"math"
)

// Decel renders the throttle as a bar graph on the decel strip.
//
// The throttle is smoothed twice, once for rising and once for falling input,
// and the lower of the two is shown, so the bar drops quickly on braking but
// climbs gently on acceleration.
type Decel struct {
	up, down *Filter
	reverse  bool
	pixels   []color.RGBA

	rendered   bool
	lastUpdate Millis
	effective  int
}

// NewDecel creates a decel bar graph for a strip of the given length.
func NewDecel(pixels int, reverse bool) *Decel {
	return &Decel{
		up:      NewFilter(DecelSmoothingUp),
		down:    NewFilter(DecelSmoothingDown),
		reverse: reverse,
		pixels:  make([]color.RGBA, pixels),
	}
}

// Update steps both filters and, at most once per DecelUpdateRate, redraws
// the strip. It reports whether the strip was redrawn.
func (d *Decel) Update(throttle int, now Millis) bool {
	fast := d.down.Step(throttle)
	eff := d.up.Step(throttle)
	if fast < eff {
		eff = fast
	}
	d.effective = eff

	if d.rendered && now.Since(d.lastUpdate) < DecelUpdateRate {
		return false
	}
	d.rendered = true
	d.lastUpdate = now
	d.Render(eff)
	return true
}

// Effective returns the smoothed throttle used by the last Update.
func (d *Decel) Effective() int {
	return d.effective
}

// Render draws the bar for an effective throttle value.
func (d *Decel) Render(eff int) {
	n := len(d.pixels)
	fill(d.pixels, Black)

	switch {
	case abs(eff) < DecelNullThresh:
		bar := int(math.Round(float64(n) / 3))
		for i := 1; i <= bar; i++ {
			d.set(n-i, DecelBlue)
		}
	case eff >= 0:
		bar := int(math.Ceil(float64(eff-DecelNullThresh) / (100 - DecelNullThresh) * float64(n)))
		for i := 0; i < bar && i < n; i++ {
			d.set(i, DecelGreen)
		}
	case eff < DecelBrakeThresh:
		for i := 0; i < n; i++ {
			d.set(i, DecelRed)
		}
	default:
		bar := int(math.Ceil(float64(eff) / -100 * float64(n)))
		for i := 1; i <= bar && i <= n; i++ {
			d.set(n-i, DecelYellow)
		}
	}
}

// Pixels returns the strip pixels. The slice is reused every tick.
func (d *Decel) Pixels() []color.RGBA {
	return d.pixels
}

func (d *Decel) set(i int, c color.RGBA) {
	if d.reverse {
		i = len(d.pixels) - i - 1
	}
	d.pixels[i] = c
}
