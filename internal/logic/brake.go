package logic

import "image/color"

// Brake drives the brake lights and the auxiliary brake strip.
type Brake struct {
	filter *Filter
	asTail bool
	strip  []color.RGBA
}

// NewBrake creates a brake effect with a strip of the given length.
// With asTail set, the brake lights stay dimmed as tail lights when not braking.
func NewBrake(pixels int, asTail bool) *Brake {
	return &Brake{
		filter: NewFilter(BrakeSmoothing),
		asTail: asTail,
		strip:  make([]color.RGBA, pixels),
	}
}

// Update computes the brake light intensity and refreshes the strip.
func (b *Brake) Update(throttle int) uint8 {
	target := 0
	if throttle < BrakeThresh {
		target = BrakeLightMax
		fill(b.strip, BrakeRed)
	} else {
		if b.asTail {
			target = BrakeLightMid
		}
		fill(b.strip, Black)
	}
	return uint8(Clamp(b.filter.Step(target), 0, 255))
}

// Strip returns the auxiliary strip pixels. The slice is reused every tick.
func (b *Brake) Strip() []color.RGBA {
	return b.strip
}

func fill(px []color.RGBA, c color.RGBA) {
	for i := range px {
		px[i] = c
	}
}
