package logic

import (
	"image/color"
	"testing"
)

func countColor(px []color.RGBA, c color.RGBA) int {
	n := 0
	for _, p := range px {
		if p == c {
			n++
		}
	}
	return n
}

func TestDecelRenderIdleIndicator(t *testing.T) {
	d := NewDecel(8, false)
	d.Render(0)

	want := []color.RGBA{Black, Black, Black, Black, Black, DecelBlue, DecelBlue, DecelBlue}
	for i, px := range d.Pixels() {
		if px != want[i] {
			t.Errorf("pixel %d: expected %v, got %v", i, want[i], px)
		}
	}
}

func TestDecelRenderIdleIndicatorReversed(t *testing.T) {
	d := NewDecel(8, true)
	d.Render(DecelNullThresh - 1)

	want := []color.RGBA{DecelBlue, DecelBlue, DecelBlue, Black, Black, Black, Black, Black}
	for i, px := range d.Pixels() {
		if px != want[i] {
			t.Errorf("pixel %d: expected %v, got %v", i, want[i], px)
		}
	}
}

func TestDecelRenderFullThrottle(t *testing.T) {
	d := NewDecel(8, true)
	d.Render(100)
	if n := countColor(d.Pixels(), DecelGreen); n != 8 {
		t.Errorf("expected all 8 pixels green, got %d", n)
	}
}

func TestDecelRenderPartialThrottle(t *testing.T) {
	d := NewDecel(8, false)
	// ceil((55-10)/90*8) = ceil(4) = 4
	d.Render(55)
	want := []color.RGBA{DecelGreen, DecelGreen, DecelGreen, DecelGreen, Black, Black, Black, Black}
	for i, px := range d.Pixels() {
		if px != want[i] {
			t.Errorf("pixel %d: expected %v, got %v", i, want[i], px)
		}
	}
}

func TestDecelRenderHardBrake(t *testing.T) {
	d := NewDecel(8, false)
	d.Render(DecelBrakeThresh - 1)
	if n := countColor(d.Pixels(), DecelRed); n != 8 {
		t.Errorf("expected all 8 pixels red, got %d", n)
	}
}

func TestDecelRenderSoftBrake(t *testing.T) {
	d := NewDecel(8, false)
	// ceil(-30/-100*8) = ceil(2.4) = 3, counted from the far end
	d.Render(-30)
	want := []color.RGBA{Black, Black, Black, Black, Black, DecelYellow, DecelYellow, DecelYellow}
	for i, px := range d.Pixels() {
		if px != want[i] {
			t.Errorf("pixel %d: expected %v, got %v", i, want[i], px)
		}
	}
}

func TestDecelRenderClearsStalePixels(t *testing.T) {
	d := NewDecel(8, false)
	d.Render(-100)
	d.Render(20)
	if n := countColor(d.Pixels(), DecelRed); n != 0 {
		t.Errorf("expected no stale red pixels, got %d", n)
	}
	// ceil((20-10)/90*8) = ceil(0.89) = 1
	if n := countColor(d.Pixels(), DecelGreen); n != 1 {
		t.Errorf("expected 1 green pixel, got %d", n)
	}
}

func TestDecelRateLimited(t *testing.T) {
	d := NewDecel(8, false)
	if !d.Update(0, 1000) {
		t.Fatal("first update should render")
	}
	if d.Update(-100, 1000+Millis(DecelUpdateRate.Milliseconds())-1) {
		t.Error("update within the rate limit should not render")
	}
	if countColor(d.Pixels(), DecelBlue) != 3 {
		t.Error("strip should keep the previous render between updates")
	}
	if !d.Update(-100, 1000+Millis(DecelUpdateRate.Milliseconds())) {
		t.Error("update after the rate limit should render")
	}
}

func TestDecelRateLimitAcrossWrap(t *testing.T) {
	d := NewDecel(8, false)
	start := Millis(0xFFFFFFFF - 9)
	d.Update(0, start)
	if d.Update(0, start+20) {
		t.Error("expected rate limit to hold across the wrap")
	}
	if !d.Update(0, start+50) {
		t.Error("expected render 50ms after start across the wrap")
	}
}

func TestDecelFastFallSlowRise(t *testing.T) {
	d := NewDecel(8, false)
	for now := Millis(0); now < 2000; now += tick {
		d.Update(0, now)
	}

	// Rising: the slower (up) filter wins.
	d.Update(100, 2000)
	rise := d.Effective()
	up := NewFilter(DecelSmoothingUp)
	if want := up.Step(100); rise != want {
		t.Errorf("rising: expected effective %d from up filter, got %d", want, rise)
	}

	// Settle high, then brake: the faster (down) filter wins.
	for now := Millis(2050); now < 4000; now += tick {
		d.Update(100, now)
	}
	d.Update(-100, 4000)
	// down filter: (100*1 + -100)/2 = 0; up filter: (100*2 + -100)/3 = 33
	if got := d.Effective(); got != 0 {
		t.Errorf("falling: expected effective 0 from down filter, got %d", got)
	}
}
