package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/drift-lights/internal/calibrate"
	"github.com/sweeney/drift-lights/internal/channel"
	"github.com/sweeney/drift-lights/internal/gpio"
	"github.com/sweeney/drift-lights/internal/logic"
	"github.com/sweeney/drift-lights/internal/output"
	"github.com/sweeney/drift-lights/internal/status"
	"github.com/sweeney/drift-lights/internal/store"
)

type loopHarness struct {
	buttons *gpio.FakeReader
	sink    *output.FakeSink
	st      *store.Fake
	bank    *channel.Bank
	rx      *gpio.FakeCapture
	lights  *logic.Lights
	cal     *calibrate.Calibrator
	tracker *status.Tracker

	tick chan time.Time
	sig  chan os.Signal
	done chan error
	now  logic.Millis
}

type noRandom struct{}

func (noRandom) Intn(n int) int { return 0 }

func newLoop(t *testing.T, samples []gpio.Sample, demo bool) *loopHarness {
	t.Helper()
	return newVerboseLoop(t, samples, demo, 0)
}

func newVerboseLoop(t *testing.T, samples []gpio.Sample, demo bool, verbose int) *loopHarness {
	t.Helper()
	h := &loopHarness{
		buttons: gpio.NewFakeReader(samples),
		sink:    output.NewFakeSink(),
		st:      store.NewFake(),
		tick:    make(chan time.Time),
		sig:     make(chan os.Signal, 1),
		done:    make(chan error, 1),
		now:     1000,
	}
	h.bank = channel.NewBank([channel.NumChannels]int{-1, 17, -1, -1}, h.st)
	h.rx = gpio.NewFakeCapture(h.bank.Channel(channel.Throttle))
	h.lights = logic.NewLights(logic.DefaultConfig(), noRandom{})
	h.cal = calibrate.New(h.bank, channel.Throttle, h.st, 0)
	h.tracker = status.NewTracker(time.Now(), status.Config{})

	// now is only called from the loop goroutine.
	clock := h.now
	now := func() logic.Millis {
		t := clock
		clock += 50
		return t
	}
	go func() {
		h.done <- runLoop(h.buttons, h.sink, h.bank, h.lights, h.cal, h.tracker, demo, verbose, now, h.tick, h.sig)
	}()
	return h
}

func (h *loopHarness) ticks(n int) {
	for i := 0; i < n; i++ {
		h.tick <- time.Time{}
	}
}

func (h *loopHarness) stop(t *testing.T) {
	t.Helper()
	h.sig <- syscall.SIGTERM
	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("runLoop returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runLoop did not stop on signal")
	}
}

func TestRunLoopStopsOnSignal(t *testing.T) {
	h := newLoop(t, []gpio.Sample{{}}, false)
	h.stop(t)
	if len(h.sink.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(h.sink.Frames))
	}
}

func TestRunLoopShowsFramePerTick(t *testing.T) {
	h := newLoop(t, []gpio.Sample{{}}, false)
	h.ticks(5)
	h.stop(t)

	if len(h.sink.Frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(h.sink.Frames))
	}
	last := h.sink.Last()
	if last.Headlight == 0 {
		t.Error("expected headlight to come up at idle throttle")
	}
	if len(last.Decel) != 8 || len(last.BrakeStrip) != 16 {
		t.Errorf("unexpected strip sizes %d/%d", len(last.Decel), len(last.BrakeStrip))
	}
	if got := h.tracker.Snapshot().Ticks; got != 5 {
		t.Errorf("tracker ticks: got %d, want 5", got)
	}
}

func TestRunLoopBrakeFromThrottle(t *testing.T) {
	h := newLoop(t, []gpio.Sample{{}}, false)
	// Full reverse on default endpoints.
	h.rx.Pulse(1000 * time.Microsecond)
	h.ticks(20)
	h.stop(t)

	last := h.sink.Last()
	if last.Brake < 250 {
		t.Errorf("expected brake near full, got %d", last.Brake)
	}
	if last.BrakeStrip[0] != logic.BrakeRed {
		t.Errorf("expected brake strip lit, got %v", last.BrakeStrip[0])
	}
	if got := h.tracker.Snapshot().Throttle; got != -100 {
		t.Errorf("tracked throttle: got %d, want -100", got)
	}
}

func TestRunLoopDemoThrottle(t *testing.T) {
	h := newLoop(t, []gpio.Sample{{}}, true)
	h.rx.Pulse(1000 * time.Microsecond)
	h.ticks(3)
	h.stop(t)

	// The clock starts inside the first 5 s of the demo cycle.
	if got := h.tracker.Snapshot().Throttle; got != 100 {
		t.Errorf("demo throttle: got %d, want 100", got)
	}
}

func TestRunLoopFreezesLightsWhileCalibrating(t *testing.T) {
	hold := int(calibrate.HoldTime / (50 * time.Millisecond))
	samples := make([]gpio.Sample, 0, hold+10)
	for i := 0; i <= hold; i++ {
		samples = append(samples, gpio.Sample{Cal: true})
	}
	samples = append(samples, gpio.Sample{}) // released, waiting for the low endpoint

	h := newLoop(t, samples, false)
	h.ticks(hold)
	h.ticks(5)
	h.stop(t)

	if len(h.sink.Frames) != hold {
		t.Errorf("expected %d frames before calibration, got %d", hold, len(h.sink.Frames))
	}
	if len(h.sink.Status) != 5 {
		t.Errorf("expected 5 status updates while calibrating, got %d", len(h.sink.Status))
	}
	snap := h.tracker.Snapshot()
	if !snap.Calibrating || snap.Step != "EP_L" {
		t.Errorf("tracker: calibrating=%v step=%q", snap.Calibrating, snap.Step)
	}
}

func TestRunLoopButtonErrorKeepsRunning(t *testing.T) {
	h := newLoop(t, []gpio.Sample{{}}, false)
	h.buttons.ReadError = errors.New("line gone")
	h.ticks(3)
	h.stop(t)

	if len(h.sink.Frames) != 3 {
		t.Errorf("expected lights to keep running, got %d frames", len(h.sink.Frames))
	}
}

func TestRunLoopOutputErrorKeepsRunning(t *testing.T) {
	h := newLoop(t, []gpio.Sample{{}}, false)
	h.sink.ShowError = errors.New("spi busy")
	h.ticks(3)
	h.stop(t)

	if got := h.tracker.Snapshot().Ticks; got != 3 {
		t.Errorf("expected 3 ticks, got %d", got)
	}
}

func TestPrintState(t *testing.T) {
	st := store.NewFile(filepath.Join(t.TempDir(), "endpoints.json"))
	if err := st.Save(channel.Throttle, channel.Endpoints{Low: 1100, Center: 1520, High: 1900}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printState(st, &buf); err != nil {
		t.Fatalf("printState: %v", err)
	}

	var got map[string]channel.Endpoints
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if len(got) != int(channel.NumChannels) {
		t.Errorf("expected %d channels, got %d", channel.NumChannels, len(got))
	}
	if want := (channel.Endpoints{Low: 1100, Center: 1520, High: 1900}); got["throttle"] != want {
		t.Errorf("throttle: got %s, want %s", got["throttle"], want)
	}
	if got["steer"] != channel.Defaults {
		t.Errorf("steer: got %s, want defaults", got["steer"])
	}
}

func TestPrintStateLoadError(t *testing.T) {
	st := store.NewFake()
	st.LoadError = errors.New("disk")
	if err := printState(st, &bytes.Buffer{}); !errors.Is(err, st.LoadError) {
		t.Errorf("expected load error, got %v", err)
	}
}

// captureLog redirects the standard logger to a buffer for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

// statusLines returns the decoded JSON of every "status: " log line.
func statusLines(t *testing.T, logs string) []status.StatusJSON {
	t.Helper()
	var out []status.StatusJSON
	for _, line := range strings.Split(logs, "\n") {
		i := strings.Index(line, "status: ")
		if i < 0 {
			continue
		}
		var s status.StatusJSON
		if err := json.Unmarshal([]byte(line[i+len("status: "):]), &s); err != nil {
			t.Fatalf("invalid status line %q: %v", line, err)
		}
		out = append(out, s)
	}
	return out
}

func TestRunLoopLogsStatusOnShutdown(t *testing.T) {
	logs := captureLog(t)
	h := newLoop(t, []gpio.Sample{{}}, false)
	h.rx.Pulse(2000 * time.Microsecond)
	h.ticks(3)
	h.stop(t)

	lines := statusLines(t, logs.String())
	if len(lines) != 1 {
		t.Fatalf("expected one status line at shutdown, got %d", len(lines))
	}
	s := lines[0].Status
	if s.Ticks != 3 || s.Throttle != 100 {
		t.Errorf("unexpected final status ticks=%d throttle=%d", s.Ticks, s.Throttle)
	}
	if len(s.Channels) != int(channel.NumChannels) || s.Channels[channel.Throttle].Raw != 2000 {
		t.Errorf("unexpected channels %+v", s.Channels)
	}
}

func TestRunLoopLogsStatusPerTickWhenVerbose(t *testing.T) {
	logs := captureLog(t)
	h := newVerboseLoop(t, []gpio.Sample{{}}, false, verboseJSON)
	h.ticks(4)
	h.stop(t)

	lines := statusLines(t, logs.String())
	// One per tick plus the shutdown line.
	if len(lines) != 5 {
		t.Fatalf("expected 5 status lines, got %d", len(lines))
	}
	for i, l := range lines[:4] {
		if l.Status.Ticks != uint64(i+1) {
			t.Errorf("line %d: ticks %d", i, l.Status.Ticks)
		}
		if l.Status.Effects.Backfire != "IDLE" {
			t.Errorf("line %d: backfire %q at neutral throttle", i, l.Status.Effects.Backfire)
		}
	}
	if !strings.Contains(logs.String(), "throttle=0(1500)") {
		t.Error("expected per-tick channel summary")
	}
}

func TestRunLoopTracksEffects(t *testing.T) {
	h := newLoop(t, []gpio.Sample{{}}, false)
	h.rx.Pulse(2000 * time.Microsecond)
	h.ticks(40)
	h.stop(t)

	fx := h.tracker.Snapshot().Effects
	if fx.DecelEffective != 100 {
		t.Errorf("decel effective: got %d, want 100", fx.DecelEffective)
	}
	if fx.HazardArmed {
		t.Error("hazard armed under full throttle")
	}
}

func TestValidate(t *testing.T) {
	good := config{refresh: 50 * time.Millisecond, lights: logic.DefaultConfig()}
	good.inputs[channel.Throttle] = 17
	if err := validate(good); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	tests := []struct {
		name string
		mod  func(*config)
	}{
		{"zero refresh", func(c *config) { c.refresh = 0 }},
		{"negative refresh", func(c *config) { c.refresh = -time.Second }},
		{"negative decel pixels", func(c *config) { c.lights.DecelPixels = -1 }},
		{"negative brake pixels", func(c *config) { c.lights.BrakePixels = -8 }},
		{"no throttle input", func(c *config) { c.inputs[channel.Throttle] = -1 }},
	}
	for _, tt := range tests {
		cfg := good
		tt.mod(&cfg)
		if err := validate(cfg); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	demo := good
	demo.inputs[channel.Throttle] = -1
	demo.demo = true
	if err := validate(demo); err != nil {
		t.Errorf("demo without throttle input rejected: %v", err)
	}

	empty := good
	empty.lights.DecelPixels = 0
	empty.lights.BrakePixels = 0
	if err := validate(empty); err != nil {
		t.Errorf("zero-length strips rejected: %v", err)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := config{refresh: 0, lights: logic.DefaultConfig()}
	err := run(cfg)
	if err == nil || !strings.Contains(err.Error(), "refresh") {
		t.Errorf("expected refresh error before touching hardware, got %v", err)
	}
}
