// Command drift-lights reads the throttle channel of an RC receiver and
// drives the headlight, brake, decel bar and backfire effects from it.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/drift-lights/internal/calibrate"
	"github.com/sweeney/drift-lights/internal/channel"
	"github.com/sweeney/drift-lights/internal/gpio"
	"github.com/sweeney/drift-lights/internal/logic"
	"github.com/sweeney/drift-lights/internal/output"
	"github.com/sweeney/drift-lights/internal/status"
	"github.com/sweeney/drift-lights/internal/store"
)

// consoleInterval is how often the virtual lights are redrawn at verbosity 0.
const consoleInterval = 100 * time.Millisecond

// Verbosity levels.
const (
	verboseChannels = 4 // one channel summary line per tick
	verboseJSON     = 5 // full JSON status per tick
)

type config struct {
	refresh    time.Duration
	storePath  string
	chip       string
	inputs     [channel.NumChannels]int
	pinCal     int
	pinClear   int
	outputs    output.Pins
	lights     logic.Config
	verbose    int
	printState bool
	demo       bool
}

func main() {
	cfg := config{lights: logic.DefaultConfig()}

	flag.DurationVar(&cfg.refresh, "refresh", 50*time.Millisecond, "Light refresh interval")
	flag.StringVar(&cfg.storePath, "store", store.DefaultPath, "Calibration endpoint file")
	flag.StringVar(&cfg.chip, "chip", gpio.DefaultChip, "GPIO chip for inputs")
	flag.IntVar(&cfg.inputs[channel.Steer], "pin-steer", -1, "BCM pin for the steering channel (-1 to disable)")
	flag.IntVar(&cfg.inputs[channel.Throttle], "pin-throttle", gpio.DefaultPinThrot, "BCM pin for the throttle channel (-1 to disable)")
	flag.IntVar(&cfg.inputs[channel.Aux1], "pin-aux1", -1, "BCM pin for aux channel 1 (-1 to disable)")
	flag.IntVar(&cfg.inputs[channel.Aux2], "pin-aux2", -1, "BCM pin for aux channel 2 (-1 to disable)")
	flag.IntVar(&cfg.pinCal, "pin-cal", gpio.DefaultPinCal, "BCM pin for the calibration button")
	flag.IntVar(&cfg.pinClear, "pin-clear", gpio.DefaultPinClear, "BCM pin for the clear button")
	flag.IntVar(&cfg.outputs.Head, "pin-head", output.DefaultPins.Head, "BCM PWM pin for the headlight (-1 to disable)")
	flag.IntVar(&cfg.outputs.Brake, "pin-brake", output.DefaultPins.Brake, "BCM PWM pin for the brake light (-1 to disable)")
	flag.IntVar(&cfg.outputs.Hazard, "pin-hazard", output.DefaultPins.Hazard, "BCM pin for the hazard light (-1 to disable)")
	flag.IntVar(&cfg.outputs.Backfire, "pin-backfire", output.DefaultPins.Backfire, "BCM pin for the backfire light (-1 to disable)")
	flag.IntVar(&cfg.outputs.Status, "pin-status", output.DefaultPins.Status, "BCM pin for the status light (-1 to disable)")
	flag.IntVar(&cfg.lights.DecelPixels, "decel-pixels", cfg.lights.DecelPixels, "Number of decel bar pixels (0 to disable)")
	flag.BoolVar(&cfg.lights.DecelReverse, "decel-reverse", cfg.lights.DecelReverse, "Mount the decel bar reversed")
	flag.IntVar(&cfg.lights.BrakePixels, "brake-pixels", cfg.lights.BrakePixels, "Number of brake strip pixels (0 to disable)")
	flag.BoolVar(&cfg.lights.BrakeAsTail, "brake-as-tail", cfg.lights.BrakeAsTail, "Keep the brake light dimly lit as a tail light")
	flag.DurationVar(&cfg.lights.HeadlightDimTimeout, "headlight-dim", cfg.lights.HeadlightDimTimeout, "Idle time before the headlight dims (negative to disable)")
	flag.IntVar(&cfg.verbose, "verbose", 0, "Verbosity: -1 silent, 0 virtual lights, 2 calibration, 4 per-tick channels, 5 per-tick JSON status")
	flag.BoolVar(&cfg.printState, "print-state", false, "Print stored calibration endpoints and exit")
	flag.BoolVar(&cfg.demo, "demo", false, "Drive the lights from a synthetic throttle")

	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// validate rejects settings that cannot drive the hardware.
func validate(cfg config) error {
	if cfg.refresh <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", cfg.refresh)
	}
	if cfg.lights.DecelPixels < 0 {
		return fmt.Errorf("decel pixels must not be negative, got %d", cfg.lights.DecelPixels)
	}
	if cfg.lights.BrakePixels < 0 {
		return fmt.Errorf("brake pixels must not be negative, got %d", cfg.lights.BrakePixels)
	}
	if cfg.inputs[channel.Throttle] < 0 && !cfg.demo {
		return fmt.Errorf("throttle pin is disabled and -demo is not set")
	}
	return nil
}

func run(cfg config) error {
	if err := validate(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	endpoints := store.NewFile(cfg.storePath)

	// Print state mode
	if cfg.printState {
		return printState(endpoints, os.Stdout)
	}

	if cfg.verbose < 0 {
		log.SetOutput(io.Discard)
	}

	bank := channel.NewBank(cfg.inputs, endpoints)

	var capture gpio.Capture
	capture, err := gpio.NewRealCapture(cfg.chip, bank)
	if err != nil {
		return fmt.Errorf("init capture: %w", err)
	}
	defer capture.Close()

	buttons, err := gpio.NewRealReader(cfg.chip, cfg.pinCal, cfg.pinClear)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	sink, err := output.NewRealSink(cfg.outputs, cfg.lights.DecelPixels+cfg.lights.BrakePixels)
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Printf("close outputs: %v", err)
		}
	}()

	tracker := status.NewTracker(time.Now(), status.Config{
		RefreshMs: cfg.refresh.Milliseconds(),
		StorePath: endpoints.Path(),
		Demo:      cfg.demo,
		Lights:    cfg.lights,
	})

	if cfg.verbose == 0 {
		stop := make(chan struct{})
		defer close(stop)
		go status.NewConsole(tracker, os.Stdout, consoleInterval).Run(stop)
	}

	lights := logic.NewLights(cfg.lights, rand.New(rand.NewSource(time.Now().UnixNano())))
	calibrator := calibrate.New(bank, channel.Throttle, endpoints, cfg.verbose)

	th := bank.Channel(channel.Throttle)
	log.Printf("started: refresh=%v throttle pin=%d endpoints %s from %s demo=%v", cfg.refresh, th.Pin(), th.Endpoints(), endpoints.Path(), cfg.demo)

	ticker := time.NewTicker(cfg.refresh)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	start := time.Now()
	now := func() logic.Millis { return logic.MillisSince(start, time.Now()) }

	return runLoop(buttons, sink, bank, lights, calibrator, tracker, cfg.demo, cfg.verbose, now, ticker.C, sigCh)
}

func runLoop(buttons gpio.Reader, sink output.Sink, bank *channel.Bank, lights *logic.Lights, calibrator *calibrate.Calibrator, tracker *status.Tracker, demo bool, verbose int, now func() logic.Millis, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if tracker != nil {
				log.Printf("status: %s", status.FormatJSON(tracker.Snapshot()))
			}
			return nil

		case <-tick:
			t := now()
			cal, clr, err := buttons.Read()
			if err != nil {
				// Keep the lights running; the buttons read as released.
				log.Printf("gpio read error: %v", err)
			}

			calibrator.Process(calibrate.Input{Cal: cal, Clear: clr, Now: t})
			if tracker != nil {
				tracker.SetCalibration(calibrator.Active(), calibrator.Step().String())
			}

			if calibrator.Active() {
				// Lights hold their last frame; only the status light moves.
				if err := sink.SetStatus(calibrator.Status()); err != nil {
					log.Printf("status light error: %v", err)
				}
				continue
			}

			bank.Poll()
			throttle := bank.Channel(channel.Throttle).Value()
			if demo {
				throttle = logic.DemoThrottle(t)
			}

			frame := lights.Update(throttle, t)
			frame.Status = calibrator.Status()
			if err := sink.Show(frame); err != nil {
				log.Printf("output error: %v", err)
			}

			if tracker != nil {
				tracker.Update(bank.Channels(), throttle, frame, lights.State(t))
				if verbose >= verboseChannels {
					snap := tracker.Snapshot()
					log.Printf("tick %d: %s throttle=%d", snap.Ticks, status.FormatChannels(snap.Channels), throttle)
					if verbose >= verboseJSON {
						log.Printf("status: %s", status.FormatJSON(snap))
					}
				}
			}
		}
	}
}

// printState writes the stored endpoints of every channel as JSON.
func printState(st store.Store, w io.Writer) error {
	eps := make(map[channel.ID]channel.Endpoints, channel.NumChannels)
	for id := channel.ID(0); id < channel.NumChannels; id++ {
		ep, err := st.Load(id)
		if err != nil {
			return fmt.Errorf("load %s endpoints: %w", id, err)
		}
		eps[id] = ep
	}
	_, err := fmt.Fprintf(w, "%s\n", status.FormatEndpoints(eps))
	return err
}
