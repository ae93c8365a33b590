// Package output pushes computed light frames to the hardware.
// The real implementation drives Raspberry Pi PWM, GPIO and SPI through
// go-rpio. The fake implementation records frames for tests.
package output

import "github.com/sweeney/drift-lights/internal/logic"

// Sink receives one frame per refresh tick.
type Sink interface {
	// Show pushes every light output in f to the hardware.
	Show(f logic.Frame) error

	// SetStatus drives the status light on its own, used while the light
	// frame is frozen during calibration.
	SetStatus(on bool) error

	// Close turns the lights off and releases the hardware.
	Close() error
}

// Pins are BCM pin numbers for the light outputs. A negative pin is not driven.
// Head and Brake must be hardware PWM capable (12/18 on PWM0, 13/19 on PWM1).
type Pins struct {
	Head     int
	Brake    int
	Hazard   int
	Backfire int
	Status   int
}

// DefaultPins is the stock wiring.
var DefaultPins = Pins{
	Head:     12,
	Brake:    13,
	Hazard:   22,
	Backfire: 23,
	Status:   24,
}
