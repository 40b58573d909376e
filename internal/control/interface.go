package control

import (
	"context"
	"time"
)

// TemperatureSource samples one thermal zone's sensors. Sources absorb
// per-sensor failures: a sensor that cannot be read this cycle is
// simply absent from the result.
type TemperatureSource interface {
	Zone() Zone
	// Describe returns a human-readable account of the backing sensors.
	Describe() string
	Sample(ctx context.Context) []SensorValue
}

// Actuator drives the fan. Speed reports RPM for diagnostics only; it
// never feeds back into control decisions.
type Actuator interface {
	Write(duty int) error
	Duty() (int, error)
	Speed() (int, error)
}

// Notifier delivers human-readable commit events.
type Notifier interface {
	Notify(ctx context.Context, ev CommitEvent) error
}

// Recorder persists per-cycle observations.
type Recorder interface {
	Record(ctx context.Context, rep *CycleReport) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, rep *CycleReport) error

func (f RecorderFunc) Record(ctx context.Context, rep *CycleReport) error {
	return f(ctx, rep)
}

// CommitEvent describes a committed duty cycle change.
type CommitEvent struct {
	OldDuty int
	NewDuty int
	Winner  Zone
	Temps   ZoneTemps
	FanRPM  int
}

// CycleReport captures one control cycle for logging and metrics.
type CycleReport struct {
	Time      time.Time
	Readings  [ZoneCount]ZoneReading
	Duties    ZoneDuties
	Target    int
	Winner    Zone
	Committed bool
	Applied   int
	FanRPM    int
}
