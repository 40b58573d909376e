package control

import (
	"context"
	"time"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/logger"
)

const maxDuty = 255

// Config holds the loop settings: sampling cadences, the per-zone curve
// and hysteresis settings, and the duty cycle band.
type Config struct {
	Interval      time.Duration
	DriveInterval time.Duration
	Zones         ZoneConfigs
	Limits        Limits
	Failsafe      int
	Monitor       bool
}

// Controller owns the fan. Each cycle it samples the zones, evaluates
// the curves, arbitrates, gates the result through hysteresis and,
// unless running in monitor mode, writes the committed duty cycle. All
// of that happens on a single goroutine; nothing else touches the
// actuator while Run is active.
type Controller struct {
	cfg      Config
	sources  [ZoneCount]TemperatureSource
	actuator Actuator
	notifier Notifier
	recorder Recorder

	state          State
	started        bool
	writeFailures  int
	lastDriveCheck time.Time
	retained       ZoneReading

	updates chan Config
}

func New(
	cfg Config,
	sources [ZoneCount]TemperatureSource,
	actuator Actuator,
	notifier Notifier,
	recorder Recorder,
) (*Controller, error) {
	errFactory := errors.New()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	for z := ZoneSystem; z < ZoneCount; z++ {
		if sources[z] == nil {
			return nil, errFactory.WithData(ErrMissingSource, struct{ Zone string }{Zone: z.String()})
		}
	}
	if actuator == nil {
		return nil, errFactory.New(ErrMissingActuator)
	}
	if notifier == nil || recorder == nil {
		return nil, errFactory.WithMessage(ErrInvalidLoopConfig, "notifier and recorder are required")
	}

	c := &Controller{
		cfg:      cfg,
		sources:  sources,
		actuator: actuator,
		notifier: notifier,
		recorder: recorder,
		updates:  make(chan Config, 1),
	}

	// Seed from the hardware so the first commit event reports a
	// truthful transition.
	if duty, err := actuator.Duty(); err == nil {
		c.state.Duty = duty
	}

	return c, nil
}

func (cfg Config) validate() error {
	errFactory := errors.New()

	if cfg.Interval <= 0 {
		return errFactory.WithMessage(ErrInvalidLoopConfig, "interval must be positive")
	}
	if cfg.DriveInterval < cfg.Interval {
		return errFactory.WithMessage(ErrInvalidLoopConfig, "drive interval must not be shorter than interval")
	}
	if cfg.Limits.Floor < 0 || cfg.Limits.Max > maxDuty || cfg.Limits.Floor >= cfg.Limits.Max {
		return errFactory.WithMessage(ErrInvalidLoopConfig, "duty cycle limits outside 0-255 or floor >= max")
	}
	if cfg.Failsafe < cfg.Limits.Floor || cfg.Failsafe > maxDuty {
		return errFactory.WithMessage(ErrInvalidLoopConfig, "failsafe duty outside floor-255")
	}

	for z := ZoneSystem; z < ZoneCount; z++ {
		zc := cfg.Zones[z]
		if zc.TargetTemp <= 0 || zc.MaxTemp <= zc.TargetTemp {
			return errFactory.WithData(ErrInvalidLoopConfig, struct {
				Zone   string
				Reason string
			}{
				Zone:   z.String(),
				Reason: "requires 0 < target_temp < max_temp",
			})
		}
		if zc.ScaleFactor <= 0 {
			return errFactory.WithData(ErrInvalidLoopConfig, struct {
				Zone   string
				Reason string
			}{
				Zone:   z.String(),
				Reason: "scale_factor must be positive",
			})
		}
		if zc.DeltaThreshold < 0 {
			return errFactory.WithData(ErrInvalidLoopConfig, struct {
				Zone   string
				Reason string
			}{
				Zone:   z.String(),
				Reason: "delta_threshold must not be negative",
			})
		}
	}

	return nil
}

// Run drives the control loop until the context is cancelled. The first
// cycle runs immediately and commits unconditionally; afterwards cycles
// run on the configured interval.
func (c *Controller) Run(ctx context.Context) error {
	if c.cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Logging thermal state without controlling the fan...")
	}

	c.runCycle(ctx, time.Now())

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case next := <-c.updates:
			c.applySettings(next)
			ticker.Reset(c.cfg.Interval)
		case now := <-ticker.C:
			c.runCycle(ctx, now)
		}
	}
}

func (c *Controller) runCycle(ctx context.Context, now time.Time) {
	rep := c.Step(ctx, now)
	c.logCycle(rep)

	if err := c.recorder.Record(ctx, rep); err != nil {
		logger.Debug().Err(err).Msg("Failed to record cycle metrics")
	}
}

// Step runs one control cycle and returns what happened. Exposed so the
// loop can be driven deterministically; production cycles come from Run.
func (c *Controller) Step(ctx context.Context, now time.Time) *CycleReport {
	readings := c.sample(ctx, now)

	var (
		temps  ZoneTemps
		duties ZoneDuties
	)
	for z := ZoneSystem; z < ZoneCount; z++ {
		temps[z] = readings[z].Temp
		duties[z] = DutyForTemperature(c.cfg.Zones[z], c.cfg.Limits, temps[z])
	}

	target, winner := Arbitrate(duties)
	rpm := c.fanSpeed()

	var (
		next      State
		committed bool
	)
	if c.started {
		next, committed = c.state.Apply(target, temps, c.cfg.Zones)
	} else {
		next, committed = Initial(target, temps), true
	}

	oldDuty := c.state.Duty
	if committed && !c.cfg.Monitor {
		if err := c.actuator.Write(next.Duty); err != nil {
			c.writeFailures++
			errFactory := errors.New()
			logger.ErrorWithCode(errFactory.Wrap(ErrActuatorWrite, err)).
				Int("duty", next.Duty).
				Int("consecutive_failures", c.writeFailures).
				Msg("Fan write failed, retrying next cycle")
			next, committed = c.state, false
		} else {
			c.writeFailures = 0
		}
	}

	if committed {
		c.state = next
		c.started = true

		logger.Info().
			Str("winner", winner.String()).
			Int("rpm", rpm).
			Msgf("Fan duty cycle changed from %d to %d", oldDuty, next.Duty)

		if !c.cfg.Monitor {
			c.notify(ctx, CommitEvent{
				OldDuty: oldDuty,
				NewDuty: next.Duty,
				Winner:  winner,
				Temps:   temps,
				FanRPM:  rpm,
			})
		}
	}

	return &CycleReport{
		Time:      now,
		Readings:  readings,
		Duties:    duties,
		Target:    target,
		Winner:    winner,
		Committed: committed,
		Applied:   c.state.Duty,
		FanRPM:    rpm,
	}
}

// sample reads all three zones. The HDD zone is decimated: between
// drive checks the previous worst case is retained, so spun-down drives
// are not woken every cycle.
func (c *Controller) sample(ctx context.Context, now time.Time) [ZoneCount]ZoneReading {
	var readings [ZoneCount]ZoneReading
	for z := ZoneSystem; z < ZoneCount; z++ {
		if z == ZoneHDD && !c.lastDriveCheck.IsZero() && now.Sub(c.lastDriveCheck) < c.cfg.DriveInterval {
			readings[z] = c.retained
			continue
		}

		readings[z] = NewReading(z, c.sources[z].Sample(ctx))

		if z == ZoneHDD {
			c.lastDriveCheck = now
			c.retained = readings[z]
		}
	}

	return readings
}

// UpdateSettings hands the loop new settings, applied between cycles. A
// pending update that has not been applied yet is replaced.
func (c *Controller) UpdateSettings(next Config) {
	select {
	case <-c.updates:
	default:
	}
	c.updates <- next
}

func (c *Controller) applySettings(next Config) {
	if err := next.validate(); err != nil {
		logger.Warn().Err(err).Msg("Ignoring invalid settings update")
		return
	}

	c.cfg = next
	logger.Info().
		Dur("interval", next.Interval).
		Dur("drive_interval", next.DriveInterval).
		Msg("Controller settings updated")
}

// Shutdown drives the fan to the failsafe duty cycle so an unsupervised
// appliance keeps cooling. Call after Run has returned.
func (c *Controller) Shutdown() error {
	errFactory := errors.New()

	if c.cfg.Monitor {
		return nil
	}

	if err := c.actuator.Write(c.cfg.Failsafe); err != nil {
		return errFactory.Wrap(ErrActuatorWrite, err)
	}

	logger.Info().Int("duty", c.cfg.Failsafe).Msg("Fan set to failsafe duty cycle")

	return nil
}

func (c *Controller) fanSpeed() int {
	rpm, err := c.actuator.Speed()
	if err != nil {
		logger.Trace().Err(err).Msg("Fan speed unavailable")
		return 0
	}

	return rpm
}

func (c *Controller) notify(ctx context.Context, ev CommitEvent) {
	if err := c.notifier.Notify(ctx, ev); err != nil {
		logger.Warn().Err(err).Msg("Failed to deliver commit notification")
	}
}

func (c *Controller) logCycle(rep *CycleReport) {
	ev := logger.Debug()
	if c.cfg.Monitor {
		ev = logger.Info()
	}

	ev.
		Int("system_temp", rep.Readings[ZoneSystem].Temp).
		Int("nvme_temp", rep.Readings[ZoneNVMe].Temp).
		Int("hdd_temp", rep.Readings[ZoneHDD].Temp).
		Int("system_duty", rep.Duties[ZoneSystem]).
		Int("nvme_duty", rep.Duties[ZoneNVMe]).
		Int("hdd_duty", rep.Duties[ZoneHDD]).
		Int("target_duty", rep.Target).
		Str("winner", rep.Winner.String()).
		Bool("committed", rep.Committed).
		Int("duty", rep.Applied).
		Int("rpm", rep.FanRPM).
		Msg("")
}
