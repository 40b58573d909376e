package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"

	"codeberg.org/mutker/fanctl/internal/config"
	"codeberg.org/mutker/fanctl/internal/control"
	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/hwmon"
	"codeberg.org/mutker/fanctl/internal/logger"
	"codeberg.org/mutker/fanctl/internal/metrics"
	"codeberg.org/mutker/fanctl/internal/notify"
	"codeberg.org/mutker/fanctl/internal/pid"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	// The fan is the one piece of hardware this daemon cannot run
	// without. Everything else degrades gracefully.
	fan, err := hwmon.FindFan(hwmon.DefaultRoot, cfg.Fan.Chip, cfg.Fan.PWM)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve fan PWM channel")
	}
	logger.Info().Str("fan", fan.Name()).Msg("Fan resolved")

	sources := discoverSources(cfg)

	notifier, err := notify.New(cfg.Notify, cfg.NotifyCommand)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize notification sink")
	}

	collector, err := metrics.NewService(metricsConfig(cfg), logger.Default())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	controller, err := control.New(controlConfig(cfg), sources, fan, notifier, recorder(collector))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize control loop")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Watch {
		if err := cfg.WatchFile(func(next *config.Config) {
			controller.UpdateSettings(controlConfig(next))
		}); err != nil {
			logger.Warn().Err(err).Msg("Configuration watching unavailable")
		}
	}

	var g run.Group
	g.Add(func() error {
		return controller.Run(ctx)
	}, func(error) {
		cancel()
	})
	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	if err := g.Run(); err != nil {
		var sig run.SignalError
		if errors.As(err, &sig) {
			logger.Info().Str("signal", sig.Signal.String()).Msg("Received termination signal.")
		} else {
			logger.Error().Err(err).Msg("error in main loop")
		}
	}

	cleanup(controller, notifier, collector)
}

func cleanup(controller *control.Controller, notifier control.Notifier, collector metrics.MetricsCollector) {
	if err := controller.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("failed to apply failsafe duty cycle")
	}
	if closer, ok := notifier.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close notification sink")
		}
	}
	if err := collector.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close metrics collector")
	}
	logger.Info().Msg("Exiting...")
}

func controlConfig(c *config.Config) control.Config {
	return control.Config{
		Interval:      time.Duration(c.Interval) * time.Second,
		DriveInterval: time.Duration(c.DriveInterval) * time.Second,
		Zones: control.ZoneConfigs{
			zoneConfig(c.Zones.System),
			zoneConfig(c.Zones.NVMe),
			zoneConfig(c.Zones.HDD),
		},
		Limits:   control.Limits{Floor: c.PWM.Floor, Max: c.PWM.Max},
		Failsafe: c.PWM.Failsafe,
		Monitor:  c.Monitor,
	}
}

func zoneConfig(z config.ZoneSettings) control.ZoneConfig {
	return control.ZoneConfig{
		TargetTemp:     z.TargetTemp,
		MaxTemp:        z.MaxTemp,
		ScaleFactor:    z.ScaleFactor,
		DeltaThreshold: z.DeltaThreshold,
	}
}

func metricsConfig(c *config.Config) metrics.Config {
	mc := metrics.DefaultConfig()
	mc.Enabled = c.Metrics
	if c.Database != "" {
		mc.DBPath = c.Database
	}

	return mc
}

func recorder(collector metrics.MetricsCollector) control.Recorder {
	return control.RecorderFunc(func(ctx context.Context, rep *control.CycleReport) error {
		return collector.Record(ctx, &metrics.MetricsSnapshot{
			Timestamp: rep.Time,
			Duty:      metrics.DutyMetrics{Applied: rep.Applied, Target: rep.Target},
			Zones: metrics.ZoneMetrics{
				System: rep.Readings[control.ZoneSystem].Temp,
				NVMe:   rep.Readings[control.ZoneNVMe].Temp,
				HDD:    rep.Readings[control.ZoneHDD].Temp,
			},
			Winner:    rep.Winner.String(),
			Committed: rep.Committed,
			FanRPM:    rep.FanRPM,
		})
	})
}
