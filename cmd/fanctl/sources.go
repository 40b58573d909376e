package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/fanctl/internal/config"
	"codeberg.org/mutker/fanctl/internal/control"
	"codeberg.org/mutker/fanctl/internal/hwmon"
	"codeberg.org/mutker/fanctl/internal/logger"
	"codeberg.org/mutker/fanctl/internal/smart"
)

// hwmonSource feeds one zone from the hwmon sensors enumerated at
// startup. A sensor that fails to read is excluded from the cycle; the
// zone simply sees one value fewer.
type hwmonSource struct {
	zone    control.Zone
	sensors []hwmon.TempSensor
}

func newHwmonSource(zone control.Zone, root string, chips []string) (*hwmonSource, error) {
	sensors, err := hwmon.DiscoverSensors(root, chips)
	if err != nil {
		return nil, err
	}

	return &hwmonSource{zone: zone, sensors: sensors}, nil
}

func (s *hwmonSource) Zone() control.Zone {
	return s.zone
}

func (s *hwmonSource) Describe() string {
	names := make([]string, 0, len(s.sensors))
	for _, sensor := range s.sensors {
		names = append(names, sensor.Label)
	}

	return fmt.Sprintf("%s[%s]", s.zone, strings.Join(names, ","))
}

func (s *hwmonSource) Sample(_ context.Context) []control.SensorValue {
	values := make([]control.SensorValue, 0, len(s.sensors))
	for _, sensor := range s.sensors {
		temp, err := sensor.Read()
		if err != nil {
			logger.Debug().Err(err).Str("sensor", sensor.Label).Msg("Sensor read failed, excluded for this cycle")
			continue
		}

		logger.Trace().Str("sensor", sensor.Label).Int("temperature", temp).Msg("")
		values = append(values, control.SensorValue{Name: sensor.Label, Temp: temp})
	}

	return values
}

// smartSource feeds the drive zone from SMART queries. The control loop
// decimates how often this is sampled; every call here really does hit
// the drives.
type smartSource struct {
	querier *smart.Querier
}

func (s *smartSource) Zone() control.Zone {
	return control.ZoneHDD
}

func (s *smartSource) Describe() string {
	drives := s.querier.Drives()
	names := make([]string, 0, len(drives))
	for _, drive := range drives {
		names = append(names, drive.Name())
	}

	return fmt.Sprintf("%s[%s]", control.ZoneHDD, strings.Join(names, ","))
}

func (s *smartSource) Sample(ctx context.Context) []control.SensorValue {
	drives := s.querier.Drives()
	values := make([]control.SensorValue, 0, len(drives))
	for _, drive := range drives {
		temp, err := s.querier.ReadTemperature(ctx, drive)
		if err != nil {
			logger.Debug().Err(err).Str("drive", drive.Name()).Msg("Drive temperature unavailable, excluded for this cycle")
			continue
		}

		logger.Trace().Str("drive", drive.Name()).Int("temperature", temp).Msg("")
		values = append(values, control.SensorValue{Name: drive.Name(), Temp: temp})
	}

	return values
}

// emptySource stands in for a zone with nothing to read. The sampler
// treats it as unavailable, which can never raise the fan.
type emptySource struct {
	zone control.Zone
}

func (s emptySource) Zone() control.Zone {
	return s.zone
}

func (s emptySource) Describe() string {
	return s.zone.String() + "[none]"
}

func (s emptySource) Sample(_ context.Context) []control.SensorValue {
	return nil
}

// discoverSources enumerates all three zones once. Zone sensors are
// best-effort: a zone without sensors runs at the floor. Only the fan
// itself is required hardware.
func discoverSources(cfg *config.Config) [control.ZoneCount]control.TemperatureSource {
	var sources [control.ZoneCount]control.TemperatureSource
	sources[control.ZoneSystem] = zoneSource(control.ZoneSystem, cfg.Sensors.SystemChips)
	sources[control.ZoneNVMe] = zoneSource(control.ZoneNVMe, cfg.Sensors.NVMeChips)

	timeout := time.Duration(cfg.Sensors.SmartTimeout) * time.Second
	querier, err := smart.Discover(cfg.Sensors.HDDGlob, cfg.Sensors.Smartctl, timeout)
	if err != nil {
		logger.Warn().Err(err).Msg("smartctl unavailable, drive zone runs without sensors")
		sources[control.ZoneHDD] = emptySource{zone: control.ZoneHDD}
	} else {
		sources[control.ZoneHDD] = &smartSource{querier: querier}
	}

	for _, src := range sources {
		logger.Info().Str("sensors", src.Describe()).Msg("Zone enumerated")
	}

	return sources
}

func zoneSource(zone control.Zone, chips []string) control.TemperatureSource {
	src, err := newHwmonSource(zone, hwmon.DefaultRoot, chips)
	if err != nil {
		logger.Warn().Err(err).Str("zone", zone.String()).Msg("Sensor enumeration failed, zone runs without sensors")
		return emptySource{zone: zone}
	}

	return src
}
