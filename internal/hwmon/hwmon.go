// Package hwmon reads temperatures and drives the fan through the
// kernel hwmon sysfs interface.
package hwmon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/logger"
)

// DefaultRoot is where the kernel exposes hwmon chips.
const DefaultRoot = "/sys/class/hwmon"

// Chip is one hwmon device directory, identified by the kernel driver
// name in its name attribute.
type Chip struct {
	Name string
	Path string
}

// Scan enumerates the hwmon chips under root. Chips whose name
// attribute cannot be read are skipped.
func Scan(root string) ([]Chip, error) {
	errFactory := errors.New()

	matches, err := filepath.Glob(filepath.Join(root, "hwmon*", "name"))
	if err != nil {
		return nil, errFactory.Wrap(ErrScanFailed, err)
	}

	chips := make([]Chip, 0, len(matches))
	for _, nameFile := range matches {
		raw, err := os.ReadFile(nameFile)
		if err != nil {
			logger.Trace().Err(err).Str("path", nameFile).Msg("Skipping unreadable hwmon chip")
			continue
		}
		chips = append(chips, Chip{
			Name: strings.TrimSpace(string(raw)),
			Path: filepath.Dir(nameFile),
		})
	}

	return chips, nil
}

// TempSensor is one temperature input on a chip. The descriptor is
// fixed at discovery; Read hits sysfs every time.
type TempSensor struct {
	Chip  string
	Label string
	path  string
}

// Sensors lists the temperature inputs the chip exposes.
func (c Chip) Sensors() ([]TempSensor, error) {
	errFactory := errors.New()

	inputs, err := filepath.Glob(filepath.Join(c.Path, "temp[0-9]*_input"))
	if err != nil {
		return nil, errFactory.Wrap(ErrScanFailed, err)
	}

	sensors := make([]TempSensor, 0, len(inputs))
	for _, input := range inputs {
		sensors = append(sensors, TempSensor{
			Chip:  c.Name,
			Label: c.labelFor(input),
			path:  input,
		})
	}

	return sensors, nil
}

func (c Chip) labelFor(input string) string {
	labelPath := strings.TrimSuffix(input, "_input") + "_label"
	if raw, err := os.ReadFile(labelPath); err == nil {
		if label := strings.TrimSpace(string(raw)); label != "" {
			return label
		}
	}

	return c.Name + ":" + strings.TrimSuffix(filepath.Base(input), "_input")
}

// DiscoverSensors scans root and returns the temperature sensors of
// every chip whose name matches chipNames. An empty result is not an
// error; a zone can legitimately have no sensors on a given board.
func DiscoverSensors(root string, chipNames []string) ([]TempSensor, error) {
	chips, err := Scan(root)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(chipNames))
	for _, name := range chipNames {
		wanted[name] = true
	}

	var sensors []TempSensor
	for _, chip := range chips {
		if !wanted[chip.Name] {
			continue
		}

		found, err := chip.Sensors()
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, found...)
	}

	return sensors, nil
}

// Read returns the sensor temperature in whole degrees Celsius.
func (s TempSensor) Read() (int, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return 0, errFactory.Wrap(ErrSensorRead, err).WithData(struct{ Sensor string }{Sensor: s.Label})
	}

	milli, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, errFactory.Wrap(ErrSensorRead, err).WithData(struct{ Sensor string }{Sensor: s.Label})
	}

	return DegreesFromMilli(milli), nil
}

// DegreesFromMilli converts a sysfs millidegree value to whole degrees,
// rounding the fractional part.
func DegreesFromMilli(milli int) int {
	return (milli + 500) / 1000
}
