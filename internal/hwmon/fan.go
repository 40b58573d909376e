package hwmon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/logger"
)

const maxDuty = 255

// Fan is one PWM channel on a hwmon chip. Duty cycles are raw 0-255
// values as the kernel expects them.
type Fan struct {
	name      string
	pwmPath   string
	inputPath string
}

// FindFan resolves PWM channel index on the chip named chipName. The
// matching tachometer input is attached when present; fan speed stays
// unavailable otherwise. If the channel has an automatic mode, it is
// switched to manual so our writes take effect.
func FindFan(root, chipName string, index int) (*Fan, error) {
	errFactory := errors.New()

	chips, err := Scan(root)
	if err != nil {
		return nil, err
	}

	for _, chip := range chips {
		if chip.Name != chipName {
			continue
		}

		pwmPath := filepath.Join(chip.Path, fmt.Sprintf("pwm%d", index))
		if _, err := os.Stat(pwmPath); err != nil {
			continue
		}

		fan := &Fan{
			name:    fmt.Sprintf("%s:pwm%d", chipName, index),
			pwmPath: pwmPath,
		}

		inputPath := filepath.Join(chip.Path, fmt.Sprintf("fan%d_input", index))
		if _, err := os.Stat(inputPath); err == nil {
			fan.inputPath = inputPath
		}

		fan.enableManual(filepath.Join(chip.Path, fmt.Sprintf("pwm%d_enable", index)))

		return fan, nil
	}

	return nil, errFactory.WithData(ErrFanNotFound, struct {
		Chip string
		PWM  int
	}{
		Chip: chipName,
		PWM:  index,
	})
}

func (f *Fan) enableManual(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}

	if err := os.WriteFile(path, []byte("1"), 0o644); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Could not switch PWM channel to manual control")
		return
	}

	logger.Debug().Str("path", path).Msg("PWM channel switched to manual control")
}

func (f *Fan) Name() string {
	return f.name
}

// Write sets the duty cycle.
func (f *Fan) Write(duty int) error {
	errFactory := errors.New()

	if duty < 0 || duty > maxDuty {
		return errFactory.WithData(ErrInvalidDuty, struct{ Duty int }{Duty: duty})
	}

	if err := os.WriteFile(f.pwmPath, []byte(strconv.Itoa(duty)), 0o644); err != nil {
		return errFactory.Wrap(ErrPWMWrite, err)
	}

	return nil
}

// Duty reads back the current duty cycle.
func (f *Fan) Duty() (int, error) {
	return readIntFile(f.pwmPath, ErrPWMRead)
}

// Speed reads the tachometer in RPM.
func (f *Fan) Speed() (int, error) {
	errFactory := errors.New()

	if f.inputPath == "" {
		return 0, errFactory.New(ErrSpeedUnavailable)
	}

	return readIntFile(f.inputPath, ErrSpeedUnavailable)
}

func readIntFile(path string, code errors.ErrorCode) (int, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, errFactory.Wrap(code, err)
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, errFactory.Wrap(code, err)
	}

	return value, nil
}
