package hwmon_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/hwmon"
)

func TestFindFan(t *testing.T) {
	root := t.TempDir()
	chipPath := writeChip(t, root, "hwmon3", "pwmfan", map[string]string{
		"pwm1":        "120\n",
		"pwm1_enable": "0\n",
		"fan1_input":  "1450\n",
	})

	fan, err := hwmon.FindFan(root, "pwmfan", 1)
	require.NoError(t, err)
	assert.Equal(t, "pwmfan:pwm1", fan.Name())

	duty, err := fan.Duty()
	require.NoError(t, err)
	assert.Equal(t, 120, duty)

	rpm, err := fan.Speed()
	require.NoError(t, err)
	assert.Equal(t, 1450, rpm)

	enable, err := os.ReadFile(filepath.Join(chipPath, "pwm1_enable"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(enable))
}

func TestFanWrite(t *testing.T) {
	root := t.TempDir()
	chipPath := writeChip(t, root, "hwmon0", "pwmfan", map[string]string{
		"pwm1": "0\n",
	})

	fan, err := hwmon.FindFan(root, "pwmfan", 1)
	require.NoError(t, err)

	require.NoError(t, fan.Write(200))
	raw, err := os.ReadFile(filepath.Join(chipPath, "pwm1"))
	require.NoError(t, err)
	assert.Equal(t, "200", string(raw))

	duty, err := fan.Duty()
	require.NoError(t, err)
	assert.Equal(t, 200, duty)
}

func TestFanWriteRejectsOutOfRange(t *testing.T) {
	root := t.TempDir()
	chipPath := writeChip(t, root, "hwmon0", "pwmfan", map[string]string{
		"pwm1": "90\n",
	})

	fan, err := hwmon.FindFan(root, "pwmfan", 1)
	require.NoError(t, err)

	assert.Equal(t, hwmon.ErrInvalidDuty, errors.CodeOf(fan.Write(-1)))
	assert.Equal(t, hwmon.ErrInvalidDuty, errors.CodeOf(fan.Write(256)))

	raw, err := os.ReadFile(filepath.Join(chipPath, "pwm1"))
	require.NoError(t, err)
	assert.Equal(t, "90\n", string(raw), "rejected writes must not touch the channel")
}

func TestFanWithoutTachometer(t *testing.T) {
	root := t.TempDir()
	writeChip(t, root, "hwmon0", "pwmfan", map[string]string{
		"pwm1": "0\n",
	})

	fan, err := hwmon.FindFan(root, "pwmfan", 1)
	require.NoError(t, err)

	_, err = fan.Speed()
	assert.Equal(t, hwmon.ErrSpeedUnavailable, errors.CodeOf(err))
}

func TestFindFanMissingChannel(t *testing.T) {
	root := t.TempDir()
	writeChip(t, root, "hwmon0", "pwmfan", map[string]string{
		"pwm1": "0\n",
	})
	writeChip(t, root, "hwmon1", "cpu_thermal", map[string]string{
		"temp1_input": "50000\n",
	})

	_, err := hwmon.FindFan(root, "pwmfan", 2)
	assert.Equal(t, hwmon.ErrFanNotFound, errors.CodeOf(err))

	_, err = hwmon.FindFan(root, "gpio_fan", 1)
	assert.Equal(t, hwmon.ErrFanNotFound, errors.CodeOf(err))
}
