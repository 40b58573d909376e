package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/mutker/fanctl/internal/control"
)

var (
	testZone   = control.ZoneConfig{TargetTemp: 45, MaxTemp: 65, ScaleFactor: 18, DeltaThreshold: 4}
	testLimits = control.Limits{Floor: 140, Max: 255}
)

func TestDutyBelowTarget(t *testing.T) {
	assert.Equal(t, 140, control.DutyForTemperature(testZone, testLimits, 20))
	assert.Equal(t, 140, control.DutyForTemperature(testZone, testLimits, 44))
	assert.Equal(t, 140, control.DutyForTemperature(testZone, testLimits, control.UnknownTemperature))
}

func TestDutyAtBoundaries(t *testing.T) {
	assert.Equal(t, testLimits.Floor, control.DutyForTemperature(testZone, testLimits, testZone.TargetTemp))
	assert.Equal(t, testLimits.Max, control.DutyForTemperature(testZone, testLimits, testZone.MaxTemp))
	assert.Equal(t, testLimits.Max, control.DutyForTemperature(testZone, testLimits, testZone.MaxTemp+1))
}

func TestDutyQuadraticRamp(t *testing.T) {
	// excess = (temp - 45) * 10 / 18, truncated; duty = 140 + excess^2
	cases := []struct {
		temp int
		duty int
	}{
		{46, 140},
		{50, 144},
		{55, 165},
		{60, 204},
		{64, 240},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.duty, control.DutyForTemperature(testZone, testLimits, tc.temp), "temp %d", tc.temp)
	}
}

func TestDutyClampedBelowMaxTemp(t *testing.T) {
	// A steep curve saturates before max_temp is reached.
	steep := control.ZoneConfig{TargetTemp: 45, MaxTemp: 65, ScaleFactor: 10, DeltaThreshold: 4}
	assert.Equal(t, 255, control.DutyForTemperature(steep, testLimits, 64))
}

func TestDutyMonotonic(t *testing.T) {
	prev := 0
	for temp := 0; temp <= 90; temp++ {
		duty := control.DutyForTemperature(testZone, testLimits, temp)
		assert.GreaterOrEqual(t, duty, prev, "duty dropped at temp %d", temp)
		assert.GreaterOrEqual(t, duty, testLimits.Floor)
		assert.LessOrEqual(t, duty, testLimits.Max)
		prev = duty
	}
}
