package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/mutker/fanctl/internal/control"
)

func TestWorstCasePicksMaximum(t *testing.T) {
	values := []control.SensorValue{
		{Name: "nvme0", Temp: 41},
		{Name: "nvme1", Temp: 57},
		{Name: "nvme2", Temp: 49},
	}
	assert.Equal(t, 57, control.WorstCase(values))
}

func TestWorstCaseSingleSensor(t *testing.T) {
	values := []control.SensorValue{{Name: "cpu_thermal", Temp: 52}}
	assert.Equal(t, 52, control.WorstCase(values))
}

func TestWorstCaseEmpty(t *testing.T) {
	assert.Equal(t, control.UnknownTemperature, control.WorstCase(nil))
	assert.Equal(t, control.UnknownTemperature, control.WorstCase([]control.SensorValue{}))
}

func TestWorstCaseNegativeReadings(t *testing.T) {
	// A cold-room reading still beats the unavailable sentinel.
	values := []control.SensorValue{{Name: "drivetemp", Temp: -5}}
	assert.Equal(t, -5, control.WorstCase(values))
	assert.Greater(t, control.WorstCase(values), control.UnknownTemperature)
}

func TestNewReading(t *testing.T) {
	values := []control.SensorValue{
		{Name: "sda", Temp: 38},
		{Name: "sdb", Temp: 44},
	}
	r := control.NewReading(control.ZoneHDD, values)

	assert.Equal(t, control.ZoneHDD, r.Zone)
	assert.Equal(t, 44, r.Temp)
	assert.Equal(t, values, r.Sensors)
}

func TestNewReadingEmptyZone(t *testing.T) {
	r := control.NewReading(control.ZoneNVMe, nil)

	assert.Equal(t, control.ZoneNVMe, r.Zone)
	assert.Equal(t, control.UnknownTemperature, r.Temp)
	assert.Empty(t, r.Sensors)
}
