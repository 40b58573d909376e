package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/mutker/fanctl/internal/control"
)

func TestArbitrateHighestWins(t *testing.T) {
	duty, winner := control.Arbitrate(control.ZoneDuties{140, 200, 160})
	assert.Equal(t, 200, duty)
	assert.Equal(t, control.ZoneNVMe, winner)

	duty, winner = control.Arbitrate(control.ZoneDuties{140, 150, 220})
	assert.Equal(t, 220, duty)
	assert.Equal(t, control.ZoneHDD, winner)
}

func TestArbitrateThreeWayTie(t *testing.T) {
	duty, winner := control.Arbitrate(control.ZoneDuties{150, 150, 150})
	assert.Equal(t, 150, duty)
	assert.Equal(t, control.ZoneSystem, winner)
}

func TestArbitrateTieBreaksInZoneOrder(t *testing.T) {
	_, winner := control.Arbitrate(control.ZoneDuties{140, 180, 180})
	assert.Equal(t, control.ZoneNVMe, winner)

	_, winner = control.Arbitrate(control.ZoneDuties{180, 140, 180})
	assert.Equal(t, control.ZoneSystem, winner)
}
