package control

// Arbitrate picks the zone demanding the highest duty cycle. Only a
// strictly higher demand displaces the current winner, so ties keep the
// earliest zone: the system zone wins any tie it is part of. The winner
// identity is diagnostic only and never feeds back into control.
func Arbitrate(duties ZoneDuties) (int, Zone) {
	winner := ZoneSystem
	best := duties[ZoneSystem]
	for z := ZoneSystem + 1; z < ZoneCount; z++ {
		if duties[z] > best {
			best = duties[z]
			winner = z
		}
	}

	return best, winner
}
