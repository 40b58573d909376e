package control

// DutyForTemperature maps a zone temperature onto the duty cycle band.
// At or below the target the fan idles at the floor; at or above the
// zone maximum it saturates. In between, duty rises with the square of
// the scaled excess, so brief overshoots barely spin up while sustained
// heat ramps hard. Integer arithmetic throughout: excess uses truncating
// division, matching the thresholds operators tune against.
func DutyForTemperature(zc ZoneConfig, lim Limits, temp int) int {
	if temp <= zc.TargetTemp {
		return lim.Floor
	}
	if temp >= zc.MaxTemp {
		return lim.Max
	}

	excess := (temp - zc.TargetTemp) * 10 / zc.ScaleFactor
	duty := lim.Floor + excess*excess
	if duty > lim.Max {
		duty = lim.Max
	}

	return duty
}
