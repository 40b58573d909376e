package control

// Apply decides whether the arbitrated target becomes the committed duty
// cycle. Increases commit immediately. A decrease commits only if at
// least one zone has cooled by strictly more than its delta threshold
// since the last commit; deltas are signed, so a zone that warmed can
// never satisfy its threshold. An unchanged target commits nothing.
//
// On commit the returned state carries the new duty cycle and all
// current zone temperatures in one transition; otherwise the previous
// state is returned untouched.
func (s State) Apply(target int, temps ZoneTemps, zones ZoneConfigs) (State, bool) {
	switch {
	case target > s.Duty:
		return State{Duty: target, Temps: temps}, true
	case target < s.Duty:
		for z := ZoneSystem; z < ZoneCount; z++ {
			delta := s.Temps[z] - temps[z]
			if delta > zones[z].DeltaThreshold {
				return State{Duty: target, Temps: temps}, true
			}
		}

		return s, false
	default:
		return s, false
	}
}

// Initial returns the state established by the first cycle, committed
// unconditionally so the fan starts from a known duty cycle.
func Initial(duty int, temps ZoneTemps) State {
	return State{Duty: duty, Temps: temps}
}
