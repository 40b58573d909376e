package profile

// builtins returns the profiles shipped with the daemon. The helios64
// profile matches the stock enclosure fan, which stalls below a duty
// cycle of 140; generic suits most PWM case fans.
func builtins() []*Profile {
	return []*Profile{
		{
			Name: "helios64",
			PWM: PWMRange{
				Floor:    140,
				Max:      255,
				Failsafe: 255,
			},
			Zones: ZoneDefaults{
				System: ZoneProfile{TargetTemp: 45, MaxTemp: 65, ScaleFactor: 18, DeltaThreshold: 4},
				NVMe:   ZoneProfile{TargetTemp: 50, MaxTemp: 70, ScaleFactor: 18, DeltaThreshold: 4},
				HDD:    ZoneProfile{TargetTemp: 38, MaxTemp: 60, ScaleFactor: 20, DeltaThreshold: 6},
			},
		},
		{
			Name: "generic",
			PWM: PWMRange{
				Floor:    70,
				Max:      255,
				Failsafe: 255,
			},
			Zones: ZoneDefaults{
				System: ZoneProfile{TargetTemp: 45, MaxTemp: 65, ScaleFactor: 14, DeltaThreshold: 4},
				NVMe:   ZoneProfile{TargetTemp: 50, MaxTemp: 70, ScaleFactor: 14, DeltaThreshold: 4},
				HDD:    ZoneProfile{TargetTemp: 38, MaxTemp: 60, ScaleFactor: 15, DeltaThreshold: 6},
			},
		},
	}
}
