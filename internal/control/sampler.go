package control

// WorstCase reduces a zone's sensor values to the highest temperature.
// With no values present it reports UnknownTemperature; a zone losing
// its sensors degrades to the curve floor instead of raising an error.
func WorstCase(values []SensorValue) int {
	worst := UnknownTemperature
	for _, v := range values {
		if v.Temp > worst {
			worst = v.Temp
		}
	}

	return worst
}

// NewReading aggregates sampled sensor values into a zone reading.
func NewReading(zone Zone, values []SensorValue) ZoneReading {
	return ZoneReading{
		Zone:    zone,
		Temp:    WorstCase(values),
		Sensors: values,
	}
}
