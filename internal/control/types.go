package control

// Zone identifies a thermal zone. Zones are ordered: arbitration ties
// resolve to the earliest declared zone.
type Zone int

const (
	ZoneSystem Zone = iota
	ZoneNVMe
	ZoneHDD
	ZoneCount
)

func (z Zone) String() string {
	switch z {
	case ZoneSystem:
		return "system"
	case ZoneNVMe:
		return "nvme"
	case ZoneHDD:
		return "hdd"
	default:
		return "unknown"
	}
}

// UnknownTemperature marks a zone with no usable sensor reading this
// cycle. It is colder than any physical reading, so a sensorless zone
// can never out-demand a zone that is actually warm.
const UnknownTemperature = -273

// ZoneConfig holds the curve and hysteresis settings for one zone.
// Immutable once the controller is running a cycle.
type ZoneConfig struct {
	TargetTemp     int
	MaxTemp        int
	ScaleFactor    int
	DeltaThreshold int
}

type (
	ZoneConfigs [ZoneCount]ZoneConfig
	ZoneTemps   [ZoneCount]int
	ZoneDuties  [ZoneCount]int
)

// Limits is the usable duty cycle band of the fan. Floor keeps the fan
// spinning; Max is full tilt.
type Limits struct {
	Floor int
	Max   int
}

// SensorValue is a single sensor's contribution to a zone reading.
type SensorValue struct {
	Name string
	Temp int
}

// ZoneReading is the outcome of sampling one zone: the worst-case
// temperature plus the individual sensor values for diagnostics.
type ZoneReading struct {
	Zone    Zone
	Temp    int
	Sensors []SensorValue
}

// State carries the committed duty cycle and the zone temperatures
// observed when it was committed. It is the controller's only mutable
// state, owned by the control loop and updated only on commit.
type State struct {
	Duty  int
	Temps ZoneTemps
}
