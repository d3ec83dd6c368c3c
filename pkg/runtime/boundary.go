package runtime

// SensorKind selects a sensor family on the SensorSource boundary. Dense
// programs always read SensorAnalog; the richer kinds are reachable from
// builder-composed programs and simulators.
type SensorKind byte

const (
	SensorAnalog SensorKind = iota
	SensorRange
	SensorLight
	SensorTemp
)

func (k SensorKind) String() string {
	switch k {
	case SensorAnalog:
		return "analog"
	case SensorRange:
		return "range"
	case SensorLight:
		return "light"
	case SensorTemp:
		return "temp"
	default:
		return "unknown"
	}
}

// SensorSource supplies sensor readings to the interpreter. The core only
// ever calls it; implementations live with the embedding application (or the
// sim package). A Read error aborts the in-flight run.
type SensorSource interface {
	Read(kind SensorKind, id byte) (float64, error)
}

// Logger observes trace entries as they are appended to a context's
// execution log. Implementations must not block; the interpreter calls
// Record synchronously on its single thread.
type Logger interface {
	Record(message string)
}
