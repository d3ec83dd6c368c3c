package sim

import (
	"fmt"
	"math/rand"

	"botc/interpreter-go/pkg/runtime"
)

// Sensors is a simulated sensor bank backed by a seeded generator: the same
// seed always replays the same reading sequence, which keeps runs
// reproducible. It implements runtime.SensorSource.
type Sensors struct {
	rng *rand.Rand
}

func NewSensors(seed int64) *Sensors {
	return &Sensors{rng: rand.New(rand.NewSource(seed))}
}

// Read returns the next pseudo-random reading in the kind's value range. The
// sensor id does not influence the value; readings are a stream, not a
// per-sensor series.
func (s *Sensors) Read(kind runtime.SensorKind, id byte) (float64, error) {
	lo, hi := kindRange(kind)
	return lo + s.rng.Float64()*(hi-lo), nil
}

// kindRange gives the simulated value range per sensor family. Analog and
// light sensors read 0-100, range sensors 0-400 (cm), temperature -20-60.
func kindRange(kind runtime.SensorKind) (float64, float64) {
	switch kind {
	case runtime.SensorRange:
		return 0, 400
	case runtime.SensorTemp:
		return -20, 60
	default:
		return 0, 100
	}
}

// FixedSensors serves scripted readings keyed by sensor id. Reading an id
// that was never scripted fails, which is exactly what tests exercising the
// abort path want.
type FixedSensors map[byte]float64

func (f FixedSensors) Read(kind runtime.SensorKind, id byte) (float64, error) {
	v, ok := f[id]
	if !ok {
		return 0, fmt.Errorf("no reading scripted for sensor %d", id)
	}
	return v, nil
}
