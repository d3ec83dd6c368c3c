package sim

import (
	"testing"

	"botc/interpreter-go/pkg/runtime"
)

func TestSensorsDeterministicBySeed(t *testing.T) {
	a := NewSensors(42)
	b := NewSensors(42)
	for n := 0; n < 16; n++ {
		va, _ := a.Read(runtime.SensorAnalog, 0)
		vb, _ := b.Read(runtime.SensorAnalog, 0)
		if va != vb {
			t.Fatalf("same seed diverged at reading %d: %v vs %v", n, va, vb)
		}
	}
}

func TestSensorsDifferentSeedsDiverge(t *testing.T) {
	a := NewSensors(1)
	b := NewSensors(2)
	same := true
	for n := 0; n < 8; n++ {
		va, _ := a.Read(runtime.SensorAnalog, 0)
		vb, _ := b.Read(runtime.SensorAnalog, 0)
		if va != vb {
			same = false
		}
	}
	if same {
		t.Fatalf("different seeds produced an identical reading stream")
	}
}

func TestSensorsKindRanges(t *testing.T) {
	s := NewSensors(7)
	cases := []struct {
		kind   runtime.SensorKind
		lo, hi float64
	}{
		{runtime.SensorAnalog, 0, 100},
		{runtime.SensorLight, 0, 100},
		{runtime.SensorRange, 0, 400},
		{runtime.SensorTemp, -20, 60},
	}
	for _, tc := range cases {
		for n := 0; n < 64; n++ {
			v, err := s.Read(tc.kind, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v < tc.lo || v >= tc.hi {
				t.Fatalf("%s reading %v outside [%v, %v)", tc.kind, v, tc.lo, tc.hi)
			}
		}
	}
}

func TestFixedSensors(t *testing.T) {
	src := FixedSensors{0: 75, 3: -2.5}
	v, err := src.Read(runtime.SensorAnalog, 0)
	if err != nil || v != 75 {
		t.Fatalf("expected 75, got %v (err=%v)", v, err)
	}
	v, err = src.Read(runtime.SensorRange, 3)
	if err != nil || v != -2.5 {
		t.Fatalf("expected -2.5, got %v (err=%v)", v, err)
	}
	if _, err := src.Read(runtime.SensorAnalog, 9); err == nil {
		t.Fatalf("expected an error for an unscripted sensor")
	}
}

func TestRecorderKeepsOrder(t *testing.T) {
	var rec Recorder
	rec.Record("first")
	rec.Record("second")
	got := rec.Records()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("unexpected records %v", got)
	}
	got[0] = "tampered"
	if rec.Records()[0] != "first" {
		t.Fatalf("Records exposed internal slice")
	}
}
