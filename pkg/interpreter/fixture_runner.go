package interpreter

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"botc/interpreter-go/pkg/compiler"
	"botc/interpreter-go/pkg/instr"
	"botc/interpreter-go/pkg/runtime"
	"botc/interpreter-go/pkg/sim"
)

// fixtureFile is one YAML document under testdata holding replayable
// end-to-end cases.
type fixtureFile struct {
	Cases []fixtureCase `yaml:"cases"`
}

type fixtureCase struct {
	Name    string          `yaml:"name"`
	Format  string          `yaml:"format"` // "dense" (default) or "ultra"
	Source  string          `yaml:"source"`
	Strict  bool            `yaml:"strict"`
	Sensors map[int]float64 `yaml:"sensors"`
	Expect  fixtureExpect   `yaml:"expect"`
}

type fixtureExpect struct {
	Trace    []string           `yaml:"trace"`
	Memory   map[string]float64 `yaml:"memory"`
	Outputs  map[int]float64    `yaml:"outputs"`
	Traveled *int               `yaml:"traveled"`
	Heading  *int               `yaml:"heading"`
	Error    string             `yaml:"error"`
}

// RunFixtureFile replays every case in the fixture file at path: compile the
// source (expanding ultra first), execute it against scripted sensors, and
// assert the observable outcome.
func RunFixtureFile(t *testing.T, path string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	var file fixtureFile
	if err := decoder.Decode(&file); err != nil {
		t.Fatalf("parse fixture %s: %v", path, err)
	}
	if len(file.Cases) == 0 {
		t.Fatalf("fixture %s has no cases", path)
	}
	for _, c := range file.Cases {
		t.Run(c.Name, func(t *testing.T) {
			runFixtureCase(t, c)
		})
	}
}

func runFixtureCase(t *testing.T, c fixtureCase) {
	t.Helper()
	source := c.Source
	if c.Format == "ultra" {
		if c.Strict {
			if err := compiler.CheckUltra(source); err != nil {
				t.Fatalf("ultra validation failed: %v", err)
			}
		}
		source = compiler.Expand(source)
	}

	var program *instr.Program
	if c.Strict {
		strictProgram, err := compiler.CompileStrict(source)
		if err != nil {
			t.Fatalf("strict compile failed: %v", err)
		}
		program = strictProgram
	} else {
		program = compiler.Compile(source)
	}

	sensors := sim.FixedSensors{}
	for id, v := range c.Sensors {
		sensors[byte(id)] = v
	}

	interp := New(sensors)
	interp.SetSleep(func(time.Duration) {})
	ctx := runtime.NewContext("fixture-bot")

	err := interp.Run(program, ctx)
	if c.Expect.Error != "" {
		if err == nil {
			t.Fatalf("expected run error containing %q", c.Expect.Error)
		}
		if !strings.Contains(err.Error(), c.Expect.Error) {
			t.Fatalf("expected error containing %q, got %v", c.Expect.Error, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if c.Expect.Trace != nil {
		got := ctx.TraceLog()
		if len(got) != len(c.Expect.Trace) {
			t.Fatalf("expected %d trace entries, got %v", len(c.Expect.Trace), got)
		}
		for i, want := range c.Expect.Trace {
			if got[i] != want {
				t.Fatalf("trace[%d]: expected %q, got %q", i, want, got[i])
			}
		}
	}
	for name, want := range c.Expect.Memory {
		got, ok := ctx.Memory.Reading(name)
		if !ok || got != want {
			t.Fatalf("memory[%s]: expected %v, got %v (ok=%v)", name, want, got, ok)
		}
	}
	for id, want := range c.Expect.Outputs {
		if got := ctx.Output(byte(id)); got != want {
			t.Fatalf("output[%d]: expected %v, got %v", id, want, got)
		}
	}
	if c.Expect.Traveled != nil && ctx.Traveled() != *c.Expect.Traveled {
		t.Fatalf("expected traveled %d, got %d", *c.Expect.Traveled, ctx.Traveled())
	}
	if c.Expect.Heading != nil && ctx.Heading() != *c.Expect.Heading {
		t.Fatalf("expected heading %d, got %d", *c.Expect.Heading, ctx.Heading())
	}
}
