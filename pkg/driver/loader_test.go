package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"botc/interpreter-go/pkg/instr"
)

// writeProject lays out a manifest plus supporting files in a temp dir and
// returns the loaded manifest.
func writeProject(t *testing.T, manifest string, files map[string]string) *Manifest {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(manifest)+"\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	return loaded
}

func TestLoaderResolvesInlineBehavior(t *testing.T) {
	manifest := writeProject(t, `
name: rover
default: patrol
behaviors:
  patrol:
    code: '[2>50@90]'
`, nil)

	loader := NewLoader(manifest, nil)
	program, err := loader.Resolve("patrol")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if program.Name != "patrol" {
		t.Fatalf("program name = %q, want patrol", program.Name)
	}
	loop, ok := program.Instructions[0].(*instr.Loop)
	if !ok || loop.Count != 2 {
		t.Fatalf("unexpected program %#v", program.Instructions)
	}
}

func TestLoaderResolvesDefaultBehavior(t *testing.T) {
	manifest := writeProject(t, `
name: rover
default: spin
behaviors:
  spin:
    code: '@90'
`, nil)

	program, err := NewLoader(manifest, nil).Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if program.Name != "spin" {
		t.Fatalf("program name = %q, want spin", program.Name)
	}
}

func TestLoaderWithoutDefault(t *testing.T) {
	manifest := writeProject(t, `
name: rover
behaviors:
  spin:
    code: '@90'
`, nil)

	if _, err := NewLoader(manifest, nil).Resolve(""); err == nil {
		t.Fatalf("expected error without a default behavior")
	}
}

func TestLoaderResolvesFileBehavior(t *testing.T) {
	manifest := writeProject(t, `
name: rover
behaviors:
  greet:
    file: behaviors/greet.botc
`, map[string]string{
		"behaviors/greet.botc": "\"hello\"\n",
	})

	program, err := NewLoader(manifest, nil).Resolve("greet")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	lg, ok := program.Instructions[0].(*instr.Log)
	if !ok || lg.Message != "hello" {
		t.Fatalf("unexpected program %#v", program.Instructions)
	}
}

func TestLoaderExpandsUltraFile(t *testing.T) {
	manifest := writeProject(t, `
name: rover
behaviors:
  boost:
    file: behaviors/boost.ubc
`, map[string]string{
		"behaviors/boost.ubc": "&05\n",
	})

	program, err := NewLoader(manifest, nil).Resolve("boost")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	act, ok := program.Instructions[0].(*instr.Actuate)
	if !ok || act.ActuatorID != 0 || act.Value != 50 {
		t.Fatalf("unexpected program %#v", program.Instructions)
	}
}

func TestLoaderResolvesFromPackDirs(t *testing.T) {
	manifest := writeProject(t, `
name: rover
`, nil)

	pack := t.TempDir()
	if err := os.MkdirAll(filepath.Join(pack, "behaviors"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pack, "spin.botc"), []byte("@180"), 0o600); err != nil {
		t.Fatalf("write pack behavior: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pack, "behaviors", "wave.ubc"), []byte("&15"), 0o600); err != nil {
		t.Fatalf("write pack behavior: %v", err)
	}

	loader := NewLoader(manifest, []string{pack})

	program, err := loader.Resolve("spin")
	if err != nil {
		t.Fatalf("Resolve(spin): %v", err)
	}
	if turn, ok := program.Instructions[0].(*instr.Turn); !ok || turn.Degrees != 180 {
		t.Fatalf("unexpected spin program %#v", program.Instructions)
	}

	program, err = loader.Resolve("wave")
	if err != nil {
		t.Fatalf("Resolve(wave): %v", err)
	}
	if act, ok := program.Instructions[0].(*instr.Actuate); !ok || act.ActuatorID != 1 || act.Value != 50 {
		t.Fatalf("unexpected wave program %#v", program.Instructions)
	}
}

func TestLoaderUnknownBehavior(t *testing.T) {
	manifest := writeProject(t, `
name: rover
`, nil)
	_, err := NewLoader(manifest, nil).Resolve("ghost")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLoaderStrictRejectsUnterminatedDense(t *testing.T) {
	manifest := writeProject(t, `
name: rover
behaviors:
  broken:
    code: '[2>5'
`, nil)

	loader := NewLoader(manifest, nil)
	if _, err := loader.Resolve("broken"); err != nil {
		t.Fatalf("permissive resolve should succeed: %v", err)
	}

	loader.SetStrict(true)
	_, err := loader.Resolve("broken")
	if err == nil || !strings.Contains(err.Error(), "unterminated loop bracket") {
		t.Fatalf("expected strict failure, got %v", err)
	}
}

func TestLoaderStrictRejectsTruncatedUltra(t *testing.T) {
	manifest := writeProject(t, `
name: rover
behaviors:
  torn:
    code: '&0'
    format: ultra
`, nil)

	loader := NewLoader(manifest, nil)
	loader.SetStrict(true)
	_, err := loader.Resolve("torn")
	if err == nil || !strings.Contains(err.Error(), "truncated actuator macro") {
		t.Fatalf("expected strict ultra failure, got %v", err)
	}
}

func TestLoaderCheckAll(t *testing.T) {
	manifest := writeProject(t, `
name: rover
behaviors:
  good:
    code: '>5'
  bad:
    code: '{30:>1'
`, nil)

	errs := NewLoader(manifest, nil).CheckAll()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one failing behavior, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), `behavior "bad"`) {
		t.Fatalf("unexpected error %v", errs[0])
	}
}
