package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"botc/interpreter-go/pkg/compiler"
	"botc/interpreter-go/pkg/driver"
	"botc/interpreter-go/pkg/instr"
)

var errManifestNotFound = errors.New("robot.yml not found")

// findManifest walks from start upward until it finds robot.yml.
func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, driver.ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", driver.ManifestName, origin, errManifestNotFound)
		}
		dir = parent
	}
}

func loadProjectManifest(start string) (*driver.Manifest, error) {
	path, err := findManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

// loadProjectLockfile returns the project lockfile. A missing lockfile is an
// error only when the manifest declares pack dependencies; otherwise there is
// simply nothing to pin and nil is returned.
func loadProjectLockfile(manifest *driver.Manifest) (*driver.Lockfile, error) {
	lockPath := filepath.Join(manifest.Dir(), driver.LockfileName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if len(manifest.Dependencies) > 0 {
				return nil, fmt.Errorf("%s missing for %q; run `botc deps install`", driver.LockfileName, manifest.Name)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("read lockfile %s: %w", lockPath, err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

// resolveBotcHome locates the pack cache root: BOTC_HOME when set, otherwise
// ~/.botc.
func resolveBotcHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("BOTC_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve BOTC_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".botc"), nil
}

// packSearchDirs lists the directories behaviors may be resolved from: the
// project root first, then every installed pack in lockfile order. Git packs
// live in the cache; path packs are used in place.
func packSearchDirs(manifest *driver.Manifest, lock *driver.Lockfile, cacheDir string) []string {
	var dirs []string
	if manifest != nil {
		dirs = append(dirs, manifest.Dir())
	}
	if lock == nil {
		return dirs
	}
	for _, pack := range lock.Packs {
		if pack == nil || pack.Name == "" {
			continue
		}
		if strings.HasPrefix(pack.Source, "git+") {
			dirs = append(dirs, filepath.Join(cacheDir, "pkg", "src", sanitizePathSegment(pack.Name), sanitizePathSegment(pack.Version)))
			continue
		}
		if pack.Source != "" {
			dirs = append(dirs, pack.Source)
		}
	}
	return dirs
}

// looksLikeSourcePath reports whether a run target names a source file rather
// than a manifest behavior.
func looksLikeSourcePath(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.Contains(arg, "/") || strings.Contains(arg, "\\") {
		return true
	}
	if strings.HasPrefix(arg, ".") {
		return true
	}
	ext := filepath.Ext(arg)
	return strings.EqualFold(ext, driver.DenseExt) || strings.EqualFold(ext, driver.UltraExt)
}

func isUltraPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), driver.UltraExt)
}

// compileSourceFile compiles a bare .botc or .ubc file outside any manifest.
// The program is named after the file.
func compileSourceFile(path string, strict bool) (*instr.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	text := string(data)

	if isUltraPath(path) {
		if strict {
			if err := compiler.CheckUltra(text); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		text = compiler.Expand(text)
	}
	if strict {
		program, err := compiler.CompileStrict(text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return instr.NewProgram(name, program.Instructions), nil
	}
	return instr.NewProgram(name, compiler.Compile(text).Instructions), nil
}
