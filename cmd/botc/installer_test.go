package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"botc/interpreter-go/pkg/driver"
)

func TestPackInstallerPathPack(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "app")
	packDir := filepath.Join(root, "moves-pack")

	writeProject(t, appDir, `
name: rover
dependencies:
  moves:
    path: ../moves-pack
`, nil)
	if err := os.MkdirAll(packDir, 0o755); err != nil {
		t.Fatalf("mkdir pack: %v", err)
	}
	writeFile(t, filepath.Join(packDir, "wave.botc"), "@180>5")

	manifest, err := driver.LoadManifest(filepath.Join(appDir, driver.ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	lock := driver.NewLockfile(manifest.Name, toolVersion)
	installer := newPackInstaller(manifest, filepath.Join(root, "cache"))

	changed, logs, err := installer.Install(lock)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile change for a new pack")
	}
	if len(logs) == 0 {
		t.Fatalf("expected resolution logging")
	}
	if len(lock.Packs) != 1 {
		t.Fatalf("lock packs = %#v", lock.Packs)
	}
	pack := findLockedPack(lock.Packs, "moves")
	if pack == nil {
		t.Fatalf("missing moves entry: %#v", lock.Packs)
	}
	if pack.Version != "local" {
		t.Fatalf("pack.Version = %q, want local", pack.Version)
	}
	if pack.Source != packDir {
		t.Fatalf("pack.Source = %q, want %q", pack.Source, packDir)
	}
	if pack.Checksum != "" {
		t.Fatalf("path packs are used in place, got checksum %q", pack.Checksum)
	}

	// A second install resolves to the same entries.
	changed, _, err = newPackInstaller(manifest, filepath.Join(root, "cache")).Install(lock)
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if changed {
		t.Fatalf("expected a stable lockfile on reinstall")
	}
}

func TestPackInstallerGitPack(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatalf("mkdir repo: %v", err)
	}
	writeFile(t, filepath.Join(repo, "spin.botc"), "[2@90]")
	rev := initGitRepo(t, repo)

	appDir := filepath.Join(root, "app")
	writeProject(t, appDir, `
name: rover
dependencies:
  spin-pack:
    git: `+repo+`
    rev: `+rev+`
`, nil)

	manifest, err := driver.LoadManifest(filepath.Join(appDir, driver.ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	cacheDir := filepath.Join(root, "cache")
	lock := driver.NewLockfile(manifest.Name, toolVersion)
	installer := newPackInstaller(manifest, cacheDir)

	changed, _, err := installer.Install(lock)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected lockfile change for a git pack")
	}
	pack := findLockedPack(lock.Packs, "spin-pack")
	if pack == nil {
		t.Fatalf("missing spin-pack entry: %#v", lock.Packs)
	}
	if pack.Version != rev {
		t.Fatalf("pack.Version = %q, want %q", pack.Version, rev)
	}
	wantSource := fmt.Sprintf("git+%s@%s", repo, rev)
	if pack.Source != wantSource {
		t.Fatalf("pack.Source = %q, want %q", pack.Source, wantSource)
	}
	if pack.Checksum == "" {
		t.Fatalf("expected a checksum for the cached checkout")
	}

	cached := filepath.Join(cacheDir, "pkg", "src", "spin-pack", sanitizePathSegment(pack.Version))
	if _, err := os.Stat(filepath.Join(cached, "spin.botc")); err != nil {
		t.Fatalf("expected cached pack source at %s: %v", cached, err)
	}

	// Pinned revs are served from the cache on reinstall.
	changed, _, err = newPackInstaller(manifest, cacheDir).Install(lock)
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if changed {
		t.Fatalf("expected a stable lockfile on reinstall")
	}
}

func TestPackInstallerGitPackBranch(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatalf("mkdir repo: %v", err)
	}
	writeFile(t, filepath.Join(repo, "spin.botc"), "@90")
	rev := initGitRepo(t, repo)

	appDir := filepath.Join(root, "app")
	writeProject(t, appDir, `
name: rover
dependencies:
  spin-pack:
    git: `+repo+`
    branch: master
`, nil)

	manifest, err := driver.LoadManifest(filepath.Join(appDir, driver.ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	lock := driver.NewLockfile(manifest.Name, toolVersion)
	installer := newPackInstaller(manifest, filepath.Join(root, "cache"))
	if _, _, err := installer.Install(lock); err != nil {
		t.Fatalf("Install: %v", err)
	}

	pack := findLockedPack(lock.Packs, "spin-pack")
	if pack == nil {
		t.Fatalf("missing spin-pack entry: %#v", lock.Packs)
	}
	wantVersion := fmt.Sprintf("master@%s", rev)
	if pack.Version != wantVersion {
		t.Fatalf("pack.Version = %q, want %q", pack.Version, wantVersion)
	}
	wantSource := fmt.Sprintf("git+%s@%s", repo, rev)
	if pack.Source != wantSource {
		t.Fatalf("pack.Source = %q, want %q", pack.Source, wantSource)
	}
}

func TestPackInstallerDropsStaleEntries(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "app")
	writeProject(t, appDir, "name: rover", nil)

	manifest, err := driver.LoadManifest(filepath.Join(appDir, driver.ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	lock := driver.NewLockfile(manifest.Name, toolVersion)
	lock.Upsert(&driver.LockedPack{Name: "ghost", Version: "local", Source: "/nowhere"})

	changed, _, err := newPackInstaller(manifest, filepath.Join(root, "cache")).Install(lock)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected change when dropping stale packs")
	}
	if len(lock.Packs) != 0 {
		t.Fatalf("expected stale packs removed, got %#v", lock.Packs)
	}
}
