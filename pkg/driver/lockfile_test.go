package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLockfileRoundTrip(t *testing.T) {
	lock := NewLockfile("rover", "botc 0.1.0")
	lock.Upsert(&LockedPack{
		Name:     "swerve",
		Version:  "9c1f2d3",
		Source:   "https://example.com/packs/swerve.git",
		Checksum: "sha256:deadbeef",
	})
	lock.Upsert(&LockedPack{
		Name:     "basics",
		Version:  "local",
		Source:   "../basics",
		Checksum: "sha256:cafef00d",
	})

	dir := t.TempDir()
	path := filepath.Join(dir, LockfileName)
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if loaded.Root != "rover" || loaded.Tool != "botc 0.1.0" {
		t.Fatalf("metadata mismatch: %#v", loaded)
	}
	if loaded.Generated == "" {
		t.Fatalf("expected generated timestamp")
	}
	if len(loaded.Packs) != 2 {
		t.Fatalf("expected 2 packs, got %d", len(loaded.Packs))
	}
	// Entries come back sorted by name.
	if loaded.Packs[0].Name != "basics" || loaded.Packs[1].Name != "swerve" {
		t.Fatalf("packs not sorted: %v, %v", loaded.Packs[0].Name, loaded.Packs[1].Name)
	}
	swerve, ok := loaded.Pack("swerve")
	if !ok || swerve.Version != "9c1f2d3" || swerve.Checksum != "sha256:deadbeef" {
		t.Fatalf("swerve entry mismatch: %#v", swerve)
	}
}

func TestLockfileUpsertReplaces(t *testing.T) {
	lock := NewLockfile("rover", "botc")
	lock.Upsert(&LockedPack{Name: "swerve", Version: "v1"})
	lock.Upsert(&LockedPack{Name: "swerve", Version: "v2"})
	if len(lock.Packs) != 1 {
		t.Fatalf("expected single entry, got %d", len(lock.Packs))
	}
	if pack, _ := lock.Pack("swerve"); pack.Version != "v2" {
		t.Fatalf("expected replacement, got %#v", pack)
	}
}

func TestLoadLockfileRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockfileName)
	contents := "root: rover\nflavor: spicy\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write lockfile: %v", err)
	}
	if _, err := LoadLockfile(path); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestWriteLockfileNil(t *testing.T) {
	err := WriteLockfile(nil, "anywhere")
	if err == nil || !strings.Contains(err.Error(), "nil lockfile") {
		t.Fatalf("expected nil lockfile error, got %v", err)
	}
}

func TestWriteLockfileNeedsPath(t *testing.T) {
	if err := WriteLockfile(NewLockfile("r", "t"), ""); err == nil {
		t.Fatalf("expected missing path error")
	}
}
