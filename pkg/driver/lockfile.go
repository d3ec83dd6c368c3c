package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName is the resolved-dependency file written next to robot.yml.
const LockfileName = "pack.lock"

// Lockfile models the pack.lock contents: every behavior pack the project
// depends on, pinned to the exact content that was installed.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Packs     []*LockedPack
}

// LockedPack captures a single resolved behavior pack.
type LockedPack struct {
	Name     string
	Version  string // resolved commit hash, or "local" for path packs
	Source   string // git URL or filesystem path
	Checksum string
}

// NewLockfile constructs a lockfile with metadata seeded for the given root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      strings.TrimSpace(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Packs:     []*LockedPack{},
	}
}

// Pack returns the locked entry for name, if present.
func (l *Lockfile) Pack(name string) (*LockedPack, bool) {
	for _, pack := range l.Packs {
		if pack != nil && pack.Name == name {
			return pack, true
		}
	}
	return nil, false
}

// Upsert records a resolved pack, replacing any previous entry of that name.
func (l *Lockfile) Upsert(pack *LockedPack) {
	if pack == nil {
		return
	}
	for i, existing := range l.Packs {
		if existing != nil && existing.Name == pack.Name {
			l.Packs[i] = pack
			return
		}
	}
	l.Packs = append(l.Packs, pack)
}

// LoadLockfile parses pack.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	lock.normalize()
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Root = strings.TrimSpace(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	sort.SliceStable(l.Packs, func(i, j int) bool {
		return l.Packs[i].Name < l.Packs[j].Name
	})
	for _, pack := range l.Packs {
		if pack == nil {
			continue
		}
		pack.Name = strings.TrimSpace(pack.Name)
		pack.Version = strings.TrimSpace(pack.Version)
		pack.Source = strings.TrimSpace(pack.Source)
		pack.Checksum = strings.TrimSpace(pack.Checksum)
	}
}

func (l *Lockfile) toDisk() lockfileDisk {
	packs := make([]lockfilePack, 0, len(l.Packs))
	for _, pack := range l.Packs {
		if pack == nil {
			continue
		}
		packs = append(packs, lockfilePack{
			Name:     pack.Name,
			Version:  pack.Version,
			Source:   pack.Source,
			Checksum: pack.Checksum,
		})
	}
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Packs:     packs,
	}
}

type lockfileDisk struct {
	Root      string         `yaml:"root"`
	Generated string         `yaml:"generated"`
	Tool      string         `yaml:"tool"`
	Packs     []lockfilePack `yaml:"packs"`
}

type lockfilePack struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      strings.TrimSpace(d.Root),
		Generated: strings.TrimSpace(d.Generated),
		Tool:      strings.TrimSpace(d.Tool),
		Packs:     make([]*LockedPack, 0, len(d.Packs)),
	}
	for _, pack := range d.Packs {
		lock.Packs = append(lock.Packs, &LockedPack{
			Name:     strings.TrimSpace(pack.Name),
			Version:  strings.TrimSpace(pack.Version),
			Source:   strings.TrimSpace(pack.Source),
			Checksum: strings.TrimSpace(pack.Checksum),
		})
	}
	return lock
}
