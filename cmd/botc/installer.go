package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"botc/interpreter-go/pkg/driver"
)

// packInstaller resolves every behavior pack the manifest declares and
// rewrites the lockfile's pack list to match.
type packInstaller struct {
	manifest     *driver.Manifest
	manifestRoot string
	cacheDir     string
	logs         []string
	git          *gitFetcher
}

func newPackInstaller(manifest *driver.Manifest, cacheDir string) *packInstaller {
	var root string
	if manifest != nil {
		root = manifest.Dir()
	}
	return &packInstaller{
		manifest:     manifest,
		manifestRoot: root,
		cacheDir:     cacheDir,
		logs:         []string{},
		git:          newGitFetcher(cacheDir),
	}
}

// Install resolves the manifest's packs in name order and replaces the
// lockfile entries with the result. It reports whether the lockfile changed.
func (p *packInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	if p.manifest == nil {
		return false, p.logs, nil
	}

	desired := make([]*driver.LockedPack, 0, len(p.manifest.Dependencies))
	for _, name := range p.manifest.DependencyNames() {
		spec := p.manifest.Dependencies[name]
		if spec == nil {
			return false, p.logs, fmt.Errorf("dependency %q has no descriptor", name)
		}
		pack, err := p.resolve(name, spec)
		if err != nil {
			return false, p.logs, err
		}
		desired = append(desired, pack)
	}

	existing := make(map[string]*driver.LockedPack, len(lock.Packs))
	for _, pack := range lock.Packs {
		if pack == nil {
			continue
		}
		existing[pack.Name] = pack
	}

	changed := len(desired) != len(existing)
	for _, pack := range desired {
		current, ok := existing[pack.Name]
		if !ok || !lockedPackEqual(current, pack) {
			changed = true
		}
	}

	lock.Packs = desired
	return changed, p.logs, nil
}

func (p *packInstaller) resolve(name string, spec *driver.DependencySpec) (*driver.LockedPack, error) {
	if spec.Path != "" {
		return p.resolvePathPack(name, spec)
	}
	if spec.Git != "" {
		return p.git.Fetch(name, spec)
	}
	return nil, fmt.Errorf("dependency %q: unsupported descriptor", name)
}

// resolvePathPack links a pack that lives on the local filesystem. The pack
// is used in place, so no checksum is recorded.
func (p *packInstaller) resolvePathPack(name string, spec *driver.DependencySpec) (*driver.LockedPack, error) {
	path := spec.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.manifestRoot, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: resolve path %q: %w", name, spec.Path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: stat %s: %w", name, abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: expected directory at %s", name, abs)
	}

	p.logs = append(p.logs, fmt.Sprintf("linked %s (%s)", name, p.displayPath(abs)))
	return &driver.LockedPack{
		Name:    name,
		Version: "local",
		Source:  abs,
	}, nil
}

func (p *packInstaller) displayPath(path string) string {
	if p.manifestRoot != "" {
		if rel, err := filepath.Rel(p.manifestRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

func lockedPackEqual(a, b *driver.LockedPack) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.Version == b.Version && a.Source == b.Source && a.Checksum == b.Checksum
}
