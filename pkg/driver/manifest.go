package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file a robot project is defined by.
const ManifestName = "robot.yml"

// Format selects which grammar a behavior source is written in.
type Format string

const (
	FormatDense Format = "dense"
	FormatUltra Format = "ultra"
)

// Source file extensions for the two grammars.
const (
	DenseExt = ".botc"
	UltraExt = ".ubc"
)

// Manifest represents the parsed contents of robot.yml.
type Manifest struct {
	Path         string
	Name         string
	Seed         int64
	Default      string
	Behaviors    map[string]*BehaviorSpec
	Dependencies map[string]*DependencySpec
}

// BehaviorSpec describes one named behavior: inline code or a source file,
// in dense (the default) or ultra format.
type BehaviorSpec struct {
	Code   string
	File   string
	Format Format
}

// DependencySpec describes where a behavior pack comes from: a git remote
// pinned by rev, tag, or branch, or a local path.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses robot.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest()
	manifest.Path = absPath
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Dir returns the directory the manifest lives in; behavior file paths
// resolve relative to it.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// BehaviorNames returns the declared behavior names in sorted order.
func (m *Manifest) BehaviorNames() []string {
	names := make([]string, 0, len(m.Behaviors))
	for name := range m.Behaviors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DependencyNames returns the declared pack names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) validate() error {
	var issues []string
	if strings.TrimSpace(m.Name) == "" {
		issues = append(issues, "name is required")
	}
	if m.Default != "" {
		if _, ok := m.Behaviors[m.Default]; !ok {
			issues = append(issues, fmt.Sprintf("default behavior %q is not declared", m.Default))
		}
	}
	for _, name := range m.BehaviorNames() {
		spec := m.Behaviors[name]
		if spec == nil {
			issues = append(issues, fmt.Sprintf("behavior %q is empty", name))
			continue
		}
		hasCode := strings.TrimSpace(spec.Code) != ""
		hasFile := strings.TrimSpace(spec.File) != ""
		if hasCode == hasFile {
			issues = append(issues, fmt.Sprintf("behavior %q needs exactly one of code or file", name))
		}
		switch spec.Format {
		case "", FormatDense, FormatUltra:
		default:
			issues = append(issues, fmt.Sprintf("behavior %q has unknown format %q", name, spec.Format))
		}
		if spec.Format == "" {
			spec.Format = inferFormat(spec.File)
		}
	}
	for _, name := range m.DependencyNames() {
		dep := m.Dependencies[name]
		if dep == nil {
			issues = append(issues, fmt.Sprintf("dependency %q is empty", name))
			continue
		}
		hasGit := strings.TrimSpace(dep.Git) != ""
		hasPath := strings.TrimSpace(dep.Path) != ""
		if hasGit == hasPath {
			issues = append(issues, fmt.Sprintf("dependency %q needs exactly one of git or path", name))
		}
		pins := 0
		for _, pin := range []string{dep.Rev, dep.Tag, dep.Branch} {
			if strings.TrimSpace(pin) != "" {
				pins++
			}
		}
		if pins > 1 {
			issues = append(issues, fmt.Sprintf("dependency %q pins more than one of rev, tag, branch", name))
		}
		if pins > 0 && !hasGit {
			issues = append(issues, fmt.Sprintf("dependency %q pins a revision without a git source", name))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// inferFormat maps a source path to its grammar: .ubc files hold ultra code,
// everything else (inline code included) defaults to dense.
func inferFormat(file string) Format {
	if strings.EqualFold(filepath.Ext(file), UltraExt) {
		return FormatUltra
	}
	return FormatDense
}

type manifestFile struct {
	Name         string                     `yaml:"name"`
	Seed         int64                      `yaml:"seed"`
	Default      string                     `yaml:"default"`
	Behaviors    map[string]*behaviorFile   `yaml:"behaviors"`
	Dependencies map[string]*dependencyFile `yaml:"dependencies"`
}

type behaviorFile struct {
	Code   string `yaml:"code"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

type dependencyFile struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

func (f manifestFile) toManifest() *Manifest {
	manifest := &Manifest{
		Name:         strings.TrimSpace(f.Name),
		Seed:         f.Seed,
		Default:      strings.TrimSpace(f.Default),
		Behaviors:    make(map[string]*BehaviorSpec, len(f.Behaviors)),
		Dependencies: make(map[string]*DependencySpec, len(f.Dependencies)),
	}
	for name, spec := range f.Behaviors {
		if spec == nil {
			manifest.Behaviors[strings.TrimSpace(name)] = nil
			continue
		}
		manifest.Behaviors[strings.TrimSpace(name)] = &BehaviorSpec{
			Code:   spec.Code,
			File:   strings.TrimSpace(spec.File),
			Format: Format(strings.ToLower(strings.TrimSpace(spec.Format))),
		}
	}
	for name, dep := range f.Dependencies {
		if dep == nil {
			manifest.Dependencies[strings.TrimSpace(name)] = nil
			continue
		}
		manifest.Dependencies[strings.TrimSpace(name)] = &DependencySpec{
			Git:    strings.TrimSpace(dep.Git),
			Rev:    strings.TrimSpace(dep.Rev),
			Tag:    strings.TrimSpace(dep.Tag),
			Branch: strings.TrimSpace(dep.Branch),
			Path:   strings.TrimSpace(dep.Path),
		}
	}
	return manifest
}
