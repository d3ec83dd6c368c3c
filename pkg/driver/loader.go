package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"botc/interpreter-go/pkg/compiler"
	"botc/interpreter-go/pkg/instr"
)

// Loader resolves behavior names to compiled programs. Resolution order: the
// manifest's own behaviors first, then source files in the installed pack
// directories.
type Loader struct {
	manifest *Manifest
	packDirs []string
	strict   bool
}

// NewLoader wires a loader over a validated manifest and the directories of
// the installed behavior packs.
func NewLoader(manifest *Manifest, packDirs []string) *Loader {
	return &Loader{manifest: manifest, packDirs: packDirs}
}

// SetStrict makes Resolve reject sources the permissive compiler would
// accept: unterminated captures and truncated ultra macros become errors.
func (l *Loader) SetStrict(strict bool) {
	l.strict = strict
}

// Resolve compiles the named behavior. An empty name selects the manifest's
// default behavior.
func (l *Loader) Resolve(name string) (*instr.Program, error) {
	if name == "" {
		name = l.manifest.Default
		if name == "" {
			return nil, fmt.Errorf("loader: no behavior named and no default declared")
		}
	}
	source, format, err := l.source(name)
	if err != nil {
		return nil, err
	}
	return l.compile(name, source, format)
}

// CheckAll strictly validates every behavior the manifest declares,
// returning one error per failing behavior in name order.
func (l *Loader) CheckAll() []error {
	checker := &Loader{manifest: l.manifest, packDirs: l.packDirs, strict: true}
	var errs []error
	for _, name := range l.manifest.BehaviorNames() {
		if _, err := checker.Resolve(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (l *Loader) source(name string) (string, Format, error) {
	if spec, ok := l.manifest.Behaviors[name]; ok && spec != nil {
		if spec.Code != "" {
			format := spec.Format
			if format == "" {
				format = FormatDense
			}
			return spec.Code, format, nil
		}
		path := spec.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.manifest.Dir(), path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("loader: behavior %q: %w", name, err)
		}
		format := spec.Format
		if format == "" {
			format = inferFormat(path)
		}
		return string(data), format, nil
	}

	for _, dir := range l.packDirs {
		for _, candidate := range []string{
			filepath.Join(dir, name+DenseExt),
			filepath.Join(dir, name+UltraExt),
			filepath.Join(dir, "behaviors", name+DenseExt),
			filepath.Join(dir, "behaviors", name+UltraExt),
		} {
			data, err := os.ReadFile(candidate)
			if err == nil {
				return string(data), inferFormat(candidate), nil
			}
			if !os.IsNotExist(err) {
				return "", "", fmt.Errorf("loader: behavior %q: %w", name, err)
			}
		}
	}
	return "", "", fmt.Errorf("loader: behavior %q not found", name)
}

func (l *Loader) compile(name, source string, format Format) (*instr.Program, error) {
	text := source
	if format == FormatUltra {
		if l.strict {
			if err := compiler.CheckUltra(text); err != nil {
				return nil, fmt.Errorf("loader: behavior %q: %w", name, err)
			}
		}
		text = compiler.Expand(text)
	}
	if l.strict {
		program, err := compiler.CompileStrict(text)
		if err != nil {
			return nil, fmt.Errorf("loader: behavior %q: %w", name, err)
		}
		return instr.NewProgram(name, program.Instructions), nil
	}
	return instr.NewProgram(name, compiler.Compile(text).Instructions), nil
}
