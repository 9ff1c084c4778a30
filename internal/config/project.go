package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Sink names accepted in iclc.yaml.
const (
	SinkDir    = "dir"
	SinkSQLite = "sqlite"
)

// Backend names accepted in iclc.yaml.
const (
	BackendTree = "tree"
	BackendVM   = "vm"
)

// Project represents the iclc.yaml configuration.
type Project struct {
	// Output is the directory compiled artifacts are written to when Sink is "dir".
	Output string `yaml:"output,omitempty"`

	// Sink selects where compiled builds are persisted: "dir" or "sqlite".
	Sink string `yaml:"sink,omitempty"`

	// Database is the sqlite file used when Sink is "sqlite".
	Database string `yaml:"database,omitempty"`

	// Backend selects the executor used by `iclc run`: "tree" or "vm".
	Backend string `yaml:"backend,omitempty"`

	// EmitAssembly writes a Jasmin .j file per artifact next to the bundle.
	EmitAssembly *bool `yaml:"emit_assembly,omitempty"`

	// MaxCallDepth bounds closure recursion in both executors.
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`

	// Jobs bounds how many source files are compiled concurrently.
	Jobs int `yaml:"jobs,omitempty"`
}

// DefaultProject returns the configuration used when no iclc.yaml exists.
func DefaultProject() *Project {
	p := &Project{}
	p.setDefaults()
	return p
}

// LoadProject reads and parses an iclc.yaml file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseProject(data, path)
}

// ParseProject parses iclc.yaml content from bytes.
// The path argument is used only for error messages.
func ParseProject(data []byte, path string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p.setDefaults()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

// FindProject searches for iclc.yaml starting from dir and walking up
// to parent directories. Returns "" and a nil error if none is found.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Validate rejects unknown sink or backend names and non-positive limits.
func (p *Project) Validate() error {
	switch p.Sink {
	case SinkDir, SinkSQLite:
	default:
		return fmt.Errorf("unknown sink %q (want %q or %q)", p.Sink, SinkDir, SinkSQLite)
	}
	switch p.Backend {
	case BackendTree, BackendVM:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", p.Backend, BackendTree, BackendVM)
	}
	if p.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", p.MaxCallDepth)
	}
	if p.Jobs <= 0 {
		return fmt.Errorf("jobs must be positive, got %d", p.Jobs)
	}
	return nil
}

// WritesAssembly reports whether .j files should be written.
func (p *Project) WritesAssembly() bool {
	return p.EmitAssembly == nil || *p.EmitAssembly
}

func (p *Project) setDefaults() {
	if p.Output == "" {
		p.Output = DefaultOutputDir
	}
	if p.Sink == "" {
		p.Sink = SinkDir
	}
	if p.Database == "" {
		p.Database = DefaultDatabase
	}
	if p.Backend == "" {
		p.Backend = BackendTree
	}
	if p.MaxCallDepth == 0 {
		p.MaxCallDepth = DefaultMaxDepth
	}
	if p.Jobs == 0 {
		p.Jobs = DefaultJobs
	}
}
