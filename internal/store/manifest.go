package store

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
)

// Manifest describes a build directory for humans and tools that do not
// read the bundle format.
type Manifest struct {
	Build    string          `yaml:"build"`
	File     string          `yaml:"file,omitempty"`
	Compiler string          `yaml:"compiler"`
	Created  time.Time       `yaml:"created"`
	Classes  []ManifestClass `yaml:"classes"`
}

type ManifestClass struct {
	Name       string   `yaml:"name"`
	Kind       string   `yaml:"kind"`
	Super      string   `yaml:"super,omitempty"`
	Interfaces []string `yaml:"interfaces,omitempty"`
	Fields     []string `yaml:"fields,omitempty"`  // "name descriptor"
	Methods    []string `yaml:"methods,omitempty"` // name followed by descriptor
}

func newManifest(b *Build) *Manifest {
	m := &Manifest{
		Build:    b.ID.String(),
		File:     b.File,
		Compiler: config.Version,
		Created:  b.Created,
	}
	for _, c := range b.Classes {
		m.Classes = append(m.Classes, manifestClass(c))
	}
	return m
}

func manifestClass(c *bytecode.Class) ManifestClass {
	mc := ManifestClass{
		Name:       c.Name,
		Kind:       string(c.Kind),
		Super:      c.Super,
		Interfaces: c.Interfaces,
	}
	for _, f := range c.Fields {
		mc.Fields = append(mc.Fields, f.Name+" "+f.Descriptor)
	}
	for _, meth := range c.Methods {
		mc.Methods = append(mc.Methods, meth.Name+meth.Descriptor)
	}
	return mc
}

func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// ParseManifest decodes a manifest.yaml document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
