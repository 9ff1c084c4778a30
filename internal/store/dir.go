package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
)

// DirSink writes a build into Root: the bundle, its manifest and, when
// Assembly is set, one Jasmin file per class. A later build replaces the
// earlier one.
type DirSink struct {
	Root     string
	Assembly bool
}

func (s *DirSink) Write(ctx context.Context, b *Build) error {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if s.Assembly {
		for _, c := range b.Classes {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(s.Root, c.Name+config.AssemblyFileExt)
			if err := os.WriteFile(path, []byte(bytecode.Disassemble(c)), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}

	data, err := b.Bundle().Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.Root, config.BundleFileName), data, 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	manifest, err := newManifest(b).Marshal()
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Root, config.ManifestFileName), manifest, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// DirSource reads the build a DirSink wrote into Root.
type DirSource struct {
	Root string
}

func (s *DirSource) Latest(ctx context.Context) (*Build, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, config.BundleFileName))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", s.Root, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	bundle, err := bytecode.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Root, err)
	}
	b, err := fromBundle(bundle)
	if err != nil {
		return nil, fmt.Errorf("%s: bad build id: %w", s.Root, err)
	}

	// The manifest only adds the creation time.
	if raw, err := os.ReadFile(filepath.Join(s.Root, config.ManifestFileName)); err == nil {
		if m, err := ParseManifest(raw); err == nil {
			b.Created = m.Created
		}
	}
	return b, nil
}

// Load returns the build in Root if its id is id. A directory holds one build.
func (s *DirSource) Load(ctx context.Context, id uuid.UUID) (*Build, error) {
	b, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if b.ID != id {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return b, nil
}
