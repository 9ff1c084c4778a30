// Package store persists compiled builds, either as a directory of files or
// as rows of a sqlite database.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
)

// ErrNotFound is returned when a requested build does not exist.
var ErrNotFound = errors.New("build not found")

// Build is one compilation of one source file. The class set is
// deterministic for a given source; ID and Created are not.
type Build struct {
	ID      uuid.UUID
	File    string
	Source  string
	Created time.Time
	Classes []*bytecode.Class
}

// NewBuild stamps classes with a fresh build id.
func NewBuild(file, source string, classes []*bytecode.Class) *Build {
	return &Build{
		ID:      uuid.New(),
		File:    file,
		Source:  source,
		Created: time.Now().UTC(),
		Classes: classes,
	}
}

// Bundle returns the serializable form of b.
func (b *Build) Bundle() *bytecode.Bundle {
	return &bytecode.Bundle{
		BuildID:    b.ID.String(),
		SourceFile: b.File,
		Compiler:   config.Version,
		Classes:    b.Classes,
	}
}

type Sink interface {
	Write(ctx context.Context, b *Build) error
}

type Source interface {
	// Latest returns the most recently written build.
	Latest(ctx context.Context) (*Build, error)
	Load(ctx context.Context, id uuid.UUID) (*Build, error)
}

// fromBundle restores the build fields a bundle carries.
func fromBundle(bundle *bytecode.Bundle) (*Build, error) {
	id, err := uuid.Parse(bundle.BuildID)
	if err != nil {
		return nil, err
	}
	return &Build{ID: id, File: bundle.SourceFile, Classes: bundle.Classes}, nil
}
