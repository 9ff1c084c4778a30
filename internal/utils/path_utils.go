package utils

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/iclc/internal/config"
)

// ProgramName derives a program name from a source file path by taking the
// base name and removing the source extension. Empty paths give "main".
func ProgramName(path string) string {
	if path == "" {
		return "main"
	}
	name := filepath.Base(path)
	return strings.TrimSuffix(name, config.SourceFileExt)
}

// OutputDir returns the directory a build of path is written to when several
// files are compiled into one output root.
func OutputDir(root, path string, multiple bool) string {
	if !multiple {
		return root
	}
	return filepath.Join(root, ProgramName(path))
}

// HasSourceExt reports whether path names a source file.
func HasSourceExt(path string) bool {
	return strings.HasSuffix(path, config.SourceFileExt)
}
