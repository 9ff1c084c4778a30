package bytecode

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/funvibe/iclc/internal/config"
)

func init() {
	// Register bundle types for gob serialization
	gob.Register(&Bundle{})
	gob.Register(&Class{})
	gob.Register(&Method{})
}

// bundleVersion is bumped whenever the encoded layout changes.
const bundleVersion byte = 0x01

// Bundle is a complete compiled program.
type Bundle struct {
	// BuildID identifies the build that produced the bundle
	BuildID string

	// SourceFile is the original source file path (for error messages)
	SourceFile string

	// Compiler is the iclc version that produced the bundle
	Compiler string

	Classes []*Class
}

// Serialize converts a Bundle to binary format.
// Format:
// - Magic number (4 bytes): "ICLB"
// - Version (1 byte)
// - Gob-encoded Bundle data
func (b *Bundle) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString(config.BundleFormatMagic)
	buf.WriteByte(bundleVersion)

	enc := gob.NewEncoder(buf)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("bundle gob encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize reads data written by Serialize.
func Deserialize(data []byte) (*Bundle, error) {
	magic := config.BundleFormatMagic
	if len(data) < len(magic)+1 {
		return nil, fmt.Errorf("bundle data too short")
	}
	if string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("invalid magic number, expected %s", magic)
	}
	if version := data[len(magic)]; version != bundleVersion {
		return nil, fmt.Errorf("unsupported bundle version: %d (this binary supports version %d)", version, bundleVersion)
	}

	dec := gob.NewDecoder(bytes.NewReader(data[len(magic)+1:]))
	var bundle Bundle
	if err := dec.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("bundle gob decoding failed: %w", err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("bundle validation failed: %w", err)
	}
	return &bundle, nil
}

// Validate checks that the bundle has exactly one entry class and no
// duplicate class names.
func (b *Bundle) Validate() error {
	seen := make(map[string]bool, len(b.Classes))
	entries := 0
	for _, c := range b.Classes {
		if c == nil {
			return fmt.Errorf("nil class")
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate class %s", c.Name)
		}
		seen[c.Name] = true
		if c.Name == config.EntryClassName {
			entries++
		}
	}
	if entries != 1 {
		return fmt.Errorf("expected one %s class, found %d", config.EntryClassName, entries)
	}
	return nil
}

// Class returns the named class.
func (b *Bundle) Class(name string) (*Class, bool) {
	for _, c := range b.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
