package pack

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Metadata describes a plugin package.
type Metadata struct {
	// Name is the plugin's package name; exported files are named
	// "<name>.cdp".
	Name string `json:"name" yaml:"name"`

	// Digest is the hex-encoded 64-byte content digest of the library
	// bytes. It is computed by New and never trusted from external input
	// without a recheck.
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`

	// Version is the plugin's own semantic version.
	Version *semver.Version `json:"version" yaml:"-"`

	// Dependencies lists other plugins this one expects, in order.
	// Advisory metadata only: the loader does not consult it.
	Dependencies []Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Dependency names another plugin and the version range of it this plugin
// expects.
type Dependency struct {
	Name string `json:"name" yaml:"name"`

	// Version is a semantic-version requirement expression, e.g. "^1.2.0".
	Version string `json:"version" yaml:"version"`
}

// Constraint parses the dependency's version requirement expression.
func (d Dependency) Constraint() (*semver.Constraints, error) {
	c, err := semver.NewConstraint(d.Version)
	if err != nil {
		return nil, fmt.Errorf("dependency %s has invalid version requirement %q: %w", d.Name, d.Version, err)
	}
	return c, nil
}

// Validate checks that the metadata is well formed: a name, a version, and
// parseable dependency requirements. The digest field is not checked here;
// it is bound to library bytes by New and rechecked during import.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("package metadata missing name")
	}
	if m.Version == nil {
		return fmt.Errorf("package %s metadata missing version", m.Name)
	}
	for _, dep := range m.Dependencies {
		if _, err := dep.Constraint(); err != nil {
			return err
		}
	}
	return nil
}

// Package is the unsigned logical unit of distribution: metadata plus the
// raw compiled extension image. It is created by the packaging step and
// consumed, never mutated, by the loader.
type Package struct {
	Metadata Metadata
	Library  []byte
}

// New binds metadata to library bytes, overwriting Metadata.Digest with the
// content digest of library. Any digest supplied in metadata is discarded.
func New(metadata Metadata, library []byte) *Package {
	p := &Package{Metadata: metadata, Library: library}
	p.Metadata.Digest = DigestHex(library)
	return p
}

// Digest recomputes the content digest of the package's library bytes.
func (p *Package) Digest() [DigestSize]byte {
	return Digest(p.Library)
}

// DigestCheck reports whether Metadata.Digest is the hex encoding of the
// recomputed digest of the library bytes.
func (p *Package) DigestCheck() bool {
	provided, err := hex.DecodeString(p.Metadata.Digest)
	if err != nil || len(provided) != DigestSize {
		return false
	}
	actual := p.Digest()
	return subtle.ConstantTimeCompare(provided, actual[:]) == 1
}
