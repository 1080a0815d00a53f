package pack

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// metadataFile is the structured text record consumed by the packaging
// tool. The digest field, if present, is ignored: it is recomputed and
// overwritten by New, never trusted from this file.
type metadataFile struct {
	Name         string       `yaml:"name"`
	Version      string       `yaml:"version"`
	Dependencies []Dependency `yaml:"dependencies"`
}

// LoadMetadataFile reads a plugin metadata record from a yaml file.
func LoadMetadataFile(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata file: %w", err)
	}
	return ParseMetadata(data)
}

// ParseMetadata parses a yaml metadata record.
func ParseMetadata(data []byte) (Metadata, error) {
	var file metadataFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}

	version, err := semver.NewVersion(file.Version)
	if err != nil {
		return Metadata{}, fmt.Errorf("invalid metadata version %q: %w", file.Version, err)
	}

	m := Metadata{
		Name:         file.Name,
		Version:      version,
		Dependencies: file.Dependencies,
	}
	if err := m.Validate(); err != nil {
		return Metadata{}, err
	}
	return m, nil
}
