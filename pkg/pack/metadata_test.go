package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadMetadataFile loads a valid metadata record.
func TestLoadMetadataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yaml")
	record := `name: spider
version: 1.2.3
dependencies:
  - name: fetcher
    version: "^0.3.0"
`
	require.NoError(t, os.WriteFile(path, []byte(record), 0o644))

	metadata, err := LoadMetadataFile(path)
	require.NoError(t, err)
	assert.Equal(t, "spider", metadata.Name)
	assert.Equal(t, "1.2.3", metadata.Version.String())
	require.Len(t, metadata.Dependencies, 1)
	assert.Equal(t, "fetcher", metadata.Dependencies[0].Name)
	assert.Equal(t, "^0.3.0", metadata.Dependencies[0].Version)
	assert.Empty(t, metadata.Digest)
}

// TestParseMetadata_InvalidVersion rejects malformed version strings.
func TestParseMetadata_InvalidVersion(t *testing.T) {
	_, err := ParseMetadata([]byte("name: spider\nversion: not-a-version\n"))
	assert.Error(t, err)
}

// TestParseMetadata_MissingName rejects records without a name.
func TestParseMetadata_MissingName(t *testing.T) {
	_, err := ParseMetadata([]byte("version: 1.0.0\n"))
	assert.Error(t, err)
}

// TestParseMetadata_BadYAML rejects unparseable records.
func TestParseMetadata_BadYAML(t *testing.T) {
	_, err := ParseMetadata([]byte("{not yaml"))
	assert.Error(t, err)
}

// TestParseMetadata_BadDependencyRequirement rejects unparseable dependency
// requirement expressions.
func TestParseMetadata_BadDependencyRequirement(t *testing.T) {
	record := `name: spider
version: 1.0.0
dependencies:
  - name: fetcher
    version: "???"
`
	_, err := ParseMetadata([]byte(record))
	assert.Error(t, err)
}
