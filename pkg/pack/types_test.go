package pack

import (
	"encoding/hex"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata(t *testing.T) Metadata {
	t.Helper()
	version, err := semver.NewVersion("1.0.0")
	require.NoError(t, err)
	return Metadata{Name: "sample", Version: version}
}

// TestDigest_Deterministic verifies the digest is a pure function of the
// input bytes.
func TestDigest_Deterministic(t *testing.T) {
	a := Digest([]byte("PLUGIN_V1"))
	b := Digest([]byte("PLUGIN_V1"))
	assert.Equal(t, a, b)

	c := Digest([]byte("PLUGIN_V2"))
	assert.NotEqual(t, a, c)
}

// TestDigest_Width verifies the digest is 64 bytes wide and hex encodes to
// 128 characters.
func TestDigest_Width(t *testing.T) {
	d := Digest([]byte("anything"))
	assert.Len(t, d, 64)
	assert.Len(t, DigestHex([]byte("anything")), 128)
}

// TestNew_BindsDigest verifies New overwrites any supplied digest with the
// content digest of the library bytes.
func TestNew_BindsDigest(t *testing.T) {
	metadata := testMetadata(t)
	metadata.Digest = "attacker-controlled"

	library := []byte("PLUGIN_V1")
	pkg := New(metadata, library)

	assert.Equal(t, DigestHex(library), pkg.Metadata.Digest)
	assert.True(t, pkg.DigestCheck())
}

// TestDigestCheck_Mismatch verifies tampered library bytes fail the check.
func TestDigestCheck_Mismatch(t *testing.T) {
	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	pkg.Library = []byte("PLUGIN_V2")
	assert.False(t, pkg.DigestCheck())
}

// TestDigestCheck_MalformedDigest verifies non-hex and wrong-width digests
// never pass.
func TestDigestCheck_MalformedDigest(t *testing.T) {
	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))

	pkg.Metadata.Digest = "not hex"
	assert.False(t, pkg.DigestCheck())

	pkg.Metadata.Digest = hex.EncodeToString([]byte("short"))
	assert.False(t, pkg.DigestCheck())

	pkg.Metadata.Digest = ""
	assert.False(t, pkg.DigestCheck())
}

// TestDependencyConstraint tests requirement expression parsing.
func TestDependencyConstraint(t *testing.T) {
	dep := Dependency{Name: "other", Version: "^1.2.0"}
	c, err := dep.Constraint()
	require.NoError(t, err)

	ok := c.Check(semver.MustParse("1.3.0"))
	assert.True(t, ok)

	dep.Version = "not a requirement"
	_, err = dep.Constraint()
	assert.Error(t, err)
}

// TestMetadataValidate covers the well-formedness rules.
func TestMetadataValidate(t *testing.T) {
	metadata := testMetadata(t)
	assert.NoError(t, metadata.Validate())

	missingName := metadata
	missingName.Name = ""
	assert.Error(t, missingName.Validate())

	missingVersion := metadata
	missingVersion.Version = nil
	assert.Error(t, missingVersion.Validate())

	badDep := metadata
	badDep.Dependencies = []Dependency{{Name: "other", Version: "???"}}
	assert.Error(t, badDep.Validate())
}
