package pack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cometdp/comet/pkg/sdk"
	"github.com/cometdp/comet/pkg/trust"
)

func testKeypair(t *testing.T) (*trust.KeySigner, *trust.KeyVerifier) {
	t.Helper()
	pub, priv, err := trust.GenerateKeypair()
	require.NoError(t, err)
	return trust.NewKeySigner(priv), trust.NewKeyVerifier(pub)
}

func quietOptions() Options {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return Options{Logger: log}
}

// TestExportImport_RoundTrip verifies metadata fields and library bytes
// survive export and import unchanged.
func TestExportImport_RoundTrip(t *testing.T) {
	signer, verifier := testKeypair(t)

	metadata := testMetadata(t)
	metadata.Dependencies = []Dependency{{Name: "other", Version: "^1.0.0"}}
	library := []byte("PLUGIN_V1")
	pkg := New(metadata, library)

	exported, err := pkg.Export(signer)
	require.NoError(t, err)

	imported, err := Import(exported, verifier, quietOptions())
	require.NoError(t, err)

	assert.Equal(t, pkg.Metadata.Name, imported.Metadata.Name)
	assert.Equal(t, pkg.Metadata.Digest, imported.Metadata.Digest)
	assert.True(t, pkg.Metadata.Version.Equal(imported.Metadata.Version))
	assert.Equal(t, pkg.Metadata.Dependencies, imported.Metadata.Dependencies)
	assert.Equal(t, pkg.Library, imported.Library)
}

// TestImport_WrongKey verifies importing with a different keypair's public
// key fails signature verification.
func TestImport_WrongKey(t *testing.T) {
	signer, _ := testKeypair(t)
	_, otherVerifier := testKeypair(t)

	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	exported, err := pkg.Export(signer)
	require.NoError(t, err)

	_, err = Import(exported, otherVerifier, quietOptions())
	assert.ErrorIs(t, err, ErrSignature)
}

// TestImport_TamperSweep flips every single bit of the exported bytes and
// verifies import never silently succeeds.
func TestImport_TamperSweep(t *testing.T) {
	signer, verifier := testKeypair(t)

	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	exported, err := pkg.Export(signer)
	require.NoError(t, err)

	for i := range exported {
		for bit := 0; bit < 8; bit++ {
			tampered := make([]byte, len(exported))
			copy(tampered, exported)
			tampered[i] ^= 1 << bit

			_, err := Import(tampered, verifier, quietOptions())
			require.Errorf(t, err, "flipping bit %d of byte %d was not detected", bit, i)
		}
	}
}

// TestImport_BadEnvelope verifies garbage input fails with a format error,
// not a panic.
func TestImport_BadEnvelope(t *testing.T) {
	_, verifier := testKeypair(t)

	_, err := Import([]byte("not a package"), verifier, quietOptions())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSignature)
}

// TestImport_UncompressedEnvelope verifies the AlgorithmNone path.
func TestImport_UncompressedEnvelope(t *testing.T) {
	signer, verifier := testKeypair(t)

	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	frame, err := encodeFrame(pkg)
	require.NoError(t, err)

	sig, err := signer.Sign(frame)
	require.NoError(t, err)

	exported, err := cbor.Marshal(Export{Algorithm: AlgorithmNone, Payload: frame, Signature: sig})
	require.NoError(t, err)

	imported, err := Import(exported, verifier, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, pkg.Library, imported.Library)
}

// TestImport_UnknownAlgorithm verifies an unrecognized algorithm tag is
// rejected before any signature work.
func TestImport_UnknownAlgorithm(t *testing.T) {
	signer, verifier := testKeypair(t)

	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	frame, err := encodeFrame(pkg)
	require.NoError(t, err)
	sig, err := signer.Sign(frame)
	require.NoError(t, err)

	exported, err := cbor.Marshal(Export{Algorithm: Algorithm(42), Payload: frame, Signature: sig})
	require.NoError(t, err)

	_, err = Import(exported, verifier, quietOptions())
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

// TestImport_InconsistentAlgorithmTag verifies a zstd tag over a raw
// payload fails decompression.
func TestImport_InconsistentAlgorithmTag(t *testing.T) {
	signer, verifier := testKeypair(t)

	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	frame, err := encodeFrame(pkg)
	require.NoError(t, err)
	sig, err := signer.Sign(frame)
	require.NoError(t, err)

	exported, err := cbor.Marshal(Export{Algorithm: AlgorithmZstd, Payload: frame, Signature: sig})
	require.NoError(t, err)

	_, err = Import(exported, verifier, quietOptions())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSignature)
}

// TestImport_DigestMismatch verifies a signed package whose metadata and
// library disagree is rejected after deserialization.
func TestImport_DigestMismatch(t *testing.T) {
	signer, verifier := testKeypair(t)

	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	pkg.Metadata.Digest = DigestHex([]byte("something else"))

	exported, err := pkg.Export(signer)
	require.NoError(t, err)

	_, err = Import(exported, verifier, quietOptions())
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

// signedFrameEnvelope signs an arbitrary frame and wraps it uncompressed.
func signedFrameEnvelope(t *testing.T, signer *trust.KeySigner, frame packageFrame) []byte {
	t.Helper()
	raw, err := cbor.Marshal(frame)
	require.NoError(t, err)
	sig, err := signer.Sign(raw)
	require.NoError(t, err)
	exported, err := cbor.Marshal(Export{Algorithm: AlgorithmNone, Payload: raw, Signature: sig})
	require.NoError(t, err)
	return exported
}

// TestImport_VersionStamps covers the warn-by-default / strict-failure
// policy for mismatched version stamps.
func TestImport_VersionStamps(t *testing.T) {
	signer, verifier := testKeypair(t)

	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	meta, err := json.Marshal(pkg.Metadata)
	require.NoError(t, err)

	frame := packageFrame{
		FormatVersion: "0.0.9",
		APIVersion:    sdk.Version,
		Metadata:      meta,
		Library:       pkg.Library,
	}
	exported := signedFrameEnvelope(t, signer, frame)

	// Default policy: warn and continue.
	imported, err := Import(exported, verifier, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, pkg.Library, imported.Library)

	// Strict policy: hard failure naming the stamp.
	opts := quietOptions()
	opts.Strict = true
	_, err = Import(exported, verifier, opts)
	var stampErr *VersionStampError
	require.ErrorAs(t, err, &stampErr)
	assert.Equal(t, "format", stampErr.Stamp)

	frame.FormatVersion = WireFormatVersion
	frame.APIVersion = "99.0.0"
	exported = signedFrameEnvelope(t, signer, frame)

	_, err = Import(exported, verifier, quietOptions())
	require.NoError(t, err)

	_, err = Import(exported, verifier, opts)
	require.ErrorAs(t, err, &stampErr)
	assert.Equal(t, "api", stampErr.Stamp)
}

// TestImportFile reads an exported package from disk.
func TestImportFile(t *testing.T) {
	signer, verifier := testKeypair(t)

	pkg := New(testMetadata(t), []byte("PLUGIN_V1"))
	exported, err := pkg.Export(signer)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sample"+FileExtension)
	require.NoError(t, os.WriteFile(path, exported, 0o644))

	imported, err := ImportFile(path, verifier, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, pkg.Library, imported.Library)

	_, err = ImportFile(filepath.Join(t.TempDir(), "missing.cdp"), verifier, quietOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
