package pack

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/cometdp/comet/pkg/trust"
)

// Algorithm tags the envelope payload encoding.
type Algorithm uint8

const (
	// AlgorithmNone means the payload is the raw serialized frame.
	AlgorithmNone Algorithm = iota

	// AlgorithmZstd means the payload is zstd-compressed.
	AlgorithmZstd
)

// Export is the signed, optionally compressed envelope written to .cdp
// files. The signature always covers the uncompressed serialized frame.
type Export struct {
	Algorithm Algorithm `cbor:"algorithm"`
	Payload   []byte    `cbor:"payload"`
	Signature []byte    `cbor:"signature"`
}

// FileExtension is the on-disk extension for exported packages.
const FileExtension = ".cdp"

// Export serializes, signs, and compresses the package into its on-disk
// envelope form.
func (p *Package) Export(signer trust.Signer) ([]byte, error) {
	frame, err := encodeFrame(p)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(frame)
	if err != nil {
		return nil, fmt.Errorf("sign package: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}
	compressed := enc.EncodeAll(frame, nil)
	enc.Close()

	out, err := cbor.Marshal(Export{
		Algorithm: AlgorithmZstd,
		Payload:   compressed,
		Signature: sig,
	})
	if err != nil {
		return nil, fmt.Errorf("encode package envelope: %w", err)
	}
	return out, nil
}

// Import decodes an exported envelope and returns the verified package.
//
// The order is mandatory: decode envelope, decompress, verify the signature
// over the decompressed frame, deserialize the frame's structured fields,
// recheck the metadata digest against the library bytes. Any failure is
// terminal; no field of a package is trusted before its signature verifies.
func Import(exported []byte, verifier trust.Verifier, opts Options) (*Package, error) {
	var env Export
	if err := cbor.Unmarshal(exported, &env); err != nil {
		return nil, fmt.Errorf("decode package envelope: %w", err)
	}

	var frame []byte
	switch env.Algorithm {
	case AlgorithmNone:
		frame = env.Payload
	case AlgorithmZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("init zstd decoder: %w", err)
		}
		frame, err = dec.DecodeAll(env.Payload, nil)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("decompress package payload: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, env.Algorithm)
	}

	if err := verifier.Verify(frame, env.Signature); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignature, err)
	}

	pkg, err := decodeFrame(frame, opts)
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	log.Tracef("package %s carries a valid signature", pkg.Metadata.Name)

	if !pkg.DigestCheck() {
		log.Tracef("package %s carries an invalid digest", pkg.Metadata.Name)
		return nil, fmt.Errorf("package %s: %w", pkg.Metadata.Name, ErrDigestMismatch)
	}
	log.Tracef("package %s carries a valid digest", pkg.Metadata.Name)

	return pkg, nil
}

// ImportFile reads and imports an exported package file.
func ImportFile(path string, verifier trust.Verifier, opts Options) (*Package, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package file: %w", err)
	}
	return Import(content, verifier, opts)
}
