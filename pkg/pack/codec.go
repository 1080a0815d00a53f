package pack

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/sirupsen/logrus"

	"github.com/cometdp/comet/pkg/sdk"
)

// WireFormatVersion stamps the layout of the serialized package frame. It
// changes only when the frame structure itself changes.
const WireFormatVersion = "1.0.0"

// Options control import behavior.
type Options struct {
	// Strict turns version-stamp mismatches from warnings into hard
	// failures.
	Strict bool

	// Logger receives stamp-mismatch warnings and trace output. Nil means
	// a default logger.
	Logger *logrus.Logger
}

func (o Options) logger() *logrus.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.New()
}

// packageFrame is the serialized package: version stamps, the metadata as
// an embedded opaque JSON document, and the raw library bytes. A
// structurally newer or older package is detected from the stamps before
// its fields are interpreted.
type packageFrame struct {
	FormatVersion string `cbor:"format_version"`
	APIVersion    string `cbor:"api_version"`
	Metadata      []byte `cbor:"metadata"`
	Library       []byte `cbor:"library"`
}

// encodeFrame serializes a package to its compact binary form.
func encodeFrame(p *Package) ([]byte, error) {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode package metadata: %w", err)
	}
	frame := packageFrame{
		FormatVersion: WireFormatVersion,
		APIVersion:    sdk.Version,
		Metadata:      meta,
		Library:       p.Library,
	}
	out, err := cbor.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("encode package frame: %w", err)
	}
	return out, nil
}

// decodeFrame deserializes a package frame. Callers must have verified the
// signature over b before calling; nothing in here is a trust decision
// beyond the version stamps.
func decodeFrame(b []byte, opts Options) (*Package, error) {
	var frame packageFrame
	if err := cbor.Unmarshal(b, &frame); err != nil {
		return nil, fmt.Errorf("decode package frame: %w", err)
	}

	if frame.FormatVersion != WireFormatVersion {
		if opts.Strict {
			return nil, &VersionStampError{Stamp: "format", Want: WireFormatVersion, Got: frame.FormatVersion}
		}
		opts.logger().Warnf("package format version mismatch: expected %s, got %s", WireFormatVersion, frame.FormatVersion)
	}
	if frame.APIVersion != sdk.Version {
		if opts.Strict {
			return nil, &VersionStampError{Stamp: "api", Want: sdk.Version, Got: frame.APIVersion}
		}
		opts.logger().Warnf("package api version mismatch: expected %s, got %s", sdk.Version, frame.APIVersion)
	}

	var metadata Metadata
	if err := json.Unmarshal(frame.Metadata, &metadata); err != nil {
		return nil, fmt.Errorf("decode package metadata: %w", err)
	}

	return &Package{Metadata: metadata, Library: frame.Library}, nil
}
