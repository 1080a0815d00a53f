package pack

import (
	"errors"
	"fmt"
)

// Common errors returned by package import.
var (
	// ErrSignature is returned when the envelope signature does not verify
	// against the trust anchor. It is a security failure, distinct from
	// format errors, and is never downgraded.
	ErrSignature = errors.New("package signature verification failed")

	// ErrDigestMismatch is returned when the metadata digest does not equal
	// the recomputed digest of the library bytes after deserialization.
	ErrDigestMismatch = errors.New("package digest mismatch")

	// ErrUnknownAlgorithm is returned when the envelope carries an
	// algorithm tag this build does not understand.
	ErrUnknownAlgorithm = errors.New("unknown package compression algorithm")
)

// VersionStampError reports a wire-format or API version stamp that differs
// from this build's own. It is returned only under Options.Strict; the
// default policy logs a warning instead.
type VersionStampError struct {
	Stamp string // "format" or "api"
	Want  string
	Got   string
}

func (e *VersionStampError) Error() string {
	return fmt.Sprintf("package %s version mismatch: expected %s, got %s", e.Stamp, e.Want, e.Got)
}
