package pack

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the width of the content digest in bytes.
const DigestSize = blake2b.Size

// Digest computes the 64-byte BLAKE2b-512 content digest of raw library
// bytes. It is a pure function; the same bytes always produce the same
// digest.
func Digest(b []byte) [DigestSize]byte {
	return blake2b.Sum512(b)
}

// DigestHex returns the lowercase hex encoding of the content digest, the
// form stored in package metadata.
func DigestHex(b []byte) string {
	d := Digest(b)
	return hex.EncodeToString(d[:])
}
