// Package pack implements the comet secure package format.
//
// # Overview
//
// A Package is the logical unit of plugin distribution: metadata plus the
// raw compiled library bytes. On disk it travels as a signed, compressed
// envelope (a .cdp file) produced by Export and consumed by Import.
//
// # Format
//
// Serialization is two-layer. The package itself is a CBOR frame carrying
// two version stamps (wire-format version and framework API version), the
// metadata as an embedded JSON document, and the raw library bytes. The
// frame is signed with ed25519, compressed with zstd, and wrapped in an
// outer CBOR envelope tagging the compression algorithm.
//
// # Import pipeline
//
// Import enforces a strict order: decode envelope, decompress, verify the
// signature over the decompressed frame, only then deserialize the frame's
// fields, and finally recheck that the metadata digest matches the library
// bytes. No field of a package is trusted before its signature verifies.
//
// Version-stamp mismatches are logged as warnings by default; Options.Strict
// turns them into hard failures so an embedder can refuse packages produced
// by a different framework build.
package pack
