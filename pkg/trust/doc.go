// Package trust holds the signing identity machinery for comet packages.
//
// A host trusts exactly one signing identity, fixed at build time: the
// embedding application compiles the public key in (typically via go:embed)
// and hands it to the registry as a Verifier. The matching private key never
// ships with a host; it is used only by the comet-pack tool.
package trust
