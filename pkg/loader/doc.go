// Package loader turns a verified in-memory package into a linked,
// executable module while resisting a write-then-swap race between disk
// staging and dynamic linking.
//
// # Protocol
//
// Stage writes the library bytes to a freshly created private temporary
// directory under a random, unpredictable filename, reopens the staged file
// under an exclusivity guarantee (an exclusive advisory lock on Unix; a
// read/execute handle with a deny-write share mode on Windows), rereads the
// locked file and recomputes its content digest, and only links the file if
// the digest still matches the verified package. A mismatch at that point
// means the binary was altered between verification and staging and is
// surfaced as ErrTampered.
//
// Signature verification alone is not enough: it covers the in-memory bytes
// the host decided to trust, not the bytes the OS will map from disk. The
// post-stage recheck closes that gap.
package loader
