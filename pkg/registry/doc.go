// Package registry manages the lifetime of loaded comet plugins.
//
// # Load pipeline
//
// Load turns an untrusted file on disk into a registered, version-checked
// plugin instance: import the signed package with the process trust anchor,
// stage and link it through the secure loader, resolve the fixed entry
// symbol, invoke it with the host configuration and logging callback, parse
// the instance's declared version requirement, and evaluate it against the
// host's own build version. Any failure leaves the registry's observable
// state unchanged; the failing attempt's staged file is always cleaned up.
//
// # Lifetimes
//
// Every plugin instance dispatches into code owned by the library handle
// that produced it, so a handle must outlive its instance. The registry
// keeps the two collections in 1:1 load order and enforces destruction
// order itself: on teardown (and on version rejection) the instance is
// released before its handle is closed, most recently loaded first.
//
// # Concurrency
//
// The registry is synchronous and not safe for concurrent use; callers
// that share one across goroutines must serialize access externally.
package registry
