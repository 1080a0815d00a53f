// Package sdk defines the contract between a comet host and its plugins.
//
// # Overview
//
// A plugin is a native module compiled separately from the host. The host
// never sees the plugin's concrete types; all interaction happens through
// the Plugin interface and the fixed entry symbol.
//
// # Entry Symbol
//
// Every plugin exports exactly one well-known symbol, EntrySymbol
// ("CometPluginCreate"), a package-level variable of type CreateFunc:
//
//	var CometPluginCreate sdk.CreateFunc = func(config *string, log sdk.LogFunc) (sdk.Plugin, error) {
//		return &Spider{}, nil
//	}
//
// The host resolves this symbol after linking, invokes it with an optional
// configuration string and a logging callback, and receives either a Plugin
// instance or an *InitError.
//
// # Versioning
//
// Plugins declare the host framework line they are compatible with via
// APIVersionRequirement, a semantic-version range expression such as
// "^0.1.0". The host rejects plugins whose requirement does not match its
// own build version.
//
// # Logging
//
// The LogFunc passed to the entry point is the only logging destination a
// plugin should use; it funnels plugin log statements into the host's sink
// so the process has exactly one logging destination. Logger wraps a
// LogFunc with leveled convenience methods for plugin-side code.
//
// # Related Packages
//
//   - pkg/pack: the signed package format plugins are distributed in
//   - pkg/registry: the host-side registry that loads plugins
package sdk
