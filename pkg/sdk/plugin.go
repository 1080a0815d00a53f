package sdk

const (
	// Version is the comet framework's own semantic version. It is stamped
	// into exported packages and is the version plugin requirements are
	// evaluated against by default.
	Version = "0.1.0"

	// EntrySymbol is the one exported symbol every plugin module must
	// provide. It is the only symbol the host ever resolves.
	EntrySymbol = "CometPluginCreate"
)

// DefaultRequirement is the requirement a plugin declares when it does not
// override APIVersionRequirement: compatible with exactly this framework
// line.
const DefaultRequirement = "^" + Version

// Plugin is the capability set every plugin implements. The host calls these
// methods through the linked module's dispatch, so an instance must never be
// used after its backing module has been released.
type Plugin interface {
	// Name returns the plugin's display name.
	Name() string

	// APIVersionRequirement returns a semantic-version range expression
	// describing the host framework versions this plugin supports.
	APIVersionRequirement() string

	// OnLoad is invoked once, after the plugin passed the host's version
	// check and immediately before it becomes visible in the registry.
	OnLoad()

	// OnUnload is invoked once during registry teardown, before the
	// plugin's backing module is released.
	OnUnload()
}

// CreateFunc is the signature of the entry symbol. The config parameter is
// an optional host-supplied configuration string (nil when the host has
// none). The log callback is the host's logging sink.
type CreateFunc func(config *string, log LogFunc) (Plugin, error)

// Base provides the default capability set. Plugins embed it and override
// what they need:
//
//	type Spider struct {
//		sdk.Base
//	}
type Base struct {
	// Log is the host logging callback, set by the plugin's entry point.
	// May be nil; the default hooks tolerate that.
	Log LogFunc
}

// Name returns an empty name; plugins are expected to override it.
func (b *Base) Name() string { return "" }

// APIVersionRequirement anchors the plugin to the framework line it was
// built against.
func (b *Base) APIVersionRequirement() string { return DefaultRequirement }

// OnLoad logs that the plugin was loaded.
func (b *Base) OnLoad() {
	if b.Log != nil {
		b.Log(LevelInfo, "plugin loaded")
	}
}

// OnUnload logs that the plugin was unloaded.
func (b *Base) OnUnload() {
	if b.Log != nil {
		b.Log(LevelInfo, "plugin unloaded")
	}
}
