package registry

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/cometdp/comet/pkg/pack"
	"github.com/cometdp/comet/pkg/sdk"
	"github.com/cometdp/comet/pkg/trust"
)

// Options configure a Registry.
type Options struct {
	// HostVersion is the host's own semantic version, evaluated against
	// plugin requirements. Defaults to the framework version.
	HostVersion string

	// Config is an optional configuration string passed to every plugin's
	// entry point.
	Config *string

	// Strict upgrades package version-stamp mismatches to hard failures.
	Strict bool

	// Logger receives registry and relayed plugin log output. Nil means a
	// default logger.
	Logger *logrus.Logger

	// Metrics, when set, receives load outcome counters.
	Metrics *Metrics

	// Linker overrides the secure staging loader. Tests use this; embedders
	// normally leave it nil.
	Linker Linker
}

// Registry owns every loaded library handle and plugin instance, in 1:1
// load order: handle i backs instance i. Entries are only removed by Close.
type Registry struct {
	verifier trust.Verifier
	host     *semver.Version
	config   *string
	strict   bool
	log      *logrus.Logger
	metrics  *Metrics
	linker   Linker

	handles   []LinkedModule
	instances []sdk.Plugin
	closed    bool
}

// New creates a registry trusting exactly one signing identity. The
// verifier should be backed by the build-time embedded public key.
func New(verifier trust.Verifier, opts Options) (*Registry, error) {
	if verifier == nil {
		return nil, errors.New("registry requires a trust verifier")
	}

	hostVersion := opts.HostVersion
	if hostVersion == "" {
		hostVersion = sdk.Version
	}
	host, err := semver.NewVersion(hostVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid host version %q: %w", hostVersion, err)
	}

	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}

	linker := opts.Linker
	if linker == nil {
		linker = newSecureLinker(log)
	}

	return &Registry{
		verifier: verifier,
		host:     host,
		config:   opts.Config,
		strict:   opts.Strict,
		log:      log,
		metrics:  opts.Metrics,
		linker:   linker,
	}, nil
}

// Load imports, verifies, stages, links, and registers the plugin package
// at path. On any failure the registry is unchanged and the attempt's
// staged file has been cleaned up.
func (r *Registry) Load(path string) error {
	if r.closed {
		return errors.New("registry is closed")
	}
	r.log.Tracef("loading package: %s", path)

	pkg, err := pack.ImportFile(path, r.verifier, pack.Options{Strict: r.strict, Logger: r.log})
	if err != nil {
		r.metrics.observeLoad(outcomeImport)
		return fmt.Errorf("import plugin package: %w", err)
	}

	module, err := r.linker.Link(pkg)
	if err != nil {
		r.metrics.observeLoad(outcomeLink)
		return fmt.Errorf("stage plugin library: %w", err)
	}

	create, err := r.resolveEntry(module)
	if err != nil {
		module.Close()
		r.metrics.observeLoad(outcomeSymbol)
		return err
	}

	instance, err := create(r.config, r.relayLog)
	if err != nil {
		module.Close()
		r.metrics.observeLoad(outcomeInit)
		// The plugin's own diagnostic passes through unchanged.
		return fmt.Errorf("plugin initialization failed: %w", err)
	}

	name := instance.Name()
	requirement := instance.APIVersionRequirement()
	constraint, err := semver.NewConstraint(requirement)
	if err != nil {
		instance = nil
		module.Close()
		r.metrics.observeLoad(outcomeRequirement)
		return &InvalidRequirementError{Plugin: name, Requirement: requirement}
	}

	if !constraint.Check(r.host) {
		// Release the instance before its backing module: the rejected
		// instance must not be reachable once the handle is closed.
		instance = nil
		module.Close()
		r.metrics.observeLoad(outcomeRequirement)
		return &UnmetRequirementError{Plugin: name, Requirement: requirement, Host: r.host.String()}
	}

	instance.OnLoad()
	r.handles = append(r.handles, module)
	r.instances = append(r.instances, instance)
	r.metrics.observeLoad(outcomeSuccess)
	r.log.Debugf("loaded plugin: %s", name)
	return nil
}

// resolveEntry resolves and type-checks the fixed entry symbol. A missing
// or wrongly typed symbol means the file, while correctly signed, is not a
// plugin build for this framework.
func (r *Registry) resolveEntry(module LinkedModule) (sdk.CreateFunc, error) {
	sym, err := module.Lookup(sdk.EntrySymbol)
	if err != nil {
		return nil, &MissingSymbolError{Symbol: sdk.EntrySymbol}
	}
	switch v := sym.(type) {
	case sdk.CreateFunc:
		return v, nil
	case *sdk.CreateFunc:
		return *v, nil
	case func(*string, sdk.LogFunc) (sdk.Plugin, error):
		return v, nil
	default:
		return nil, &MissingSymbolError{Symbol: sdk.EntrySymbol}
	}
}

// relayLog funnels plugin log statements into the host's logging sink.
func (r *Registry) relayLog(level sdk.Level, msg string) {
	switch level {
	case sdk.LevelTrace:
		r.log.Trace(msg)
	case sdk.LevelDebug:
		r.log.Debug(msg)
	case sdk.LevelInfo:
		r.log.Info(msg)
	case sdk.LevelWarn:
		r.log.Warn(msg)
	case sdk.LevelError:
		r.log.Error(msg)
	default:
		r.log.Info(msg)
	}
}

// Len returns the number of registered plugin instances.
func (r *Registry) Len() int {
	return len(r.instances)
}

// HandleCount returns the number of loaded library handles.
func (r *Registry) HandleCount() int {
	return len(r.handles)
}

// Names returns the registered plugin names in load order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.instances))
	for i, p := range r.instances {
		names[i] = p.Name()
	}
	return names
}

// HostVersion returns the version plugin requirements are evaluated against.
func (r *Registry) HostVersion() string {
	return r.host.String()
}

// Close tears the registry down: for each slot, most recently loaded first,
// it invokes the instance's unload hook, releases the instance, then closes
// the backing handle. An instance is never reachable after its handle is
// closed.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for i := len(r.instances) - 1; i >= 0; i-- {
		r.instances[i].OnUnload()
		r.instances[i] = nil
		if err := r.handles[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.instances = nil
	r.handles = nil
	if r.metrics != nil {
		r.metrics.PluginsLoaded.Set(0)
	}
	return errors.Join(errs...)
}
