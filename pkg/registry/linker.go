package registry

import (
	"github.com/sirupsen/logrus"

	"github.com/cometdp/comet/pkg/loader"
	"github.com/cometdp/comet/pkg/pack"
)

// LinkedModule is a staged, linked plugin library. loader.Handle is the
// production implementation; tests substitute fakes through Options.Linker.
type LinkedModule interface {
	// Lookup resolves an exported symbol.
	Lookup(symbol string) (any, error)

	// Close releases the module's staged resources. No instance derived
	// from the module may be used afterwards.
	Close() error
}

// Linker stages and links a verified package.
type Linker interface {
	Link(pkg *pack.Package) (LinkedModule, error)
}

// secureLinker is the default Linker, backed by the secure staging loader.
type secureLinker struct {
	loader *loader.Loader
}

func newSecureLinker(log *logrus.Logger) *secureLinker {
	return &secureLinker{loader: loader.New(log)}
}

func (l *secureLinker) Link(pkg *pack.Package) (LinkedModule, error) {
	return l.loader.Stage(pkg)
}
