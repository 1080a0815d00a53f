package loader

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"plugin"

	"github.com/sirupsen/logrus"

	"github.com/cometdp/comet/pkg/pack"
)

// ErrTampered is returned when the staged library's digest no longer
// matches the verified package. The package passed its signature and digest
// checks in memory, so a mismatch here means the on-disk bytes were altered
// concurrently with loading. Fatal, never retried.
var ErrTampered = errors.New("staged library was altered after verification")

// ErrClosed is returned when operating on a closed handle.
var ErrClosed = errors.New("library handle is closed")

// Loader stages verified packages and performs the platform dynamic-link
// step.
type Loader struct {
	log *logrus.Logger
}

// New creates a loader. A nil logger gets a default one.
func New(log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.New()
	}
	return &Loader{log: log}
}

// Handle is a linked library backed by a staged file. It is exclusively
// owned by the registry that loaded it and must outlive every plugin
// instance constructed from it.
type Handle struct {
	dir    string
	path   string
	plug   *plugin.Plugin
	closed bool
}

// Path returns the staged library path.
func (h *Handle) Path() string { return h.path }

// Lookup resolves an exported symbol from the linked library.
func (h *Handle) Lookup(symbol string) (any, error) {
	if h.closed {
		return nil, ErrClosed
	}
	return h.plug.Lookup(symbol)
}

// Close releases the staging directory and marks the handle unusable. The
// mapped code itself stays in the process until exit; the Go runtime offers
// no unlink step for loaded plugins. Callers must not invoke instances
// derived from this handle after Close.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if err := os.RemoveAll(h.dir); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}
	return nil
}

// Stage writes the package's library bytes to a private staging location,
// revalidates them under an exclusive handle, and links the staged file.
func (l *Loader) Stage(pkg *pack.Package) (*Handle, error) {
	dir, path, err := l.stage(pkg)
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			os.RemoveAll(dir)
		}
	}()

	f, err := lockOpen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l.log.Tracef("reopened staged library under lock: %s", path)

	want := pkg.Digest()
	if err := verifyStaged(f, want); err != nil {
		if errors.Is(err, ErrTampered) {
			l.log.Errorf("staged library %s failed integrity recheck: concurrent tampering", path)
		}
		return nil, err
	}
	l.log.Tracef("integrity recheck passed: %s", path)

	plug, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("link staged library: %w", err)
	}
	l.log.Tracef("linked staged library: %s", path)

	ok = true
	return &Handle{dir: dir, path: path, plug: plug}, nil
}

// stage allocates the private temporary directory and writes the library
// bytes under a fresh random filename with the platform extension.
func (l *Loader) stage(pkg *pack.Package) (dir, path string, err error) {
	dir, err = os.MkdirTemp("", "comet-stage-")
	if err != nil {
		return "", "", fmt.Errorf("create staging directory: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		os.RemoveAll(dir)
		return "", "", err
	}
	path = filepath.Join(dir, token+pluginExt)

	if err := os.WriteFile(path, pkg.Library, 0o755); err != nil {
		os.RemoveAll(dir)
		return "", "", fmt.Errorf("write staged library: %w", err)
	}
	l.log.Tracef("staged %s library to: %s", pluginExt, path)
	return dir, path, nil
}

// verifyStaged rereads the locked file in full and compares its recomputed
// digest against the digest already validated from the package.
func verifyStaged(f *os.File, want [pack.DigestSize]byte) error {
	buf, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reread staged library: %w", err)
	}
	got := pack.Digest(buf)
	if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
		return ErrTampered
	}
	return nil
}
