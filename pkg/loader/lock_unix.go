//go:build unix

package loader

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lockOpen reopens a staged file and takes an exclusive advisory lock on it
// immediately after open, before anything is read. The lock is held for the
// lifetime of the returned file.
func lockOpen(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reopen staged library: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock staged library: %w", err)
	}
	return f, nil
}
