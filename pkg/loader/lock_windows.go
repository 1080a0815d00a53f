package loader

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// lockOpen reopens a staged file with access restricted to read/execute and
// a share mode that denies write access from any other handle. Windows has
// no advisory flock; the OS itself refuses writers for the lifetime of the
// returned file.
func lockOpen(path string) (*os.File, error) {
	pathp, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("reopen staged library: %w", err)
	}
	h, err := windows.CreateFile(
		pathp,
		windows.GENERIC_READ|windows.GENERIC_EXECUTE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("reopen staged library: %w", err)
	}
	return os.NewFile(uintptr(h), path), nil
}
