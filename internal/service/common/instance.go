//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// commNameLen is how many characters of a process name Linux keeps in
// /proc/<pid>/stat, which is where go-ps reads names from.
const commNameLen = 15

// ErrAlreadyRunning is returned when another guard process controls the device.
var ErrAlreadyRunning = errors.New("another guard instance is already running")

// ProcessLister enumerates running processes.
type ProcessLister func() ([]ps.Process, error)

// EnsureSingleInstance fails when a process with the same executable name as
// the current one is running. Names longer than the kernel keeps are compared
// by their truncated prefix. Two guards would arm two shutdown timers for
// the same device.
func EnsureSingleInstance() error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	return ensureSingleInstance(ps.Processes, filepath.Base(self), os.Getpid())
}

func ensureSingleInstance(list ProcessLister, executable string, selfPID int) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == selfPID {
			continue
		}

		if !sameExecutable(process.Executable(), executable) {
			continue
		}

		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, process.Pid())
	}

	return nil
}

// sameExecutable compares a listed process name with our executable name,
// allowing for names the kernel cut to commNameLen characters.
func sameExecutable(listed, executable string) bool {
	if strings.EqualFold(listed, executable) {
		return true
	}

	if len(listed) != commNameLen || len(executable) <= commNameLen {
		return false
	}

	return strings.EqualFold(listed, executable[:commNameLen])
}
