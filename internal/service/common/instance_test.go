//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int { return p.pid }
func (p fakeProcess) PPid() int { return 1 }
func (p fakeProcess) Executable() string { return p.name }

func listOf(processes ...ps.Process) ProcessLister {
	return func() ([]ps.Process, error) { return processes, nil }
}

// TestEnsureSingleInstance detects a second guard but ignores itself and other programs.
func TestEnsureSingleInstance(t *testing.T) {
	t.Parallel()

	self := fakeProcess{pid: 10, name: "loadshed-guard"}
	other := fakeProcess{pid: 11, name: "sshd"}
	twin := fakeProcess{pid: 12, name: "loadshed-guard"}

	require.NoError(t, ensureSingleInstance(listOf(self, other), "loadshed-guard", 10))

	err := ensureSingleInstance(listOf(self, other, twin), "loadshed-guard", 10)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.Contains(t, err.Error(), "pid 12")

	failing := func() ([]ps.Process, error) { return nil, errors.New("permission denied") }
	require.Error(t, ensureSingleInstance(failing, "loadshed-guard", 10))
}

// TestEnsureSingleInstance_LongName matches a renamed binary whose listed name was truncated.
func TestEnsureSingleInstance_LongName(t *testing.T) {
	t.Parallel()

	const executable = "loadshed-guard-kitchen"

	self := fakeProcess{pid: 10, name: executable[:commNameLen]}
	twin := fakeProcess{pid: 12, name: "loadshed-guard-"}
	cousin := fakeProcess{pid: 13, name: "loadshed-guard"}

	require.NoError(t, ensureSingleInstance(listOf(self, cousin), executable, 10))

	err := ensureSingleInstance(listOf(self, cousin, twin), executable, 10)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.Contains(t, err.Error(), "pid 12")
}

// TestEnsureSingleInstance_Live runs against the real process table.
func TestEnsureSingleInstance_Live(t *testing.T) {
	t.Parallel()

	require.NoError(t, EnsureSingleInstance())
}
