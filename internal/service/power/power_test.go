package power

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/loadshed-guard/internal/provider/tuya"
)

type fakeCloud struct {
	status   []tuya.Status
	err      error
	commands [][]tuya.Command
}

func (f *fakeCloud) DeviceStatus(_ context.Context, _ string) ([]tuya.Status, error) {
	return f.status, f.err
}

func (f *fakeCloud) SendCommands(_ context.Context, _ string, commands []tuya.Command) error {
	f.commands = append(f.commands, commands)

	return f.err
}

// TestDevice_IsOn reads the configured switch code.
func TestDevice_IsOn(t *testing.T) {
	t.Parallel()

	cloud := &fakeCloud{status: []tuya.Status{
		{Code: "temp_set", Value: 23.0},
		{Code: "switch", Value: true},
		{Code: "switch_1", Value: false},
	}}

	on, err := NewDevice(cloud, "ac-1", "").IsOn(context.Background())
	require.NoError(t, err)
	require.True(t, on)

	on, err = NewDevice(cloud, "ac-1", "switch_1").IsOn(context.Background())
	require.NoError(t, err)
	require.False(t, on)

	_, err = NewDevice(cloud, "ac-1", "power").IsOn(context.Background())
	require.ErrorIs(t, err, ErrSwitchNotReported)

	_, err = NewDevice(cloud, "ac-1", "temp_set").IsOn(context.Background())
	require.ErrorIs(t, err, ErrSwitchNotBoolean)

	cloud.err = errors.New("offline")
	_, err = NewDevice(cloud, "ac-1", "").IsOn(context.Background())
	require.Error(t, err)
}

// TestDevice_SwitchOff sends exactly one false command.
func TestDevice_SwitchOff(t *testing.T) {
	t.Parallel()

	cloud := new(fakeCloud)
	d := NewDevice(cloud, "ac-1", "")

	require.NoError(t, d.SwitchOff(context.Background()))
	require.Equal(t, [][]tuya.Command{{{Code: "switch", Value: false}}}, cloud.commands)
	require.Equal(t, "ac-1", d.ID())
}

// TestDryRun never reaches the cloud.
func TestDryRun(t *testing.T) {
	t.Parallel()

	cloud := new(fakeCloud)
	d := DryRun{Device: NewDevice(cloud, "ac-1", "")}

	require.NoError(t, d.SwitchOff(context.Background()))
	require.Empty(t, cloud.commands)
}
