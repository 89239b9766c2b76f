package power

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/loadshed-guard/internal/logger"
	"github.com/oshokin/loadshed-guard/internal/provider/tuya"
)

// DefaultSwitchCode is the data point that powers most Tuya air conditioners.
const DefaultSwitchCode = "switch"

var (
	// ErrSwitchNotReported indicates the device status lacks the switch data point.
	ErrSwitchNotReported = errors.New("switch data point not reported")
	// ErrSwitchNotBoolean indicates the switch data point is not a boolean.
	ErrSwitchNotBoolean = errors.New("switch data point is not a boolean")
)

// Cloud is the part of the Tuya client the device needs.
type Cloud interface {
	DeviceStatus(ctx context.Context, deviceID string) ([]tuya.Status, error)
	SendCommands(ctx context.Context, deviceID string, commands []tuya.Command) error
}

// Device is a single switchable appliance behind the cloud.
type Device struct {
	cloud      Cloud
	id         string
	switchCode string
}

// NewDevice binds a device id to the cloud. An empty switchCode means DefaultSwitchCode.
func NewDevice(cloud Cloud, id, switchCode string) *Device {
	if switchCode == "" {
		switchCode = DefaultSwitchCode
	}

	return &Device{cloud: cloud, id: id, switchCode: switchCode}
}

// ID returns the device id.
func (d *Device) ID() string {
	return d.id
}

// IsOn reports whether the device's switch data point is true.
func (d *Device) IsOn(ctx context.Context) (bool, error) {
	status, err := d.cloud.DeviceStatus(ctx, d.id)
	if err != nil {
		return false, err
	}

	for _, s := range status {
		if s.Code != d.switchCode {
			continue
		}

		on, ok := s.Value.(bool)
		if !ok {
			return false, fmt.Errorf("%w: %s=%v", ErrSwitchNotBoolean, s.Code, s.Value)
		}

		return on, nil
	}

	return false, fmt.Errorf("%w: %s", ErrSwitchNotReported, d.switchCode)
}

// SwitchOff sets the switch data point to false.
func (d *Device) SwitchOff(ctx context.Context) error {
	return d.cloud.SendCommands(ctx, d.id, []tuya.Command{{Code: d.switchCode, Value: false}})
}

// DryRun replaces SwitchOff with a log line; state reads still hit the device.
type DryRun struct {
	*Device
}

// SwitchOff logs the command instead of sending it.
func (d DryRun) SwitchOff(ctx context.Context) error {
	logger.WarnKV(ctx, "Dry run: switch-off not sent", "device_id", d.id, "code", d.switchCode)

	return nil
}
