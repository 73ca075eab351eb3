// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"sync/atomic"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/abi"
	"github.com/devblok/rhi/api"
)

// Device is a device owned by a backend module. Capabilities may be
// read from any goroutine; Destroy must not race with other calls.
type Device struct {
	id        uuid.UUID
	library   *Library
	contract  *abi.Contract
	handle    abi.DeviceHandle
	destroyed atomic.Bool

	capabilities api.Capabilities
}

// ID identifies the device in logs
func (d *Device) ID() uuid.UUID {
	return d.id
}

// Handle returns the opaque backend handle
func (d *Device) Handle() abi.DeviceHandle {
	return d.handle
}

// Capabilities returns the snapshot taken at creation.
func (d *Device) Capabilities() api.Capabilities {
	return d.capabilities
}

// QueryCapabilities asks the backend for the snapshot again.
func (d *Device) QueryCapabilities() (api.Capabilities, error) {
	var caps api.Capabilities
	if d.destroyed.Load() {
		return caps, ErrDeviceDestroyed
	}
	d.contract.GetCapabilities(d.handle, &caps)
	return caps, nil
}

// Destroy releases the device through its backend. Only the first call
// has an effect.
func (d *Device) Destroy() {
	if d.destroyed.Swap(true) {
		return
	}
	d.contract.DestroyDevice(d.handle)
	d.library.release()
	log.WithField("device", d.id).Debug("device destroyed")
}
