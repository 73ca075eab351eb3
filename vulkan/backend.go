// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/abi"
	"github.com/devblok/rhi/api"
)

// DefaultInstanceConfig names the application in driver sessions
var DefaultInstanceConfig = InstanceConfig{
	ApplicationName:    "rhi",
	ApplicationVersion: uint32(MakeVersion(0, 1, 0)),
}

// liveDevice is a device together with the driver session it runs on.
type liveDevice struct {
	device *Device
	driver Driver
}

// Backend implements the plugin contract. Each device gets its own
// driver session, opened with the device's debug flag.
type Backend struct {
	open   Opener
	config InstanceConfig

	mutex   sync.Mutex
	next    abi.DeviceHandle
	devices map[abi.DeviceHandle]*liveDevice

	singleton *abi.Singleton
}

// NewBackend creates a backend that opens driver sessions with open.
func NewBackend(open Opener, config InstanceConfig) *Backend {
	b := &Backend{
		open:    open,
		config:  config,
		devices: make(map[abi.DeviceHandle]*liveDevice),
	}
	b.singleton = abi.NewSingleton(b.build, b.destroyAll)
	return b
}

// Contract returns the module's contract instance.
func (b *Backend) Contract() *abi.Contract {
	return b.singleton.Get()
}

// Teardown destroys every device still alive and drops the contract.
func (b *Backend) Teardown() {
	b.singleton.Teardown()
}

func (b *Backend) build() *abi.Contract {
	return &abi.Contract{
		ABIVersion:      abi.Version,
		BackendID:       func() uint8 { return uint8(api.Vulkan) },
		CreateDevice:    b.createDevice,
		DestroyDevice:   b.destroyDevice,
		GetCapabilities: b.capabilities,
	}
}

// Device returns the device behind a handle, for callers linked
// into the same process.
func (b *Backend) Device(h abi.DeviceHandle) (*Device, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	live, ok := b.devices[h]
	if !ok {
		return nil, false
	}
	return live.device, true
}

func (b *Backend) createDevice(desc *api.DeviceDesc, errBuf []byte) abi.DeviceHandle {
	if desc == nil {
		abi.WriteStatus(errBuf, api.StatusInvalidArgument, "nil device description")
		return abi.NullDevice
	}

	cfg := b.config
	cfg.Debug = desc.Flags.Has(api.FlagDebug)
	drv, err := b.open(cfg)
	if err != nil {
		abi.WriteStatus(errBuf, api.StatusInternalError, "Vulkan instance creation failed: "+err.Error())
		return abi.NullDevice
	}

	dev, err := CreateDevice(drv, *desc)
	if err != nil {
		drv.Close()
		var ce *api.CreateError
		if errors.As(err, &ce) {
			msg := ce.Message
			if ce.Detail != "" {
				msg += " (" + ce.Detail + ")"
			}
			abi.WriteStatus(errBuf, ce.Status, msg)
		} else {
			abi.WriteStatus(errBuf, api.StatusInternalError, err.Error())
		}
		return abi.NullDevice
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.next++
	b.devices[b.next] = &liveDevice{device: dev, driver: drv}
	return b.next
}

func (b *Backend) destroyDevice(h abi.DeviceHandle) {
	b.mutex.Lock()
	live, ok := b.devices[h]
	delete(b.devices, h)
	b.mutex.Unlock()

	if !ok {
		log.WithField("handle", h).Warn("destroy of unknown vulkan device")
		return
	}
	live.device.Destroy()
	live.driver.Close()
}

func (b *Backend) capabilities(h abi.DeviceHandle, out *api.Capabilities) {
	if out == nil {
		return
	}
	if dev, ok := b.Device(h); ok {
		*out = dev.Capabilities()
	}
}

func (b *Backend) destroyAll() {
	b.mutex.Lock()
	devices := b.devices
	b.devices = make(map[abi.DeviceHandle]*liveDevice)
	b.mutex.Unlock()

	if len(devices) > 0 {
		log.WithField("count", len(devices)).Warn("vulkan backend torn down with live devices")
	}
	for _, live := range devices {
		live.device.Destroy()
		live.driver.Close()
	}
}
