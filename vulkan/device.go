// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/adapter"
	"github.com/devblok/rhi/api"
)

// queuePriority is used for every queue the device creates
const queuePriority = 1.0

// CreateState is a step of device creation
type CreateState int

// Creation steps, in order
const (
	StateUnselected CreateState = iota
	StateAdapterChosen
	StateQueueFamiliesResolved
	StateExtensionsResolved
	StateFeatureChainBuilt
	StateDeviceCreated
	StateReady
	StateFailed
)

func (s CreateState) String() string {
	switch s {
	case StateUnselected:
		return "Unselected"
	case StateAdapterChosen:
		return "AdapterChosen"
	case StateQueueFamiliesResolved:
		return "QueueFamiliesResolved"
	case StateExtensionsResolved:
		return "ExtensionsResolved"
	case StateFeatureChainBuilt:
		return "FeatureChainBuilt"
	case StateDeviceCreated:
		return "DeviceCreated"
	case StateReady:
		return "Ready"
	}
	return "Failed"
}

// Device is a created Vulkan device. Its accessors are safe for
// concurrent use; Destroy is not.
type Device struct {
	adapter      api.AdapterInfo
	capabilities api.Capabilities
	queues       QueueFamilyIndices
	extensions   []string
	native       LogicalDevice
}

// Capabilities reports the adapter's identity and limits with exactly
// the enabled features.
func (d *Device) Capabilities() api.Capabilities {
	return d.capabilities
}

// Adapter describes the adapter the device was created on, with
// everything the adapter supports.
func (d *Device) Adapter() api.AdapterInfo {
	return d.adapter
}

// QueueFamilyIndices returns the families queues were created from.
func (d *Device) QueueFamilyIndices() QueueFamilyIndices {
	return d.queues
}

// Extensions returns the enabled device extensions.
func (d *Device) Extensions() []string {
	return append([]string(nil), d.extensions...)
}

// Destroy releases the native device.
func (d *Device) Destroy() {
	if d.native != nil {
		d.native.Destroy()
		d.native = nil
	}
}

// creation carries one CreateDevice call from state to state.
type creation struct {
	drv   Driver
	desc  api.DeviceDesc
	state CreateState

	devices  []PhysicalDevice
	adapters []api.AdapterInfo
	chosen   int
	resolved adapter.Resolution
	queues   QueueFamilyIndices
	exts     []string
	chain    *FeatureChain
	native   LogicalDevice
}

func (c *creation) fail(err error) (*Device, error) {
	log.WithFields(log.Fields{
		"state":  c.state,
		"status": api.StatusOf(err),
	}).Error("vulkan device creation failed: ", err)
	c.state = StateFailed
	return nil, err
}

func (c *creation) advance(s CreateState) {
	log.WithField("state", s).Debug("vulkan device creation")
	c.state = s
}

// CreateDevice selects an adapter of drv for desc, resolves features and
// extensions and creates the native device with exactly the resolved
// features. Every failure is a *api.CreateError.
func CreateDevice(drv Driver, desc api.DeviceDesc) (*Device, error) {
	c := &creation{drv: drv, desc: desc, state: StateUnselected}

	devices, err := drv.PhysicalDevices()
	if err != nil {
		return c.fail(api.Internal("Failed to enumerate Vulkan physical devices.", err))
	}
	if len(devices) == 0 {
		return c.fail(api.Errorf(api.StatusInternalError, "No Vulkan-capable physical devices found."))
	}
	c.devices = devices

	for i, pd := range devices {
		info, err := MakeAdapterInfo(uint32(i), pd)
		if err != nil {
			return c.fail(api.Internal("Failed to query a Vulkan physical device.", err))
		}
		c.adapters = append(c.adapters, info)
	}

	c.chosen, err = adapter.Select(c.adapters, desc.Features.Required, desc.AdapterIndex)
	if err != nil {
		return c.fail(err)
	}
	chosen := c.adapters[c.chosen]
	pd := c.devices[c.chosen]
	c.advance(StateAdapterChosen)

	c.resolved = adapter.Resolve(desc.Features, chosen.Capabilities.Features)
	c.resolved.Report(chosen.Name)

	c.queues = SelectQueueFamilies(pd.QueueFamilies())
	if !c.queues.Complete() {
		return c.fail(api.Errorf(api.StatusUnsupportedQueueType,
			"Adapter '%s' does not expose a graphics queue.", chosen.Name))
	}
	c.advance(StateQueueFamiliesResolved)

	available, err := pd.Extensions()
	if err != nil {
		return c.fail(api.Internal("Failed to list device extensions.", err))
	}
	c.exts = ResolveExtensions(c.resolved.Resolved, available)
	c.advance(StateExtensionsResolved)

	c.chain, err = BuildFeatureChain(pd, c.resolved.Resolved, c.exts)
	if err != nil {
		return c.fail(api.Internal("Failed to query device features.", err))
	}
	c.advance(StateFeatureChainBuilt)

	info := DeviceCreateInfo{
		Extensions:   c.exts,
		Features:     c.chain,
		Flags:        desc.Flags,
		NativeWindow: desc.NativeWindow,
	}
	for _, family := range c.queues.Unique() {
		info.Queues = append(info.Queues, QueueCreateInfo{FamilyIndex: family, Priority: queuePriority})
	}
	if desc.Flags.Has(api.FlagDebug) {
		info.Layers = []string{ValidationLayer}
	}

	c.native, err = drv.CreateDevice(pd, info)
	if err != nil {
		return c.fail(api.Internal("Vulkan device creation failed.", err))
	}
	c.advance(StateDeviceCreated)

	d := &Device{
		adapter:      chosen,
		capabilities: chosen.Capabilities.WithFeatures(c.resolved.Resolved),
		queues:       c.queues,
		extensions:   c.exts,
		native:       c.native,
	}
	c.advance(StateReady)

	log.WithFields(log.Fields{
		"adapter":    chosen.Name,
		"features":   d.capabilities.Features,
		"extensions": c.exts,
	}).Info("vulkan device created")
	return d, nil
}
