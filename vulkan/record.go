// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"errors"
	"fmt"
	"sync"
)

// SupportedFeatures holds the value of every feature record an adapter
// can report.
type SupportedFeatures struct {
	Core                    CoreFeatures
	Vulkan11                Vulkan11Features
	Vulkan12                Vulkan12Features
	Vulkan13                Vulkan13Features
	MeshShader              MeshShaderFeatures
	RayTracingPipeline      RayTracingPipelineFeatures
	AccelerationStructure   AccelerationStructureFeatures
	DescriptorBuffer        DescriptorBufferFeatures
	FragmentShadingRate     FragmentShadingRateFeatures
	FragmentShaderInterlock FragmentShaderInterlockFeatures
}

// Fill copies the supported values into every node of chain.
func (s *SupportedFeatures) Fill(chain *FeatureChain) {
	for _, n := range chain.Nodes() {
		switch n := n.(type) {
		case *CoreFeatures:
			*n = s.Core
		case *Vulkan11Features:
			*n = s.Vulkan11
		case *Vulkan12Features:
			*n = s.Vulkan12
		case *Vulkan13Features:
			*n = s.Vulkan13
		case *MeshShaderFeatures:
			*n = s.MeshShader
		case *RayTracingPipelineFeatures:
			*n = s.RayTracingPipeline
		case *AccelerationStructureFeatures:
			*n = s.AccelerationStructure
		case *DescriptorBufferFeatures:
			*n = s.DescriptorBuffer
		case *FragmentShadingRateFeatures:
			*n = s.FragmentShadingRate
		case *FragmentShaderInterlockFeatures:
			*n = s.FragmentShaderInterlock
		}
	}
}

// Capture copies the values of every node of chain.
func (s *SupportedFeatures) Capture(chain *FeatureChain) {
	for _, n := range chain.Nodes() {
		switch n := n.(type) {
		case *CoreFeatures:
			s.Core = *n
		case *Vulkan11Features:
			s.Vulkan11 = *n
		case *Vulkan12Features:
			s.Vulkan12 = *n
		case *Vulkan13Features:
			s.Vulkan13 = *n
		case *MeshShaderFeatures:
			s.MeshShader = *n
		case *RayTracingPipelineFeatures:
			s.RayTracingPipeline = *n
		case *AccelerationStructureFeatures:
			s.AccelerationStructure = *n
		case *DescriptorBufferFeatures:
			s.DescriptorBuffer = *n
		case *FragmentShadingRateFeatures:
			s.FragmentShadingRate = *n
		case *FragmentShaderInterlockFeatures:
			s.FragmentShaderInterlock = *n
		}
	}
}

// DeviceRecord is a snapshot of everything the backend reads from a
// physical device. It is itself a PhysicalDevice.
type DeviceRecord struct {
	Props     PhysicalDeviceProperties
	Supported SupportedFeatures
	Available []string
	Heaps     []MemoryHeap
	Families  []QueueFamily
}

// Properties implements PhysicalDevice
func (r *DeviceRecord) Properties() PhysicalDeviceProperties { return r.Props }

// QueryFeatures implements PhysicalDevice
func (r *DeviceRecord) QueryFeatures(chain *FeatureChain) error {
	r.Supported.Fill(chain)
	return nil
}

// Extensions implements PhysicalDevice
func (r *DeviceRecord) Extensions() ([]string, error) {
	return append([]string(nil), r.Available...), nil
}

// MemoryHeaps implements PhysicalDevice
func (r *DeviceRecord) MemoryHeaps() []MemoryHeap { return r.Heaps }

// QueueFamilies implements PhysicalDevice
func (r *DeviceRecord) QueueFamilies() []QueueFamily { return r.Families }

// RecordDevice snapshots pd, including the records of every extension
// it offers.
func RecordDevice(pd PhysicalDevice) (*DeviceRecord, error) {
	props := pd.Properties()
	exts, err := pd.Extensions()
	if err != nil {
		return nil, fmt.Errorf("listing extensions of '%s': %w", props.DeviceName, err)
	}

	chain := NewFeatureChain()
	for _, ext := range extensionNodes {
		if contains(exts, ext.extension) {
			for _, n := range ext.nodes() {
				chain.Append(n)
			}
		}
	}
	if err := pd.QueryFeatures(chain); err != nil {
		return nil, fmt.Errorf("querying features of '%s': %w", props.DeviceName, err)
	}

	r := &DeviceRecord{
		Props:     props,
		Available: exts,
		Heaps:     pd.MemoryHeaps(),
		Families:  pd.QueueFamilies(),
	}
	r.Supported.Capture(chain)
	return r, nil
}

// ErrDriverClosed is returned by a RecordedDriver used after Close
var ErrDriverClosed = errors.New("driver session is closed")

// RecordedDriver serves recorded adapters. Created devices have no
// native counterpart; their create infos are kept for inspection.
type RecordedDriver struct {
	Records []*DeviceRecord

	mutex   sync.Mutex
	created []DeviceCreateInfo
	live    int
	closed  bool
}

// NewRecordedDriver returns a session over records.
func NewRecordedDriver(records []*DeviceRecord) *RecordedDriver {
	return &RecordedDriver{Records: records}
}

// RecordedOpener opens a fresh RecordedDriver over records for each session.
func RecordedOpener(records []*DeviceRecord) Opener {
	return func(InstanceConfig) (Driver, error) {
		return NewRecordedDriver(records), nil
	}
}

// PhysicalDevices implements Driver
func (d *RecordedDriver) PhysicalDevices() ([]PhysicalDevice, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return nil, ErrDriverClosed
	}
	devices := make([]PhysicalDevice, len(d.Records))
	for i, r := range d.Records {
		devices[i] = r
	}
	return devices, nil
}

type recordedDevice struct {
	driver *RecordedDriver
	once   sync.Once
}

func (r *recordedDevice) Destroy() {
	r.once.Do(func() {
		r.driver.mutex.Lock()
		r.driver.live--
		r.driver.mutex.Unlock()
	})
}

// CreateDevice implements Driver
func (d *RecordedDriver) CreateDevice(pd PhysicalDevice, info DeviceCreateInfo) (LogicalDevice, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return nil, ErrDriverClosed
	}
	d.created = append(d.created, info)
	d.live++
	return &recordedDevice{driver: d}, nil
}

// Created returns the create infos of every device made so far.
func (d *RecordedDriver) Created() []DeviceCreateInfo {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]DeviceCreateInfo(nil), d.created...)
}

// Live returns the number of devices not yet destroyed.
func (d *RecordedDriver) Live() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.live
}

// Close implements Driver
func (d *RecordedDriver) Close() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.closed = true
}
