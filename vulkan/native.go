// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vulkan is the reference backend. It negotiates adapters and
// features against a Driver, which is either the live Vulkan binding
// (package vulkan/driver) or recorded adapters (package vulkan/replay).
package vulkan

import "github.com/devblok/rhi/api"

// Minimum API version the backend runs on. Some features are assumed
// present on every adapter at or above it.
const (
	MinAPIMajor = 1
	MinAPIMinor = 3
)

// Version is a packed Vulkan version number
type Version uint32

// MakeVersion packs a version like VK_MAKE_API_VERSION with variant 0.
func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

// Major version component
func (v Version) Major() uint32 { return uint32(v>>22) & 0x7f }

// Minor version component
func (v Version) Minor() uint32 { return uint32(v>>12) & 0x3ff }

// Patch version component
func (v Version) Patch() uint32 { return uint32(v) & 0xfff }

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor uint32) bool {
	return v.Major() > major || (v.Major() == major && v.Minor() >= minor)
}

// DeviceType mirrors VkPhysicalDeviceType
type DeviceType uint32

// Physical device types, numbered as in Vulkan
const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

// SampleCounts mirrors VkSampleCountFlags, bit n stands for 2^n samples
type SampleCounts uint32

// QueueFlags mirrors VkQueueFlags
type QueueFlags uint32

// Queue capabilities
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// PhysicalDeviceLimits is the part of VkPhysicalDeviceLimits the
// backend reads.
type PhysicalDeviceLimits struct {
	MaxImageDimension1D   uint32
	MaxImageDimension2D   uint32
	MaxImageDimension3D   uint32
	MaxImageDimensionCube uint32
	MaxImageArrayLayers   uint32

	MaxPerStageDescriptorSamplers       uint32
	MaxPerStageDescriptorSampledImages  uint32
	MaxPerStageDescriptorStorageImages  uint32
	MaxPerStageDescriptorUniformBuffers uint32
	MaxPerStageDescriptorStorageBuffers uint32

	MaxColorAttachments      uint32
	MaxVertexInputBindings   uint32
	MaxVertexInputAttributes uint32

	FramebufferColorSampleCounts SampleCounts
	FramebufferDepthSampleCounts SampleCounts

	MinUniformBufferOffsetAlignment uint64
	MinStorageBufferOffsetAlignment uint64

	MaxComputeWorkGroupSize        [3]uint32
	MaxComputeWorkGroupInvocations uint32

	// TimestampPeriod is nanoseconds per timestamp tick
	TimestampPeriod float32
}

// PhysicalDeviceProperties is the part of VkPhysicalDeviceProperties
// the backend reads.
type PhysicalDeviceProperties struct {
	APIVersion    Version
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
	DeviceType    DeviceType
	DeviceName    string
	Limits        PhysicalDeviceLimits
}

// MemoryHeap is one entry of VkPhysicalDeviceMemoryProperties
type MemoryHeap struct {
	Size        uint64
	DeviceLocal bool
}

// QueueFamily is one entry of vkGetPhysicalDeviceQueueFamilyProperties
type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}

// PhysicalDevice is one adapter as seen through a Driver.
type PhysicalDevice interface {
	// Properties returns identity and limits
	Properties() PhysicalDeviceProperties

	// QueryFeatures fills every node of chain with the values the
	// adapter supports, in one query.
	QueryFeatures(chain *FeatureChain) error

	// Extensions lists the device extensions the adapter offers
	Extensions() ([]string, error)

	// MemoryHeaps returns the memory heaps of the adapter
	MemoryHeaps() []MemoryHeap

	// QueueFamilies returns queue families in native order
	QueueFamilies() []QueueFamily
}

// QueueCreateInfo requests one queue from a family
type QueueCreateInfo struct {
	FamilyIndex uint32
	Priority    float32
}

// DeviceCreateInfo is everything the driver needs to create a device.
type DeviceCreateInfo struct {
	Queues     []QueueCreateInfo
	Extensions []string
	Layers     []string

	// Features is the masked chain to enable
	Features *FeatureChain

	Flags        api.DeviceFlags
	NativeWindow uintptr
}

// LogicalDevice is a device created by a Driver
type LogicalDevice interface {
	Destroy()
}

// Driver is one native API session.
type Driver interface {
	// PhysicalDevices enumerates adapters in a stable order
	PhysicalDevices() ([]PhysicalDevice, error)

	// CreateDevice creates a logical device on pd
	CreateDevice(pd PhysicalDevice, info DeviceCreateInfo) (LogicalDevice, error)

	// Close ends the session. Devices must be destroyed first.
	Close()
}

// InstanceConfig configures a Driver session
type InstanceConfig struct {
	ApplicationName    string
	ApplicationVersion uint32
	Debug              bool
}

// Opener starts a Driver session.
type Opener func(cfg InstanceConfig) (Driver, error)
