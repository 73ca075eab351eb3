// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan_test

import (
	"github.com/devblok/rhi/vulkan"
)

const gib = 1 << 30

var allQueues = []vulkan.QueueFamily{
	{Flags: vulkan.QueueGraphics | vulkan.QueueCompute | vulkan.QueueTransfer, Count: 16},
	{Flags: vulkan.QueueCompute | vulkan.QueueTransfer, Count: 2},
	{Flags: vulkan.QueueTransfer | vulkan.QueueSparseBinding, Count: 2},
}

// record describes a 1.3 adapter with a common desktop feature set.
// Extension records are filled regardless of the extensions listed,
// as drivers only report what is chained.
func record(name string, kind vulkan.DeviceType, memory uint64, extensions ...string) *vulkan.DeviceRecord {
	return &vulkan.DeviceRecord{
		Props: vulkan.PhysicalDeviceProperties{
			APIVersion:    vulkan.MakeVersion(1, 3, 250),
			DriverVersion: 0x2000,
			VendorID:      0x10de,
			DeviceID:      0x2684,
			DeviceType:    kind,
			DeviceName:    name,
			Limits: vulkan.PhysicalDeviceLimits{
				MaxImageDimension1D:                 16384,
				MaxImageDimension2D:                 16384,
				MaxImageDimension3D:                 2048,
				MaxImageDimensionCube:               16384,
				MaxImageArrayLayers:                 2048,
				MaxPerStageDescriptorSamplers:       1048576,
				MaxPerStageDescriptorSampledImages:  1048576,
				MaxPerStageDescriptorStorageImages:  1048576,
				MaxPerStageDescriptorUniformBuffers: 15,
				MaxPerStageDescriptorStorageBuffers: 1048576,
				MaxColorAttachments:                 8,
				MaxVertexInputBindings:              32,
				MaxVertexInputAttributes:            32,
				FramebufferColorSampleCounts:        0x0f,
				FramebufferDepthSampleCounts:        0x07,
				MinUniformBufferOffsetAlignment:     64,
				MinStorageBufferOffsetAlignment:     16,
				MaxComputeWorkGroupSize:             [3]uint32{1024, 1024, 64},
				MaxComputeWorkGroupInvocations:      1024,
				TimestampPeriod:                     1,
			},
		},
		Supported: vulkan.SupportedFeatures{
			Core: vulkan.CoreFeatures{
				TessellationShader:       true,
				GeometryShader:           true,
				MultiDrawIndirect:        true,
				DepthClamp:               true,
				SamplerAnisotropy:        true,
				TextureCompressionBC:     true,
				FragmentStoresAndAtomics: true,
				ShaderInt64:              true,
			},
			Vulkan11: vulkan.Vulkan11Features{Multiview: true},
			Vulkan12: vulkan.Vulkan12Features{
				DescriptorBindingPartiallyBound: true,
				RuntimeDescriptorArray:          true,
				TimelineSemaphore:               true,
				BufferDeviceAddress:             true,
			},
			Vulkan13:              vulkan.Vulkan13Features{DynamicRendering: true},
			MeshShader:            vulkan.MeshShaderFeatures{TaskShader: true, MeshShader: true},
			RayTracingPipeline:    vulkan.RayTracingPipelineFeatures{RayTracingPipeline: true},
			AccelerationStructure: vulkan.AccelerationStructureFeatures{AccelerationStructure: true},
		},
		Available: append([]string{vulkan.ExtSwapchain}, extensions...),
		Heaps: []vulkan.MemoryHeap{
			{Size: memory, DeviceLocal: true},
			{Size: 32 * gib},
		},
		Families: allQueues,
	}
}

// failingDriver serves records but fails every device creation.
type failingDriver struct {
	*vulkan.RecordedDriver
	err error
}

func (d *failingDriver) CreateDevice(vulkan.PhysicalDevice, vulkan.DeviceCreateInfo) (vulkan.LogicalDevice, error) {
	return nil, d.err
}
