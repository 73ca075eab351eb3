// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driver

import (
	"errors"
	"runtime"
	"unsafe"

	vk "github.com/devblok/vulkan"

	"github.com/devblok/rhi/vulkan"
)

const knownQueueFlags = vulkan.QueueGraphics | vulkan.QueueCompute | vulkan.QueueTransfer | vulkan.QueueSparseBinding

// physicalDevice reads an adapter once at enumeration. Features are
// queried on demand as the chain differs per call.
type physicalDevice struct {
	handle     vk.PhysicalDevice
	features2  unsafe.Pointer
	properties vulkan.PhysicalDeviceProperties
	heaps      []vulkan.MemoryHeap
	families   []vulkan.QueueFamily
}

func newPhysicalDevice(h vk.PhysicalDevice, features2 unsafe.Pointer) *physicalDevice {
	return &physicalDevice{
		handle:     h,
		features2:  features2,
		properties: readProperties(h),
		heaps:      readHeaps(h),
		families:   readQueueFamilies(h),
	}
}

func readProperties(h vk.PhysicalDevice) vulkan.PhysicalDeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(h, &props)
	props.Deref()
	props.Limits.Deref()
	l := props.Limits

	return vulkan.PhysicalDeviceProperties{
		APIVersion:    vulkan.Version(props.ApiVersion),
		DriverVersion: props.DriverVersion,
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
		DeviceType:    vulkan.DeviceType(props.DeviceType),
		DeviceName:    vk.ToString(props.DeviceName[:]),
		Limits: vulkan.PhysicalDeviceLimits{
			MaxImageDimension1D:                 l.MaxImageDimension1D,
			MaxImageDimension2D:                 l.MaxImageDimension2D,
			MaxImageDimension3D:                 l.MaxImageDimension3D,
			MaxImageDimensionCube:               l.MaxImageDimensionCube,
			MaxImageArrayLayers:                 l.MaxImageArrayLayers,
			MaxPerStageDescriptorSamplers:       l.MaxPerStageDescriptorSamplers,
			MaxPerStageDescriptorSampledImages:  l.MaxPerStageDescriptorSampledImages,
			MaxPerStageDescriptorStorageImages:  l.MaxPerStageDescriptorStorageImages,
			MaxPerStageDescriptorUniformBuffers: l.MaxPerStageDescriptorUniformBuffers,
			MaxPerStageDescriptorStorageBuffers: l.MaxPerStageDescriptorStorageBuffers,
			MaxColorAttachments:                 l.MaxColorAttachments,
			MaxVertexInputBindings:              l.MaxVertexInputBindings,
			MaxVertexInputAttributes:            l.MaxVertexInputAttributes,
			FramebufferColorSampleCounts:        vulkan.SampleCounts(l.FramebufferColorSampleCounts),
			FramebufferDepthSampleCounts:        vulkan.SampleCounts(l.FramebufferDepthSampleCounts),
			MinUniformBufferOffsetAlignment:     uint64(l.MinUniformBufferOffsetAlignment),
			MinStorageBufferOffsetAlignment:     uint64(l.MinStorageBufferOffsetAlignment),
			MaxComputeWorkGroupSize:             l.MaxComputeWorkGroupSize,
			MaxComputeWorkGroupInvocations:      l.MaxComputeWorkGroupInvocations,
			TimestampPeriod:                     l.TimestampPeriod,
		},
	}
}

func readHeaps(h vk.PhysicalDevice) []vulkan.MemoryHeap {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(h, &memoryProperties)
	memoryProperties.Deref()

	heaps := make([]vulkan.MemoryHeap, 0, memoryProperties.MemoryHeapCount)
	for iMem := (uint32)(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		heap := memoryProperties.MemoryHeaps[iMem]
		heap.Deref()
		heaps = append(heaps, vulkan.MemoryHeap{
			Size:        uint64(heap.Size),
			DeviceLocal: heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0,
		})
	}
	return heaps
}

func readQueueFamilies(h vk.PhysicalDevice) []vulkan.QueueFamily {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(h, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(h, &queueFamilyCount, queueFamilies)

	families := make([]vulkan.QueueFamily, 0, queueFamilyCount)
	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()
		families = append(families, vulkan.QueueFamily{
			Flags: vulkan.QueueFlags(queueFamilies[i].QueueFlags) & knownQueueFlags,
			Count: queueFamilies[i].QueueCount,
		})
	}
	return families
}

// Properties implements vulkan.PhysicalDevice
func (p *physicalDevice) Properties() vulkan.PhysicalDeviceProperties {
	return p.properties
}

// MemoryHeaps implements vulkan.PhysicalDevice
func (p *physicalDevice) MemoryHeaps() []vulkan.MemoryHeap {
	return p.heaps
}

// QueueFamilies implements vulkan.PhysicalDevice
func (p *physicalDevice) QueueFamilies() []vulkan.QueueFamily {
	return p.families
}

// Extensions implements vulkan.PhysicalDevice
func (p *physicalDevice) Extensions() ([]string, error) {
	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.handle, "", &numDeviceExtensions, nil)); err != nil {
		return nil, errors.New("vk.EnumerateDeviceExtensionProperties(): " + err.Error())
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.handle, "", &numDeviceExtensions, deviceExt)); err != nil {
		return nil, errors.New("vk.EnumerateDeviceExtensionProperties(): " + err.Error())
	}
	extensions := make([]string, 0, numDeviceExtensions)
	for _, ext := range deviceExt[:numDeviceExtensions] {
		ext.Deref()
		extensions = append(extensions, vk.ToString(ext.ExtensionName[:]))
	}
	return extensions, nil
}

// queryNodes lists the records of one features2 query. The core record
// heads the chain; version records the adapter's API version does not
// define are dropped, since drivers older than 1.2 reject them.
func (p *physicalDevice) queryNodes(chain *vulkan.FeatureChain) []vulkan.Node {
	head := chain.Core()
	if head == nil {
		head = &vulkan.CoreFeatures{}
	}
	nodes := []vulkan.Node{head}

	v := p.properties.APIVersion
	for _, n := range chain.Nodes() {
		switch n.Kind() {
		case vulkan.NodeCore:
			continue
		case vulkan.NodeVulkan11, vulkan.NodeVulkan12:
			if !v.AtLeast(1, 2) {
				continue
			}
		case vulkan.NodeVulkan13:
			if !v.AtLeast(1, 3) {
				continue
			}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// QueryFeatures implements vulkan.PhysicalDevice with a single
// vkGetPhysicalDeviceFeatures2 call over the whole chain. Without that
// entry point only the core flags are read and every other node is
// cleared.
func (p *physicalDevice) QueryFeatures(chain *vulkan.FeatureChain) error {
	nodes := p.queryNodes(chain)
	if p.features2 == nil {
		var core vk.PhysicalDeviceFeatures
		vk.GetPhysicalDeviceFeatures(p.handle, &core)
		core.Deref()
		*nodes[0].(*vulkan.CoreFeatures) = coreFeatures(core)
		for _, n := range chain.Nodes() {
			if n.Kind() != vulkan.NodeCore {
				decode(&rawRecord{}, n)
			}
		}
		return nil
	}

	records := link(nodes)
	var pinner runtime.Pinner
	defer pinner.Unpin()
	pinner.Pin(&records[0])

	getFeatures2(p.features2, p.handle, &records[0])
	for i, n := range nodes {
		decode(&records[i], n)
	}
	return nil
}

func coreFeatures(f vk.PhysicalDeviceFeatures) vulkan.CoreFeatures {
	return vulkan.CoreFeatures{
		TessellationShader:             f.TessellationShader.B(),
		GeometryShader:                 f.GeometryShader.B(),
		SampleRateShading:              f.SampleRateShading.B(),
		DualSrcBlend:                   f.DualSrcBlend.B(),
		MultiDrawIndirect:              f.MultiDrawIndirect.B(),
		DepthClamp:                     f.DepthClamp.B(),
		FillModeNonSolid:               f.FillModeNonSolid.B(),
		DepthBounds:                    f.DepthBounds.B(),
		SamplerAnisotropy:              f.SamplerAnisotropy.B(),
		TextureCompressionETC2:         f.TextureCompressionETC2.B(),
		TextureCompressionASTCLDR:      f.TextureCompressionASTC_LDR.B(),
		TextureCompressionBC:           f.TextureCompressionBC.B(),
		VertexPipelineStoresAndAtomics: f.VertexPipelineStoresAndAtomics.B(),
		FragmentStoresAndAtomics:       f.FragmentStoresAndAtomics.B(),
		ShaderInt64:                    f.ShaderInt64.B(),
		SparseBinding:                  f.SparseBinding.B(),
	}
}
