// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/api"
)

// maxMipLevels is an upper bound, Vulkan does not report it
const maxMipLevels = 32

// MaxSampleCount returns the largest sample count supported by both
// color and depth attachments, at least 1.
func MaxSampleCount(color, depth SampleCounts) uint32 {
	shared := color & depth
	for n := uint32(64); n > 1; n >>= 1 {
		if shared&SampleCounts(n) != 0 {
			return n
		}
	}
	return 1
}

// TickFrequency converts a tick period in nanoseconds to ticks per
// second. Non-positive periods give zero.
func TickFrequency(period float32) uint64 {
	if period <= 0 {
		return 0
	}
	return uint64(1e9 / float64(period))
}

// ExtractLimits transcribes native limits.
func ExtractLimits(l PhysicalDeviceLimits) api.DeviceLimits {
	return api.DeviceLimits{
		MaxImageDimension1D: l.MaxImageDimension1D,
		MaxImageDimension2D: l.MaxImageDimension2D,
		MaxImageDimension3D: l.MaxImageDimension3D,
		MaxCubeDimension:    l.MaxImageDimensionCube,
		MaxMipLevels:        maxMipLevels,
		MaxArrayLayers:      l.MaxImageArrayLayers,

		MaxPerStageSamplers:       l.MaxPerStageDescriptorSamplers,
		MaxPerStageSampledImages:  l.MaxPerStageDescriptorSampledImages,
		MaxPerStageStorageImages:  l.MaxPerStageDescriptorStorageImages,
		MaxPerStageUniformBuffers: l.MaxPerStageDescriptorUniformBuffers,
		MaxPerStageStorageBuffers: l.MaxPerStageDescriptorStorageBuffers,

		MaxColorAttachments:      l.MaxColorAttachments,
		MaxVertexInputBindings:   l.MaxVertexInputBindings,
		MaxVertexInputAttributes: l.MaxVertexInputAttributes,

		MaxMSAASamples: MaxSampleCount(l.FramebufferColorSampleCounts, l.FramebufferDepthSampleCounts),

		UniformBufferAlignment: uint32(l.MinUniformBufferOffsetAlignment),
		StorageBufferAlignment: uint32(l.MinStorageBufferOffsetAlignment),

		MaxComputeWorkGroupSizeX:       l.MaxComputeWorkGroupSize[0],
		MaxComputeWorkGroupSizeY:       l.MaxComputeWorkGroupSize[1],
		MaxComputeWorkGroupSizeZ:       l.MaxComputeWorkGroupSize[2],
		MaxComputeWorkGroupInvocations: l.MaxComputeWorkGroupInvocations,

		TimelineTickFrequency: TickFrequency(l.TimestampPeriod),
	}
}

// ExtractFeatures maps native flags and extensions to feature bits.
// The chain must have been filled by PhysicalDevice.QueryFeatures.
//
// WaveOps, Multiview and PersistentMapping are not queried. They are
// granted from the API version floor, and only to adapters reporting at
// least that version, so an older adapter never gets them.
func ExtractFeatures(apiVersion Version, chain *FeatureChain, extensions []string) api.Feature {
	var f api.Feature
	set := func(ok bool, bit api.Feature) {
		if ok {
			f |= bit
		}
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if !contains(extensions, n) {
				return false
			}
		}
		return true
	}

	core := chain.Core()
	v12 := chain.Vulkan12()
	v13 := chain.Vulkan13()

	set(core.TessellationShader, api.FeatureTessellation)
	set(core.GeometryShader, api.FeatureGeometryShader)
	set(core.MultiDrawIndirect, api.FeatureMultiDrawIndirect)
	set(core.ShaderInt64, api.FeatureShaderInt64)
	set(core.FragmentStoresAndAtomics || core.VertexPipelineStoresAndAtomics, api.FeatureImageLoadStore)
	set(core.SampleRateShading, api.FeatureSampleRateShading)
	set(core.SamplerAnisotropy, api.FeatureAnisotropicFiltering)
	set(core.DepthClamp, api.FeatureDepthClamp)
	set(core.DualSrcBlend, api.FeatureDualSourceBlending)
	set(core.FillModeNonSolid, api.FeatureNonSolidFill)
	set(core.DepthBounds, api.FeatureDepthBoundsTest)
	set(core.SparseBinding, api.FeatureSparseResources)
	set(core.TextureCompressionBC, api.FeatureTexCompressionBC)
	set(core.TextureCompressionETC2, api.FeatureTexCompressionETC2)
	set(core.TextureCompressionASTCLDR, api.FeatureTexCompressionASTC)

	set(v12.TimelineSemaphore, api.FeatureTimelineSemaphore)
	set(v12.DescriptorBindingPartiallyBound && v12.RuntimeDescriptorArray, api.FeatureBindless)
	set(v12.BufferDeviceAddress, api.FeatureBufferDeviceAddress)
	set(v12.ShaderFloat16 || v12.ShaderInt8, api.FeatureShaderFloat16Int8)
	set(v12.SamplerMirrorClampToEdge, api.FeatureMirrorClampToEdge)
	set(v13.DynamicRendering, api.FeatureDynamicRendering)

	set(has(ExtMeshShader), api.FeatureMeshShader)
	set(has(ExtRayTracingPipeline, ExtAccelerationStructure), api.FeatureRayTracing)
	set(has(ExtDescriptorBuffer), api.FeatureDescriptorBuffer)
	set(has(ExtFragmentShadingRate), api.FeatureVariableRateShading)
	set(has(ExtConservativeRasterization), api.FeatureConservativeRaster)
	set(has(ExtFragmentShaderInterlock), api.FeatureFragmentInterlock)
	set(has(ExtSwapchain), api.FeaturePresentation)
	set(has(ExtDebugUtils), api.FeatureDebugMarkers)

	// Guaranteed by the 1.3 floor rather than queried. Revisit these
	// three if MinAPIMajor or MinAPIMinor change.
	if apiVersion.AtLeast(MinAPIMajor, MinAPIMinor) {
		f |= api.FeatureWaveOps | api.FeatureMultiview | api.FeaturePersistentMapping
	}
	return f
}

// DedicatedMemory estimates VRAM as the largest device local heap. On
// integrated adapters this is usually shared system memory.
func DedicatedMemory(heaps []MemoryHeap) uint64 {
	var best uint64
	for _, h := range heaps {
		if h.DeviceLocal && h.Size > best {
			best = h.Size
		}
	}
	return best
}

// AdapterKindOf classifies a native device type
func AdapterKindOf(t DeviceType) api.AdapterKind {
	switch t {
	case DeviceTypeIntegratedGPU:
		return api.AdapterIntegrated
	case DeviceTypeDiscreteGPU:
		return api.AdapterDiscrete
	case DeviceTypeVirtualGPU:
		return api.AdapterVirtual
	case DeviceTypeCPU:
		return api.AdapterCPU
	}
	return api.AdapterOther
}

// MakeAdapterInfo builds the full description of one adapter with a
// single properties, features, extensions and memory query each.
func MakeAdapterInfo(index uint32, pd PhysicalDevice) (api.AdapterInfo, error) {
	props := pd.Properties()

	chain := NewFeatureChain()
	if err := pd.QueryFeatures(chain); err != nil {
		return api.AdapterInfo{}, fmt.Errorf("querying features of '%s': %w", props.DeviceName, err)
	}

	extensions, err := pd.Extensions()
	if err != nil {
		return api.AdapterInfo{}, fmt.Errorf("listing extensions of '%s': %w", props.DeviceName, err)
	}

	heaps := pd.MemoryHeaps()

	major, minor := props.APIVersion.Major(), props.APIVersion.Minor()
	return api.AdapterInfo{
		Index:           index,
		Name:            props.DeviceName,
		Kind:            AdapterKindOf(props.DeviceType),
		VideoMemory:     DedicatedMemory(heaps),
		DriverVersion:   props.DriverVersion,
		APIVersionMajor: major,
		APIVersionMinor: minor,
		Capabilities: api.Capabilities{
			Backend:         api.Vulkan,
			APIVersionMajor: major,
			APIVersionMinor: minor,
			Features:        ExtractFeatures(props.APIVersion, chain, extensions),
			Limits:          ExtractLimits(props.Limits),
		},
	}, nil
}

// EnumerateAdapters describes every adapter of drv in enumeration
// order. Enumeration failures are logged and give an empty list.
func EnumerateAdapters(drv Driver) []api.AdapterInfo {
	devices, err := drv.PhysicalDevices()
	if err != nil {
		log.Error("vulkan adapter enumeration failed: ", err)
		return nil
	}
	adapters := make([]api.AdapterInfo, 0, len(devices))
	for i, pd := range devices {
		info, err := MakeAdapterInfo(uint32(i), pd)
		if err != nil {
			log.Error("vulkan adapter enumeration failed: ", err)
			return nil
		}
		adapters = append(adapters, info)
	}
	return adapters
}
