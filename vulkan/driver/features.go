// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driver

import (
	"unsafe"

	"github.com/devblok/rhi/vulkan"
)

// Structure types of the feature records
const (
	sTypeFeatures2                  = 1000059000
	sTypeVulkan11Features           = 49
	sTypeVulkan12Features           = 51
	sTypeVulkan13Features           = 53
	sTypeMeshShaderFeatures         = 1000328000
	sTypeRayTracingPipelineFeatures = 1000347000
	sTypeAccelerationStructure      = 1000150013
	sTypeDescriptorBufferFeatures   = 1000316002
	sTypeFragmentShadingRate        = 1000226003
	sTypeFragmentShaderInterlock    = 1000251000
)

// coreFlagCount is the number of VkBool32 members of VkPhysicalDeviceFeatures
const coreFlagCount = 55

// rawRecord has the memory layout of every VkPhysicalDevice*Features
// structure: sType, pNext and a run of VkBool32. It is large enough for
// the largest of them, the driver only touches its own members.
type rawRecord struct {
	sType uint32
	next  unsafe.Pointer
	flags [coreFlagCount]uint32
}

// slot binds a flag of a Node to its member index in the native record
type slot struct {
	index int
	flag  *bool
}

// layout returns the structure type of n and where its flags live.
// Indices follow member order in vulkan_core.h.
func layout(n vulkan.Node) (uint32, []slot) {
	switch n := n.(type) {
	case *vulkan.CoreFeatures:
		return sTypeFeatures2, []slot{
			{4, &n.GeometryShader},
			{5, &n.TessellationShader},
			{6, &n.SampleRateShading},
			{7, &n.DualSrcBlend},
			{9, &n.MultiDrawIndirect},
			{11, &n.DepthClamp},
			{13, &n.FillModeNonSolid},
			{14, &n.DepthBounds},
			{19, &n.SamplerAnisotropy},
			{20, &n.TextureCompressionETC2},
			{21, &n.TextureCompressionASTCLDR},
			{22, &n.TextureCompressionBC},
			{25, &n.VertexPipelineStoresAndAtomics},
			{26, &n.FragmentStoresAndAtomics},
			{40, &n.ShaderInt64},
			{44, &n.SparseBinding},
		}
	case *vulkan.Vulkan11Features:
		return sTypeVulkan11Features, []slot{
			{4, &n.Multiview},
		}
	case *vulkan.Vulkan12Features:
		return sTypeVulkan12Features, []slot{
			{0, &n.SamplerMirrorClampToEdge},
			{7, &n.ShaderFloat16},
			{8, &n.ShaderInt8},
			{27, &n.DescriptorBindingPartiallyBound},
			{29, &n.RuntimeDescriptorArray},
			{37, &n.TimelineSemaphore},
			{38, &n.BufferDeviceAddress},
		}
	case *vulkan.Vulkan13Features:
		return sTypeVulkan13Features, []slot{
			{12, &n.DynamicRendering},
		}
	case *vulkan.MeshShaderFeatures:
		return sTypeMeshShaderFeatures, []slot{
			{0, &n.TaskShader},
			{1, &n.MeshShader},
		}
	case *vulkan.RayTracingPipelineFeatures:
		return sTypeRayTracingPipelineFeatures, []slot{
			{0, &n.RayTracingPipeline},
		}
	case *vulkan.AccelerationStructureFeatures:
		return sTypeAccelerationStructure, []slot{
			{0, &n.AccelerationStructure},
		}
	case *vulkan.DescriptorBufferFeatures:
		return sTypeDescriptorBufferFeatures, []slot{
			{0, &n.DescriptorBuffer},
		}
	case *vulkan.FragmentShadingRateFeatures:
		return sTypeFragmentShadingRate, []slot{
			{0, &n.PipelineFragmentShadingRate},
			{1, &n.PrimitiveFragmentShadingRate},
			{2, &n.AttachmentFragmentShadingRate},
		}
	case *vulkan.FragmentShaderInterlockFeatures:
		return sTypeFragmentShaderInterlock, []slot{
			{0, &n.FragmentShaderSampleInterlock},
			{1, &n.FragmentShaderPixelInterlock},
			{2, &n.FragmentShaderShadingRateInterlock},
		}
	}
	return 0, nil
}

func encode(n vulkan.Node, r *rawRecord) {
	sType, slots := layout(n)
	r.sType = sType
	for _, s := range slots {
		if *s.flag {
			r.flags[s.index] = 1
		}
	}
}

func decode(r *rawRecord, n vulkan.Node) {
	_, slots := layout(n)
	for _, s := range slots {
		*s.flag = r.flags[s.index] != 0
	}
}

// link encodes nodes into records and chains them through next in order.
// The records must stay pinned while the driver reads them.
func link(nodes []vulkan.Node) []rawRecord {
	records := make([]rawRecord, len(nodes))
	for i, n := range nodes {
		encode(n, &records[i])
		if i > 0 {
			records[i-1].next = unsafe.Pointer(&records[i])
		}
	}
	return records
}
