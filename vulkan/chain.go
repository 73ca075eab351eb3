// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import (
	"github.com/devblok/rhi/api"
)

// NodeKind identifies the native feature record a Node stands for
type NodeKind int

// Feature records, in the order the base chain links them
const (
	NodeCore NodeKind = iota
	NodeVulkan11
	NodeVulkan12
	NodeVulkan13
	NodeMeshShader
	NodeRayTracingPipeline
	NodeAccelerationStructure
	NodeDescriptorBuffer
	NodeFragmentShadingRate
	NodeFragmentShaderInterlock
)

// Node is one record of a feature chain. Records only carry the flags
// that map to a feature bit; every other flag of the native record is
// always disabled.
type Node interface {
	Kind() NodeKind

	// Mask disables every flag whose feature is not in resolved.
	Mask(resolved api.Feature)
}

func keep(flag *bool, resolved, bit api.Feature) {
	if !resolved.HasAll(bit) {
		*flag = false
	}
}

// CoreFeatures stands for VkPhysicalDeviceFeatures2
type CoreFeatures struct {
	TessellationShader             bool
	GeometryShader                 bool
	SampleRateShading              bool
	DualSrcBlend                   bool
	MultiDrawIndirect              bool
	DepthClamp                     bool
	FillModeNonSolid               bool
	DepthBounds                    bool
	SamplerAnisotropy              bool
	TextureCompressionETC2         bool
	TextureCompressionASTCLDR      bool
	TextureCompressionBC           bool
	VertexPipelineStoresAndAtomics bool
	FragmentStoresAndAtomics       bool
	ShaderInt64                    bool
	SparseBinding                  bool
}

// Kind implements Node
func (*CoreFeatures) Kind() NodeKind { return NodeCore }

// Mask implements Node
func (f *CoreFeatures) Mask(r api.Feature) {
	keep(&f.TessellationShader, r, api.FeatureTessellation)
	keep(&f.GeometryShader, r, api.FeatureGeometryShader)
	keep(&f.SampleRateShading, r, api.FeatureSampleRateShading)
	keep(&f.DualSrcBlend, r, api.FeatureDualSourceBlending)
	keep(&f.MultiDrawIndirect, r, api.FeatureMultiDrawIndirect)
	keep(&f.DepthClamp, r, api.FeatureDepthClamp)
	keep(&f.FillModeNonSolid, r, api.FeatureNonSolidFill)
	keep(&f.DepthBounds, r, api.FeatureDepthBoundsTest)
	keep(&f.SamplerAnisotropy, r, api.FeatureAnisotropicFiltering)
	keep(&f.TextureCompressionETC2, r, api.FeatureTexCompressionETC2)
	keep(&f.TextureCompressionASTCLDR, r, api.FeatureTexCompressionASTC)
	keep(&f.TextureCompressionBC, r, api.FeatureTexCompressionBC)
	keep(&f.VertexPipelineStoresAndAtomics, r, api.FeatureImageLoadStore)
	keep(&f.FragmentStoresAndAtomics, r, api.FeatureImageLoadStore)
	keep(&f.ShaderInt64, r, api.FeatureShaderInt64)
	keep(&f.SparseBinding, r, api.FeatureSparseResources)
}

// Vulkan11Features stands for VkPhysicalDeviceVulkan11Features
type Vulkan11Features struct {
	Multiview bool
}

// Kind implements Node
func (*Vulkan11Features) Kind() NodeKind { return NodeVulkan11 }

// Mask implements Node
func (f *Vulkan11Features) Mask(r api.Feature) {
	keep(&f.Multiview, r, api.FeatureMultiview)
}

// Vulkan12Features stands for VkPhysicalDeviceVulkan12Features
type Vulkan12Features struct {
	SamplerMirrorClampToEdge        bool
	ShaderFloat16                   bool
	ShaderInt8                      bool
	DescriptorBindingPartiallyBound bool
	RuntimeDescriptorArray          bool
	TimelineSemaphore               bool
	BufferDeviceAddress             bool
}

// Kind implements Node
func (*Vulkan12Features) Kind() NodeKind { return NodeVulkan12 }

// Mask implements Node
func (f *Vulkan12Features) Mask(r api.Feature) {
	keep(&f.SamplerMirrorClampToEdge, r, api.FeatureMirrorClampToEdge)
	keep(&f.ShaderFloat16, r, api.FeatureShaderFloat16Int8)
	keep(&f.ShaderInt8, r, api.FeatureShaderFloat16Int8)
	keep(&f.DescriptorBindingPartiallyBound, r, api.FeatureBindless)
	keep(&f.RuntimeDescriptorArray, r, api.FeatureBindless)
	keep(&f.TimelineSemaphore, r, api.FeatureTimelineSemaphore)
	keep(&f.BufferDeviceAddress, r, api.FeatureBufferDeviceAddress)
}

// Vulkan13Features stands for VkPhysicalDeviceVulkan13Features
type Vulkan13Features struct {
	DynamicRendering bool
}

// Kind implements Node
func (*Vulkan13Features) Kind() NodeKind { return NodeVulkan13 }

// Mask implements Node
func (f *Vulkan13Features) Mask(r api.Feature) {
	keep(&f.DynamicRendering, r, api.FeatureDynamicRendering)
}

// MeshShaderFeatures stands for VkPhysicalDeviceMeshShaderFeaturesEXT
type MeshShaderFeatures struct {
	TaskShader bool
	MeshShader bool
}

// Kind implements Node
func (*MeshShaderFeatures) Kind() NodeKind { return NodeMeshShader }

// Mask implements Node
func (f *MeshShaderFeatures) Mask(r api.Feature) {
	keep(&f.TaskShader, r, api.FeatureMeshShader)
	keep(&f.MeshShader, r, api.FeatureMeshShader)
}

// RayTracingPipelineFeatures stands for VkPhysicalDeviceRayTracingPipelineFeaturesKHR
type RayTracingPipelineFeatures struct {
	RayTracingPipeline bool
}

// Kind implements Node
func (*RayTracingPipelineFeatures) Kind() NodeKind { return NodeRayTracingPipeline }

// Mask implements Node
func (f *RayTracingPipelineFeatures) Mask(r api.Feature) {
	keep(&f.RayTracingPipeline, r, api.FeatureRayTracing)
}

// AccelerationStructureFeatures stands for VkPhysicalDeviceAccelerationStructureFeaturesKHR
type AccelerationStructureFeatures struct {
	AccelerationStructure bool
}

// Kind implements Node
func (*AccelerationStructureFeatures) Kind() NodeKind { return NodeAccelerationStructure }

// Mask implements Node
func (f *AccelerationStructureFeatures) Mask(r api.Feature) {
	keep(&f.AccelerationStructure, r, api.FeatureRayTracing)
}

// DescriptorBufferFeatures stands for VkPhysicalDeviceDescriptorBufferFeaturesEXT
type DescriptorBufferFeatures struct {
	DescriptorBuffer bool
}

// Kind implements Node
func (*DescriptorBufferFeatures) Kind() NodeKind { return NodeDescriptorBuffer }

// Mask implements Node
func (f *DescriptorBufferFeatures) Mask(r api.Feature) {
	keep(&f.DescriptorBuffer, r, api.FeatureDescriptorBuffer)
}

// FragmentShadingRateFeatures stands for VkPhysicalDeviceFragmentShadingRateFeaturesKHR
type FragmentShadingRateFeatures struct {
	PipelineFragmentShadingRate   bool
	PrimitiveFragmentShadingRate  bool
	AttachmentFragmentShadingRate bool
}

// Kind implements Node
func (*FragmentShadingRateFeatures) Kind() NodeKind { return NodeFragmentShadingRate }

// Mask implements Node
func (f *FragmentShadingRateFeatures) Mask(r api.Feature) {
	keep(&f.PipelineFragmentShadingRate, r, api.FeatureVariableRateShading)
	keep(&f.PrimitiveFragmentShadingRate, r, api.FeatureVariableRateShading)
	keep(&f.AttachmentFragmentShadingRate, r, api.FeatureVariableRateShading)
}

// FragmentShaderInterlockFeatures stands for VkPhysicalDeviceFragmentShaderInterlockFeaturesEXT
type FragmentShaderInterlockFeatures struct {
	FragmentShaderSampleInterlock      bool
	FragmentShaderPixelInterlock       bool
	FragmentShaderShadingRateInterlock bool
}

// Kind implements Node
func (*FragmentShaderInterlockFeatures) Kind() NodeKind { return NodeFragmentShaderInterlock }

// Mask implements Node
func (f *FragmentShaderInterlockFeatures) Mask(r api.Feature) {
	keep(&f.FragmentShaderSampleInterlock, r, api.FeatureFragmentInterlock)
	keep(&f.FragmentShaderPixelInterlock, r, api.FeatureFragmentInterlock)
	keep(&f.FragmentShaderShadingRateInterlock, r, api.FeatureFragmentInterlock)
}

// FeatureChain is an ordered list of feature records. The native
// next-pointer links are only made when the chain is handed to a driver.
type FeatureChain struct {
	nodes []Node
}

// NewFeatureChain returns the base chain: core, 1.1, 1.2 and 1.3 records.
func NewFeatureChain() *FeatureChain {
	return &FeatureChain{nodes: []Node{
		&CoreFeatures{},
		&Vulkan11Features{},
		&Vulkan12Features{},
		&Vulkan13Features{},
	}}
}

// Append adds n at the end of the chain. A record kind already present
// is not added twice.
func (c *FeatureChain) Append(n Node) *FeatureChain {
	if c.Find(n.Kind()) == nil {
		c.nodes = append(c.nodes, n)
	}
	return c
}

// Nodes returns the records in chain order.
func (c *FeatureChain) Nodes() []Node {
	return c.nodes
}

// Find returns the record of the given kind, nil if absent.
func (c *FeatureChain) Find(kind NodeKind) Node {
	for _, n := range c.nodes {
		if n.Kind() == kind {
			return n
		}
	}
	return nil
}

// Core returns the core record
func (c *FeatureChain) Core() *CoreFeatures {
	n, _ := c.Find(NodeCore).(*CoreFeatures)
	return n
}

// Vulkan11 returns the 1.1 record
func (c *FeatureChain) Vulkan11() *Vulkan11Features {
	n, _ := c.Find(NodeVulkan11).(*Vulkan11Features)
	return n
}

// Vulkan12 returns the 1.2 record
func (c *FeatureChain) Vulkan12() *Vulkan12Features {
	n, _ := c.Find(NodeVulkan12).(*Vulkan12Features)
	return n
}

// Vulkan13 returns the 1.3 record
func (c *FeatureChain) Vulkan13() *Vulkan13Features {
	n, _ := c.Find(NodeVulkan13).(*Vulkan13Features)
	return n
}

// Mask masks every record down to resolved.
func (c *FeatureChain) Mask(resolved api.Feature) {
	for _, n := range c.nodes {
		n.Mask(resolved)
	}
}

// extensionNodes lists the extension records and the extension that must
// be enabled for each. Ray tracing brings two records.
var extensionNodes = []struct {
	extension string
	nodes     func() []Node
}{
	{ExtMeshShader, func() []Node { return []Node{&MeshShaderFeatures{}} }},
	{ExtRayTracingPipeline, func() []Node {
		return []Node{&RayTracingPipelineFeatures{}, &AccelerationStructureFeatures{}}
	}},
	{ExtDescriptorBuffer, func() []Node { return []Node{&DescriptorBufferFeatures{}} }},
	{ExtFragmentShadingRate, func() []Node { return []Node{&FragmentShadingRateFeatures{}} }},
	{ExtFragmentShaderInterlock, func() []Node { return []Node{&FragmentShaderInterlockFeatures{}} }},
}

// BuildFeatureChain links the base records plus one record per selected
// extension that has one, fills them with everything pd supports and
// then masks them down to resolved.
func BuildFeatureChain(pd PhysicalDevice, resolved api.Feature, extensions []string) (*FeatureChain, error) {
	chain := NewFeatureChain()
	for _, ext := range extensionNodes {
		if !contains(extensions, ext.extension) {
			continue
		}
		for _, n := range ext.nodes() {
			chain.Append(n)
		}
	}
	if err := pd.QueryFeatures(chain); err != nil {
		return nil, err
	}
	chain.Mask(resolved)
	return chain, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
