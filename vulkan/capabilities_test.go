// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/rhi/api"
	"github.com/devblok/rhi/vulkan"
)

func TestVersion(t *testing.T) {
	c := qt.New(t)

	v := vulkan.MakeVersion(1, 3, 250)
	c.Assert(v.Major(), qt.Equals, uint32(1))
	c.Assert(v.Minor(), qt.Equals, uint32(3))
	c.Assert(v.Patch(), qt.Equals, uint32(250))
	c.Assert(v.AtLeast(1, 3), qt.IsTrue)
	c.Assert(v.AtLeast(1, 4), qt.IsFalse)
	c.Assert(vulkan.MakeVersion(2, 0, 0).AtLeast(1, 3), qt.IsTrue)
}

func TestMaxSampleCount(t *testing.T) {
	c := qt.New(t)

	c.Assert(vulkan.MaxSampleCount(0x7f, 0x0f), qt.Equals, uint32(8))
	c.Assert(vulkan.MaxSampleCount(0x0f, 0x07), qt.Equals, uint32(4))
	c.Assert(vulkan.MaxSampleCount(0x01, 0x7f), qt.Equals, uint32(1))
	c.Assert(vulkan.MaxSampleCount(0x10, 0x20), qt.Equals, uint32(1))
	c.Assert(vulkan.MaxSampleCount(0, 0), qt.Equals, uint32(1))
}

func TestTickFrequency(t *testing.T) {
	c := qt.New(t)

	c.Assert(vulkan.TickFrequency(1), qt.Equals, uint64(1e9))
	c.Assert(vulkan.TickFrequency(2), qt.Equals, uint64(5e8))
	c.Assert(vulkan.TickFrequency(0.5), qt.Equals, uint64(2e9))
	c.Assert(vulkan.TickFrequency(0), qt.Equals, uint64(0))
	c.Assert(vulkan.TickFrequency(-1), qt.Equals, uint64(0))
}

func TestDedicatedMemoryIsLargestLocalHeap(t *testing.T) {
	c := qt.New(t)

	heaps := []vulkan.MemoryHeap{
		{Size: 4 * gib, DeviceLocal: true},
		{Size: 8 * gib, DeviceLocal: true},
		{Size: 64 * gib},
	}
	c.Assert(vulkan.DedicatedMemory(heaps), qt.Equals, uint64(8*gib))
	c.Assert(vulkan.DedicatedMemory(nil), qt.Equals, uint64(0))
}

func TestAdapterKindOf(t *testing.T) {
	c := qt.New(t)

	c.Assert(vulkan.AdapterKindOf(vulkan.DeviceTypeDiscreteGPU), qt.Equals, api.AdapterDiscrete)
	c.Assert(vulkan.AdapterKindOf(vulkan.DeviceTypeIntegratedGPU), qt.Equals, api.AdapterIntegrated)
	c.Assert(vulkan.AdapterKindOf(vulkan.DeviceTypeVirtualGPU), qt.Equals, api.AdapterVirtual)
	c.Assert(vulkan.AdapterKindOf(vulkan.DeviceTypeCPU), qt.Equals, api.AdapterCPU)
	c.Assert(vulkan.AdapterKindOf(vulkan.DeviceType(42)), qt.Equals, api.AdapterOther)
}

func TestExtractFeaturesRayTracingNeedsBothExtensions(t *testing.T) {
	c := qt.New(t)
	v := vulkan.MakeVersion(1, 3, 0)

	f := vulkan.ExtractFeatures(v, vulkan.NewFeatureChain(), []string{vulkan.ExtRayTracingPipeline})
	c.Assert(f.HasAll(api.FeatureRayTracing), qt.IsFalse)

	f = vulkan.ExtractFeatures(v, vulkan.NewFeatureChain(), []string{vulkan.ExtAccelerationStructure})
	c.Assert(f.HasAll(api.FeatureRayTracing), qt.IsFalse)

	f = vulkan.ExtractFeatures(v, vulkan.NewFeatureChain(),
		[]string{vulkan.ExtAccelerationStructure, vulkan.ExtRayTracingPipeline})
	c.Assert(f.HasAll(api.FeatureRayTracing), qt.IsTrue)
}

func TestExtractFeaturesVersionFloor(t *testing.T) {
	c := qt.New(t)
	floor := api.FeatureWaveOps | api.FeatureMultiview | api.FeaturePersistentMapping

	f := vulkan.ExtractFeatures(vulkan.MakeVersion(1, 2, 0), vulkan.NewFeatureChain(), nil)
	c.Assert(f, qt.Equals, api.NoFeatures)

	f = vulkan.ExtractFeatures(vulkan.MakeVersion(1, 3, 0), vulkan.NewFeatureChain(), nil)
	c.Assert(f, qt.Equals, floor)
}

func TestExtractFeaturesCompositeFlags(t *testing.T) {
	c := qt.New(t)
	v := vulkan.MakeVersion(1, 2, 0)

	chain := vulkan.NewFeatureChain()
	chain.Vulkan12().DescriptorBindingPartiallyBound = true
	c.Assert(vulkan.ExtractFeatures(v, chain, nil).HasAll(api.FeatureBindless), qt.IsFalse)

	chain.Vulkan12().RuntimeDescriptorArray = true
	c.Assert(vulkan.ExtractFeatures(v, chain, nil).HasAll(api.FeatureBindless), qt.IsTrue)

	chain = vulkan.NewFeatureChain()
	chain.Core().VertexPipelineStoresAndAtomics = true
	c.Assert(vulkan.ExtractFeatures(v, chain, nil), qt.Equals, api.FeatureImageLoadStore)

	chain = vulkan.NewFeatureChain()
	chain.Vulkan12().ShaderInt8 = true
	c.Assert(vulkan.ExtractFeatures(v, chain, nil), qt.Equals, api.FeatureShaderFloat16Int8)
}

func TestMakeAdapterInfo(t *testing.T) {
	c := qt.New(t)

	rec := record("GeForce", vulkan.DeviceTypeDiscreteGPU, 12*gib, vulkan.ExtMeshShader)
	info, err := vulkan.MakeAdapterInfo(3, rec)
	c.Assert(err, qt.IsNil)

	c.Assert(info.Index, qt.Equals, uint32(3))
	c.Assert(info.Name, qt.Equals, "GeForce")
	c.Assert(info.Kind, qt.Equals, api.AdapterDiscrete)
	c.Assert(info.VideoMemory, qt.Equals, uint64(12*gib))
	c.Assert(info.DriverVersion, qt.Equals, uint32(0x2000))
	c.Assert(info.APIVersionMajor, qt.Equals, uint32(1))
	c.Assert(info.APIVersionMinor, qt.Equals, uint32(3))

	caps := info.Capabilities
	c.Assert(caps.Backend, qt.Equals, api.Vulkan)
	c.Assert(caps.Limits.MaxMSAASamples, qt.Equals, uint32(4))
	c.Assert(caps.Limits.MaxMipLevels, qt.Equals, uint32(32))
	c.Assert(caps.Limits.TimelineTickFrequency, qt.Equals, uint64(1e9))
	c.Assert(caps.Limits.UniformBufferAlignment, qt.Equals, uint32(64))
	c.Assert(caps.Limits.MaxComputeWorkGroupSizeZ, qt.Equals, uint32(64))

	want := api.FeatureTessellation | api.FeatureGeometryShader | api.FeatureMultiDrawIndirect |
		api.FeatureDepthClamp | api.FeatureAnisotropicFiltering | api.FeatureTexCompressionBC |
		api.FeatureImageLoadStore | api.FeatureShaderInt64 | api.FeatureBindless |
		api.FeatureTimelineSemaphore | api.FeatureBufferDeviceAddress | api.FeatureDynamicRendering |
		api.FeaturePresentation | api.FeatureMeshShader |
		api.FeatureWaveOps | api.FeatureMultiview | api.FeaturePersistentMapping
	c.Assert(caps.Features, qt.Equals, want)
}

func TestEnumerateAdapters(t *testing.T) {
	c := qt.New(t)

	drv := vulkan.NewRecordedDriver([]*vulkan.DeviceRecord{
		record("first", vulkan.DeviceTypeIntegratedGPU, 2*gib),
		record("second", vulkan.DeviceTypeDiscreteGPU, 8*gib),
	})
	adapters := vulkan.EnumerateAdapters(drv)
	c.Assert(adapters, qt.HasLen, 2)
	c.Assert(adapters[0].Name, qt.Equals, "first")
	c.Assert(adapters[1].Index, qt.Equals, uint32(1))

	drv.Close()
	c.Assert(vulkan.EnumerateAdapters(drv), qt.IsNil)
}
