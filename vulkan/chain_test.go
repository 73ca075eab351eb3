// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan_test

import (
	"testing"
	"testing/quick"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/rhi/api"
	"github.com/devblok/rhi/vulkan"
)

func kinds(chain *vulkan.FeatureChain) []vulkan.NodeKind {
	var out []vulkan.NodeKind
	for _, n := range chain.Nodes() {
		out = append(out, n.Kind())
	}
	return out
}

func TestFeatureChainBase(t *testing.T) {
	c := qt.New(t)

	chain := vulkan.NewFeatureChain()
	c.Assert(kinds(chain), qt.DeepEquals, []vulkan.NodeKind{
		vulkan.NodeCore, vulkan.NodeVulkan11, vulkan.NodeVulkan12, vulkan.NodeVulkan13,
	})
	c.Assert(chain.Find(vulkan.NodeMeshShader), qt.IsNil)

	chain.Append(&vulkan.MeshShaderFeatures{}).Append(&vulkan.MeshShaderFeatures{})
	c.Assert(chain.Nodes(), qt.HasLen, 5)
}

func TestBuildFeatureChainExtensionRecords(t *testing.T) {
	c := qt.New(t)
	rec := record("gpu", vulkan.DeviceTypeDiscreteGPU, 8*gib)

	chain, err := vulkan.BuildFeatureChain(rec, api.AllFeatures, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(chain.Nodes(), qt.HasLen, 4)

	chain, err = vulkan.BuildFeatureChain(rec, api.AllFeatures, []string{
		vulkan.ExtSwapchain, vulkan.ExtRayTracingPipeline, vulkan.ExtAccelerationStructure,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(kinds(chain), qt.DeepEquals, []vulkan.NodeKind{
		vulkan.NodeCore, vulkan.NodeVulkan11, vulkan.NodeVulkan12, vulkan.NodeVulkan13,
		vulkan.NodeRayTracingPipeline, vulkan.NodeAccelerationStructure,
	})
	rt := chain.Find(vulkan.NodeRayTracingPipeline).(*vulkan.RayTracingPipelineFeatures)
	c.Assert(rt.RayTracingPipeline, qt.IsTrue)
}

func TestBuildFeatureChainMasksUnresolved(t *testing.T) {
	c := qt.New(t)
	rec := record("gpu", vulkan.DeviceTypeDiscreteGPU, 8*gib)

	chain, err := vulkan.BuildFeatureChain(rec, api.FeatureTessellation|api.FeatureMeshShader,
		[]string{vulkan.ExtMeshShader})
	c.Assert(err, qt.IsNil)

	c.Assert(chain.Core().TessellationShader, qt.IsTrue)
	c.Assert(chain.Core().GeometryShader, qt.IsFalse)
	c.Assert(chain.Vulkan11().Multiview, qt.IsFalse)
	c.Assert(chain.Vulkan12().TimelineSemaphore, qt.IsFalse)
	c.Assert(chain.Vulkan13().DynamicRendering, qt.IsFalse)

	mesh := chain.Find(vulkan.NodeMeshShader).(*vulkan.MeshShaderFeatures)
	c.Assert(*mesh, qt.Equals, vulkan.MeshShaderFeatures{TaskShader: true, MeshShader: true})
}

func TestMaskNeverEnablesUnresolved(t *testing.T) {
	var everything vulkan.SupportedFeatures
	everything.Core = vulkan.CoreFeatures{
		TessellationShader: true, GeometryShader: true, SampleRateShading: true,
		DualSrcBlend: true, MultiDrawIndirect: true, DepthClamp: true,
		FillModeNonSolid: true, DepthBounds: true, SamplerAnisotropy: true,
		TextureCompressionETC2: true, TextureCompressionASTCLDR: true, TextureCompressionBC: true,
		VertexPipelineStoresAndAtomics: true, FragmentStoresAndAtomics: true,
		ShaderInt64: true, SparseBinding: true,
	}
	everything.Vulkan12 = vulkan.Vulkan12Features{
		SamplerMirrorClampToEdge: true, ShaderFloat16: true, ShaderInt8: true,
		DescriptorBindingPartiallyBound: true, RuntimeDescriptorArray: true,
		TimelineSemaphore: true, BufferDeviceAddress: true,
	}
	everything.Vulkan13.DynamicRendering = true

	// below the version floor only queried flags contribute
	v := vulkan.MakeVersion(1, 2, 0)
	f := func(resolved uint64) bool {
		chain := vulkan.NewFeatureChain()
		everything.Fill(chain)
		chain.Mask(api.Feature(resolved))
		return api.Feature(resolved).HasAll(vulkan.ExtractFeatures(v, chain, nil))
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestRecordDeviceCapturesExtensionRecords(t *testing.T) {
	c := qt.New(t)

	live := record("gpu", vulkan.DeviceTypeDiscreteGPU, 8*gib, vulkan.ExtMeshShader)
	rec, err := vulkan.RecordDevice(live)
	c.Assert(err, qt.IsNil)
	c.Assert(rec.Props, qt.DeepEquals, live.Props)
	c.Assert(rec.Available, qt.DeepEquals, live.Available)
	c.Assert(rec.Supported.MeshShader, qt.Equals, live.Supported.MeshShader)
	c.Assert(rec.Supported.Core, qt.Equals, live.Supported.Core)

	// ray tracing is not offered, so its records are never queried
	c.Assert(rec.Supported.RayTracingPipeline.RayTracingPipeline, qt.IsFalse)
}
