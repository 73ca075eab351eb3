// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import "github.com/devblok/rhi/api"

// Device extensions the backend knows about
const (
	ExtSwapchain                 = "VK_KHR_swapchain"
	ExtMeshShader                = "VK_EXT_mesh_shader"
	ExtRayTracingPipeline        = "VK_KHR_ray_tracing_pipeline"
	ExtAccelerationStructure     = "VK_KHR_acceleration_structure"
	ExtDeferredHostOperations    = "VK_KHR_deferred_host_operations"
	ExtDescriptorBuffer          = "VK_EXT_descriptor_buffer"
	ExtFragmentShadingRate       = "VK_KHR_fragment_shading_rate"
	ExtConservativeRasterization = "VK_EXT_conservative_rasterization"
	ExtFragmentShaderInterlock   = "VK_EXT_fragment_shader_interlock"
	ExtDebugUtils                = "VK_EXT_debug_utils"
)

// ValidationLayer is enabled on debug devices when present
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

// extensionTable maps features to the extensions that realize them.
var extensionTable = []struct {
	feature api.Feature
	names   []string
}{
	{api.FeaturePresentation, []string{ExtSwapchain}},
	{api.FeatureMeshShader, []string{ExtMeshShader}},
	{api.FeatureRayTracing, []string{ExtRayTracingPipeline, ExtAccelerationStructure, ExtDeferredHostOperations}},
	{api.FeatureDescriptorBuffer, []string{ExtDescriptorBuffer}},
	{api.FeatureVariableRateShading, []string{ExtFragmentShadingRate}},
	{api.FeatureConservativeRaster, []string{ExtConservativeRasterization}},
	{api.FeatureFragmentInterlock, []string{ExtFragmentShaderInterlock}},
	{api.FeatureDebugMarkers, []string{ExtDebugUtils}},
}

// ResolveExtensions returns the device extensions to enable for the
// resolved features. A name is only returned when available lists it.
func ResolveExtensions(resolved api.Feature, available []string) []string {
	var out []string
	for _, entry := range extensionTable {
		if !resolved.HasAll(entry.feature) {
			continue
		}
		for _, name := range entry.names {
			if contains(available, name) && !contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}
