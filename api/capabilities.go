// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

// DeviceLimits holds the numeric hardware ceilings of a device.
type DeviceLimits struct {
	MaxImageDimension1D uint32
	MaxImageDimension2D uint32
	MaxImageDimension3D uint32
	MaxCubeDimension    uint32
	MaxMipLevels        uint32
	MaxArrayLayers      uint32

	// Descriptors visible to a single shader stage
	MaxPerStageSamplers       uint32
	MaxPerStageSampledImages  uint32
	MaxPerStageStorageImages  uint32
	MaxPerStageUniformBuffers uint32
	MaxPerStageStorageBuffers uint32

	MaxColorAttachments      uint32
	MaxVertexInputBindings   uint32
	MaxVertexInputAttributes uint32

	// MaxMSAASamples is the highest sample count usable for both
	// color and depth attachments at the same time.
	MaxMSAASamples uint32

	UniformBufferAlignment uint32
	StorageBufferAlignment uint32

	MaxComputeWorkGroupSizeX       uint32
	MaxComputeWorkGroupSizeY       uint32
	MaxComputeWorkGroupSizeZ       uint32
	MaxComputeWorkGroupInvocations uint32

	// TimelineTickFrequency is in ticks per second, zero when
	// the device does not report a usable tick period.
	TimelineTickFrequency uint64
}

// Capabilities is a snapshot of what a device is, or what it was
// created with. It is produced once and copied by value afterwards.
type Capabilities struct {
	Backend         Backend
	APIVersionMajor uint32
	APIVersionMinor uint32
	Features        Feature
	Limits          DeviceLimits
}

// WithFeatures returns a copy of c reporting exactly f.
func (c Capabilities) WithFeatures(f Feature) Capabilities {
	c.Features = f
	return c
}
