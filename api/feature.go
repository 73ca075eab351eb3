// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"fmt"
	"math/bits"
	"strings"
)

// Feature is a set of optional hardware or driver capabilities,
// one bit per capability. The zero value is the empty set.
type Feature uint64

// Feature bits. Bit positions are part of the plugin contract.
const (
	FeatureTessellation Feature = 1 << iota
	FeatureGeometryShader
	FeatureMeshShader
	FeatureRayTracing
	FeatureTimelineSemaphore
	FeatureBindless
	FeatureDescriptorBuffer
	FeatureBufferDeviceAddress
	FeatureMultiDrawIndirect
	FeatureWaveOps
	FeatureShaderFloat16Int8
	FeatureShaderInt64
	FeatureImageLoadStore
	FeatureVariableRateShading
	FeatureConservativeRaster
	FeatureFragmentInterlock
	FeatureSampleRateShading
	FeatureAnisotropicFiltering
	FeatureDepthClamp
	FeatureDualSourceBlending
	FeatureMirrorClampToEdge
	FeatureNonSolidFill
	FeatureDepthBoundsTest
	FeatureMultiview
	FeaturePersistentMapping
	FeatureSparseResources
	FeatureDynamicRendering
	FeaturePresentation
	FeatureTexCompressionBC
	FeatureTexCompressionETC2
	FeatureTexCompressionASTC
	FeatureDebugMarkers

	featureCount = iota
)

// NoFeatures is the empty feature set.
const NoFeatures Feature = 0

// AllFeatures has every known feature bit set.
const AllFeatures Feature = 1<<featureCount - 1

var featureNames = [featureCount]string{
	"Tessellation",
	"GeometryShader",
	"MeshShader",
	"RayTracing",
	"TimelineSemaphore",
	"Bindless",
	"DescriptorBuffer",
	"BufferDeviceAddress",
	"MultiDrawIndirect",
	"WaveOps",
	"ShaderFloat16Int8",
	"ShaderInt64",
	"ImageLoadStore",
	"VariableRateShading",
	"ConservativeRaster",
	"FragmentInterlock",
	"SampleRateShading",
	"AnisotropicFiltering",
	"DepthClamp",
	"DualSourceBlending",
	"MirrorClampToEdge",
	"NonSolidFill",
	"DepthBoundsTest",
	"Multiview",
	"PersistentMapping",
	"SparseResources",
	"DynamicRendering",
	"Presentation",
	"TexCompressionBC",
	"TexCompressionETC2",
	"TexCompressionASTC",
	"DebugMarkers",
}

// Union returns every bit set in f or o.
func (f Feature) Union(o Feature) Feature { return f | o }

// Intersect returns the bits set in both f and o.
func (f Feature) Intersect(o Feature) Feature { return f & o }

// Without returns f with every bit of o cleared.
func (f Feature) Without(o Feature) Feature { return f &^ o }

// HasAll reports whether every bit of o is present in f.
func (f Feature) HasAll(o Feature) bool { return f&o == o }

// HasAny reports whether f and o share at least one bit.
// Always false when either set is empty.
func (f Feature) HasAny(o Feature) bool { return f&o != 0 }

// Empty reports whether no bit is set.
func (f Feature) Empty() bool { return f == 0 }

// Len returns the number of bits set.
func (f Feature) Len() int { return bits.OnesCount64(uint64(f)) }

// Names returns the names of the set bits in ascending bit order.
// Unknown bits are rendered as their hexadecimal value.
func (f Feature) Names() []string {
	var names []string
	for i := 0; i < 64; i++ {
		bit := Feature(1) << uint(i)
		if f&bit == 0 {
			continue
		}
		if i < featureCount {
			names = append(names, featureNames[i])
		} else {
			names = append(names, fmt.Sprintf("%#x", uint64(bit)))
		}
	}
	return names
}

func (f Feature) String() string {
	if f == 0 {
		return "None"
	}
	return strings.Join(f.Names(), "|")
}

// MarshalText implements encoding.TextMarshaler
func (f Feature) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting the
// format produced by String.
func (f *Feature) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "None" || s == "" {
		*f = 0
		return nil
	}
	parsed, err := ParseFeatures(strings.Split(s, "|"))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func normalizeFeatureName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "Feature")
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
	return strings.ToLower(name)
}

// ParseFeature returns the single feature bit with the given name.
// Matching ignores case, dashes and underscores, so "ray-tracing",
// "ray_tracing" and "RayTracing" are the same feature.
func ParseFeature(name string) (Feature, error) {
	want := normalizeFeatureName(name)
	for i, n := range featureNames {
		if strings.ToLower(n) == want {
			return Feature(1) << uint(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}

// ParseFeatures returns the union of the named features.
func ParseFeatures(names []string) (Feature, error) {
	var f Feature
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		bit, err := ParseFeature(name)
		if err != nil {
			return 0, err
		}
		f |= bit
	}
	return f, nil
}
