// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "fmt"

// DeviceFeatureRequest splits requested features into the ones a device
// cannot be created without and the ones that are used when available.
type DeviceFeatureRequest struct {
	Required  Feature
	Preferred Feature
}

// DeviceFlags change how a backend creates a device
type DeviceFlags uint32

// Device creation flags
const (
	FlagDebug DeviceFlags = 1 << iota
	FlagHeadless
	FlagHighPriority
)

// Has reports whether every flag in o is set.
func (f DeviceFlags) Has(o DeviceFlags) bool {
	return f&o == o
}

// NoAdapterHint disables the explicit adapter choice, leaving selection
// entirely to scoring.
const NoAdapterHint = ^uint32(0)

// DeviceDesc describes the device a caller wants.
type DeviceDesc struct {
	// NativeWindow is an opaque platform window handle, zero when
	// the device is not tied to a window.
	NativeWindow uintptr

	// AdapterIndex is taken as-is when it names an adapter that
	// has all the required features. The zero value selects the
	// first adapter under that condition; use NoAdapterHint to opt out.
	AdapterIndex uint32

	Flags    DeviceFlags
	Features DeviceFeatureRequest
}

// AdapterKind classifies a physical adapter
type AdapterKind uint8

// Adapter kinds
const (
	AdapterOther AdapterKind = iota
	AdapterIntegrated
	AdapterDiscrete
	AdapterVirtual
	AdapterCPU
)

func (k AdapterKind) String() string {
	switch k {
	case AdapterOther:
		return "Other"
	case AdapterIntegrated:
		return "Integrated"
	case AdapterDiscrete:
		return "Discrete"
	case AdapterVirtual:
		return "Virtual"
	case AdapterCPU:
		return "CPU"
	}
	return fmt.Sprintf("AdapterKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler
func (k AdapterKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AdapterInfo identifies one physical adapter and what it can do.
// All fields are filled when the value is built.
type AdapterInfo struct {
	Index uint32
	Name  string
	Kind  AdapterKind

	// VideoMemory approximates dedicated memory in bytes. On integrated
	// adapters it usually reports the shared system heap.
	VideoMemory uint64

	DriverVersion   uint32
	APIVersionMajor uint32
	APIVersionMinor uint32
	Capabilities    Capabilities
}
