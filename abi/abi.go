// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package abi defines the contract between the loader and a backend module.
// Both sides compile against this package, so any change to the Contract
// layout must come with a new Version.
package abi

import (
	"github.com/devblok/rhi/api"
)

// Version is the contract version compiled into this build. A module
// is only accepted when it reports exactly this value.
const Version uint32 = 1

// FactorySymbol is the name every backend module exports. It must be a
// package level variable of type Factory in the module's main package.
const FactorySymbol = "RhiCreate"

// TeardownSymbol is an optional export of type Teardown. The loader
// calls it once when the library is closed, after every device is gone.
const TeardownSymbol = "RhiTeardown"

// DeviceHandle is an opaque device owned by the module that created it.
// The host never interprets it, only hands it back through the Contract.
type DeviceHandle uintptr

// NullDevice is returned by CreateDevice on failure.
const NullDevice DeviceHandle = 0

// Contract is the record a module hands to the loader. Function order
// is fixed: identity, create, destroy, capabilities.
type Contract struct {
	ABIVersion uint32

	// BackendID reports the api.Backend this module implements
	BackendID func() uint8

	// CreateDevice builds a device from desc. On failure it returns
	// NullDevice and writes a NUL terminated message into errBuf,
	// never more than len(errBuf) bytes.
	CreateDevice func(desc *api.DeviceDesc, errBuf []byte) DeviceHandle

	// DestroyDevice releases a device created by CreateDevice
	DestroyDevice func(DeviceHandle)

	// GetCapabilities copies the capability snapshot of a device into out
	GetCapabilities func(h DeviceHandle, out *api.Capabilities)
}

// Factory is the type of the exported FactorySymbol.
type Factory = func() *Contract

// Teardown is the type of the exported TeardownSymbol.
type Teardown = func()

// Missing returns the name of the first nil function in c, or an empty
// string when the contract is complete.
func (c *Contract) Missing() string {
	switch {
	case c.BackendID == nil:
		return "backend_id"
	case c.CreateDevice == nil:
		return "create_device"
	case c.DestroyDevice == nil:
		return "destroy_device"
	case c.GetCapabilities == nil:
		return "get_capabilities"
	}
	return ""
}
