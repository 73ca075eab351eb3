// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package api holds the vendor neutral vocabulary shared by the loader,
// the plugin contract and every backend: backends, feature bits, limits,
// capability snapshots, device requests and creation errors.
package api

import (
	"fmt"
	"strings"
)

// Backend identifies a native graphics API family
type Backend uint8

// Known backends. The numbering is part of the plugin contract,
// a module reports its identity as one of these values.
const (
	OpenGL Backend = iota
	Vulkan
	D3D12
	Metal
	None
)

var backendNames = [...]string{
	OpenGL: "OpenGL",
	Vulkan: "Vulkan",
	D3D12:  "D3D12",
	Metal:  "Metal",
	None:   "None",
}

// Backends lists every backend that could have a module.
var Backends = []Backend{OpenGL, Vulkan, D3D12, Metal}

// Valid reports whether b is one of the known backends.
func (b Backend) Valid() bool {
	return int(b) < len(backendNames)
}

func (b Backend) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
	return backendNames[b]
}

// ParseBackend returns the backend with the given name, ignoring case.
func ParseBackend(name string) (Backend, error) {
	for i, n := range backendNames {
		if strings.EqualFold(n, name) {
			return Backend(i), nil
		}
	}
	return None, fmt.Errorf("unknown backend %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Backend) UnmarshalText(text []byte) error {
	parsed, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
