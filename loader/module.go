// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"runtime"
	"strings"

	"github.com/devblok/rhi/api"
)

// Module is an opened backend module.
type Module interface {
	// Lookup resolves an exported symbol by name
	Lookup(symbol string) (interface{}, error)

	// Close releases the module. Nothing obtained from
	// Lookup may be used afterwards.
	Close() error
}

// Opener opens modules by file path. The platform opener is used
// unless a Loader is given another one.
type Opener interface {
	Open(path string) (Module, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (Module, error)

// Open implements Opener
func (f OpenerFunc) Open(path string) (Module, error) {
	return f(path)
}

// ModuleName returns the file name of the module implementing b for the
// running platform and build, or an empty string for backends without one.
func ModuleName(b api.Backend) string {
	return moduleName(b, runtime.GOOS, debugBuild)
}

func moduleName(b api.Backend, goos string, debug bool) string {
	if b == api.None || !b.Valid() {
		return ""
	}
	base := "rhi_" + strings.ToLower(b.String())
	if debug {
		base += "d"
	}
	switch goos {
	case "windows":
		return base + ".dll"
	case "darwin", "ios":
		return "lib" + base + ".dylib"
	default:
		return "lib" + base + ".so"
	}
}
