// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !linux && !darwin && !freebsd

package loader

type unsupportedOpener struct{}

func (unsupportedOpener) Open(path string) (Module, error) {
	return nil, ErrUnsupportedPlatform
}

// Modules cannot be opened here, only statically registered
// backends are reachable through Open.
func platformOpener() Opener {
	return unsupportedOpener{}
}
