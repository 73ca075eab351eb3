// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"sort"
	"sync"

	"github.com/devblok/rhi/abi"
	"github.com/devblok/rhi/api"
)

// registry of backends linked into the process
var (
	registryMu sync.RWMutex
	factories  = make(map[api.Backend]abi.Factory)
)

// Register makes a backend linked into the process reachable through
// Open. Its contract goes through the same validation as a module's.
// Registering a backend twice replaces the earlier factory.
func Register(b api.Backend, factory abi.Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[b] = factory
}

// Unregister removes a registered backend.
func Unregister(b api.Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, b)
}

// Registered lists the registered backends in ascending order.
func Registered() []api.Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	list := make([]api.Backend, 0, len(factories))
	for b := range factories {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// Open returns a registered backend if there is one, and otherwise
// loads its module with DefaultLoader.
func Open(b api.Backend) (*Library, error) {
	return DefaultLoader.Open(b)
}

// Open returns a registered backend if there is one, and otherwise
// loads its module.
func (l *Loader) Open(b api.Backend) (*Library, error) {
	registryMu.RLock()
	factory, ok := factories[b]
	registryMu.RUnlock()
	if !ok {
		return l.Load(b)
	}

	contract, err := validate(b, factory)
	if err != nil {
		return nil, &LoadError{Backend: b, Err: err}
	}
	return newLibrary(b, "", nil, contract), nil
}
