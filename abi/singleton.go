// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package abi

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/api"
)

// Singleton holds the one contract instance of a module. The contract is
// built on first use and stays valid until Teardown.
type Singleton struct {
	mutex    sync.Mutex
	build    func() *Contract
	teardown func()
	contract *Contract
}

// NewSingleton creates a Singleton that builds its contract with build
// and releases module state with teardown, which may be nil.
func NewSingleton(build func() *Contract, teardown func()) *Singleton {
	return &Singleton{
		build:    build,
		teardown: teardown,
	}
}

// Get returns the contract, building it on the first call.
func (s *Singleton) Get() *Contract {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.contract == nil {
		s.contract = Protect(s.build())
	}
	return s.contract
}

// Teardown releases the module state if the contract was ever built.
// A later Get builds a fresh contract.
func (s *Singleton) Teardown() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.contract == nil {
		return
	}
	if s.teardown != nil {
		s.teardown()
	}
	s.contract = nil
}

// Protect wraps every function of c so a panic inside the module is
// turned into a failure value instead of unwinding into the host.
// A panicking CreateDevice reports InternalError with the panic value.
func Protect(c *Contract) *Contract {
	if c == nil || c.Missing() != "" {
		return c
	}
	inner := *c
	return &Contract{
		ABIVersion: inner.ABIVersion,
		BackendID: func() (id uint8) {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", r).Error("backend_id panicked")
					id = uint8(api.None)
				}
			}()
			return inner.BackendID()
		},
		CreateDevice: func(desc *api.DeviceDesc, errBuf []byte) (h DeviceHandle) {
			defer func() {
				if r := recover(); r != nil {
					WriteStatus(errBuf, api.StatusInternalError, fmt.Sprintf("backend panic: %v", r))
					h = NullDevice
				}
			}()
			return inner.CreateDevice(desc, errBuf)
		},
		DestroyDevice: func(h DeviceHandle) {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", r).Error("destroy_device panicked")
				}
			}()
			inner.DestroyDevice(h)
		},
		GetCapabilities: func(h DeviceHandle, out *api.Capabilities) {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", r).Error("get_capabilities panicked")
				}
			}()
			inner.GetCapabilities(h, out)
		},
	}
}
