// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/abi"
	"github.com/devblok/rhi/api"
)

// Library is a loaded backend. It counts the devices created through it
// and refuses to close while any of them is alive, so a device can never
// call into a released module.
type Library struct {
	backend  api.Backend
	path     string
	module   Module
	contract *abi.Contract
	teardown abi.Teardown

	mutex  sync.Mutex
	live   int
	closed bool
}

func newLibrary(b api.Backend, path string, mod Module, contract *abi.Contract) *Library {
	return &Library{
		backend:  b,
		path:     path,
		module:   mod,
		contract: contract,
	}
}

// Backend returns the backend this library implements.
func (l *Library) Backend() api.Backend {
	return l.backend
}

// Path returns the module file, empty for statically registered backends.
func (l *Library) Path() string {
	return l.path
}

// Live returns the number of devices not yet destroyed.
func (l *Library) Live() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.live
}

func (l *Library) acquire() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.closed {
		return ErrLibraryClosed
	}
	l.live++
	return nil
}

func (l *Library) release() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.live--
}

// CreateDevice asks the backend for a device. On success the capability
// snapshot is fetched once and cached in the returned Device. Failures
// reported by the backend come back as *api.CreateError.
func (l *Library) CreateDevice(desc api.DeviceDesc) (*Device, error) {
	if err := l.acquire(); err != nil {
		return nil, err
	}

	var errBuf [abi.ErrorBufferSize]byte
	handle := l.contract.CreateDevice(&desc, errBuf[:])
	if handle == abi.NullDevice {
		l.release()
		status, msg := abi.ReadStatus(errBuf[:])
		if msg == "" {
			msg = "backend returned no device and no message"
		}
		return nil, &api.CreateError{Status: status, Message: msg}
	}

	d := &Device{
		id:       uuid.New(),
		library:  l,
		contract: l.contract,
		handle:   handle,
	}
	l.contract.GetCapabilities(handle, &d.capabilities)

	log.WithFields(log.Fields{
		"device":   d.id,
		"backend":  l.backend,
		"features": d.capabilities.Features,
	}).Debug("device created")
	return d, nil
}

// Close tears the backend down and releases the module. It fails with ErrDevicesOutstanding while
// any device created through the library is alive; the library stays
// usable in that case. Closing twice is a no-op.
func (l *Library) Close() error {
	l.mutex.Lock()
	if l.closed {
		l.mutex.Unlock()
		return nil
	}
	if l.live > 0 {
		live := l.live
		l.mutex.Unlock()
		return fmt.Errorf("%w: %d", ErrDevicesOutstanding, live)
	}
	l.closed = true
	l.mutex.Unlock()

	if l.teardown != nil {
		log.WithField("backend", l.backend).Debug("backend torn down")
		l.teardown()
	}
	if l.module == nil {
		return nil
	}
	log.WithField("module", l.path).Debug("backend module released")
	return l.module.Close()
}
