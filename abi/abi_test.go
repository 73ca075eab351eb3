// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package abi

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/rhi/api"
)

func completeContract() *Contract {
	return &Contract{
		ABIVersion:      Version,
		BackendID:       func() uint8 { return uint8(api.Vulkan) },
		CreateDevice:    func(*api.DeviceDesc, []byte) DeviceHandle { return 1 },
		DestroyDevice:   func(DeviceHandle) {},
		GetCapabilities: func(DeviceHandle, *api.Capabilities) {},
	}
}

func TestMissing(t *testing.T) {
	c := qt.New(t)

	c.Assert(completeContract().Missing(), qt.Equals, "")

	cases := map[string]func(*Contract){
		"backend_id":       func(ct *Contract) { ct.BackendID = nil },
		"create_device":    func(ct *Contract) { ct.CreateDevice = nil },
		"destroy_device":   func(ct *Contract) { ct.DestroyDevice = nil },
		"get_capabilities": func(ct *Contract) { ct.GetCapabilities = nil },
	}
	for want, unset := range cases {
		ct := completeContract()
		unset(ct)
		c.Assert(ct.Missing(), qt.Equals, want)
	}
}

func TestWriteErrorBounded(t *testing.T) {
	c := qt.New(t)

	buf := make([]byte, 8)
	WriteError(buf, "0123456789")
	c.Assert(buf[7], qt.Equals, byte(0))
	c.Assert(ReadError(buf), qt.Equals, "0123456")

	// "é" is two bytes and must not be split
	buf = make([]byte, 4)
	WriteError(buf, "abé")
	c.Assert(ReadError(buf), qt.Equals, "ab")

	WriteError(nil, "ignored")

	buf = make([]byte, ErrorBufferSize)
	WriteError(buf, strings.Repeat("x", 2*ErrorBufferSize))
	c.Assert(len(ReadError(buf)), qt.Equals, ErrorBufferSize-1)
}

func TestStatusRoundTrip(t *testing.T) {
	c := qt.New(t)

	buf := make([]byte, ErrorBufferSize)
	WriteStatus(buf, api.StatusMissingRequiredFeature, "No physical device satisfies the required feature set.")
	status, msg := ReadStatus(buf)
	c.Assert(status, qt.Equals, api.StatusMissingRequiredFeature)
	c.Assert(msg, qt.Equals, "No physical device satisfies the required feature set.")

	WriteError(buf, "driver exploded: badly")
	status, msg = ReadStatus(buf)
	c.Assert(status, qt.Equals, api.StatusInternalError)
	c.Assert(msg, qt.Equals, "driver exploded: badly")

	WriteError(buf, "Ok: not a failure")
	status, _ = ReadStatus(buf)
	c.Assert(status, qt.Equals, api.StatusInternalError)
}

func TestProtect(t *testing.T) {
	c := qt.New(t)

	ct := completeContract()
	ct.CreateDevice = func(*api.DeviceDesc, []byte) DeviceHandle { panic("out of cheese") }
	ct.DestroyDevice = func(DeviceHandle) { panic("again") }

	p := Protect(ct)
	buf := make([]byte, ErrorBufferSize)
	h := p.CreateDevice(&api.DeviceDesc{}, buf)
	c.Assert(h, qt.Equals, NullDevice)

	status, msg := ReadStatus(buf)
	c.Assert(status, qt.Equals, api.StatusInternalError)
	c.Assert(msg, qt.Equals, "backend panic: out of cheese")

	p.DestroyDevice(1)
	c.Assert(p.BackendID(), qt.Equals, uint8(api.Vulkan))

	broken := &Contract{ABIVersion: Version}
	c.Assert(Protect(broken), qt.Equals, broken)
}

func TestSingleton(t *testing.T) {
	c := qt.New(t)

	var built, torn int
	s := NewSingleton(func() *Contract {
		built++
		return completeContract()
	}, func() { torn++ })

	s.Teardown()
	c.Assert(torn, qt.Equals, 0)

	first := s.Get()
	c.Assert(s.Get(), qt.Equals, first)
	c.Assert(built, qt.Equals, 1)

	s.Teardown()
	s.Teardown()
	c.Assert(torn, qt.Equals, 1)

	c.Assert(s.Get(), qt.Not(qt.Equals), first)
	c.Assert(built, qt.Equals, 2)
}
