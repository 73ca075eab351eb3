// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestStatusNames(t *testing.T) {
	c := qt.New(t)

	for s := StatusOk; s <= StatusInternalError; s++ {
		parsed, ok := ParseStatus(s.String())
		c.Assert(ok, qt.IsTrue)
		c.Assert(parsed, qt.Equals, s)
	}
	c.Assert(Status(200).String(), qt.Equals, "InternalError")

	_, ok := ParseStatus("Fine")
	c.Assert(ok, qt.IsFalse)
}

func TestCreateError(t *testing.T) {
	c := qt.New(t)

	err := Errorf(StatusUnsupportedQueueType, "Adapter '%s' does not expose a graphics queue.", "gpu0")
	c.Assert(err.Error(), qt.Equals, "UnsupportedQueueType: Adapter 'gpu0' does not expose a graphics queue.")

	wrapped := fmt.Errorf("create: %w", err)
	c.Assert(StatusOf(wrapped), qt.Equals, StatusUnsupportedQueueType)
	c.Assert(StatusOf(nil), qt.Equals, StatusOk)
	c.Assert(StatusOf(errors.New("boom")), qt.Equals, StatusInternalError)

	internal := Internal("vkCreateDevice failed", errors.New("VK_ERROR_DEVICE_LOST"))
	c.Assert(internal.Error(), qt.Equals, "InternalError: vkCreateDevice failed: VK_ERROR_DEVICE_LOST")
}

func TestBackendNames(t *testing.T) {
	c := qt.New(t)

	b, err := ParseBackend("vulkan")
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.Equals, Vulkan)
	c.Assert(Backend(9).Valid(), qt.IsFalse)
	c.Assert(Backend(9).String(), qt.Equals, "Backend(9)")

	_, err = ParseBackend("glide")
	c.Assert(err, qt.ErrorMatches, `unknown backend "glide"`)
}
