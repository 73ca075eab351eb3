// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package driver

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
)

// features2Proc has no loader to ask on windows, QueryFeatures falls
// back to the core query.
func features2Proc(instance vk.Instance) unsafe.Pointer {
	return nil
}

func getFeatures2(proc unsafe.Pointer, pd vk.PhysicalDevice, head *rawRecord) {
	panic("driver: vkGetPhysicalDeviceFeatures2 is not resolved on windows")
}
