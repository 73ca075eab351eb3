// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !windows

package driver

/*
#cgo linux freebsd LDFLAGS: -ldl
#define _GNU_SOURCE
#include <dlfcn.h>
#include <stdlib.h>

typedef void (*rhiVoidFunction)(void);
typedef rhiVoidFunction (*rhiGetInstanceProcAddr)(void* instance, const char* name);
typedef void (*rhiGetPhysicalDeviceFeatures2)(void* physicalDevice, void* features);

static rhiGetInstanceProcAddr rhiLoader = NULL;

static int rhiLoadLoader() {
	const char* libs[] = {"libvulkan.so", "libvulkan.so.1", "libvulkan.1.dylib", NULL};
	if (rhiLoader != NULL) {
		return 1;
	}
	for (int i = 0; libs[i] != NULL && rhiLoader == NULL; i++) {
		void* lib = dlopen(libs[i], RTLD_NOW | RTLD_LOCAL);
		if (lib != NULL) {
			rhiLoader = (rhiGetInstanceProcAddr)dlsym(lib, "vkGetInstanceProcAddr");
		}
	}
	if (rhiLoader == NULL) {
		rhiLoader = (rhiGetInstanceProcAddr)dlsym(RTLD_DEFAULT, "vkGetInstanceProcAddr");
	}
	return rhiLoader != NULL;
}

static void* rhiInstanceProc(void* instance, const char* name) {
	if (!rhiLoadLoader()) {
		return NULL;
	}
	return (void*)rhiLoader(instance, name);
}

static void rhiGetFeatures2(void* fn, void* physicalDevice, void* features) {
	((rhiGetPhysicalDeviceFeatures2)fn)(physicalDevice, features);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	vk "github.com/devblok/vulkan"
)

var procMutex sync.Mutex

// features2Proc resolves vkGetPhysicalDeviceFeatures2 for instance, or
// its KHR alias on 1.0 instances. The binding only wraps the 1.0 query.
func features2Proc(instance vk.Instance) unsafe.Pointer {
	procMutex.Lock()
	defer procMutex.Unlock()

	for _, name := range []string{"vkGetPhysicalDeviceFeatures2", "vkGetPhysicalDeviceFeatures2KHR"} {
		cname := C.CString(name)
		proc := C.rhiInstanceProc(unsafe.Pointer(instance), cname)
		C.free(unsafe.Pointer(cname))
		if proc != nil {
			return proc
		}
	}
	return nil
}

// getFeatures2 calls proc with head, the first record of a pinned chain.
func getFeatures2(proc unsafe.Pointer, pd vk.PhysicalDevice, head *rawRecord) {
	C.rhiGetFeatures2(proc, unsafe.Pointer(pd), unsafe.Pointer(head))
}
