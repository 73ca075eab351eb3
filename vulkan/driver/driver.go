// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package driver is the live Vulkan session used by the vulkan backend.
package driver

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	vk "github.com/devblok/vulkan"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/vulkan"
)

var (
	initOnce sync.Once
	initErr  error
)

func initLoader() error {
	initOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			initErr = errors.New("vk.InstanceProcAddr(): " + err.Error())
			return
		}
		if err := vk.Init(); err != nil {
			initErr = errors.New("vk.Init(): " + err.Error())
		}
	})
	return initErr
}

// Driver is one Vulkan instance and the adapters it enumerated.
type Driver struct {
	instance vk.Instance
	devices  []vulkan.PhysicalDevice

	mutex  sync.Mutex
	closed bool
}

// Open creates a Vulkan instance. With cfg.Debug the validation layer
// and debug utils are enabled when installed.
func Open(cfg vulkan.InstanceConfig) (vulkan.Driver, error) {
	if err := initLoader(); err != nil {
		return nil, err
	}

	var layers, extensions []string
	if cfg.Debug {
		if hasInstanceLayer(vulkan.ValidationLayer) {
			layers = append(layers, safeString(vulkan.ValidationLayer))
		} else {
			log.Warn("validation layer ", vulkan.ValidationLayer, " is not installed")
		}
		if hasInstanceExtension(vulkan.ExtDebugUtils) {
			extensions = append(extensions, safeString(vulkan.ExtDebugUtils))
		} else {
			log.Warn("instance extension ", vulkan.ExtDebugUtils, " is not available")
		}
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         vk.MakeVersion(vulkan.MinAPIMajor, vulkan.MinAPIMinor, 0),
		ApplicationVersion: cfg.ApplicationVersion,
		PApplicationName:   safeString(cfg.ApplicationName),
		PEngineName:        safeString("rhi"),
	}
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)

	handles, err := enumerateDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}

	features2 := features2Proc(instance)
	if features2 == nil {
		log.Warn("vkGetPhysicalDeviceFeatures2 is unavailable, only core features are queried")
	}

	d := &Driver{instance: instance}
	for _, h := range handles {
		d.devices = append(d.devices, newPhysicalDevice(h, features2))
	}
	log.WithFields(log.Fields{
		"adapters": len(d.devices),
		"debug":    len(layers) > 0,
	}).Debug("vulkan instance created")
	return d, nil
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	return availableDevices[:deviceCount], nil
}

func hasInstanceLayer(name string) bool {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return false
	}
	layers := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, layers)); err != nil {
		return false
	}
	for _, layer := range layers {
		layer.Deref()
		if vk.ToString(layer.LayerName[:]) == name {
			return true
		}
	}
	return false
}

func hasInstanceExtension(name string) bool {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return false
	}
	exts := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, exts)); err != nil {
		return false
	}
	for _, ext := range exts {
		ext.Deref()
		if vk.ToString(ext.ExtensionName[:]) == name {
			return true
		}
	}
	return false
}

// PhysicalDevices implements vulkan.Driver
func (d *Driver) PhysicalDevices() ([]vulkan.PhysicalDevice, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return nil, vulkan.ErrDriverClosed
	}
	return d.devices, nil
}

type logicalDevice struct {
	handle vk.Device
	once   sync.Once
}

func (l *logicalDevice) Destroy() {
	l.once.Do(func() {
		vk.DeviceWaitIdle(l.handle)
		vk.DestroyDevice(l.handle, nil)
	})
}

// CreateDevice implements vulkan.Driver. Features are enabled through a
// features2 record chained in front of info.Features, so the legacy
// enabled features pointer stays nil.
func (d *Driver) CreateDevice(pd vulkan.PhysicalDevice, info vulkan.DeviceCreateInfo) (vulkan.LogicalDevice, error) {
	p, ok := pd.(*physicalDevice)
	if !ok {
		return nil, fmt.Errorf("physical device %T does not belong to this driver", pd)
	}

	queueInfos := make([]vk.DeviceQueueCreateInfo, 0, len(info.Queues))
	for _, q := range info.Queues {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.FamilyIndex,
			QueueCount:       1,
			PQueuePriorities: []float32{q.Priority},
		})
	}

	nodes := []vulkan.Node{&vulkan.CoreFeatures{}}
	if info.Features != nil {
		nodes = info.Features.Nodes()
	}
	records := link(nodes)

	var pinner runtime.Pinner
	defer pinner.Unpin()
	pinner.Pin(&records[0])

	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   unsafe.Pointer(&records[0]),
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(p.handle, &dci, nil, &device)); err != nil {
		return nil, errors.New("vk.CreateDevice(): " + err.Error())
	}
	return &logicalDevice{handle: device}, nil
}

// Close implements vulkan.Driver
func (d *Driver) Close() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	vk.DestroyInstance(d.instance, nil)
}

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}
