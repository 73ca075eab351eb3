// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/envy"

	"github.com/devblok/rhi/api"
	"github.com/devblok/rhi/loader"
	"github.com/devblok/rhi/vulkan"
	"github.com/devblok/rhi/vulkan/replay"
)

func adapter(name string, kind vulkan.DeviceType) *vulkan.DeviceRecord {
	return &vulkan.DeviceRecord{
		Props: vulkan.PhysicalDeviceProperties{
			APIVersion: vulkan.MakeVersion(1, 3, 0),
			DeviceType: kind,
			DeviceName: name,
			Limits:     vulkan.PhysicalDeviceLimits{TimestampPeriod: 1},
		},
		Supported: vulkan.SupportedFeatures{
			Vulkan12: vulkan.Vulkan12Features{TimelineSemaphore: true},
		},
		Available: []string{vulkan.ExtSwapchain},
		Heaps:     []vulkan.MemoryHeap{{Size: 1 << 30, DeviceLocal: true}},
		Families:  []vulkan.QueueFamily{{Flags: vulkan.QueueGraphics | vulkan.QueueCompute, Count: 1}},
	}
}

// setup writes a replay archive and a configuration pointing at it.
func setup(c *qt.C) string {
	dir := c.TempDir()
	archive := filepath.Join(dir, "adapters.rhc")

	var buf bytes.Buffer
	c.Assert(replay.Write(&buf, "test", []*vulkan.DeviceRecord{
		adapter("integrated", vulkan.DeviceTypeIntegratedGPU),
		adapter("discrete", vulkan.DeviceTypeDiscreteGPU),
	}), qt.IsNil)
	c.Assert(os.WriteFile(archive, buf.Bytes(), 0o644), qt.IsNil)

	path := filepath.Join(dir, "rhi.yaml")
	content := fmt.Sprintf("loader:\n  skip_executable_dir: true\ncapture:\n  replay: %s\n", archive)
	c.Assert(os.WriteFile(path, []byte(content), 0o644), qt.IsNil)
	return path
}

func run(c *qt.C, args ...string) (string, error) {
	c.Setenv(replay.EnvPath, "")
	envy.Set(replay.EnvPath, "")
	c.Cleanup(func() { envy.Set(replay.EnvPath, "") })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	c.Cleanup(func() {
		cfgFile, envFile, logLevel, logFormat = "", "", "", ""
		createStatic, createWindow = false, false
	})
	err := Execute()
	return out.String(), err
}

func TestAdapters(t *testing.T) {
	c := qt.New(t)
	path := setup(c)

	out, err := run(c, "adapters", "--config", path, "--log-level", "error")
	c.Assert(err, qt.IsNil)

	var adapters []map[string]interface{}
	c.Assert(json.Unmarshal([]byte(out), &adapters), qt.IsNil)
	c.Assert(adapters, qt.HasLen, 2)
	c.Assert(adapters[0]["Name"], qt.Equals, "integrated")
	c.Assert(adapters[1]["Kind"], qt.Equals, "Discrete")
}

func TestCreateStatic(t *testing.T) {
	c := qt.New(t)
	path := setup(c)

	out, err := run(c, "create", "--static", "--config", path, "--log-level", "error")
	c.Assert(err, qt.IsNil)

	var caps api.Capabilities
	c.Assert(json.Unmarshal([]byte(out), &caps), qt.IsNil)
	c.Assert(caps.Backend, qt.Equals, api.Vulkan)
	c.Assert(caps.Features.HasAll(api.FeatureTimelineSemaphore|api.FeaturePresentation), qt.IsTrue)
	c.Assert(caps.Features.HasAny(api.FeatureDynamicRendering), qt.IsFalse)

	c.Assert(loader.Registered(), qt.HasLen, 0)
}

func TestCreateWithoutModule(t *testing.T) {
	c := qt.New(t)
	path := setup(c)

	_, err := run(c, "create", "--config", path, "--log-level", "error")
	var loadErr *loader.LoadError
	c.Assert(err, qt.ErrorAs, &loadErr)
	c.Assert(loadErr.Backend, qt.Equals, api.Vulkan)
}

func TestRejectsBadLogLevel(t *testing.T) {
	c := qt.New(t)

	_, err := run(c, "modules", "--log-level", "loud")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestReplayReachesModules(t *testing.T) {
	c := qt.New(t)
	path := setup(c)

	_, err := run(c, "modules", "--config", path, "--log-level", "error")
	c.Assert(err, qt.IsNil)

	want := filepath.Join(filepath.Dir(path), "adapters.rhc")
	c.Assert(os.Getenv(replay.EnvPath), qt.Equals, want)
	c.Assert(envy.Get(replay.EnvPath, ""), qt.Equals, want)
}

func TestWriteArchiveRemovesPartialFile(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()

	good := filepath.Join(dir, "good.rhc")
	c.Assert(writeArchive(good, "test", []*vulkan.DeviceRecord{adapter("gpu", vulkan.DeviceTypeDiscreteGPU)}), qt.IsNil)
	records, err := replay.Load(good)
	c.Assert(err, qt.IsNil)
	c.Assert(records, qt.HasLen, 1)

	// gob refuses nil records
	bad := filepath.Join(dir, "bad.rhc")
	err = writeArchive(bad, "test", []*vulkan.DeviceRecord{nil})
	c.Assert(err, qt.ErrorMatches, `encoding adapter 0: .*`)
	_, err = os.Stat(bad)
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}
