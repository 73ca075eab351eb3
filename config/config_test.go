// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/api"
	"github.com/devblok/rhi/config"
)

func write(c *qt.C, name, content string) string {
	path := filepath.Join(c.TempDir(), name)
	c.Assert(os.WriteFile(path, []byte(content), 0o644), qt.IsNil)
	return path
}

// clean runs f with none of the RHI_ variables set.
func clean(f func()) {
	envy.Temp(func() {
		for _, key := range []string{
			config.EnvBackend, config.EnvSearchPaths, config.EnvAdapter,
			config.EnvRequired, config.EnvPreferred, config.EnvDebug,
			config.EnvHeadless, config.EnvHighPriority, config.EnvLogLevel,
			config.EnvLogFormat, config.EnvReplay,
		} {
			envy.Set(key, "")
		}
		f()
	})
}

func TestDefault(t *testing.T) {
	c := qt.New(t)

	cfg, err := config.Default()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Validate(), qt.IsNil)
	c.Assert(cfg.Loader.Backend, qt.Equals, "vulkan")
	c.Assert(cfg.Device.Adapter, qt.Equals, config.NoAdapter)
	c.Assert(cfg.Log.Level, qt.Equals, "info")

	desc, err := cfg.DeviceDesc(0)
	c.Assert(err, qt.IsNil)
	c.Assert(desc.AdapterIndex, qt.Equals, api.NoAdapterHint)
	c.Assert(desc.Features.Required, qt.Equals, api.NoFeatures)
	c.Assert(desc.Features.Preferred, qt.Equals,
		api.FeaturePresentation|api.FeatureTimelineSemaphore|api.FeatureDynamicRendering)
}

func TestLoadFile(t *testing.T) {
	clean(func() {
		c := qt.New(t)
		path := write(c, "rhi.yaml", `
loader:
  search_paths: [/opt/rhi]
device:
  adapter: 1
  required: [ray-tracing, MeshShader]
  debug: true
log:
  format: json
`)
		cfg, err := config.Load(path, "")
		c.Assert(err, qt.IsNil)

		c.Assert(cfg.Loader.Backend, qt.Equals, "vulkan")
		c.Assert(cfg.NewLoader().SearchPaths, qt.DeepEquals, []string{"/opt/rhi"})

		desc, err := cfg.DeviceDesc(42)
		c.Assert(err, qt.IsNil)
		c.Assert(desc.NativeWindow, qt.Equals, uintptr(42))
		c.Assert(desc.AdapterIndex, qt.Equals, uint32(1))
		c.Assert(desc.Flags, qt.Equals, api.FlagDebug)
		c.Assert(desc.Features.Required, qt.Equals, api.FeatureRayTracing|api.FeatureMeshShader)
		c.Assert(cfg.Log.Format, qt.Equals, config.FormatJSON)
	})
}

func TestLoadRejects(t *testing.T) {
	clean(func() {
		c := qt.New(t)

		_, err := config.Load(write(c, "typo.yaml", "devise:\n  debug: true\n"), "")
		c.Assert(err, qt.Not(qt.IsNil))

		_, err = config.Load(write(c, "feature.yaml", "device:\n  required: [warp_drive]\n"), "")
		c.Assert(err, qt.ErrorMatches, `required features: unknown feature "warp_drive"`)

		_, err = config.Load(write(c, "backend.yaml", "loader:\n  backend: glide\n"), "")
		c.Assert(err, qt.ErrorMatches, `unknown backend "glide"`)

		_, err = config.Load(write(c, "log.yaml", "log:\n  format: xml\n"), "")
		c.Assert(err, qt.ErrorMatches, `unknown log format "xml"`)

		_, err = config.Load(filepath.Join(c.TempDir(), "missing.yaml"), "")
		c.Assert(err, qt.Not(qt.IsNil))
	})
}

func TestEnvironmentOverrides(t *testing.T) {
	clean(func() {
		c := qt.New(t)
		path := write(c, "rhi.yaml", "device:\n  adapter: 1\n")

		envy.Set(config.EnvAdapter, "0")
		envy.Set(config.EnvPreferred, "bindless, tessellation")
		envy.Set(config.EnvHeadless, "true")
		envy.Set(config.EnvReplay, "/tmp/adapters.rhc")

		cfg, err := config.Load(path, "")
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Device.Adapter, qt.Equals, 0)
		c.Assert(cfg.Device.Preferred, qt.DeepEquals, []string{"bindless", "tessellation"})
		c.Assert(cfg.Device.Headless, qt.IsTrue)
		c.Assert(cfg.Capture.Replay, qt.Equals, "/tmp/adapters.rhc")

		envy.Set(config.EnvDebug, "maybe")
		_, err = config.Load(path, "")
		c.Assert(err, qt.ErrorMatches, `RHI_DEBUG: .*`)
	})
}

func TestEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clean(func() {
		c := qt.New(t)
		envFile := write(c, ".env", "RHI_LOG_LEVEL=debug\nRHI_BACKEND=opengl\n")

		envy.Set(config.EnvBackend, "metal")
		cfg, err := config.Load("", envFile)
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Log.Level, qt.Equals, "debug")
		c.Assert(cfg.Loader.Backend, qt.Equals, "metal")

		_, err = config.Load("", filepath.Join(c.TempDir(), "missing.env"))
		c.Assert(err, qt.Not(qt.IsNil))
	})
}

func TestLogApply(t *testing.T) {
	c := qt.New(t)
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(log.StandardLogger().Formatter)

	c.Assert(config.LogConfig{Level: "warn", Format: "json"}.Apply(), qt.IsNil)
	c.Assert(log.GetLevel(), qt.Equals, log.WarnLevel)
	_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
	c.Assert(isJSON, qt.IsTrue)

	c.Assert(config.LogConfig{Level: "loud"}.Apply(), qt.Not(qt.IsNil))
}
