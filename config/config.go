// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config loads the settings shared by the loader, the device
// request and the command line tools. Sources are applied in order,
// later ones winning: built in defaults, a YAML file, a .env file and
// RHI_ prefixed environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devblok/rhi/api"
	"github.com/devblok/rhi/loader"
)

// Environment variables read by Load
const (
	EnvBackend      = "RHI_BACKEND"
	EnvSearchPaths  = "RHI_SEARCH_PATHS"
	EnvAdapter      = "RHI_ADAPTER"
	EnvRequired     = "RHI_REQUIRED"
	EnvPreferred    = "RHI_PREFERRED"
	EnvDebug        = "RHI_DEBUG"
	EnvHeadless     = "RHI_HEADLESS"
	EnvHighPriority = "RHI_HIGH_PRIORITY"
	EnvLogLevel     = "RHI_LOG_LEVEL"
	EnvLogFormat    = "RHI_LOG_FORMAT"
	EnvReplay       = "RHI_VULKAN_REPLAY"
)

// NoAdapter in Device.Adapter leaves adapter choice to scoring
const NoAdapter = -1

// defaults holds the built in configuration
var defaults = packr.NewBox("./defaults")

// Configuration is the complete set of settings.
type Configuration struct {
	Loader  LoaderConfig  `yaml:"loader"`
	Device  DeviceConfig  `yaml:"device"`
	Log     LogConfig     `yaml:"log"`
	Capture CaptureConfig `yaml:"capture"`
}

// LoaderConfig selects and locates backend modules.
type LoaderConfig struct {
	Backend           string   `yaml:"backend"`
	SearchPaths       []string `yaml:"search_paths"`
	SkipExecutableDir bool     `yaml:"skip_executable_dir"`
}

// DeviceConfig describes the device to create. Features are listed by
// name.
type DeviceConfig struct {
	Adapter      int      `yaml:"adapter"`
	Required     []string `yaml:"required"`
	Preferred    []string `yaml:"preferred"`
	Debug        bool     `yaml:"debug"`
	Headless     bool     `yaml:"headless"`
	HighPriority bool     `yaml:"high_priority"`
}

// LogConfig configures logrus
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CaptureConfig points the Vulkan backend at recorded adapters
type CaptureConfig struct {
	Replay string `yaml:"replay"`
}

// Default returns the built in configuration.
func Default() (*Configuration, error) {
	raw, err := defaults.Find("rhi.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading built in configuration: %w", err)
	}
	var cfg Configuration
	if err := decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("built in configuration: %w", err)
	}
	return &cfg, nil
}

// Load builds the configuration from defaults, the YAML file at path
// and the .env file at envFile. Empty paths are skipped.
func Load(path, envFile string) (*Configuration, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := decode(raw, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if envFile != "" {
		if err := loadEnvFile(envFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func decode(raw []byte, cfg *Configuration) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	// an empty document leaves cfg untouched
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// loadEnvFile sets variables from a .env file that are unset or empty.
func loadEnvFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	set := envy.Map()
	for k, v := range values {
		if set[k] == "" {
			envy.Set(k, v)
		}
	}
	return nil
}

func (c *Configuration) applyEnv() error {
	str := func(key string, dst *string) {
		if v := envy.Get(key, ""); v != "" {
			*dst = v
		}
	}
	list := func(key, sep string, dst *[]string) {
		if v := envy.Get(key, ""); v != "" {
			*dst = splitList(v, sep)
		}
	}
	flag := func(key string, dst *bool) error {
		v := envy.Get(key, "")
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str(EnvBackend, &c.Loader.Backend)
	list(EnvSearchPaths, string(filepath.ListSeparator), &c.Loader.SearchPaths)
	list(EnvRequired, ",", &c.Device.Required)
	list(EnvPreferred, ",", &c.Device.Preferred)
	str(EnvLogLevel, &c.Log.Level)
	str(EnvLogFormat, &c.Log.Format)
	str(EnvReplay, &c.Capture.Replay)

	if v := envy.Get(EnvAdapter, ""); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAdapter, err)
		}
		c.Device.Adapter = i
	}
	for key, dst := range map[string]*bool{
		EnvDebug:        &c.Device.Debug,
		EnvHeadless:     &c.Device.Headless,
		EnvHighPriority: &c.Device.HighPriority,
	} {
		if err := flag(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks names and ranges without touching any module.
func (c *Configuration) Validate() error {
	if _, err := c.Backend(); err != nil {
		return err
	}
	if _, err := c.FeatureRequest(); err != nil {
		return err
	}
	if c.Device.Adapter < NoAdapter {
		return fmt.Errorf("adapter index %d out of range", c.Device.Adapter)
	}
	return c.Log.Validate()
}

// Backend returns the configured backend
func (c *Configuration) Backend() (api.Backend, error) {
	return api.ParseBackend(c.Loader.Backend)
}

// FeatureRequest parses the configured feature names.
func (c *Configuration) FeatureRequest() (api.DeviceFeatureRequest, error) {
	required, err := api.ParseFeatures(c.Device.Required)
	if err != nil {
		return api.DeviceFeatureRequest{}, fmt.Errorf("required features: %w", err)
	}
	preferred, err := api.ParseFeatures(c.Device.Preferred)
	if err != nil {
		return api.DeviceFeatureRequest{}, fmt.Errorf("preferred features: %w", err)
	}
	return api.DeviceFeatureRequest{Required: required, Preferred: preferred}, nil
}

// DeviceDesc builds the device description for window.
func (c *Configuration) DeviceDesc(window uintptr) (api.DeviceDesc, error) {
	req, err := c.FeatureRequest()
	if err != nil {
		return api.DeviceDesc{}, err
	}
	desc := api.DeviceDesc{
		NativeWindow: window,
		AdapterIndex: api.NoAdapterHint,
		Features:     req,
	}
	if c.Device.Adapter >= 0 {
		desc.AdapterIndex = uint32(c.Device.Adapter)
	}
	if c.Device.Debug {
		desc.Flags |= api.FlagDebug
	}
	if c.Device.Headless {
		desc.Flags |= api.FlagHeadless
	}
	if c.Device.HighPriority {
		desc.Flags |= api.FlagHighPriority
	}
	return desc, nil
}

// NewLoader returns a module loader using the configured search paths.
func (c *Configuration) NewLoader() *loader.Loader {
	return &loader.Loader{
		SearchPaths:       append([]string(nil), c.Loader.SearchPaths...),
		SkipExecutableDir: c.Loader.SkipExecutableDir,
	}
}
