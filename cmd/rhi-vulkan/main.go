// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command rhi-vulkan is the Vulkan backend module. Build it next to the
// host executable with
//
//	go build -buildmode=plugin -o librhi_vulkan.so ./cmd/rhi-vulkan
//
// or, for hosts built with -tags rhidebug,
//
//	go build -tags rhidebug -buildmode=plugin -o librhi_vulkand.so ./cmd/rhi-vulkan
//
// Setting RHI_VULKAN_REPLAY to a capture archive makes the module
// negotiate against the adapters recorded there.
package main

import (
	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/abi"
	"github.com/devblok/rhi/vulkan"
	"github.com/devblok/rhi/vulkan/driver"
	"github.com/devblok/rhi/vulkan/replay"
)

var backend = vulkan.NewBackend(opener, vulkan.DefaultInstanceConfig)

// RhiCreate is the factory the loader resolves.
var RhiCreate abi.Factory = backend.Contract

// RhiTeardown runs when the loader closes the module. Go never unmaps a
// plugin, so a later load gets a fresh contract from RhiCreate.
var RhiTeardown abi.Teardown = backend.Teardown

// opener decides per session, so the variable may change after the
// module was loaded.
func opener(cfg vulkan.InstanceConfig) (vulkan.Driver, error) {
	if path := envy.Get(replay.EnvPath, ""); path != "" {
		log.WithField("path", path).Debug("vulkan backend replaying adapters")
		return replay.Opener(path)(cfg)
	}
	return driver.Open(cfg)
}

func main() {}
