// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devblok/rhi/api"
	"github.com/devblok/rhi/loader"
	"github.com/devblok/rhi/vulkan"
)

var (
	createStatic bool
	createWindow bool
	createWidth  int32
	createHeight int32
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a device through the configured backend and print its capabilities",
	Long: `create loads the configured backend module, negotiates a device from
the configured feature request and prints the resolved capabilities.

With --static the Vulkan backend linked into rhictl is used instead of
a module. With --window the device is created for an SDL window.`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().BoolVar(&createStatic, "static", false, "use the Vulkan backend linked into rhictl")
	createCmd.Flags().BoolVar(&createWindow, "window", false, "create the device for an SDL window")
	createCmd.Flags().Int32Var(&createWidth, "width", 800, "window width")
	createCmd.Flags().Int32Var(&createHeight, "height", 600, "window height")
}

func runCreate(cmd *cobra.Command, args []string) error {
	backend, err := cfg.Backend()
	if err != nil {
		return err
	}

	var handle uintptr
	if createWindow {
		w, err := openWindow("rhictl", createWidth, createHeight)
		if err != nil {
			return err
		}
		defer w.Close()
		handle = w.Handle
	}

	desc, err := cfg.DeviceDesc(handle)
	if err != nil {
		return err
	}

	if createStatic {
		if backend != api.Vulkan {
			return fmt.Errorf("--static supports the vulkan backend only, not %s", backend)
		}
		static := vulkan.NewBackend(vulkanOpener(), vulkan.DefaultInstanceConfig)
		defer static.Teardown()
		loader.Register(api.Vulkan, static.Contract)
		defer loader.Unregister(api.Vulkan)
	}

	lib, err := cfg.NewLoader().Open(backend)
	if err != nil {
		return err
	}
	defer func() {
		if err := lib.Close(); err != nil {
			log.Error(err)
		}
	}()

	dev, err := lib.CreateDevice(desc)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	log.WithField("device", dev.ID()).Info("device created")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dev.Capabilities())
}
