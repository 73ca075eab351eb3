// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/devblok/rhi/vulkan"
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "Print the Vulkan adapters as JSON",
	Args:  cobra.NoArgs,
	RunE:  runAdapters,
}

func init() {
	rootCmd.AddCommand(adaptersCmd)
}

func runAdapters(cmd *cobra.Command, args []string) error {
	instance := vulkan.DefaultInstanceConfig
	instance.Debug = cfg.Device.Debug

	drv, err := vulkanOpener()(instance)
	if err != nil {
		return err
	}
	defer drv.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(vulkan.EnumerateAdapters(drv))
}
