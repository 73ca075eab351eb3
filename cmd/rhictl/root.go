// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"github.com/gobuffalo/envy"
	"github.com/spf13/cobra"

	"github.com/devblok/rhi/config"
	"github.com/devblok/rhi/vulkan"
	"github.com/devblok/rhi/vulkan/driver"
	"github.com/devblok/rhi/vulkan/replay"
)

var (
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string

	// cfg is loaded before any subcommand runs
	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "rhictl",
	Short: "Inspect graphics backends and adapters",
	Long: `rhictl loads graphics backend modules, lists the adapters they see
and creates devices the same way an application would.

Settings come from the built in defaults, --config, --env and RHI_
environment variables, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, envFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		if logFormat != "" {
			loaded.Log.Format = logFormat
		}
		if err := loaded.Log.Apply(); err != nil {
			return err
		}
		// backend modules read the replay path from the environment
		if loaded.Capture.Replay != "" {
			if err := envy.MustSet(replay.EnvPath, loaded.Capture.Replay); err != nil {
				return err
			}
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", ".env file with RHI_ variables")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format, text or json")
}

// vulkanOpener picks recorded adapters when a replay file is configured.
func vulkanOpener() vulkan.Opener {
	if cfg.Capture.Replay != "" {
		return replay.Opener(cfg.Capture.Replay)
	}
	return driver.Open
}
