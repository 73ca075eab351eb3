// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devblok/rhi/api"
	"github.com/devblok/rhi/loader"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List backend module names and where they are searched",
	Args:  cobra.NoArgs,
	RunE:  runModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	l := cfg.NewLoader()
	out := cmd.OutOrStdout()
	for _, b := range api.Backends {
		name := loader.ModuleName(b)
		fmt.Fprintf(out, "%s\t%s\n", b, name)
		for _, path := range l.Candidates(name) {
			state := "missing"
			if _, err := os.Stat(path); err == nil {
				state = "found"
			}
			fmt.Fprintf(out, "\t%s\t%s\n", state, path)
		}
	}
	return nil
}
