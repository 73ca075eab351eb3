// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"os"
	"os/user"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devblok/rhi/vulkan"
	"github.com/devblok/rhi/vulkan/driver"
	"github.com/devblok/rhi/vulkan/replay"
)

var (
	captureOutput string
	captureAuthor string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record the live Vulkan adapters into a capture archive",
	Long: `capture records every Vulkan adapter of this machine. Point
RHI_VULKAN_REPLAY at the archive to negotiate devices against the
recorded adapters elsewhere.`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().StringVarP(&captureOutput, "output", "o", "adapters.rhc", "archive to write")
	captureCmd.Flags().StringVar(&captureAuthor, "author", "", "author stored in the archive header")
}

func runCapture(cmd *cobra.Command, args []string) error {
	drv, err := driver.Open(vulkan.DefaultInstanceConfig)
	if err != nil {
		return err
	}
	defer drv.Close()

	records, err := replay.Capture(drv)
	if err != nil {
		return err
	}

	author := captureAuthor
	if author == "" {
		if u, err := user.Current(); err == nil {
			author = u.Username
		}
	}

	if err := writeArchive(captureOutput, author, records); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"path":     captureOutput,
		"adapters": len(records),
	}).Info("adapters captured")
	return nil
}

// writeArchive writes records to path. A failed write leaves no file
// behind.
func writeArchive(path, author string, records []*vulkan.DeviceRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return replay.Write(f, author, records)
}
