// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package replay stores recorded adapters in capture archives and
// serves them back as a vulkan driver, so adapter negotiation can be
// reproduced on machines without the original hardware.
package replay

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/capture"
	"github.com/devblok/rhi/vulkan"
)

// EnvPath names the variable that switches a backend module to replay.
const EnvPath = "RHI_VULKAN_REPLAY"

const entryPrefix = "adapter/"

func entryName(i int) string {
	return fmt.Sprintf("%s%04d", entryPrefix, i)
}

// Capture records every adapter of drv, in enumeration order.
func Capture(drv vulkan.Driver) ([]*vulkan.DeviceRecord, error) {
	devices, err := drv.PhysicalDevices()
	if err != nil {
		return nil, err
	}
	records := make([]*vulkan.DeviceRecord, 0, len(devices))
	for _, pd := range devices {
		r, err := vulkan.RecordDevice(pd)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// Write stores records as a capture archive.
func Write(w io.Writer, author string, records []*vulkan.DeviceRecord) error {
	builder := capture.NewBuilder(capture.Header{
		Author:      author,
		DateCreated: time.Now().Unix(),
	})
	for i, r := range records {
		var encoded bytes.Buffer
		if err := gob.NewEncoder(&encoded).Encode(r); err != nil {
			return fmt.Errorf("encoding adapter %d: %w", i, err)
		}
		if err := builder.Add(entryName(i), &encoded); err != nil {
			return err
		}
	}
	_, err := builder.WriteTo(w)
	return err
}

// Read decodes every adapter stored in ar, in recorded order. Entries
// that are not adapters are skipped.
func Read(ar *capture.Archive) ([]*vulkan.DeviceRecord, error) {
	var records []*vulkan.DeviceRecord
	for _, name := range ar.Names() {
		if !strings.HasPrefix(name, entryPrefix) {
			continue
		}
		data, err := ar.ReadAll(name)
		if err != nil {
			return nil, err
		}
		var r vulkan.DeviceRecord
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		records = append(records, &r)
	}
	return records, nil
}

// Load reads the adapters recorded in the archive at path.
func Load(path string) ([]*vulkan.DeviceRecord, error) {
	f, err := capture.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f.Archive)
}

// Opener serves the adapters recorded at path. The archive is read on
// every session so a replaced file takes effect.
func Opener(path string) vulkan.Opener {
	return func(cfg vulkan.InstanceConfig) (vulkan.Driver, error) {
		records, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("replaying %s: %w", path, err)
		}
		log.WithFields(log.Fields{
			"path":     path,
			"adapters": len(records),
		}).Debug("vulkan replay session opened")
		return vulkan.NewRecordedDriver(records), nil
	}
}
