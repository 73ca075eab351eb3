// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Validate checks level and format names
func (l LogConfig) Validate() error {
	if _, err := log.ParseLevel(l.Level); err != nil {
		return err
	}
	switch l.Format {
	case FormatText, FormatJSON, "":
		return nil
	}
	return fmt.Errorf("unknown log format %q", l.Format)
}

// Apply configures the standard logrus logger.
func (l LogConfig) Apply() error {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	switch l.Format {
	case FormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	case FormatText, "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", l.Format)
	}
	return nil
}
