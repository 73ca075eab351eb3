// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package adapter

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/api"
)

// Resolution is the outcome of matching a request against what an
// adapter offers.
type Resolution struct {
	// Resolved is every required feature plus the preferred ones
	// the adapter has.
	Resolved api.Feature

	// Dropped are preferred features the adapter lacks.
	Dropped api.Feature
}

// Resolve computes the enabled feature set. Required features are kept
// even if available lacks them; callers select an adapter that has them
// before resolving.
func Resolve(req api.DeviceFeatureRequest, available api.Feature) Resolution {
	return Resolution{
		Resolved: req.Required.Union(req.Preferred.Intersect(available)),
		Dropped:  req.Preferred.Without(available),
	}
}

// Report logs dropped preferred features as a warning. Nothing is logged
// when the request was fully met.
func (r Resolution) Report(adapterName string) {
	if r.Dropped.Empty() {
		return
	}
	log.WithFields(log.Fields{
		"adapter":       adapterName,
		"missing":       fmt.Sprintf("%#x", uint64(r.Dropped)),
		"missing_names": r.Dropped.String(),
	}).Warn("some preferred features unavailable, continuing with reduced feature set")
}
