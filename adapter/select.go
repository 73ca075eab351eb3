// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package adapter picks a physical adapter for a device request and
// settles which features the device is created with. Everything here is a
// pure function of the enumerated adapters and the request.
package adapter

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/api"
)

const (
	// TierGap separates adapter kinds. The memory bonus is at most
	// 2^64 / MemoryUnit = 2^36, well below one tier.
	TierGap int64 = 1 << 40

	// MemoryUnit is the amount of dedicated memory worth one point.
	MemoryUnit = 256 << 20

	// Unsuitable is the score of an adapter missing required features.
	Unsuitable int64 = -1
)

// Score rates an adapter for a request. Adapters lacking any required
// feature score Unsuitable; otherwise discrete beats integrated beats
// everything else, and memory only orders adapters of the same kind.
func Score(info api.AdapterInfo, required api.Feature) int64 {
	if !info.Capabilities.Features.HasAll(required) {
		return Unsuitable
	}
	var score int64
	switch info.Kind {
	case api.AdapterDiscrete:
		score = 2 * TierGap
	case api.AdapterIntegrated:
		score = TierGap
	}
	return score + int64(info.VideoMemory/MemoryUnit)
}

// Select returns the index into adapters of the adapter to use.
//
// A hint naming an adapter that has every required feature is taken
// without scoring. Otherwise the highest score wins and ties go to the
// adapter enumerated first. When no adapter has the required features
// the error is a *api.CreateError with StatusMissingRequiredFeature.
func Select(adapters []api.AdapterInfo, required api.Feature, hint uint32) (int, error) {
	if len(adapters) == 0 {
		return -1, api.Errorf(api.StatusInternalError, "No physical devices to select from.")
	}

	if uint64(hint) < uint64(len(adapters)) && adapters[hint].Capabilities.Features.HasAll(required) {
		log.WithFields(log.Fields{
			"adapter": adapters[hint].Name,
			"index":   hint,
		}).Debug("adapter selected by hint")
		return int(hint), nil
	}

	best, bestScore := -1, Unsuitable
	for i, info := range adapters {
		if s := Score(info, required); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return -1, api.Errorf(api.StatusMissingRequiredFeature,
			"No physical device satisfies the required feature set (unmet: %s).", Unmet(adapters, required))
	}

	log.WithFields(log.Fields{
		"adapter": adapters[best].Name,
		"index":   best,
		"score":   bestScore,
	}).Debug("adapter selected by score")
	return best, nil
}

// Unmet returns the required features no adapter offers. When every
// feature exists somewhere but never all on one adapter, it is the
// whole required set.
func Unmet(adapters []api.AdapterInfo, required api.Feature) api.Feature {
	var offered api.Feature
	for _, info := range adapters {
		offered = offered.Union(info.Capabilities.Features)
	}
	if missing := required.Without(offered); !missing.Empty() {
		return missing
	}
	return required
}
