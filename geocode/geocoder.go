// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode labels cluster centroids with human-readable
// addresses.
package geocode

import "github.com/jcodagnone/hotspot/spatial"

// Address represents a reverse-geocoding result from any provider.
type Address struct {
	Formatted  string
	Confidence string // high, medium, low
	Provider   string
}

// ReverseGeocoder interface for different geocoding providers.
type ReverseGeocoder interface {
	ReverseGeocode(point spatial.Point) (*Address, error)
}
