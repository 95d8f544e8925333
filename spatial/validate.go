// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"math"
)

// Validate checks that the point holds finite, in-range coordinates.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return fmt.Errorf("latitude is not finite: %f", p.Lat)
	}

	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return fmt.Errorf("longitude is not finite: %f", p.Lng)
	}

	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 (got: %f)", p.Lat)
	}

	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 (got: %f)", p.Lng)
	}

	return nil
}

// Bounds is a geographic bounding box. Ingestion uses it to reject
// records whose coordinates cannot belong to the dataset's coverage
// area (null islands, swapped coordinates, data-entry noise).
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Contains reports whether p falls inside the box, borders included.
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Validate checks that the box is well formed.
func (b Bounds) Validate() error {
	if err := (Point{Lat: b.MinLat, Lng: b.MinLng}).Validate(); err != nil {
		return fmt.Errorf("invalid south-west corner: %w", err)
	}

	if err := (Point{Lat: b.MaxLat, Lng: b.MaxLng}).Validate(); err != nil {
		return fmt.Errorf("invalid north-east corner: %w", err)
	}

	if b.MinLat >= b.MaxLat {
		return fmt.Errorf("min latitude %f is not below max latitude %f", b.MinLat, b.MaxLat)
	}

	if b.MinLng >= b.MaxLng {
		return fmt.Errorf("min longitude %f is not west of max longitude %f", b.MinLng, b.MaxLng)
	}

	return nil
}
