// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"
	"math"

	"github.com/jcodagnone/hotspot/spatial"
)

// DefaultThresholdMeters is the cut distance used when the caller does
// not pick one. 12,875 meters is eight miles, a practical "same area
// of town" radius for incident hotspots.
const DefaultThresholdMeters = 12_875.0

// Run executes the whole pipeline over one batch of points: distance
// matrix, complete-linkage agglomeration, cut at thresholdMeters, and
// centroid computation. It performs no I/O and keeps no state, so
// partitions can run concurrently.
func Run(points []spatial.Point, thresholdMeters float64) (Assignment, []Centroid, error) {
	if len(points) == 0 {
		return nil, nil, fmt.Errorf("%w: no points", ErrInvalidInput)
	}

	if math.IsNaN(thresholdMeters) || math.IsInf(thresholdMeters, 0) || thresholdMeters <= 0 {
		return nil, nil, fmt.Errorf("%w: threshold must be a positive number of meters (got: %f)", ErrInvalidInput, thresholdMeters)
	}

	m, err := NewMatrix(points)
	if err != nil {
		return nil, nil, fmt.Errorf("distance matrix: %w", err)
	}

	d, err := Agglomerate(m)
	if err != nil {
		return nil, nil, fmt.Errorf("agglomeration: %w", err)
	}

	a, err := d.Cut(thresholdMeters)
	if err != nil {
		return nil, nil, fmt.Errorf("cut: %w", err)
	}

	centroids, err := Centroids(points, a)
	if err != nil {
		return nil, nil, fmt.Errorf("centroids: %w", err)
	}

	return a, centroids, nil
}
