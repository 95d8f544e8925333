// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"

	"github.com/jcodagnone/hotspot/spatial"
)

// Centroid is the representative position of one flat cluster.
type Centroid struct {
	ClusterID int           `json:"cluster_id"`
	Point     spatial.Point `json:"point"`
	Size      int           `json:"size"`
}

// Centroids averages the member coordinates of every cluster in the
// assignment. Latitude and longitude are averaged independently, which
// is accurate at city scale and keeps centroids reproducible across
// runs. The result is ordered by ascending cluster id.
func Centroids(points []spatial.Point, a Assignment) ([]Centroid, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrInvalidInput)
	}

	if len(a) != len(points) {
		return nil, fmt.Errorf("%w: assignment covers %d points, got %d", ErrInvalidInput, len(a), len(points))
	}

	k := a.Clusters()
	centroids := make([]Centroid, k)

	for point, id := range a {
		if id < 1 || id > k {
			return nil, invariantf("centroids", "point %d assigned to cluster %d of %d", point, id, k)
		}

		c := &centroids[id-1]
		c.ClusterID = id
		c.Point.Lat += points[point].Lat
		c.Point.Lng += points[point].Lng
		c.Size++
	}

	for i := range centroids {
		if centroids[i].Size == 0 {
			return nil, invariantf("centroids", "cluster %d has no members", i+1)
		}

		centroids[i].Point.Lat /= float64(centroids[i].Size)
		centroids[i].Point.Lng /= float64(centroids[i].Size)
	}

	return centroids, nil
}
