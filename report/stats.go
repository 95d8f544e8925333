// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"github.com/jcodagnone/hotspot/cluster"
	"github.com/jcodagnone/hotspot/spatial"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the shape of one partition's clustering.
type Stats struct {
	Points     int     `json:"points"`
	Clusters   int     `json:"clusters"`
	MeanSize   float64 `json:"mean_size"`
	StdDevSize float64 `json:"std_dev_size"`
	MaxSize    int     `json:"max_size"`
	Singletons int     `json:"singletons"`
	// SingletonShare is the fraction of clusters holding a single
	// incident. A high share at the default threshold usually means
	// the quarter had no real hotspots.
	SingletonShare float64 `json:"singleton_share"`
	// MeanSpreadMeters averages each incident's distance to its
	// cluster centroid, over all incidents.
	MeanSpreadMeters float64 `json:"mean_spread_meters"`
	MaxSpreadMeters  float64 `json:"max_spread_meters"`
}

// ComputeStats derives the summary for a clustered partition. The
// inputs are assumed consistent (the same slices a Run produced).
func ComputeStats(points []spatial.Point, a cluster.Assignment, centroids []cluster.Centroid) Stats {
	s := Stats{
		Points:   len(points),
		Clusters: len(centroids),
	}

	if len(centroids) == 0 || len(points) == 0 {
		return s
	}

	sizes := make([]float64, len(centroids))

	for i, c := range centroids {
		sizes[i] = float64(c.Size)

		if c.Size > s.MaxSize {
			s.MaxSize = c.Size
		}

		if c.Size == 1 {
			s.Singletons++
		}
	}

	s.MeanSize = stat.Mean(sizes, nil)

	if len(sizes) > 1 {
		s.StdDevSize = stat.StdDev(sizes, nil)
	}

	s.SingletonShare = float64(s.Singletons) / float64(len(centroids))

	var sum float64

	for i, p := range points {
		d := p.HaversineDistance(centroids[a[i]-1].Point)
		sum += d

		if d > s.MaxSpreadMeters {
			s.MaxSpreadMeters = d
		}
	}

	s.MeanSpreadMeters = sum / float64(len(points))

	return s
}
