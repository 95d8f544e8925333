// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

// Package report turns clustering output into artifacts people read:
// CSV exports, GeoJSON, interactive charts and summary tables, one
// run directory per invocation.
package report

import (
	"fmt"

	"github.com/jcodagnone/hotspot/cluster"
	"github.com/jcodagnone/hotspot/spatial"
)

// PartitionResult is the clustering of one year/quarter partition at
// one threshold, with everything the exporters need to describe it.
type PartitionResult struct {
	Year      int             `json:"year"`
	Quarter   int             `json:"quarter"`
	Threshold float64         `json:"threshold_meters"`
	Points    []spatial.Point `json:"-"`
	// Numbers holds the incident number for each point, aligned by
	// index with Points.
	Numbers    []string           `json:"-"`
	Assignment cluster.Assignment `json:"-"`
	Centroids  []cluster.Centroid `json:"centroids"`
	// Labels maps cluster ids to reverse-geocoded addresses. Optional;
	// exporters leave the column blank when a cluster has no label.
	Labels map[int]string `json:"labels,omitempty"`
	Stats  Stats          `json:"stats"`
}

// Label names the partition the way the run directory and the tables
// do, e.g. "2019q3".
func (r *PartitionResult) Label() string {
	return fmt.Sprintf("%dq%d", r.Year, r.Quarter)
}

// Build clusters one partition and derives its statistics.
func Build(year, quarter int, points []spatial.Point, numbers []string, threshold float64) (*PartitionResult, error) {
	if len(numbers) != len(points) {
		return nil, fmt.Errorf("%w: %d numbers for %d points", cluster.ErrInvalidInput, len(numbers), len(points))
	}

	assignment, centroids, err := cluster.Run(points, threshold)
	if err != nil {
		return nil, fmt.Errorf("clustering %dq%d: %w", year, quarter, err)
	}

	return &PartitionResult{
		Year:       year,
		Quarter:    quarter,
		Threshold:  threshold,
		Points:     points,
		Numbers:    numbers,
		Assignment: assignment,
		Centroids:  centroids,
		Stats:      ComputeStats(points, assignment, centroids),
	}, nil
}
