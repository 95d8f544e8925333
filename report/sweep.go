// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/jcodagnone/hotspot/cluster"
	"github.com/jcodagnone/hotspot/spatial"
)

// SweepResult traces how the cluster count of one partition responds
// to the threshold. Thresholds are ascending, so Clusters must be
// non-increasing.
type SweepResult struct {
	Year       int       `json:"year"`
	Quarter    int       `json:"quarter"`
	Thresholds []float64 `json:"thresholds_meters"`
	Clusters   []int     `json:"clusters"`
}

// SweepThresholds expands an inclusive from/to range into the
// threshold list a sweep evaluates.
func SweepThresholds(from, to, step float64) ([]float64, error) {
	if math.IsNaN(from) || math.IsNaN(to) || math.IsNaN(step) {
		return nil, fmt.Errorf("%w: sweep range must be numeric", cluster.ErrInvalidInput)
	}

	if from < 0 || to < from || step <= 0 {
		return nil, fmt.Errorf("%w: sweep range %f..%f step %f", cluster.ErrInvalidInput, from, to, step)
	}

	// Multiplying instead of accumulating keeps float drift from
	// dropping the final threshold.
	n := int(math.Floor((to-from)/step)) + 1

	thresholds := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		thresholds = append(thresholds, from+float64(i)*step)
	}

	return thresholds, nil
}

// Sweep cuts one partition at every threshold, reusing a single
// dendrogram, and verifies the cluster count never grows as the
// threshold rises.
func Sweep(year, quarter int, points []spatial.Point, thresholds []float64) (*SweepResult, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("%w: no thresholds to sweep", cluster.ErrInvalidInput)
	}

	sorted := make([]float64, len(thresholds))
	copy(sorted, thresholds)
	sort.Float64s(sorted)

	m, err := cluster.NewMatrix(points)
	if err != nil {
		return nil, fmt.Errorf("distance matrix for %dq%d: %w", year, quarter, err)
	}

	d, err := cluster.Agglomerate(m)
	if err != nil {
		return nil, fmt.Errorf("agglomeration for %dq%d: %w", year, quarter, err)
	}

	result := &SweepResult{
		Year:       year,
		Quarter:    quarter,
		Thresholds: sorted,
		Clusters:   make([]int, 0, len(sorted)),
	}

	prev := 0

	for i, t := range sorted {
		a, err := d.Cut(t)
		if err != nil {
			return nil, fmt.Errorf("cut at %f: %w", t, err)
		}

		count := a.Clusters()
		if i > 0 && count > prev {
			return nil, &cluster.InvariantError{
				Step:   "sweep",
				Detail: fmt.Sprintf("cluster count rose from %d to %d between thresholds %f and %f", prev, count, sorted[i-1], t),
			}
		}

		result.Clusters = append(result.Clusters, count)
		prev = count
	}

	return result, nil
}
