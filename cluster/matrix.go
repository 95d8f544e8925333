// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/jcodagnone/hotspot/spatial"
)

// Matrix is the full symmetric matrix of pairwise haversine distances
// for one clustering run. Construction costs O(n²) time and memory,
// which is the reason callers partition large datasets (here, by year
// and quarter) before clustering instead of feeding everything at
// once; ~23k points already need 4 GiB. The matrix is read-only after
// NewMatrix returns and may be shared without locking.
type Matrix struct {
	n int
	d []float64 // row-major n×n
}

// NewMatrix validates points and computes every pairwise distance.
// Fails with ErrInvalidInput on an empty sequence or on any non-finite
// or out-of-range coordinate.
func NewMatrix(points []spatial.Point) (*Matrix, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points given", ErrInvalidInput)
	}

	for i, p := range points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: point %d: %v", ErrInvalidInput, i, err)
		}
	}

	n := len(points)
	m := &Matrix{n: n, d: make([]float64, n*n)}

	// Every pair is independent, so rows fan out across the available
	// cores. Each unordered pair is owned by exactly one goroutine,
	// which writes both mirror cells, so there are no overlapping
	// writes.
	maxProcs := runtime.NumCPU()

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxProcs)

	for i := range points {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			for j := i + 1; j < n; j++ {
				d := points[i].HaversineDistance(points[j])
				m.d[i*n+j] = d
				m.d[j*n+i] = d
			}
		}(i)
	}

	wg.Wait()

	return m, nil
}

// N returns the number of points the matrix was built from.
func (m *Matrix) N() int {
	return m.n
}

// At returns the distance in meters between points i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.d[i*m.n+j]
}
