// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cluster

import (
	"fmt"
	"math"
)

// Assignment maps a point index to its flat cluster id. Ids are dense
// and 1-based, ordered by each cluster's lowest point index: the
// cluster containing point 0 is always cluster 1.
type Assignment []int

// Clusters returns the number of distinct clusters in the assignment.
func (a Assignment) Clusters() int {
	max := 0
	for _, id := range a {
		if id > max {
			max = id
		}
	}

	return max
}

// Members groups point indexes by cluster, indexed by id-1. Point
// order inside each group is ascending.
func (a Assignment) Members() [][]int {
	groups := make([][]int, a.Clusters())
	for point, id := range a {
		groups[id-1] = append(groups[id-1], point)
	}

	return groups
}

// Cut flattens the dendrogram at the given threshold: every maximal
// subtree whose merge height does not exceed the threshold becomes one
// cluster. Complete linkage guarantees all pairs inside a resulting
// cluster are within the threshold of each other.
//
// A zero threshold separates every distinct point; a threshold at or
// above Height() yields a single cluster.
func (d *Dendrogram) Cut(threshold float64) (Assignment, error) {
	if d == nil || len(d.nodes) == 0 {
		return nil, fmt.Errorf("%w: empty dendrogram", ErrInvalidInput)
	}

	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("%w: threshold must be finite (got: %f)", ErrInvalidInput, threshold)
	}

	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must not be negative (got: %f)", ErrInvalidInput, threshold)
	}

	type frame struct {
		node int
		id   int // 0 until the walk enters a subtree below the cut
	}

	assignment := make(Assignment, d.n)
	seen := make([]bool, d.n)
	stack := make([]frame, 0, len(d.nodes))
	stack = append(stack, frame{node: d.root})

	nextID := 1
	assigned := 0
	steps := 0

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node < 0 || f.node >= len(d.nodes) {
			return nil, invariantf("cut", "node index %d out of range [0, %d)", f.node, len(d.nodes))
		}

		if steps++; steps > len(d.nodes) {
			return nil, invariantf("cut", "walk visited %d nodes in a tree of %d", steps, len(d.nodes))
		}

		nd := d.nodes[f.node]

		id := f.id
		if id == 0 && (nd.point >= 0 || nd.height <= threshold) {
			id = nextID
			nextID++
		}

		if nd.point >= 0 {
			if nd.point >= d.n {
				return nil, invariantf("cut", "leaf references point %d of %d", nd.point, d.n)
			}

			if seen[nd.point] {
				return nil, invariantf("cut", "point %d reached twice", nd.point)
			}

			seen[nd.point] = true
			assignment[nd.point] = id
			assigned++

			continue
		}

		// Right pushed first so the left subtree pops first and lower
		// point indexes claim lower cluster ids.
		stack = append(stack, frame{node: nd.right, id: id})
		stack = append(stack, frame{node: nd.left, id: id})
	}

	if assigned != d.n {
		return nil, invariantf("cut", "assigned %d of %d points", assigned, d.n)
	}

	return assignment, nil
}
