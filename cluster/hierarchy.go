// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

// Package cluster groups geographic points whose pairwise distances
// stay under a real-world threshold. It runs complete-linkage
// agglomerative clustering over a precomputed distance matrix, cuts
// the resulting dendrogram at the threshold, and derives a centroid
// per flat cluster. Results are deterministic: identical input always
// produces identical assignments and centroids.
package cluster

import (
	"fmt"
	"math"
)

// node is one dendrogram entry: a leaf wraps a point index, an
// internal node records the complete-linkage distance at which its two
// children merged.
type node struct {
	left, right int     // child node indexes, -1 for leaves
	point       int     // leaf point index, -1 for internal nodes
	height      float64 // merge distance in meters, 0 for leaves
}

// Dendrogram is the merge tree of one agglomeration run. Nodes live in
// a flat arena and reference their children by index; children are
// always created before their parent, so the structure is acyclic by
// construction.
type Dendrogram struct {
	nodes []node
	root  int
	n     int // number of leaves
}

// Leaves returns the number of points the dendrogram was built from.
func (d *Dendrogram) Leaves() int {
	return d.n
}

// Height returns the merge distance of the root, i.e. the largest
// complete-linkage distance in the tree. Zero for a single point.
func (d *Dendrogram) Height() float64 {
	return d.nodes[d.root].height
}

// Agglomerate runs classic complete-linkage agglomerative clustering
// over m: start with every point as a singleton, repeatedly merge the
// two closest active clusters, where the distance between clusters is
// the maximum pairwise point distance, until one remains. The naive
// O(n³) scan is fine for the per-partition sizes ingestion produces.
//
// Ties are broken deterministically. An active cluster occupies the
// slot of its lowest member point index; scanning slot pairs (i, j),
// i < j, in ascending order with a strict less-than picks the
// lexicographically lowest pair among equal distances, so repeated
// runs build the same tree.
func Agglomerate(m *Matrix) (*Dendrogram, error) {
	if m == nil || m.n == 0 {
		return nil, fmt.Errorf("%w: nil or empty distance matrix", ErrInvalidInput)
	}

	n := m.n
	d := &Dendrogram{
		nodes: make([]node, 0, 2*n-1),
		n:     n,
	}

	for i := 0; i < n; i++ {
		d.nodes = append(d.nodes, node{left: -1, right: -1, point: i})
	}

	if n == 1 {
		d.root = 0

		return d, nil
	}

	// Working copy of the distances, updated in place to hold
	// inter-cluster distances as merges happen. Merging slots i < j
	// keeps slot i, so a slot index is always the lowest point index
	// of its cluster.
	work := make([]float64, len(m.d))
	copy(work, m.d)

	active := make([]bool, n) // slot still holds a live cluster
	tree := make([]int, n)    // slot → node index in the arena

	for i := range tree {
		active[i] = true
		tree[i] = i
	}

	for remaining := n; remaining > 1; remaining-- {
		bi, bj := -1, -1
		best := math.Inf(1)

		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}

			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}

				if dist := work[i*n+j]; dist < best {
					best, bi, bj = dist, i, j
				}
			}
		}

		if bi < 0 {
			return nil, invariantf("agglomerate", "no active pair found with %d clusters remaining", remaining)
		}

		// The lower slot becomes the left child, so a left-first
		// traversal later visits points in ascending first-index
		// order.
		d.nodes = append(d.nodes, node{
			left:   tree[bi],
			right:  tree[bj],
			point:  -1,
			height: best,
		})

		tree[bi] = len(d.nodes) - 1
		active[bj] = false

		// Lance-Williams update for complete linkage: the distance
		// from the merged cluster to any other is the max of the two
		// previous distances.
		for k := 0; k < n; k++ {
			if !active[k] || k == bi {
				continue
			}

			dik := work[bi*n+k]
			if djk := work[bj*n+k]; djk > dik {
				dik = djk
			}

			work[bi*n+k] = dik
			work[k*n+bi] = dik
		}
	}

	// Slot 0 survives every merge because merges always keep the
	// lower slot.
	if !active[0] {
		return nil, invariantf("agglomerate", "slot 0 inactive after %d merges", n-1)
	}

	d.root = tree[0]

	return d, nil
}
