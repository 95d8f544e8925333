// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"strconv"

	"github.com/uber/h3-go/v4"
)

// H3 resolutions the repository indexes. Res 6 cells are roughly
// neighborhood sized (~36 km²), res 8 block sized (~0.7 km²).
const (
	H3MinRes = 6
	H3MaxRes = 8
)

// H3Cell returns the H3 cell containing the point at the given
// resolution, as a signed integer suitable for an UBIGINT column.
// The point is validated first: the H3 library happily wraps
// out-of-range coordinates onto the sphere instead of rejecting them.
func (p Point) H3Cell(res int) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
	}

	return int64(cell), nil
}

// H3CellString formats a cell id the way the rest of the H3 ecosystem
// expects it, as a lowercase hex string.
func H3CellString(cell int64) string {
	return h3.Cell(cell).String()
}

// H3CellFromString parses the lowercase hex form back into a cell id.
func H3CellFromString(s string) (int64, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing h3 cell %q: %w", s, err)
	}

	cell := h3.Cell(v)
	if !cell.IsValid() {
		return 0, fmt.Errorf("%q is not an h3 cell", s)
	}

	return int64(cell), nil
}

// H3CellBoundary returns the vertices of the cell's outline in order,
// ready to draw as a polygon.
func H3CellBoundary(cell int64) ([]Point, error) {
	boundary, err := h3.Cell(cell).Boundary()
	if err != nil {
		return nil, fmt.Errorf("computing boundary of %s: %w", H3CellString(cell), err)
	}

	points := make([]Point, 0, len(boundary))
	for _, ll := range boundary {
		points = append(points, Point{Lat: ll.Lat, Lng: ll.Lng})
	}

	return points, nil
}
