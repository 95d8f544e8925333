// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcodagnone/hotspot/spatial"
	"github.com/jcodagnone/hotspot/utils/textutils"
)

// WriteSummaryTable renders one row per partition, newest last.
func WriteSummaryTable(w io.Writer, results []*PartitionResult) {
	a, b, c := strings.Repeat("─", 9), strings.Repeat("─", 10), strings.Repeat("─", 8)
	d, e, f := strings.Repeat("─", 10), strings.Repeat("─", 7), strings.Repeat("─", 13)

	fmt.Fprintf(w, "╭─%-9s─┬─%-10s─┬─%-8s─┬─%-10s─┬─%-7s─┬─%-13s─╮\n", a, b, c, d, e, f)
	fmt.Fprintf(w, "│ %-9s │ %10s │ %8s │ %10s │ %7s │ %13s │\n",
		"Partition", "Points", "Clusters", "Singletons", "Largest", "Mean spread m")
	fmt.Fprintf(w, "├─%-9s─┼─%-10s─┼─%-8s─┼─%-10s─┼─%-7s─┼─%-13s─┤\n", a, b, c, d, e, f)

	for _, r := range results {
		fmt.Fprintf(w, "│ %-9s │ %10s │ %8s │ %10s │ %7s │ %13.0f │\n",
			r.Label(),
			textutils.FormatInt(int64(r.Stats.Points)),
			textutils.FormatInt(int64(r.Stats.Clusters)),
			textutils.FormatInt(int64(r.Stats.Singletons)),
			textutils.FormatInt(int64(r.Stats.MaxSize)),
			r.Stats.MeanSpreadMeters)
	}

	fmt.Fprintf(w, "╰─%-9s─┴─%-10s─┴─%-8s─┴─%-10s─┴─%-7s─┴─%-13s─╯\n", a, b, c, d, e, f)
}

// WriteAssignmentsCSV exports one row per incident with its cluster id.
func WriteAssignmentsCSV(w io.Writer, r *PartitionResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"number", "lat", "lng", "cluster_id"}); err != nil {
		return fmt.Errorf("writing assignments header: %w", err)
	}

	for i, p := range r.Points {
		rec := []string{
			r.Numbers[i],
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lng, 'f', -1, 64),
			strconv.Itoa(r.Assignment[i]),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing assignment row %d: %w", i+2, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteCentroidsCSV exports one row per cluster. Cells are reported at
// res 8, the finest resolution the database stores. The address column
// is blank for unlabeled clusters.
func WriteCentroidsCSV(w io.Writer, r *PartitionResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"cluster_id", "lat", "lng", "size", "cell", "address"}); err != nil {
		return fmt.Errorf("writing centroids header: %w", err)
	}

	for _, c := range r.Centroids {
		cell, err := c.Point.H3Cell(spatial.H3MaxRes)
		if err != nil {
			return fmt.Errorf("indexing centroid %d: %w", c.ClusterID, err)
		}

		rec := []string{
			strconv.Itoa(c.ClusterID),
			strconv.FormatFloat(c.Point.Lat, 'f', -1, 64),
			strconv.FormatFloat(c.Point.Lng, 'f', -1, 64),
			strconv.Itoa(c.Size),
			spatial.H3CellString(cell),
			r.Labels[c.ClusterID],
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing centroid row %d: %w", c.ClusterID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteSweepCSV exports sweeps in long form, one row per partition and
// threshold.
func WriteSweepCSV(w io.Writer, sweeps []*SweepResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"partition", "threshold_meters", "clusters"}); err != nil {
		return fmt.Errorf("writing sweep header: %w", err)
	}

	for _, s := range sweeps {
		label := fmt.Sprintf("%dq%d", s.Year, s.Quarter)

		for i, t := range s.Thresholds {
			rec := []string{
				label,
				strconv.FormatFloat(t, 'f', -1, 64),
				strconv.Itoa(s.Clusters[i]),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("writing sweep row for %s: %w", label, err)
			}
		}
	}

	cw.Flush()

	return cw.Error()
}
