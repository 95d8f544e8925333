// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Exporter writes every artifact of a clustering run under a fresh
// directory named after a random run id, so runs never overwrite each
// other.
type Exporter struct {
	runID string
	dir   string
}

// NewExporter creates the run directory under root.
func NewExporter(root string) (*Exporter, error) {
	runID := uuid.New().String()
	dir := filepath.Join(root, runID)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	return &Exporter{runID: runID, dir: dir}, nil
}

func (e *Exporter) RunID() string {
	return e.runID
}

func (e *Exporter) Dir() string {
	return e.dir
}

// WritePartition writes the per-partition artifacts: the assignment and
// centroid CSVs, the centroid GeoJSON, and the scatter chart.
func (e *Exporter) WritePartition(r *PartitionResult) error {
	label := r.Label()

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{fmt.Sprintf("assignments_%s.csv", label), func(w io.Writer) error { return WriteAssignmentsCSV(w, r) }},
		{fmt.Sprintf("centroids_%s.csv", label), func(w io.Writer) error { return WriteCentroidsCSV(w, r) }},
		{fmt.Sprintf("centroids_%s.geojson", label), func(w io.Writer) error { return WriteCentroidsGeoJSON(w, r) }},
		{fmt.Sprintf("scatter_%s.html", label), func(w io.Writer) error { return RenderPartitionChart(w, r) }},
	}

	for _, file := range files {
		if err := e.writeFile(file.name, file.write); err != nil {
			return err
		}
	}

	return nil
}

type runSummary struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Partitions  []*PartitionResult `json:"partitions"`
}

// WriteRun writes the run-wide artifacts: the combined chart page and
// the machine-readable summary.
func (e *Exporter) WriteRun(results []*PartitionResult) error {
	if err := e.writeFile("index.html", func(w io.Writer) error {
		return RenderChartsIndex(w, results)
	}); err != nil {
		return err
	}

	summary := runSummary{
		RunID:       e.runID,
		GeneratedAt: time.Now().UTC(),
		Partitions:  results,
	}

	buf, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	if err := os.WriteFile(filepath.Join(e.dir, "summary.json"), buf, 0o600); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}

// WriteSweep writes the threshold sweep artifacts: the line chart and
// the CSV and JSON forms of the counts.
func (e *Exporter) WriteSweep(sweeps []*SweepResult) error {
	if err := e.writeFile("sweep.html", func(w io.Writer) error {
		return RenderSweepChart(w, sweeps)
	}); err != nil {
		return err
	}

	if err := e.writeFile("sweep.csv", func(w io.Writer) error {
		return WriteSweepCSV(w, sweeps)
	}); err != nil {
		return err
	}

	buf, err := json.MarshalIndent(sweeps, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling sweep results: %w", err)
	}

	if err := os.WriteFile(filepath.Join(e.dir, "sweep.json"), buf, 0o600); err != nil {
		return fmt.Errorf("writing sweep results: %w", err)
	}

	return nil
}

func (e *Exporter) writeFile(name string, write func(io.Writer) error) (err error) {
	f, err := os.OpenFile(filepath.Join(e.dir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing %s: %w", name, cerr))
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}
