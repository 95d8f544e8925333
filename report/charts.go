// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Viridis ramp; incident points are colored by their cluster id.
var clusterColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

func partitionScatter(r *PartitionResult) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(r.Points))

	minLat, maxLat := 90.0, -90.0
	minLng, maxLng := 180.0, -180.0

	for i, p := range r.Points {
		if p.Lat < minLat {
			minLat = p.Lat
		}

		if p.Lat > maxLat {
			maxLat = p.Lat
		}

		if p.Lng < minLng {
			minLng = p.Lng
		}

		if p.Lng > maxLng {
			maxLng = p.Lng
		}

		data = append(data, opts.ScatterData{Value: []interface{}{p.Lng, p.Lat, r.Assignment[i]}})
	}

	// Pad the axes so border points stay visible
	pad := 0.01

	centroids := make([]opts.ScatterData, 0, len(r.Centroids))
	for _, c := range r.Centroids {
		centroids = append(centroids, opts.ScatterData{Value: []interface{}{c.Point.Lng, c.Point.Lat}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("Incident clusters %s", r.Label()),
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Incident clusters %s", r.Label()),
			Subtitle: fmt.Sprintf("threshold=%.0fm points=%d clusters=%d", r.Threshold, r.Stats.Points, r.Stats.Clusters),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minLng - pad, Max: maxLng + pad, Name: "Longitude", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minLat - pad, Max: maxLat + pad, Name: "Latitude", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        1,
			Max:        float32(r.Stats.Clusters),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: clusterColors},
		}),
	)

	scatter.AddSeries("incidents", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	scatter.AddSeries("centroids", centroids,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff5252"}))

	return scatter
}

// RenderPartitionChart writes the scatter plot for one partition.
func RenderPartitionChart(w io.Writer, r *PartitionResult) error {
	return partitionScatter(r).Render(w)
}

// RenderChartsIndex writes a single page with every partition's
// scatter plot, in the order given.
func RenderChartsIndex(w io.Writer, results []*PartitionResult) error {
	page := components.NewPage()

	for _, r := range results {
		page.AddCharts(partitionScatter(r))
	}

	return page.Render(w)
}

// RenderSweepChart plots cluster count against threshold, one line per
// partition. All sweeps are expected to share their threshold list.
func RenderSweepChart(w io.Writer, sweeps []*SweepResult) error {
	if len(sweeps) == 0 {
		return fmt.Errorf("no sweeps to plot")
	}

	xs := make([]string, 0, len(sweeps[0].Thresholds))
	for _, t := range sweeps[0].Thresholds {
		xs = append(xs, fmt.Sprintf("%.0f", t))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Cluster count by threshold",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Cluster count by threshold"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Threshold (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Clusters"}),
	)

	line.SetXAxis(xs)

	for _, s := range sweeps {
		data := make([]opts.LineData, 0, len(s.Clusters))
		for _, c := range s.Clusters {
			data = append(data, opts.LineData{Value: c})
		}

		line.AddSeries(fmt.Sprintf("%dq%d", s.Year, s.Quarter), data)
	}

	return line.Render(w)
}
