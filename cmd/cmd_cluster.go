// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/jcodagnone/hotspot/cluster"
	"github.com/jcodagnone/hotspot/geocode"
	"github.com/jcodagnone/hotspot/ingest"
	"github.com/jcodagnone/hotspot/report"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Group incidents into spatial clusters",
}

var (
	clusterYear      int
	clusterQuarter   int
	clusterThreshold float64
	clusterOut       string
	clusterLabels    bool
	clusterMaxProcs  int
	sweepFrom        float64
	sweepTo          float64
	sweepStep        float64
)

// selectPartitions resolves the --year/--quarter pair against what the
// database actually holds. Without the pair every partition is in.
func selectPartitions(repo ingest.IncidentRepository) ([]ingest.Partition, error) {
	partitions, err := repo.Partitions()
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w", err)
	}

	if clusterYear == 0 && clusterQuarter == 0 {
		if len(partitions) == 0 {
			return nil, errors.New("the database holds no incidents - run 'hotspot ingest load' first")
		}

		return partitions, nil
	}

	if clusterYear == 0 || clusterQuarter == 0 {
		return nil, errors.New("--year and --quarter go together")
	}

	for _, p := range partitions {
		if p.Year == clusterYear && p.Quarter == clusterQuarter {
			return []ingest.Partition{p}, nil
		}
	}

	return nil, fmt.Errorf("no incidents in partition %dq%d", clusterYear, clusterQuarter)
}

var clusterRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Cluster one partition, or every partition in the database",
	Long: `Runs complete-linkage clustering over each selected partition and writes
the artifacts (CSV, GeoJSON, charts) under a fresh run directory. Partitions
are independent, so they are clustered concurrently.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openExistingDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := ingest.NewIncidentRepository(db)

		partitions, err := selectPartitions(repo)
		if err != nil {
			return err
		}

		results, err := clusterPartitions(repo, partitions)
		if err != nil {
			return err
		}

		if clusterLabels {
			labelCentroids(cmd.Context(), results)
		}

		exporter, err := report.NewExporter(clusterOut)
		if err != nil {
			return err
		}

		for _, r := range results {
			if err := exporter.WritePartition(r); err != nil {
				return err
			}
		}

		if err := exporter.WriteRun(results); err != nil {
			return err
		}

		report.WriteSummaryTable(os.Stdout, results)
		log.Printf("✅ Wrote %d partition reports to %s", len(results), exporter.Dir())

		return nil
	},
}

func clusterPartitions(repo ingest.IncidentRepository, partitions []ingest.Partition) ([]*report.PartitionResult, error) {
	n := len(partitions)

	maxProcs := clusterMaxProcs
	if maxProcs == 0 {
		maxProcs = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Clustering"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxProcs)
	errChan := make(chan error, n)
	resultChan := make(chan *report.PartitionResult, n)

	for _, p := range partitions {
		wg.Add(1)

		go func(p ingest.Partition) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			points, numbers, err := repo.PartitionPoints(p.Year, p.Quarter)
			if err != nil {
				errChan <- fmt.Errorf("loading %s - %w", p.Label(), err)
			} else if result, err := report.Build(p.Year, p.Quarter, points, numbers, clusterThreshold); err != nil {
				errChan <- fmt.Errorf("clustering %s - %w", p.Label(), err)
			} else {
				resultChan <- result
			}

			if bar == nil {
				log.Printf("Clustering %s", p.Label())
			} else {
				if err := bar.Add(1); err != nil {
					errChan <- fmt.Errorf("updating progress bar for %s: %w", p.Label(), err)
				}
			}
		}(p)
	}

	wg.Wait()
	close(errChan)
	close(resultChan)

	for err := range errChan {
		log.Printf("⚠️ %s", err)
	}

	results := make([]*report.PartitionResult, 0, n)
	for r := range resultChan {
		results = append(results, r)
	}

	if len(results) == 0 {
		return nil, errors.New("no partition produced clusters")
	}

	// Workers finish in any order.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Year != results[j].Year {
			return results[i].Year < results[j].Year
		}

		return results[i].Quarter < results[j].Quarter
	})

	return results, nil
}

// labelCentroids reverse geocodes each centroid into its partition's
// label table. Failures degrade to a warning; a rate limit or an
// exhausted quota stops the remaining lookups.
func labelCentroids(ctx context.Context, results []*report.PartitionResult) {
	apiKey, err := geocode.ResolveAPIKey(ctx)
	if err != nil {
		log.Printf("⚠️ Skipping centroid labels - %s", err)

		return
	}

	geocoder := geocode.NewGoogleMapsGeocoder(apiKey)

	for _, r := range results {
		if r.Labels == nil {
			r.Labels = make(map[int]string, len(r.Centroids))
		}

		for _, c := range r.Centroids {
			address, err := geocoder.ReverseGeocode(c.Point)
			if err != nil {
				if geocode.IsRateLimitError(err) || geocode.IsQuotaExceededError(err) {
					log.Printf("🛑 Stopping centroid labels - %s", err)

					return
				}

				log.Printf("⚠️ No label for cluster %d of %s - %s", c.ClusterID, r.Label(), err)

				continue
			}

			r.Labels[c.ClusterID] = address.Formatted
		}
	}
}

var clusterSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Cut the selected partitions at a whole range of thresholds",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		thresholds, err := report.SweepThresholds(sweepFrom, sweepTo, sweepStep)
		if err != nil {
			return err
		}

		db, err := openExistingDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := ingest.NewIncidentRepository(db)

		partitions, err := selectPartitions(repo)
		if err != nil {
			return err
		}

		sweeps := make([]*report.SweepResult, 0, len(partitions))

		for _, p := range partitions {
			points, _, err := repo.PartitionPoints(p.Year, p.Quarter)
			if err != nil {
				return fmt.Errorf("loading %s: %w", p.Label(), err)
			}

			log.Printf("Sweeping %s across %d thresholds", p.Label(), len(thresholds))

			sweep, err := report.Sweep(p.Year, p.Quarter, points, thresholds)
			if err != nil {
				return err
			}

			sweeps = append(sweeps, sweep)
		}

		exporter, err := report.NewExporter(clusterOut)
		if err != nil {
			return err
		}

		if err := exporter.WriteSweep(sweeps); err != nil {
			return err
		}

		printSweepTable(sweeps)
		log.Printf("✅ Wrote %d sweeps to %s", len(sweeps), exporter.Dir())

		return nil
	},
}

func printSweepTable(sweeps []*report.SweepResult) {
	a, b := strings.Repeat("─", 11), strings.Repeat("─", 8)

	for _, s := range sweeps {
		fmt.Printf("%dq%d\n", s.Year, s.Quarter)
		fmt.Printf("╭─%-11s─┬─%-8s─╮\n", a, b)
		fmt.Printf("│ %-11s │ %8s │\n", "Threshold m", "Clusters")
		fmt.Printf("├─%-11s─┼─%-8s─┤\n", a, b)

		for i, t := range s.Thresholds {
			fmt.Printf("│ %11.0f │ %8d │\n", t, s.Clusters[i])
		}

		fmt.Printf("╰─%-11s─┴─%-8s─╯\n", a, b)
	}
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.AddCommand(clusterRunCmd)
	clusterCmd.AddCommand(clusterSweepCmd)
	clusterCmd.PersistentFlags().IntVar(
		&clusterYear,
		"year",
		0,
		"Partition year to cluster (default: all partitions)",
	)
	clusterCmd.PersistentFlags().IntVar(
		&clusterQuarter,
		"quarter",
		0,
		"Partition quarter to cluster, 1 to 4 (default: all partitions)",
	)
	clusterCmd.PersistentFlags().StringVar(
		&clusterOut,
		"out",
		"runs",
		"Directory where run artifacts are written",
	)
	clusterRunCmd.Flags().Float64Var(
		&clusterThreshold,
		"threshold",
		cluster.DefaultThresholdMeters,
		"Cut height in meters; clusters never span more than this",
	)
	clusterRunCmd.Flags().BoolVar(
		&clusterLabels,
		"labels",
		false,
		"Reverse geocode centroids into street addresses (needs a Google Maps API key)",
	)
	clusterRunCmd.Flags().IntVar(
		&clusterMaxProcs,
		"max-procs",
		0,
		"Partitions clustered in parallel (default: number of CPUs)",
	)
	clusterSweepCmd.Flags().Float64Var(
		&sweepFrom,
		"from",
		1000,
		"Lowest threshold in meters",
	)
	clusterSweepCmd.Flags().Float64Var(
		&sweepTo,
		"to",
		25000,
		"Highest threshold in meters",
	)
	clusterSweepCmd.Flags().Float64Var(
		&sweepStep,
		"step",
		1000,
		"Distance between consecutive thresholds in meters",
	)
}
