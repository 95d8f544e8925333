// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/hotspot/ingest"
	"github.com/jcodagnone/hotspot/utils/textutils"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Download and load incident exports",
}

var (
	snapshotDir string
	fetchURL    string
	loadCSV     string
)

func openDatabase() (*sql.DB, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

func openExistingDatabase() (*sql.DB, error) {
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("database not found at %s - run 'hotspot ingest load' first", dbPath)
	}

	return openDatabase()
}

var ingestFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download today's incident export into the snapshot store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		source, err := ingest.DefaultSource()
		if err != nil {
			return err
		}

		if fetchURL != "" {
			source.URL = fetchURL
		}

		options := &ingest.FetchOptions{
			UserAgent:       fmt.Sprintf("hotspot/%s (+https://github.com/jcodagnone/hotspot)", Version),
			EnableHTTPTrace: verbose,
		}

		fetcher := ingest.NewFetcher(options, ingest.NewSnapshotStore(snapshotDir))
		if _, err := fetcher.Fetch(cmd.Context(), source); err != nil {
			return fmt.Errorf("fetching %s: %w", source.ID, err)
		}

		return nil
	},
}

var ingestLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Parse a snapshot and replace the source's incidents in the database",
	Long: `Parses a CSV snapshot (optionally gzip compressed), cleans the rows and
replaces the source's incidents in the database. Without --csv the most
recent snapshot in the store is loaded.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		source, err := ingest.DefaultSource()
		if err != nil {
			return err
		}

		store := ingest.NewSnapshotStore(snapshotDir)

		path := loadCSV
		if path == "" {
			path, err = store.Latest(source.ID)
			if err != nil {
				return fmt.Errorf("picking the latest snapshot: %w", err)
			}
		}

		reader, err := store.Open(path)
		if err != nil {
			return err
		}
		defer reader.Close()

		parser, err := ingest.NewParser(source)
		if err != nil {
			return err
		}

		log.Printf("Parsing %s", path)

		incidents, metrics, err := parser.Parse(reader)
		if err != nil {
			return fmt.Errorf("parsing snapshot: %w", err)
		}

		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := ingest.NewIncidentRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		if err := repo.ReplaceSource(source.ID); err != nil {
			return fmt.Errorf("clearing the previous load: %w", err)
		}

		if err := repo.BulkInsertIncidents(source.ID, incidents); err != nil {
			return fmt.Errorf("inserting incidents: %w", err)
		}

		printMetricsTable(metrics)
		log.Printf("✅ Loaded %s incidents from %s (%s rows rejected)",
			textutils.FormatInt(int64(metrics.Kept)),
			path,
			textutils.FormatInt(int64(metrics.Rejected())))

		return nil
	},
}

func printMetricsTable(m *ingest.Metrics) {
	a, b := strings.Repeat("─", 15), strings.Repeat("─", 10)
	rows := []struct {
		label string
		value int
	}{
		{"Rows", m.Rows},
		{"Kept", m.Kept},
		{"Missing fields", m.MissingFields},
		{"Bad timestamp", m.BadTimestamp},
		{"Bad coordinate", m.BadCoordinate},
		{"Out of bounds", m.OutOfBounds},
	}

	fmt.Printf("╭─%-15s─┬─%-10s─╮\n", a, b)

	for _, row := range rows {
		fmt.Printf("│ %-15s │ %10s │\n", row.label, textutils.FormatInt(int64(row.value)))
	}

	fmt.Printf("╰─%-15s─┴─%-10s─╯\n", a, b)
}

var ingestStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the database holds, partition by partition",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openExistingDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		repo := ingest.NewIncidentRepository(db)

		partitions, err := repo.Partitions()
		if err != nil {
			return fmt.Errorf("listing partitions: %w", err)
		}

		total, err := repo.CountIncidents()
		if err != nil {
			return fmt.Errorf("counting incidents: %w", err)
		}

		a, b := strings.Repeat("─", 9), strings.Repeat("─", 10)
		fmt.Printf("╭─%-9s─┬─%-10s─╮\n", a, b)
		fmt.Printf("│ %-9s │ %10s │\n", "Partition", "Incidents")
		fmt.Printf("├─%-9s─┼─%-10s─┤\n", a, b)

		for _, p := range partitions {
			fmt.Printf("│ %-9s │ %10s │\n", p.Label(), textutils.FormatInt(int64(p.Count)))
		}

		fmt.Printf("╰─%-9s─┴─%-10s─╯\n", a, b)
		fmt.Printf("%s incidents in %s\n", textutils.FormatInt(int64(total)), dbPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.AddCommand(ingestFetchCmd)
	ingestCmd.AddCommand(ingestLoadCmd)
	ingestCmd.AddCommand(ingestStatusCmd)
	ingestCmd.PersistentFlags().StringVar(
		&snapshotDir,
		"snapshot-dir",
		"snapshots",
		"Directory where raw exports are stored",
	)
	ingestFetchCmd.Flags().StringVar(
		&fetchURL,
		"url",
		"",
		"Override the source's download URL",
	)
	ingestLoadCmd.Flags().StringVar(
		&loadCSV,
		"csv",
		"",
		"Load this CSV file instead of the latest snapshot",
	)
}
