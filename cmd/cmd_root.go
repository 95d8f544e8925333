// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"db",
		"hotspot.duckdb",
		"Path to the incident database",
	)
	rootCmd.PersistentFlags().BoolVar(
		&verbose,
		"verbose",
		false,
		"Trace HTTP requests and report per-step timings",
	)
}

var rootCmd = &cobra.Command{
	Use:   "hotspot",
	Short: "spatial clustering of public police incident reports",
	Long: `
hotspot downloads public police incident exports, cleans them into a local
DuckDB database, and finds the spatial clusters of incidents quarter by
quarter using complete-linkage hierarchical clustering over geodesic
distances.
`,
}

var (
	dbPath  string
	verbose bool
)

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
