// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/jcodagnone/hotspot/ingest"
	"github.com/jcodagnone/hotspot/web"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive incident map",
	Long: `Serves a Leaflet map of the loaded incidents with on-demand clustering:
pick a partition and a threshold in the browser and the clusters, centroids
and H3 density cells are computed from the database as you go.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openExistingDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		server := web.NewServer(ingest.NewIncidentRepository(db))

		fmt.Println("🗺️  Incident map server starting...")
		fmt.Printf("📍 Open http://%s in your browser\n", listenAddr)

		if strings.HasPrefix(listenAddr, "localhost") || strings.HasPrefix(listenAddr, "127.") {
			fmt.Println("🔒 Local only - not exposed to internet")
		}

		return server.Run(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&listenAddr,
		"listen",
		"localhost:8080",
		"Address the map server binds to",
	)
}
