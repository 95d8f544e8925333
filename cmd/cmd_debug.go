// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jcodagnone/hotspot/spatial"
	"github.com/spf13/cobra"
)

// isTerminal reports whether f is an interactive terminal. On Stat
// errors we say that it isn't.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

// scanLines feeds process with the joined args when present, otherwise
// with every line of stdin.
func scanLines(prompt string, args []string, process func(line string)) error {
	if len(args) > 0 {
		process(strings.Join(args, " "))

		return nil
	}

	input := os.Stdin
	if isTerminal(input) {
		fmt.Fprintln(os.Stderr, prompt)
	}

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		process(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	return nil
}

var debugDistanceCmd = &cobra.Command{
	Use:   "distance [LAT,LNG LAT,LNG]",
	Short: "Great-circle distance between two points",
	Long: `Prints the haversine distance in meters between two points, either from the
arguments or one pair per stdin line.

$ echo "36.8,-76.1 36.9,-76.2" | hotspot debug distance
36.8,-76.1 36.9,-76.2	14241.3
	`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		return scanLines("Enter two points per line, LAT,LNG LAT,LNG…", args, func(line string) {
			var a, b spatial.Point
			if _, err := fmt.Sscanf(line, "%f,%f %f,%f", &a.Lat, &a.Lng, &b.Lat, &b.Lng); err != nil {
				fmt.Printf("%s\t%q\n", line, err)

				return
			}

			if err := a.Validate(); err != nil {
				fmt.Printf("%s\t%q\n", line, err)

				return
			}

			if err := b.Validate(); err != nil {
				fmt.Printf("%s\t%q\n", line, err)

				return
			}

			fmt.Printf("%s\t%.1f\n", line, a.HaversineDistance(b))
		})
	},
}

var debugRes int

var debugCellCmd = &cobra.Command{
	Use:   "cell [LAT,LNG]",
	Short: "H3 cell containing a point",
	Long: `Prints the H3 cell that contains each point as a lowercase hex id, either
from the argument or one point per stdin line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if debugRes < spatial.H3MinRes || debugRes > spatial.H3MaxRes {
			return fmt.Errorf("res must be between %d and %d", spatial.H3MinRes, spatial.H3MaxRes)
		}

		return scanLines("Enter one point per line, LAT,LNG…", args, func(line string) {
			var p spatial.Point
			if _, err := fmt.Sscanf(line, "%f,%f", &p.Lat, &p.Lng); err != nil {
				fmt.Printf("%s\t%q\n", line, err)

				return
			}

			cell, err := p.H3Cell(debugRes)
			if err != nil {
				fmt.Printf("%s\t%q\n", line, err)

				return
			}

			fmt.Printf("%s\t%s\n", line, spatial.H3CellString(cell))
		})
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugDistanceCmd)
	debugCmd.AddCommand(debugCellCmd)
	debugCellCmd.Flags().IntVar(
		&debugRes,
		"res",
		spatial.H3MaxRes,
		"H3 resolution of the reported cell",
	)
}
