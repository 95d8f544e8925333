// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest downloads the source incident dataset, cleans it and
// stores it in DuckDB. Everything geographic that reaches the cluster
// package goes through here first, so the cleaning rules in this
// package are what keep the clustering input valid.
package ingest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jcodagnone/hotspot/spatial"
)

// Source describes one incident feed: where to download it, which
// timezone its timestamps are written in, and the bounding box that
// separates plausible coordinates from geocoding garbage.
type Source struct {
	ID     string
	Name   string
	URL    string
	TZ     *time.Location
	Bounds spatial.Bounds
}

// VirginiaBeachBounds covers the city's land area with a little
// margin. Records outside it are almost always geocoding failures,
// most commonly (0, 0).
var VirginiaBeachBounds = spatial.Bounds{
	MinLat: 36.55,
	MaxLat: 37.00,
	MinLng: -76.30,
	MaxLng: -75.85,
}

// DefaultSource returns the built-in Virginia Beach Police
// incident-report feed.
func DefaultSource() (Source, error) {
	tz, err := time.LoadLocation("America/New_York")
	if err != nil {
		return Source{}, fmt.Errorf("loading source timezone: %w", err)
	}

	return Source{
		ID:     "vbpd",
		Name:   "Virginia Beach Police Incident Reports",
		URL:    "https://data.virginiabeach.gov/api/views/police-incident-reports/rows.csv?accessType=DOWNLOAD",
		TZ:     tz,
		Bounds: VirginiaBeachBounds,
	}, nil
}

// Validate checks that the source can actually be fetched and parsed.
func (s *Source) Validate() error {
	if s.ID == "" {
		return errors.New("source id can't be empty")
	}

	// The id names the snapshot subdirectory.
	if strings.ContainsAny(s.ID, `/\`) {
		return fmt.Errorf("source id can't contain path separators (got: %q)", s.ID)
	}

	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("parsing source URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("source URL must be http or https (got: %q)", s.URL)
	}

	if s.TZ == nil {
		return errors.New("source timezone can't be nil")
	}

	if err := s.Bounds.Validate(); err != nil {
		return fmt.Errorf("source bounds: %w", err)
	}

	return nil
}
