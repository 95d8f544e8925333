// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jcodagnone/hotspot/spatial"
	"github.com/jcodagnone/hotspot/utils/textutils"
)

// Metrics tracks what the parser did with each row of a snapshot.
type Metrics struct {
	Rows          int
	Kept          int
	MissingFields int
	BadTimestamp  int
	BadCoordinate int
	OutOfBounds   int
}

// Rejected returns the number of rows that didn't survive cleaning.
func (m *Metrics) Rejected() int {
	return m.MissingFields + m.BadTimestamp + m.BadCoordinate + m.OutOfBounds
}

// Merge combines the metrics from another parse into this one.
func (m *Metrics) Merge(other *Metrics) *Metrics {
	if other == nil {
		return m
	}

	m.Rows += other.Rows
	m.Kept += other.Kept
	m.MissingFields += other.MissingFields
	m.BadTimestamp += other.BadTimestamp
	m.BadCoordinate += other.BadCoordinate
	m.OutOfBounds += other.OutOfBounds

	return m
}

// Parser turns a raw CSV export into cleaned incidents. Rows missing
// required fields, with unparseable timestamps or coordinates, or
// falling outside the source bounds are dropped and counted; they must
// never reach the repository.
type Parser struct {
	source Source
}

// NewParser creates a parser for the given source.
func NewParser(source Source) (*Parser, error) {
	if err := source.Validate(); err != nil {
		return nil, fmt.Errorf("validating source: %w", err)
	}

	return &Parser{source: source}, nil
}

// Timestamp formats observed across export generations, tried in order.
var timestampFormats = []string{
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"2006-01-02",
}

func (p *Parser) parseTimestamp(raw string) (time.Time, error) {
	for _, format := range timestampFormats {
		if t, err := time.ParseInLocation(format, raw, p.source.TZ); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", raw)
}

// splitCoordinates extracts latitude and longitude from a combined
// coordinate column. Exports have used "(lat, lng)", plain "lat, lng"
// and WKT "POINT (lng lat)" over the years, sometimes with the street
// address prefixed.
func splitCoordinates(s string) (float64, float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, errors.New("empty coordinates")
	}

	if strings.HasPrefix(strings.ToLower(s), "point") {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			return 0, 0, fmt.Errorf("malformed WKT point: %q", s)
		}

		inner := s[open+1:]
		if end := strings.IndexByte(inner, ')'); end >= 0 {
			inner = inner[:end]
		}

		fields := strings.Fields(inner)
		if len(fields) != 2 {
			return 0, 0, fmt.Errorf("malformed WKT point: %q", s)
		}

		// WKT order is longitude first
		lng, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("longitude: %w", err)
		}

		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("latitude: %w", err)
		}

		return lat, lng, nil
	}

	// Socrata keeps the pair in the last parenthesized group, at times
	// behind the street address.
	if open := strings.LastIndexByte(s, '('); open >= 0 {
		s = s[open+1:]
		if end := strings.IndexByte(s, ')'); end >= 0 {
			s = s[:end]
		}
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected two comma separated values (got: %q)", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}

	return lat, lng, nil
}

// requireColumns verifies the header carries a timestamp and some form
// of coordinates.
func requireColumns(cols map[column]int) error {
	if _, ok := cols[colOccurredAt]; !ok {
		return errors.New("recognizing header: no date column")
	}

	_, hasLat := cols[colLatitude]
	_, hasLng := cols[colLongitude]
	_, hasLocation := cols[colLocation]

	if !(hasLat && hasLng) && !hasLocation {
		return errors.New("recognizing header: no coordinate columns")
	}

	return nil
}

// Parse reads a whole CSV export and returns the incidents that
// survived cleaning, preserving file order.
func (p *Parser) Parse(r io.Reader) ([]Incident, *Metrics, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make(map[column]int, len(header))

	for i, name := range header {
		c := columnFromHeader(name)
		if c == colUnknown {
			continue
		}

		// First occurrence wins on duplicated headers
		if _, ok := cols[c]; !ok {
			cols[c] = i
		}
	}

	if err := requireColumns(cols); err != nil {
		return nil, nil, err
	}

	metrics := &Metrics{}

	var incidents []Incident

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, nil, fmt.Errorf("reading CSV row %d: %w", metrics.Rows+2, err)
		}

		metrics.Rows++

		if incident, ok := p.parseRow(cols, rec, metrics); ok {
			incidents = append(incidents, incident)
			metrics.Kept++
		}
	}

	return incidents, metrics, nil
}

func (p *Parser) parseRow(cols map[column]int, rec []string, metrics *Metrics) (Incident, bool) {
	field := func(c column) string {
		idx, ok := cols[c]
		if !ok || idx >= len(rec) {
			return ""
		}

		return textutils.CollapseSpaces(rec[idx])
	}

	occurredRaw := field(colOccurredAt)
	if occurredRaw == "" {
		metrics.MissingFields++

		return Incident{}, false
	}

	occurredAt, err := p.parseTimestamp(occurredRaw)
	if err != nil {
		metrics.BadTimestamp++

		return Incident{}, false
	}

	var lat, lng float64

	_, hasLat := cols[colLatitude]
	if _, hasLng := cols[colLongitude]; hasLat && hasLng {
		latRaw, lngRaw := field(colLatitude), field(colLongitude)
		if latRaw == "" || lngRaw == "" {
			metrics.MissingFields++

			return Incident{}, false
		}

		if lat, err = strconv.ParseFloat(latRaw, 64); err != nil {
			metrics.BadCoordinate++

			return Incident{}, false
		}

		if lng, err = strconv.ParseFloat(lngRaw, 64); err != nil {
			metrics.BadCoordinate++

			return Incident{}, false
		}
	} else {
		raw := field(colLocation)
		if raw == "" {
			metrics.MissingFields++

			return Incident{}, false
		}

		if lat, lng, err = splitCoordinates(raw); err != nil {
			metrics.BadCoordinate++

			return Incident{}, false
		}
	}

	point := spatial.Point{Lat: lat, Lng: lng}
	if err := point.Validate(); err != nil {
		metrics.BadCoordinate++

		return Incident{}, false
	}

	if !p.source.Bounds.Contains(point) {
		metrics.OutOfBounds++

		return Incident{}, false
	}

	description := field(colDescription)

	incident := Incident{
		Number:      field(colNumber),
		OccurredAt:  occurredAt,
		Description: description,
		Category:    Categorize(description),
		Address:     field(colAddress),
		Zone:        field(colZone),
		Point:       point,
	}
	incident.Year, incident.Quarter = quarterOf(occurredAt)

	if err := incident.DeriveCells(); err != nil {
		metrics.BadCoordinate++

		return Incident{}, false
	}

	return incident, true
}
