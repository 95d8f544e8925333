// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testSource(t *testing.T) Source {
	t.Helper()

	return Source{
		ID:     "test",
		Name:   "Test PD",
		URL:    "https://example.com/rows.csv",
		TZ:     time.UTC,
		Bounds: VirginiaBeachBounds,
	}
}

func mustParser(t *testing.T) *Parser {
	t.Helper()

	p, err := NewParser(testSource(t))
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}

	return p
}

func TestSplitCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"parenthesized", "(36.8, -76.1)", 36.8, -76.1, false},
		{"plain pair", "36.8, -76.1", 36.8, -76.1, false},
		{"wkt longitude first", "POINT (-76.1 36.8)", 36.8, -76.1, false},
		{"address prefixed", "300 PACIFIC AVE (36.8, -76.1)", 36.8, -76.1, false},
		{"empty", "", 0, 0, true},
		{"single value", "(36.8)", 0, 0, true},
		{"wkt missing longitude", "POINT (-76.1)", 0, 0, true},
		{"wkt no parens", "POINT", 0, 0, true},
		{"garbage", "north, east", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, err := splitCoordinates(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("splitCoordinates(%q) expected an error, got (%f, %f)", tt.input, lat, lng)
				}

				return
			}

			if err != nil {
				t.Fatalf("splitCoordinates(%q) error = %v", tt.input, err)
			}

			if lat != tt.lat || lng != tt.lng {
				t.Errorf("splitCoordinates(%q) = (%f, %f), want (%f, %f)", tt.input, lat, lng, tt.lat, tt.lng)
			}
		})
	}
}

func TestParseTimestampFormats(t *testing.T) {
	p := mustParser(t)

	tests := []struct {
		input    string
		expected time.Time
	}{
		{"4/1/2019 08:00", time.Date(2019, time.April, 1, 8, 0, 0, 0, time.UTC)},
		{"4/1/2019 20:15:30", time.Date(2019, time.April, 1, 20, 15, 30, 0, time.UTC)},
		{"4/1/2019 8:05:00 PM", time.Date(2019, time.April, 1, 20, 5, 0, 0, time.UTC)},
		{"4/1/2019 8:05 PM", time.Date(2019, time.April, 1, 20, 5, 0, 0, time.UTC)},
		{"2019-04-01 08:00:00", time.Date(2019, time.April, 1, 8, 0, 0, 0, time.UTC)},
		{"2019-04-01T08:00:00", time.Date(2019, time.April, 1, 8, 0, 0, 0, time.UTC)},
		{"4/1/2019", time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{"2019-04-01", time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := p.parseTimestamp(tt.input)
		if err != nil {
			t.Errorf("parseTimestamp(%q) error = %v", tt.input, err)

			continue
		}

		if !got.Equal(tt.expected) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}

	if _, err := p.parseTimestamp("04-01-2019"); err == nil {
		t.Error("Expected an error for an unrecognized format")
	}
}

func TestParse(t *testing.T) {
	p := mustParser(t)

	input := `Police Case Number,Date Occurred,Offense Description,Block Address,Zone ID,Location 1
2019-000001,4/1/2019 08:00,SIMPLE ASSAULT,300 BLOCK OF PACIFIC AVE,2A,"(36.8000, -76.1000)"
2019-000002,5/10/2019 22:30,"LARCENY, FROM BUILDING",200 BLOCK OF ATLANTIC AVE,2B,"(36.8100, -76.1100)"
`

	incidents, metrics, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if expected, actual := 2, len(incidents); expected != actual {
		t.Fatalf("Expected %d incidents, got %d", expected, actual)
	}

	wantMetrics := &Metrics{Rows: 2, Kept: 2}
	if diff := cmp.Diff(wantMetrics, metrics); diff != "" {
		t.Errorf("metrics mismatch (-expected +got):\n%s", diff)
	}

	first := incidents[0]

	if first.Number != "2019-000001" {
		t.Errorf("Number = %q, want %q", first.Number, "2019-000001")
	}

	if want := time.Date(2019, time.April, 1, 8, 0, 0, 0, time.UTC); !first.OccurredAt.Equal(want) {
		t.Errorf("OccurredAt = %v, want %v", first.OccurredAt, want)
	}

	if first.Year != 2019 || first.Quarter != 2 {
		t.Errorf("Partition = %dq%d, want 2019q2", first.Year, first.Quarter)
	}

	if first.Category != CategoryAssault {
		t.Errorf("Category = %q, want %q", first.Category, CategoryAssault)
	}

	if first.Point.Lat != 36.8 || first.Point.Lng != -76.1 {
		t.Errorf("Point = %+v, want (36.8, -76.1)", first.Point)
	}

	if first.H3Res6 == 0 || first.H3Res7 == 0 || first.H3Res8 == 0 {
		t.Errorf("Expected derived cells, got %d/%d/%d", first.H3Res6, first.H3Res7, first.H3Res8)
	}

	if second := incidents[1]; second.Category != CategoryLarceny {
		t.Errorf("Category = %q, want %q", second.Category, CategoryLarceny)
	}
}

func TestParseSeparateCoordinateColumns(t *testing.T) {
	p := mustParser(t)

	input := `Date Occured,Description,Latitude,Longitude
4/1/2019 08:00,VANDALISM,36.8,-76.1
`

	incidents, metrics, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(incidents) != 1 || metrics.Kept != 1 {
		t.Fatalf("Expected 1 incident, got %d (metrics %+v)", len(incidents), metrics)
	}

	if p := incidents[0].Point; p.Lat != 36.8 || p.Lng != -76.1 {
		t.Errorf("Point = %+v, want (36.8, -76.1)", p)
	}
}

func TestParseRejectsDirtyRows(t *testing.T) {
	p := mustParser(t)

	input := `Case Number,Date Occurred,Description,Location 1
good,4/1/2019 08:00,ASSAULT,"(36.8, -76.1)"
no-date,,ASSAULT,"(36.8, -76.1)"
bad-date,yesterday evening,ASSAULT,"(36.8, -76.1)"
bad-coords,4/1/2019 08:00,ASSAULT,"(garbage)"
over-the-pole,4/1/2019 08:00,ASSAULT,"(95.0, -76.1)"
null-island,4/1/2019 08:00,ASSAULT,"(0.0, 0.0)"
swapped,4/1/2019 08:00,ASSAULT,"(-76.1, 36.8)"
`

	incidents, metrics, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if expected, actual := 1, len(incidents); expected != actual {
		t.Fatalf("Expected %d surviving incident, got %d", expected, actual)
	}

	if incidents[0].Number != "good" {
		t.Errorf("Survivor = %q, want %q", incidents[0].Number, "good")
	}

	wantMetrics := &Metrics{
		Rows:          7,
		Kept:          1,
		MissingFields: 1,
		BadTimestamp:  1,
		BadCoordinate: 2,
		OutOfBounds:   2,
	}
	if diff := cmp.Diff(wantMetrics, metrics); diff != "" {
		t.Errorf("metrics mismatch (-expected +got):\n%s", diff)
	}

	if expected, actual := 6, metrics.Rejected(); expected != actual {
		t.Errorf("Rejected() = %d, want %d", actual, expected)
	}
}

func TestParseRequiresColumns(t *testing.T) {
	p := mustParser(t)

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{"no date", "Case Number,Location 1\n", "no date column"},
		{"no coordinates", "Case Number,Date Occurred\n", "no coordinate columns"},
		{"latitude without longitude", "Date Occurred,Latitude\n", "no coordinate columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Parse(strings.NewReader(tt.header))
			if err == nil || !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("Parse() error = %v, want %q", err, tt.detail)
			}
		})
	}
}

func TestParseStructuralError(t *testing.T) {
	p := mustParser(t)

	input := "Date Occurred,Location 1\n4/1/2019,\"(36.8, -76.1)\"\nbroken,\"unterminated\n"

	_, _, err := p.Parse(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "reading CSV row") {
		t.Errorf("Parse() error = %v, want a row-level read error", err)
	}
}

func TestMetricsMerge(t *testing.T) {
	m := &Metrics{Rows: 10, Kept: 8, BadTimestamp: 2}
	m.Merge(&Metrics{Rows: 5, Kept: 3, BadCoordinate: 1, OutOfBounds: 1})

	want := &Metrics{Rows: 15, Kept: 11, BadTimestamp: 2, BadCoordinate: 1, OutOfBounds: 1}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("metrics mismatch (-expected +got):\n%s", diff)
	}

	if m.Merge(nil) != m {
		t.Error("Merge(nil) should return the receiver untouched")
	}
}
