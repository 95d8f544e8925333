// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jcodagnone/hotspot/spatial"
)

func setupTestDB(t *testing.T) (*sql.DB, IncidentRepository) {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	repo := NewIncidentRepository(db)
	if err := repo.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db, repo
}

func testIncident(t *testing.T, number string, occurred time.Time, point spatial.Point) Incident {
	t.Helper()

	incident := Incident{
		Number:      number,
		OccurredAt:  occurred,
		Description: "SIMPLE ASSAULT",
		Category:    CategoryAssault,
		Address:     "300 BLOCK OF PACIFIC AVE",
		Zone:        "2nd Precinct",
		Point:       point,
	}
	incident.Year, incident.Quarter = quarterOf(occurred)

	if err := incident.DeriveCells(); err != nil {
		t.Fatalf("DeriveCells() error = %v", err)
	}

	return incident
}

func TestCreateSchema(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	// Verify table exists
	var tableName string

	err := db.QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = 'incidents'").Scan(&tableName)
	if err != nil {
		t.Fatalf("Table not created: %v", err)
	}

	if tableName != "incidents" {
		t.Errorf("Expected table 'incidents', got '%s'", tableName)
	}
}

func TestBulkInsertAndCount(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	occurred := time.Date(2019, time.May, 10, 22, 30, 0, 0, time.UTC)
	incidents := []Incident{
		testIncident(t, "2019-012345", occurred, spatial.Point{Lat: 36.8, Lng: -76.1}),
		testIncident(t, "2019-012346", occurred.Add(time.Hour), spatial.Point{Lat: 36.81, Lng: -76.11}),
	}

	if err := repo.BulkInsertIncidents("vbpd", incidents); err != nil {
		t.Fatalf("BulkInsertIncidents() error = %v", err)
	}

	count, err := repo.CountIncidents()
	if err != nil {
		t.Fatalf("CountIncidents() error = %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 incidents, got %d", count)
	}
}

func TestPartitions(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	point := spatial.Point{Lat: 36.8, Lng: -76.1}
	incidents := []Incident{
		testIncident(t, "a", time.Date(2020, time.January, 5, 0, 0, 0, 0, time.UTC), point),
		testIncident(t, "b", time.Date(2019, time.August, 1, 0, 0, 0, 0, time.UTC), point),
		testIncident(t, "c", time.Date(2019, time.February, 10, 0, 0, 0, 0, time.UTC), point),
		testIncident(t, "d", time.Date(2019, time.March, 2, 0, 0, 0, 0, time.UTC), point),
	}

	if err := repo.BulkInsertIncidents("vbpd", incidents); err != nil {
		t.Fatalf("BulkInsertIncidents() error = %v", err)
	}

	partitions, err := repo.Partitions()
	if err != nil {
		t.Fatalf("Partitions() error = %v", err)
	}

	expected := []Partition{
		{Year: 2019, Quarter: 1, Count: 2},
		{Year: 2019, Quarter: 3, Count: 1},
		{Year: 2020, Quarter: 1, Count: 1},
	}

	if len(partitions) != len(expected) {
		t.Fatalf("Expected %d partitions, got %d: %+v", len(expected), len(partitions), partitions)
	}

	for i, want := range expected {
		if partitions[i] != want {
			t.Errorf("partition %d = %+v, want %+v", i, partitions[i], want)
		}
	}

	if label := partitions[1].Label(); label != "2019q3" {
		t.Errorf("Label() = %q, want %q", label, "2019q3")
	}
}

func TestPartitionPointsOrder(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	early := time.Date(2019, time.April, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2019, time.May, 10, 22, 30, 0, 0, time.UTC)

	// Inserted out of order on purpose
	incidents := []Incident{
		testIncident(t, "B-3", late, spatial.Point{Lat: 36.80, Lng: -76.10}),
		testIncident(t, "A-1", early, spatial.Point{Lat: 36.70, Lng: -76.05}),
		testIncident(t, "A-2", late, spatial.Point{Lat: 36.75, Lng: -76.00}),
	}

	if err := repo.BulkInsertIncidents("vbpd", incidents); err != nil {
		t.Fatalf("BulkInsertIncidents() error = %v", err)
	}

	points, numbers, err := repo.PartitionPoints(2019, 2)
	if err != nil {
		t.Fatalf("PartitionPoints() error = %v", err)
	}

	if len(points) != 3 || len(numbers) != 3 {
		t.Fatalf("Expected 3 points and 3 numbers, got %d and %d", len(points), len(numbers))
	}

	wantNumbers := []string{"A-1", "A-2", "B-3"}
	wantLats := []float64{36.70, 36.75, 36.80}

	for i := range wantNumbers {
		if numbers[i] != wantNumbers[i] {
			t.Errorf("numbers[%d] = %q, want %q", i, numbers[i], wantNumbers[i])
		}

		if points[i].Lat != wantLats[i] {
			t.Errorf("points[%d].Lat = %f, want %f", i, points[i].Lat, wantLats[i])
		}
	}
}

func TestPartitionPointsNumberFallback(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	occurred := time.Date(2019, time.May, 10, 0, 0, 0, 0, time.UTC)
	incident := testIncident(t, "", occurred, spatial.Point{Lat: 36.8, Lng: -76.1})

	if err := repo.BulkInsertIncidents("vbpd", []Incident{incident}); err != nil {
		t.Fatalf("BulkInsertIncidents() error = %v", err)
	}

	_, numbers, err := repo.PartitionPoints(2019, 2)
	if err != nil {
		t.Fatalf("PartitionPoints() error = %v", err)
	}

	if len(numbers) != 1 || numbers[0] == "" {
		t.Errorf("Expected the row id as fallback number, got %q", numbers)
	}
}

func TestCellCounts(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	occurred := time.Date(2019, time.May, 10, 0, 0, 0, 0, time.UTC)
	near := spatial.Point{Lat: 36.8, Lng: -76.1}
	far := spatial.Point{Lat: 36.9, Lng: -76.2}

	incidents := []Incident{
		testIncident(t, "a", occurred, near),
		testIncident(t, "b", occurred, near),
		testIncident(t, "c", occurred, far),
	}

	if err := repo.BulkInsertIncidents("vbpd", incidents); err != nil {
		t.Fatalf("BulkInsertIncidents() error = %v", err)
	}

	for res := 6; res <= 8; res++ {
		counts, err := repo.CellCounts(2019, 2, res)
		if err != nil {
			t.Fatalf("CellCounts(res %d) error = %v", res, err)
		}

		if len(counts) != 2 {
			t.Fatalf("res %d: expected 2 cells, got %d: %+v", res, len(counts), counts)
		}

		// Densest cell first
		if counts[0].Count != 2 || counts[1].Count != 1 {
			t.Errorf("res %d: counts = %+v, want 2 then 1", res, counts)
		}

		if counts[0].Cell == "" || counts[0].Cell == counts[1].Cell {
			t.Errorf("res %d: cells not distinct: %+v", res, counts)
		}
	}

	if _, err := repo.CellCounts(2019, 2, 5); err == nil || !strings.Contains(err.Error(), "resolution") {
		t.Errorf("CellCounts(res 5) = %v, want unsupported resolution error", err)
	}
}

func TestReplaceSource(t *testing.T) {
	db, repo := setupTestDB(t)
	defer db.Close()

	occurred := time.Date(2019, time.May, 10, 0, 0, 0, 0, time.UTC)
	point := spatial.Point{Lat: 36.8, Lng: -76.1}

	if err := repo.BulkInsertIncidents("vbpd", []Incident{
		testIncident(t, "a", occurred, point),
		testIncident(t, "b", occurred, point),
	}); err != nil {
		t.Fatalf("BulkInsertIncidents() error = %v", err)
	}

	if err := repo.BulkInsertIncidents("other", []Incident{
		testIncident(t, "c", occurred, point),
	}); err != nil {
		t.Fatalf("BulkInsertIncidents() error = %v", err)
	}

	if err := repo.ReplaceSource("vbpd"); err != nil {
		t.Fatalf("ReplaceSource() error = %v", err)
	}

	count, err := repo.CountIncidents()
	if err != nil {
		t.Fatalf("CountIncidents() error = %v", err)
	}

	if count != 1 {
		t.Errorf("Expected 1 incident to survive, got %d", count)
	}
}
