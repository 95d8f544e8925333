// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"database/sql"
	"fmt"

	"github.com/jcodagnone/hotspot/spatial"
)

// Partition identifies one clustering batch: a calendar quarter of a
// single year, plus how many incidents it holds.
type Partition struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
	Count   int `json:"count"`
}

// Label renders the partition the way reports name it, e.g. "2019q3".
func (p Partition) Label() string {
	return fmt.Sprintf("%dq%d", p.Year, p.Quarter)
}

// CellCount is the number of incidents inside one H3 cell.
type CellCount struct {
	Cell  string `json:"cell"`
	Count int    `json:"count"`
}

// IncidentRepository handles persistence of cleaned incidents.
type IncidentRepository interface {
	// CreateSchema creates the incidents table
	CreateSchema() error

	// ReplaceSource deletes every incident loaded from one source
	ReplaceSource(sourceID string) error

	// BulkInsertIncidents inserts a slice of incidents inside one transaction
	BulkInsertIncidents(sourceID string, incidents []Incident) error

	// CountIncidents returns the total number of stored incidents
	CountIncidents() (int, error)

	// Partitions lists the (year, quarter) pairs with their counts, ascending
	Partitions() ([]Partition, error)

	// PartitionPoints returns the clustering input for one partition:
	// points plus their incident numbers, in reproducible order
	PartitionPoints(year, quarter int) ([]spatial.Point, []string, error)

	// CellCounts aggregates incidents per H3 cell at the given resolution
	CellCounts(year, quarter, res int) ([]CellCount, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlIncidentRepository struct {
	db *sql.DB
}

// NewIncidentRepository creates a repository backed by DuckDB.
func NewIncidentRepository(db *sql.DB) IncidentRepository {
	return &sqlIncidentRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlIncidentRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlIncidentRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS incidents_seq START 1;

		CREATE TABLE IF NOT EXISTS incidents (
			id INTEGER PRIMARY KEY DEFAULT nextval('incidents_seq'),
			source_id VARCHAR NOT NULL,
			number VARCHAR,
			occurred_at TIMESTAMP NOT NULL,
			year SMALLINT NOT NULL,
			quarter TINYINT NOT NULL,
			description VARCHAR,
			category VARCHAR NOT NULL,
			address VARCHAR,
			zone VARCHAR,
			point POINT_2D NOT NULL,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	return err
}

func (r *sqlIncidentRepository) ReplaceSource(sourceID string) error {
	_, err := r.db.Exec(`DELETE FROM incidents WHERE source_id = ?`, sourceID)

	return err
}

func (r *sqlIncidentRepository) BulkInsertIncidents(sourceID string, incidents []Incident) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO incidents(
			source_id,
			number,
			occurred_at,
			year,
			quarter,
			description,
			category,
			address,
			zone,
			point,
			h3_res6,
			h3_res7,
			h3_res8
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ST_Point(?, ?), ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr // Prioritize the rollback error if it also failed
		}

		return err
	}
	defer stmt.Close()

	nullable := func(s string) *string {
		if len(s) == 0 {
			return nil
		}

		return &s
	}

	for _, incident := range incidents {
		_, err := stmt.Exec(
			sourceID,
			nullable(incident.Number),
			incident.OccurredAt,
			incident.Year,
			incident.Quarter,
			nullable(incident.Description),
			incident.Category,
			nullable(incident.Address),
			nullable(incident.Zone),
			incident.Point.Lng,
			incident.Point.Lat,
			incident.H3Res6,
			incident.H3Res7,
			incident.H3Res8,
		)
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr // Prioritize the rollback error if it also failed
			}

			return err
		}
	}

	return tx.Commit()
}

func (r *sqlIncidentRepository) CountIncidents() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM incidents",
	).Scan(&count)

	return count, err
}

func (r *sqlIncidentRepository) Partitions() ([]Partition, error) {
	rows, err := r.db.Query(`
		SELECT year, quarter, COUNT(*)
		FROM incidents
		GROUP BY year, quarter
		ORDER BY year, quarter
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partitions []Partition

	for rows.Next() {
		var p Partition
		if err := rows.Scan(&p.Year, &p.Quarter, &p.Count); err != nil {
			return nil, err
		}

		partitions = append(partitions, p)
	}

	return partitions, rows.Err()
}

// PartitionPoints orders by occurrence time, then number, then the
// insert id: clustering input order must be reproducible run to run.
func (r *sqlIncidentRepository) PartitionPoints(year, quarter int) ([]spatial.Point, []string, error) {
	rows, err := r.db.Query(`
		SELECT point, COALESCE(number, CAST(id AS VARCHAR))
		FROM incidents
		WHERE year = ? AND quarter = ?
		ORDER BY occurred_at, number, id
	`, year, quarter)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var points []spatial.Point

	var numbers []string

	for rows.Next() {
		var point spatial.Point

		var number string

		if err := rows.Scan(&point, &number); err != nil {
			return nil, nil, err
		}

		points = append(points, point)
		numbers = append(numbers, number)
	}

	return points, numbers, rows.Err()
}

func (r *sqlIncidentRepository) CellCounts(year, quarter, res int) ([]CellCount, error) {
	var cellColumn string

	switch res {
	case 6:
		cellColumn = "h3_res6"
	case 7:
		cellColumn = "h3_res7"
	case 8:
		cellColumn = "h3_res8"
	default:
		return nil, fmt.Errorf("unsupported h3 resolution %d (have 6, 7 and 8)", res)
	}

	rows, err := r.db.Query(`
		SELECT `+cellColumn+`, COUNT(*)
		FROM incidents
		WHERE year = ? AND quarter = ? AND `+cellColumn+` IS NOT NULL
		GROUP BY 1
		ORDER BY 2 DESC, 1
	`, year, quarter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CellCount

	for rows.Next() {
		var cell int64

		var count int

		if err := rows.Scan(&cell, &count); err != nil {
			return nil, err
		}

		counts = append(counts, CellCount{
			Cell:  spatial.H3CellString(cell),
			Count: count,
		})
	}

	return counts, rows.Err()
}
