// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"fmt"
	"time"

	"github.com/jcodagnone/hotspot/spatial"
	"github.com/jcodagnone/hotspot/utils/textutils"
)

// Incident is one cleaned police report row.
type Incident struct {
	Number      string
	OccurredAt  time.Time
	Year        int
	Quarter     int
	Description string
	Category    string
	Address     string
	Zone        string
	Point       spatial.Point
	H3Res6      int64
	H3Res7      int64
	H3Res8      int64
}

// DeriveCells fills the H3 index columns from the incident point.
func (i *Incident) DeriveCells() error {
	for res := spatial.H3MinRes; res <= spatial.H3MaxRes; res++ {
		cell, err := i.Point.H3Cell(res)
		if err != nil {
			return fmt.Errorf("deriving h3 cell at res %d: %w", res, err)
		}

		switch res {
		case 6:
			i.H3Res6 = cell
		case 7:
			i.H3Res7 = cell
		case 8:
			i.H3Res8 = cell
		}
	}

	return nil
}

// quarterOf maps an occurrence time to its calendar year and quarter
// (1 through 4).
func quarterOf(t time.Time) (year, quarter int) {
	return t.Year(), (int(t.Month())-1)/3 + 1
}

// column identifies a CSV field the parser knows how to map.
type column int

const (
	colUnknown column = iota
	colNumber
	colOccurredAt
	colDescription
	colAddress
	colZone
	colLocation
	colLatitude
	colLongitude
)

// columnFromHeader maps an export header onto a known column. The city
// has renamed columns across export generations (including the
// misspelled "Date Occured" era), so matching is folded and
// space-collapsed.
func columnFromHeader(name string) column {
	switch textutils.CollapseSpaces(textutils.LowerASCIIFolding(name)) {
	case "police case number", "case number", "incident number", "report number":
		return colNumber
	case "date occurred", "date occured", "incident date/time", "entry date/time", "date/time":
		return colOccurredAt
	case "offense description", "description", "call type", "offense":
		return colDescription
	case "block address", "address", "location name":
		return colAddress
	case "zone id", "zone", "precinct", "subdivision":
		return colZone
	case "location", "location 1":
		return colLocation
	case "latitude", "lat":
		return colLatitude
	case "longitude", "long", "lng", "lon":
		return colLongitude
	}

	return colUnknown
}
