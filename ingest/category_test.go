// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		description string
		expected    string
	}{
		{"MOTOR VEHICLE THEFT", CategoryVehicleTheft},
		{"LARCENY, MOTOR VEHICLE THEFT <$200", CategoryVehicleTheft},
		{"ROBBERY-CARJACKING", CategoryRobbery},
		{"SIMPLE ASSAULT", CategoryAssault},
		{"ASSAULT, AGGRAVATED", CategoryAssault},
		{"BURGLARY/B&E - RESIDENTIAL", CategoryBurglary},
		{"LARCENY, FROM BUILDING", CategoryLarceny},
		{"SHOPLIFTING <$200", CategoryLarceny},
		{"DESTRUCTION OF PROPERTY", CategoryVandalism},
		{"NARCOTICS VIOLATION", CategoryDrugs},
		{"FRAUD-CREDIT CARD", CategoryFraud},
		{"SUSPICIOUS PERSON", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		if got := Categorize(tt.description); got != tt.expected {
			t.Errorf("Categorize(%q) = %q, want %q", tt.description, got, tt.expected)
		}
	}
}
