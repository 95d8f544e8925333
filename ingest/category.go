// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"strings"

	"github.com/jcodagnone/hotspot/utils/textutils"
)

// Canonical incident categories.
const (
	CategoryVehicleTheft = "vehicle theft"
	CategoryRobbery      = "robbery"
	CategoryAssault      = "assault"
	CategoryBurglary     = "burglary"
	CategoryLarceny      = "larceny"
	CategoryVandalism    = "vandalism"
	CategoryDrugs        = "drugs"
	CategoryFraud        = "fraud"
	CategoryOther        = "other"
)

// categoryRules are checked in order; the first keyword hit wins.
// Vehicle theft must run before larceny so "MOTOR VEHICLE THEFT"
// doesn't fall into the generic theft bucket.
var categoryRules = []struct {
	category string
	keywords []string
}{
	{CategoryVehicleTheft, []string{"motor vehicle theft", "auto theft", "stolen vehicle"}},
	{CategoryRobbery, []string{"robbery", "carjacking"}},
	{CategoryAssault, []string{"assault", "malicious wounding"}},
	{CategoryBurglary, []string{"burglary", "breaking and entering", "b&e"}},
	{CategoryLarceny, []string{"larceny", "shoplifting", "theft"}},
	{CategoryVandalism, []string{"vandalism", "destruction of property", "graffiti"}},
	{CategoryDrugs, []string{"narcotic", "drug"}},
	{CategoryFraud, []string{"fraud", "forgery", "embezzlement", "counterfeit"}},
}

// Categorize maps a raw offense description onto the canonical
// category set. Unrecognized descriptions land in CategoryOther.
func Categorize(description string) string {
	folded := textutils.LowerASCIIFolding(description)

	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(folded, keyword) {
				return rule.category
			}
		}
	}

	return CategoryOther
}
