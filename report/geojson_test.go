// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestWriteCentroidsGeoJSON(t *testing.T) {
	r := mustBuild(t)
	r.Labels = map[int]string{1: "Oceanfront"}

	var buf bytes.Buffer
	if err := WriteCentroidsGeoJSON(&buf, r); err != nil {
		t.Fatalf("WriteCentroidsGeoJSON: %s", err)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("Failed to parse GeoJSON: %s", err)
	}

	if expected, actual := "FeatureCollection", fc.Type; expected != actual {
		t.Errorf("Type = %q, want %q", actual, expected)
	}

	if expected, actual := 2, len(fc.Features); expected != actual {
		t.Fatalf("len(Features) = %d, want %d", actual, expected)
	}

	first := fc.Features[0]

	if expected, actual := "Point", first.Geometry.Type; expected != actual {
		t.Errorf("geometry type = %q, want %q", actual, expected)
	}

	// GeoJSON is longitude first.
	expected := []float64{-76.1005, 36.8005}
	if diff := cmp.Diff(expected, first.Geometry.Coordinates, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("coordinates mismatch (-expected +got):\n%s", diff)
	}

	if expected, actual := float64(1), first.Properties["cluster_id"]; expected != actual {
		t.Errorf("cluster_id = %v, want %v", actual, expected)
	}

	if expected, actual := float64(2), first.Properties["size"]; expected != actual {
		t.Errorf("size = %v, want %v", actual, expected)
	}

	if expected, actual := "Oceanfront", first.Properties["address"]; expected != actual {
		t.Errorf("address = %v, want %v", actual, expected)
	}

	if _, ok := fc.Features[1].Properties["address"]; ok {
		t.Error("unlabeled cluster should have no address property")
	}
}
