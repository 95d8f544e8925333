// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"io"
)

// GeoJSON output, RFC 7946. Coordinates are [longitude, latitude].

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// CentroidFeatureCollection builds a GeoJSON FeatureCollection with one
// point feature per centroid. Labels are attached as the "address"
// property when present.
func CentroidFeatureCollection(r *PartitionResult) *FeatureCollection {
	fc := &FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(r.Centroids)),
	}

	for _, c := range r.Centroids {
		props := map[string]interface{}{
			"cluster_id": c.ClusterID,
			"size":       c.Size,
		}

		if label, ok := r.Labels[c.ClusterID]; ok {
			props["address"] = label
		}

		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{c.Point.Lng, c.Point.Lat},
			},
			Properties: props,
		})
	}

	return fc
}

// WriteCentroidsGeoJSON writes the centroid FeatureCollection as
// indented JSON, ready for any GIS tool or Leaflet layer.
func WriteCentroidsGeoJSON(w io.Writer, r *PartitionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(CentroidFeatureCollection(r))
}
