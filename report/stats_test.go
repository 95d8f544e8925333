// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"math"
	"testing"

	"github.com/jcodagnone/hotspot/cluster"
	"github.com/jcodagnone/hotspot/spatial"
)

func TestComputeStatsMixedSizes(t *testing.T) {
	points := []spatial.Point{
		{Lat: 36.80, Lng: -76.10},
		{Lat: 36.81, Lng: -76.11},
		{Lat: 36.90, Lng: -76.20},
	}
	a := cluster.Assignment{1, 1, 2}
	centroids := []cluster.Centroid{
		{ClusterID: 1, Point: spatial.Point{Lat: 36.805, Lng: -76.105}, Size: 2},
		{ClusterID: 2, Point: spatial.Point{Lat: 36.90, Lng: -76.20}, Size: 1},
	}

	s := ComputeStats(points, a, centroids)

	if expected, actual := 3, s.Points; expected != actual {
		t.Errorf("Points = %d, want %d", actual, expected)
	}

	if expected, actual := 2, s.Clusters; expected != actual {
		t.Errorf("Clusters = %d, want %d", actual, expected)
	}

	if expected, actual := 1.5, s.MeanSize; expected != actual {
		t.Errorf("MeanSize = %f, want %f", actual, expected)
	}

	// Sample standard deviation of {2, 1}.
	if expected, actual := math.Sqrt(0.5), s.StdDevSize; math.Abs(expected-actual) > 1e-12 {
		t.Errorf("StdDevSize = %f, want %f", actual, expected)
	}

	if expected, actual := 2, s.MaxSize; expected != actual {
		t.Errorf("MaxSize = %d, want %d", actual, expected)
	}

	if expected, actual := 1, s.Singletons; expected != actual {
		t.Errorf("Singletons = %d, want %d", actual, expected)
	}

	if expected, actual := 0.5, s.SingletonShare; expected != actual {
		t.Errorf("SingletonShare = %f, want %f", actual, expected)
	}

	if s.MeanSpreadMeters <= 0 {
		t.Errorf("MeanSpreadMeters = %f, want > 0", s.MeanSpreadMeters)
	}

	if s.MaxSpreadMeters < s.MeanSpreadMeters {
		t.Errorf("MaxSpreadMeters %f < MeanSpreadMeters %f", s.MaxSpreadMeters, s.MeanSpreadMeters)
	}
}

func TestComputeStatsAllSingletons(t *testing.T) {
	points := []spatial.Point{
		{Lat: 36.80, Lng: -76.10},
		{Lat: 36.90, Lng: -76.20},
	}
	a := cluster.Assignment{1, 2}
	centroids := []cluster.Centroid{
		{ClusterID: 1, Point: points[0], Size: 1},
		{ClusterID: 2, Point: points[1], Size: 1},
	}

	s := ComputeStats(points, a, centroids)

	if expected, actual := 2, s.Singletons; expected != actual {
		t.Errorf("Singletons = %d, want %d", actual, expected)
	}

	if expected, actual := 1.0, s.SingletonShare; expected != actual {
		t.Errorf("SingletonShare = %f, want %f", actual, expected)
	}

	// Every incident sits on its own centroid.
	if expected, actual := 0.0, s.MeanSpreadMeters; expected != actual {
		t.Errorf("MeanSpreadMeters = %f, want %f", actual, expected)
	}

	if expected, actual := 0.0, s.StdDevSize; expected != actual {
		t.Errorf("StdDevSize = %f, want %f", actual, expected)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil, nil, nil)

	if s.Points != 0 || s.Clusters != 0 || s.MeanSize != 0 {
		t.Errorf("ComputeStats(nil) = %+v, want zeroes", s)
	}
}
