// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

// Package web serves the incident map and the on-demand clustering API
// on top of a loaded incident database.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/hotspot/cluster"
	"github.com/jcodagnone/hotspot/ingest"
	"github.com/jcodagnone/hotspot/report"
	"github.com/jcodagnone/hotspot/spatial"
)

//go:embed templates/*
var templateFS embed.FS

type Server struct {
	repo ingest.IncidentRepository
}

func NewServer(repo ingest.IncidentRepository) *Server {
	return &Server{repo: repo}
}

// Router builds the gin engine with every route attached. Split from
// Run so tests can drive it with httptest.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.mapView)
	r.GET("/api/partitions", s.listPartitions)
	r.GET("/api/clusters", s.getClusters)
	r.GET("/api/centroids.geojson", s.getCentroidsGeoJSON)
	r.GET("/api/cells", s.getCells)

	return r
}

func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) mapView(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "map.html", gin.H{
		"DefaultThreshold": cluster.DefaultThresholdMeters,
	})
}

func (s *Server) listPartitions(ctx *gin.Context) {
	partitions, err := s.repo.Partitions()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, partitions)
}

// partitionParams parses year, quarter and the optional threshold query
// parameters. On failure it writes the error response and reports !ok.
func (s *Server) partitionParams(ctx *gin.Context) (year, quarter int, threshold float64, ok bool) {
	if _, err := fmt.Sscanf(ctx.Query("year"), "%d", &year); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter is required"})

		return 0, 0, 0, false
	}

	if _, err := fmt.Sscanf(ctx.Query("quarter"), "%d", &quarter); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "quarter query parameter is required"})

		return 0, 0, 0, false
	}

	threshold = cluster.DefaultThresholdMeters

	if param := ctx.Query("threshold"); param != "" {
		if _, err := fmt.Sscanf(param, "%f", &threshold); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold parameter"})

			return 0, 0, 0, false
		}
	}

	return year, quarter, threshold, true
}

// buildPartition loads one partition and clusters it. On failure it
// writes the error response and returns nil.
func (s *Server) buildPartition(ctx *gin.Context, year, quarter int, threshold float64) *report.PartitionResult {
	points, numbers, err := s.repo.PartitionPoints(year, quarter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return nil
	}

	if len(points) == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no incidents in partition %dq%d", year, quarter)})

		return nil
	}

	result, err := report.Build(year, quarter, points, numbers, threshold)
	if err != nil {
		status := http.StatusInternalServerError
		if cluster.IsInvalidInput(err) {
			status = http.StatusBadRequest
		}

		ctx.JSON(status, gin.H{"error": err.Error()})

		return nil
	}

	return result
}

type clusterPoint struct {
	Number    string  `json:"number"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	ClusterID int     `json:"cluster_id"`
}

type clusterResponse struct {
	*report.PartitionResult
	Members []clusterPoint `json:"points"`
}

func (s *Server) getClusters(ctx *gin.Context) {
	year, quarter, threshold, ok := s.partitionParams(ctx)
	if !ok {
		return
	}

	result := s.buildPartition(ctx, year, quarter, threshold)
	if result == nil {
		return
	}

	members := make([]clusterPoint, 0, len(result.Points))
	for i, p := range result.Points {
		members = append(members, clusterPoint{
			Number:    result.Numbers[i],
			Lat:       p.Lat,
			Lng:       p.Lng,
			ClusterID: result.Assignment[i],
		})
	}

	ctx.JSON(http.StatusOK, clusterResponse{PartitionResult: result, Members: members})
}

func (s *Server) getCentroidsGeoJSON(ctx *gin.Context) {
	year, quarter, threshold, ok := s.partitionParams(ctx)
	if !ok {
		return
	}

	result := s.buildPartition(ctx, year, quarter, threshold)
	if result == nil {
		return
	}

	ctx.JSON(http.StatusOK, report.CentroidFeatureCollection(result))
}

type cellResponse struct {
	Cell  string `json:"cell"`
	Count int    `json:"count"`
	// Boundary holds [lat, lng] vertex pairs, the order L.polygon takes.
	Boundary [][]float64 `json:"boundary"`
}

func (s *Server) getCells(ctx *gin.Context) {
	var year, quarter int

	if _, err := fmt.Sscanf(ctx.Query("year"), "%d", &year); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "year query parameter is required"})

		return
	}

	if _, err := fmt.Sscanf(ctx.Query("quarter"), "%d", &quarter); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "quarter query parameter is required"})

		return
	}

	res := 7

	if param := ctx.Query("res"); param != "" {
		if _, err := fmt.Sscanf(param, "%d", &res); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid res parameter"})

			return
		}
	}

	if res < spatial.H3MinRes || res > spatial.H3MaxRes {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("res must be between %d and %d", spatial.H3MinRes, spatial.H3MaxRes),
		})

		return
	}

	counts, err := s.repo.CellCounts(year, quarter, res)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	cells := make([]cellResponse, 0, len(counts))

	for _, c := range counts {
		id, err := spatial.H3CellFromString(c.Cell)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

			return
		}

		boundary, err := spatial.H3CellBoundary(id)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

			return
		}

		vertices := make([][]float64, 0, len(boundary))
		for _, v := range boundary {
			vertices = append(vertices, []float64{v.Lat, v.Lng})
		}

		cells = append(cells, cellResponse{Cell: c.Cell, Count: c.Count, Boundary: vertices})
	}

	ctx.JSON(http.StatusOK, cells)
}
