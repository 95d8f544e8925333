// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jcodagnone/hotspot/spatial"
)

// GoogleMapsGeocoder uses the Google Maps Geocoding API in reverse
// mode: coordinates in, the most specific known address out.
type GoogleMapsGeocoder struct {
	apiKey     string
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps reverse geocoder.
func NewGoogleMapsGeocoder(apiKey string) *GoogleMapsGeocoder {
	return &GoogleMapsGeocoder{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, etc.
}

func (g *GoogleMapsGeocoder) ReverseGeocode(point spatial.Point) (*Address, error) {
	if err := point.Validate(); err != nil {
		return nil, &GeocodingError{
			Type:    ErrorTypeInvalidRequest,
			Message: "invalid coordinates",
			Err:     err,
		}
	}

	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", point.Lat, point.Lng))
	params.Set("key", g.apiKey)

	reqURL := "https://maps.googleapis.com/maps/api/geocode/json?" + params.Encode()

	resp, err := g.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "")
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no address at (%f, %f)", point.Lat, point.Lng),
		}
	case "OVER_QUERY_LIMIT":
		return nil, &GeocodingError{
			Type:    ErrorTypeQuotaExceeded,
			Message: "google maps query limit exceeded",
		}
	default:
		return nil, fmt.Errorf("google maps status: %s", gmResp.Status)
	}

	if len(gmResp.Results) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no address at (%f, %f)", point.Lat, point.Lng),
		}
	}

	// The first result is the most specific one
	result := gmResp.Results[0]

	return &Address{
		Formatted:  result.FormattedAddress,
		Confidence: confidenceFrom(result.Geometry.LocationType),
		Provider:   "google_maps",
	}, nil
}

// confidenceFrom maps Google's location_type onto the coarse scale the
// reports show. A centroid is an average, so anything past
// street-level precision is already more than the data supports.
func confidenceFrom(locationType string) string {
	switch locationType {
	case "ROOFTOP":
		return "high"
	case "RANGE_INTERPOLATED":
		return "high"
	case "GEOMETRIC_CENTER":
		return "medium"
	case "APPROXIMATE":
		return "low"
	}

	return "low"
}
