// Package geo resolves the host's approximate location from its
// public IP using the ipinfo.io JSON endpoint.
package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const defaultEndpoint = "https://ipinfo.io/json"

// Location is one geolocation lookup result.
type Location struct {
	Timestamp float64 `json:"timestamp"`
	IP        string  `json:"ip"`
	City      string  `json:"city"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client queries the geolocation service.
type Client struct {
	// HTTPClient is overridable for tests; nil means a default client
	// with a 10s timeout.
	HTTPClient *http.Client
	// Endpoint is overridable for tests; empty means ipinfo.io.
	Endpoint string
}

type ipinfoResponse struct {
	IP      string `json:"ip"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Loc     string `json:"loc"` // "lat,lon"
}

// Lookup fetches the current public-IP location. Transient HTTP
// failures are retried with backoff. Missing fields come back as
// "Unknown"; unparseable coordinates come back as 0,0.
func (c *Client) Lookup() (Location, error) {
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	var payload ipinfoResponse
	err := retry.Do(func() error {
		resp, err := client.Get(endpoint)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("geolocation service returned %s", resp.Status)
		}
		return json.NewDecoder(resp.Body).Decode(&payload)
	}, retry.Attempts(3), retry.Delay(time.Second), retry.MaxDelay(10*time.Second))
	if err != nil {
		return Location{}, fmt.Errorf("location retrieval error: %w", err)
	}

	loc := Location{
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		IP:        orUnknown(payload.IP),
		City:      orUnknown(payload.City),
		Region:    orUnknown(payload.Region),
		Country:   orUnknown(payload.Country),
	}
	loc.Latitude, loc.Longitude = parseCoordinates(payload.Loc)
	return loc, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// parseCoordinates splits the "lat,lon" pair; anything malformed
// degrades to 0,0.
func parseCoordinates(loc string) (float64, float64) {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return 0, 0
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return lat, lon
}
