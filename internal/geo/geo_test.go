package geo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ip":"203.0.113.7","city":"Helsinki","region":"Uusimaa","country":"FI","loc":"60.1699,24.9384"}`))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), Endpoint: srv.URL}
	loc, err := c.Lookup()
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if loc.IP != "203.0.113.7" || loc.City != "Helsinki" || loc.Country != "FI" {
		t.Errorf("unexpected location: %+v", loc)
	}
	if loc.Latitude != 60.1699 || loc.Longitude != 24.9384 {
		t.Errorf("coordinates = %v,%v", loc.Latitude, loc.Longitude)
	}
	if loc.Timestamp == 0 {
		t.Error("timestamp not set")
	}
}

func TestLookupMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ip":"203.0.113.7"}`))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), Endpoint: srv.URL}
	loc, err := c.Lookup()
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if loc.City != "Unknown" || loc.Region != "Unknown" || loc.Country != "Unknown" {
		t.Errorf("missing fields should default to Unknown: %+v", loc)
	}
	if loc.Latitude != 0 || loc.Longitude != 0 {
		t.Errorf("missing loc should default to 0,0: %+v", loc)
	}
}

func TestParseCoordinates(t *testing.T) {
	cases := []struct {
		in       string
		lat, lon float64
	}{
		{"60.1699,24.9384", 60.1699, 24.9384},
		{"garbage", 0, 0},
		{"1,2,3", 0, 0},
		{"x,y", 0, 0},
		{"", 0, 0},
	}
	for _, tc := range cases {
		lat, lon := parseCoordinates(tc.in)
		if lat != tc.lat || lon != tc.lon {
			t.Errorf("parseCoordinates(%q) = %v,%v, want %v,%v", tc.in, lat, lon, tc.lat, tc.lon)
		}
	}
}
