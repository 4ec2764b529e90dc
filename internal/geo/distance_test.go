package geo_test

import (
	"testing"

	"github.com/kindlingapp/kindling/internal/geo"
)

func TestDistanceBetween_CoincidentPoints(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{name: "origin", lat: 0, lon: 0},
		{name: "north pole", lat: 90, lon: 45},
		{name: "south pole", lat: -90, lon: -120},
		{name: "antimeridian", lat: 0, lon: 180},
		{name: "negative antimeridian", lat: 52.5, lon: -180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.DistanceBetween(tt.lat, tt.lon, tt.lat, tt.lon, geo.UnitMiles)
			if got != "< 1 mile away" {
				t.Errorf("DistanceBetween(%v, %v, same) = %q, want %q", tt.lat, tt.lon, got, "< 1 mile away")
			}
		})
	}
}

func TestDistanceBetween_ClampsNearOne(t *testing.T) {
	// Both points at the north pole with different longitudes describe the
	// same physical location; the cosine sum lands at (or just past) 1 and
	// must not produce NaN.
	got := geo.DistanceBetween(90, 0, 90, 180, geo.UnitMiles)
	if got != "1 mile away" {
		t.Errorf("DistanceBetween(pole, pole) = %q, want %q", got, "1 mile away")
	}
}

func TestDistanceBetween_OneDegreeOfLatitude(t *testing.T) {
	// One degree of latitude along a meridian is exactly 60 nautical-mile
	// minutes, i.e. 60 * 1.1515 statute miles.
	tests := []struct {
		name string
		unit geo.Unit
		want string
	}{
		{name: "miles", unit: geo.UnitMiles, want: "69 miles away"},
		{name: "kilometers", unit: geo.UnitKilometers, want: "111 miles away"},
		{name: "nautical", unit: geo.UnitNauticalMiles, want: "60 miles away"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.DistanceBetween(0, 0, 1, 0, tt.unit)
			if got != tt.want {
				t.Errorf("DistanceBetween(0,0,1,0,%s) = %q, want %q", tt.unit, got, tt.want)
			}
		})
	}
}

func TestDistanceString(t *testing.T) {
	tests := []struct {
		miles float64
		want  string
	}{
		{miles: 0, want: "1 mile away"},
		{miles: 0.4, want: "1 mile away"},
		{miles: 1.0, want: "1 mile away"},
		{miles: 1.49, want: "1 mile away"},
		{miles: 1.5, want: "2 miles away"},
		{miles: 2.0, want: "2 miles away"},
		{miles: 41.7, want: "42 miles away"},
		{miles: 199.5, want: "200 miles away"},
	}

	for _, tt := range tests {
		got := geo.DistanceString(tt.miles)
		if got != tt.want {
			t.Errorf("DistanceString(%v) = %q, want %q", tt.miles, got, tt.want)
		}
	}
}
