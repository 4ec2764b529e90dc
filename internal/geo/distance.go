// Package geo provides great-circle distance computation and the
// human-readable distance strings shown on recommendation cards.
package geo

import (
	"math"
	"strconv"
)

// Unit selects the output unit for DistanceBetween.
type Unit string

const (
	// UnitMiles is the default unit.
	UnitMiles Unit = "M"
	// UnitKilometers converts the result to kilometers.
	UnitKilometers Unit = "K"
	// UnitNauticalMiles converts the result to nautical miles.
	UnitNauticalMiles Unit = "N"
)

// MilesToKilometers is the conversion factor between miles and kilometers.
// Proximity queries take their radius in kilometers; user settings are in miles.
const MilesToKilometers = 1.609344

// underOneUnit is returned for coincident points regardless of unit.
const underOneUnit = "< 1 mile away"

// DistanceBetween computes the great-circle distance between two coordinates
// using the spherical law of cosines and returns it formatted for display.
// Coincident points short-circuit to the "under one unit" string.
func DistanceBetween(lat1, lon1, lat2, lon2 float64, unit Unit) string {
	if lat1 == lat2 && lon1 == lon2 {
		return underOneUnit
	}

	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	radTheta := (lon1 - lon2) * math.Pi / 180

	cosine := math.Sin(radLat1)*math.Sin(radLat2) +
		math.Cos(radLat1)*math.Cos(radLat2)*math.Cos(radTheta)

	// Floating point error can push the sum past 1 for near-identical
	// points; acos is undefined beyond that.
	if cosine > 1 {
		cosine = 1
	}

	dist := math.Acos(cosine) * 180 / math.Pi
	dist = dist * 60 * 1.1515

	switch unit {
	case UnitKilometers:
		dist *= MilesToKilometers
	case UnitNauticalMiles:
		dist *= 0.8684
	}

	return DistanceString(dist)
}

// DistanceString formats a distance in miles for display. Anything that
// rounds below 2 collapses to "1 mile away".
func DistanceString(miles float64) string {
	rounded := math.Round(miles)
	if rounded >= 2 {
		return strconv.Itoa(int(rounded)) + " miles away"
	}
	return "1 mile away"
}
