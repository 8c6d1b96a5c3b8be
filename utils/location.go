package utils

import (
	"math"
)

// AverageTravelSpeedKmH is the fixed speed assumed when turning a distance
// into a travel-time estimate. No routing, no traffic data.
const AverageTravelSpeedKmH = 30.0

// HaversineDistance calculates the distance between two points on Earth using
// the Haversine formula. Returns distance in kilometers.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth's radius in kilometers

	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}

// EstimateETAMinutes converts the great-circle distance between two points
// into a travel-time estimate at AverageTravelSpeedKmH. Any nil coordinate
// makes the estimate nil rather than zero.
func EstimateETAMinutes(fromLat, fromLng, toLat, toLng *float64) *int {
	if fromLat == nil || fromLng == nil || toLat == nil || toLng == nil {
		return nil
	}

	distanceKm := HaversineDistance(*fromLat, *fromLng, *toLat, *toLng)
	eta := int(math.Round(distanceKm / AverageTravelSpeedKmH * 60))
	return &eta
}

// IsLocationValid checks if the provided coordinates are valid
func IsLocationValid(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
