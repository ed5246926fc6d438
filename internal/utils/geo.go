package utils

import "math"

const earthRadiusKm = 6371

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance between two GPS coordinates in
// kilometers.
func Haversine(startLat, startLng, endLat, endLng float64) float64 {
	phi1 := degToRad(startLat)
	phi2 := degToRad(endLat)
	deltaPhi := degToRad(endLat - startLat)
	deltaLambda := degToRad(endLng - startLng)

	a := math.Pow(math.Sin(deltaPhi/2), 2) + math.Cos(phi1)*math.Cos(phi2)*
		math.Pow(math.Sin(deltaLambda/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// RoundKm rounds a distance to two decimal places for display.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
