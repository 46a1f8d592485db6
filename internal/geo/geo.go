// Package geo provides great-circle distance calculations for flight
// routes.
package geo

import (
	"math"

	"fuel_optimizer/internal/model"
)

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// Distance returns the haversine great-circle distance between two
// waypoints in nautical miles. Symmetric; 0 for coincident points.
func Distance(a, b model.Waypoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lon1 := a.Longitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	lon2 := b.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(h))

	return c * EarthRadiusNM
}

// RouteDistance returns the sum of leg distances over consecutive
// waypoint pairs. Routes with fewer than two waypoints have no legs and
// return 0.
func RouteDistance(waypoints []model.Waypoint) float64 {
	var total float64
	for i := 0; i < len(waypoints)-1; i++ {
		total += Distance(waypoints[i], waypoints[i+1])
	}
	return total
}
