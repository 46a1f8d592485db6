// Package weather provides en-route weather acquisition and analysis
// for the optimization pipeline.
package weather

import (
	"math"

	"fuel_optimizer/internal/model"
)

// Provider supplies weather readings for a route. Implementations may
// return fewer readings than waypoints (or none); the engine degrades
// to zero wind impact in that case.
type Provider interface {
	// FetchRouteWeather returns at most one reading per waypoint, in
	// route order.
	FetchRouteWeather(waypoints []model.Waypoint) []model.WeatherReading
}

// JetStreamInfo describes jet stream conditions along a route at a
// given altitude.
type JetStreamInfo struct {
	Present   bool   `json:"present"`
	Strength  string `json:"strength"`
	Direction string `json:"direction"`
	Benefit   string `json:"benefit"`
}

// JetStream analyses jet stream effects on a route. The jet stream sits
// at roughly 30000-42000 ft and is strongest between 30 and 60 degrees
// of latitude; a pure function of route and altitude.
func JetStream(waypoints []model.Waypoint, altitude int) JetStreamInfo {
	if altitude >= 30000 && altitude <= 42000 && len(waypoints) > 0 {
		var sum float64
		for _, wp := range waypoints {
			sum += wp.Latitude
		}
		avgLatitude := sum / float64(len(waypoints))

		if abs := math.Abs(avgLatitude); abs >= 30 && abs <= 60 {
			return JetStreamInfo{
				Present:   true,
				Strength:  "strong",
				Direction: "westerly",
				Benefit:   "Favorable for westbound flights at this altitude",
			}
		}
	}
	return JetStreamInfo{Strength: "none"}
}

// WindComponents is a course-relative decomposition of a wind reading.
type WindComponents struct {
	Headwind  float64 `json:"headwind"`  // knots, 0 if tailwind
	Tailwind  float64 `json:"tailwind"`  // knots, 0 if headwind
	Crosswind float64 `json:"crosswind"` // knots
}

// AnalyzeWindComponent resolves a wind reading against an aircraft
// course in degrees true. The simplified estimator does not use this
// projection (see engine.Estimator); it is kept for analysis tooling.
func AnalyzeWindComponent(r model.WeatherReading, course int) WindComponents {
	angleDiff := math.Abs(float64(r.WindDirection - course))
	if angleDiff > 180 {
		angleDiff = 360 - angleDiff
	}

	head := float64(r.WindSpeed) * math.Cos(angleDiff*math.Pi/180)
	cross := float64(r.WindSpeed) * math.Sin(angleDiff*math.Pi/180)

	c := WindComponents{Crosswind: cross}
	if head > 0 {
		c.Headwind = head
	} else {
		c.Tailwind = -head
	}
	return c
}
