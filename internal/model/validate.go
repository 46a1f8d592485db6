package model

import (
	"fmt"
	"strings"
)

// InvalidFlightPlanError reports a flight plan rejected at construction.
// Field names the offending input; the engine itself assumes plans have
// already passed validation.
type InvalidFlightPlanError struct {
	FlightID string
	Field    string
	Reason   string
}

func (e *InvalidFlightPlanError) Error() string {
	return fmt.Sprintf("invalid flight plan %s: %s: %s", e.FlightID, e.Field, e.Reason)
}

// Validate checks a flight plan's inputs once, before it reaches the
// optimization engine. Degenerate routes (0 or 1 waypoints) are allowed;
// they produce a zero-distance estimate rather than an error.
func (p *FlightPlan) Validate() error {
	if strings.TrimSpace(p.FlightID) == "" {
		return &InvalidFlightPlanError{FlightID: p.FlightID, Field: "flight_id", Reason: "must not be empty"}
	}
	for i, wp := range p.RouteWaypoints {
		if wp.Latitude < -90 || wp.Latitude > 90 {
			return &InvalidFlightPlanError{
				FlightID: p.FlightID,
				Field:    fmt.Sprintf("route_waypoints[%d].latitude", i),
				Reason:   fmt.Sprintf("%.4f out of range [-90,90]", wp.Latitude),
			}
		}
		if wp.Longitude < -180 || wp.Longitude > 180 {
			return &InvalidFlightPlanError{
				FlightID: p.FlightID,
				Field:    fmt.Sprintf("route_waypoints[%d].longitude", i),
				Reason:   fmt.Sprintf("%.4f out of range [-180,180]", wp.Longitude),
			}
		}
	}
	if p.PassengerCount < 0 {
		return &InvalidFlightPlanError{FlightID: p.FlightID, Field: "passenger_count", Reason: "must not be negative"}
	}
	if p.CargoWeight < 0 {
		return &InvalidFlightPlanError{FlightID: p.FlightID, Field: "cargo_weight", Reason: "must not be negative"}
	}
	if p.CruiseAltitude <= 0 {
		return &InvalidFlightPlanError{FlightID: p.FlightID, Field: "cruise_altitude", Reason: "must be positive"}
	}
	return nil
}

// ValidateReading checks the weather collaborator contract: wind speed
// >= 0 knots and direction in [0,360).
func ValidateReading(r WeatherReading) error {
	if r.WindSpeed < 0 {
		return fmt.Errorf("weather reading %s: wind speed %d must not be negative", r.Location, r.WindSpeed)
	}
	if r.WindDirection < 0 || r.WindDirection >= 360 {
		return fmt.Errorf("weather reading %s: wind direction %d out of range [0,360)", r.Location, r.WindDirection)
	}
	return nil
}
