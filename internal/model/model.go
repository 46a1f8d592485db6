// Package model provides the data types shared across the fuel
// optimization pipeline.
package model

import (
	"time"
)

// RecommendationType classifies an optimization recommendation.
type RecommendationType string

const (
	RouteModification    RecommendationType = "route_modification"
	AltitudeOptimization RecommendationType = "altitude_optimization"
	DelayRecommendation  RecommendationType = "delay_recommendation"
	ReDispatch           RecommendationType = "re_dispatch"
)

// Waypoint is a named point on a flight route.
type Waypoint struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  int     `json:"altitude,omitempty"` // feet, 0 = unspecified
}

// WeatherReading is an observation associated with one route waypoint.
type WeatherReading struct {
	Location      string    `json:"location"`
	Timestamp     time.Time `json:"timestamp"`
	Temperature   float64   `json:"temperature"`    // Celsius
	WindSpeed     int       `json:"wind_speed"`     // knots
	WindDirection int       `json:"wind_direction"` // degrees true, [0,360)
	Visibility    float64   `json:"visibility"`     // statute miles
	Conditions    string    `json:"conditions"`
	MetarRaw      string    `json:"metar_raw,omitempty"`
}

// AircraftProfile holds the performance characteristics used by the
// fuel-burn model. The table of profiles is static reference data.
type AircraftProfile struct {
	AircraftType          string  `json:"aircraft_type"`
	MaxCruiseAltitude     int     `json:"max_cruise_altitude"`     // feet
	OptimalCruiseAltitude int     `json:"optimal_cruise_altitude"` // feet
	CruiseSpeed           int     `json:"cruise_speed"`            // knots TAS
	FuelCapacity          int     `json:"fuel_capacity"`           // kg
	FuelBurnRateBase      float64 `json:"fuel_burn_rate_base"`     // kg/hour at optimal conditions
	WeightEmpty           int     `json:"weight_empty"`            // kg
	MaxPayload            int     `json:"max_payload"`             // kg
}

// FlightPlan is one flight to be optimized.
type FlightPlan struct {
	FlightID          string     `json:"flight_id"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	AircraftType      string     `json:"aircraft_type"`
	DepartureTime     time.Time  `json:"departure_time"`
	RouteWaypoints    []Waypoint `json:"route_waypoints"`
	PlannedFuel       float64    `json:"planned_fuel"`       // kg
	CruiseAltitude    int        `json:"cruise_altitude"`    // feet
	EstimatedDuration int        `json:"estimated_duration"` // minutes
	PassengerCount    int        `json:"passenger_count"`
	CargoWeight       int        `json:"cargo_weight"` // kg
}

// FuelEstimate is the full breakdown of a fuel-burn calculation at one
// candidate altitude. Every intermediate quantity is kept so downstream
// consumers can explain the result.
type FuelEstimate struct {
	DistanceNM      float64 `json:"distance_nm"`
	FlightTimeHours float64 `json:"flight_time_hours"`
	FuelBurnRate    float64 `json:"fuel_burn_rate"` // kg/hour, adjusted
	CruiseFuel      float64 `json:"cruise_fuel"`    // kg
	ReserveFuel     float64 `json:"reserve_fuel"`   // kg
	TotalFuel       float64 `json:"total_fuel"`     // kg, cruise + reserves
	AltitudeFactor  float64 `json:"altitude_factor"`
	WeightFactor    float64 `json:"weight_factor"`
	AvgWindImpact   float64 `json:"avg_wind_impact"` // knots, +tailwind / -headwind
	GroundSpeed     float64 `json:"ground_speed"`    // knots
}

// OptimizationResult is the engine's final output for one flight.
type OptimizationResult struct {
	FlightID           string             `json:"flight_id"`
	OriginalFuel       float64            `json:"original_fuel"`  // kg
	OptimizedFuel      float64            `json:"optimized_fuel"` // kg
	FuelSavings        float64            `json:"fuel_savings"`   // kg, always >= 0
	SavingsPercentage  float64            `json:"savings_percentage"`
	TimeImpact         int                `json:"time_impact"` // minutes
	ConfidenceScore    float64            `json:"confidence_score"`
	RecommendationType RecommendationType `json:"recommendation_type"`
	OptimizedAltitude  int                `json:"optimized_altitude"` // feet
	Rationale          string             `json:"rationale"`
	WeatherFactors     []string           `json:"weather_factors"`
	CostSavings        float64            `json:"cost_savings"` // USD
}
