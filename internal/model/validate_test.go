package model

import (
	"errors"
	"testing"
	"time"
)

func validPlan() FlightPlan {
	return FlightPlan{
		FlightID:      "UA123",
		Origin:        "JFK",
		Destination:   "LAX",
		AircraftType:  "B737-800",
		DepartureTime: time.Now(),
		RouteWaypoints: []Waypoint{
			{Name: "JFK", Latitude: 40.64, Longitude: -73.78},
			{Name: "LAX", Latitude: 33.94, Longitude: -118.41},
		},
		PlannedFuel:    15000,
		CruiseAltitude: 36000,
		PassengerCount: 150,
		CargoWeight:    5000,
	}
}

func TestValidateAccepts(t *testing.T) {
	plan := validPlan()
	if err := plan.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	// Degenerate routes are valid, not errors.
	plan.RouteWaypoints = nil
	if err := plan.Validate(); err != nil {
		t.Errorf("Validate() with empty route = %v, want nil", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FlightPlan)
	}{
		{"empty flight id", func(p *FlightPlan) { p.FlightID = " " }},
		{"latitude too high", func(p *FlightPlan) { p.RouteWaypoints[0].Latitude = 90.5 }},
		{"latitude too low", func(p *FlightPlan) { p.RouteWaypoints[1].Latitude = -91 }},
		{"longitude out of range", func(p *FlightPlan) { p.RouteWaypoints[0].Longitude = 181 }},
		{"negative passengers", func(p *FlightPlan) { p.PassengerCount = -1 }},
		{"negative cargo", func(p *FlightPlan) { p.CargoWeight = -100 }},
		{"zero cruise altitude", func(p *FlightPlan) { p.CruiseAltitude = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := validPlan()
			tt.mutate(&plan)

			err := plan.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}

			var planErr *InvalidFlightPlanError
			if !errors.As(err, &planErr) {
				t.Errorf("error type = %T, want *InvalidFlightPlanError", err)
			}
		})
	}
}

func TestValidateReading(t *testing.T) {
	ok := WeatherReading{Location: "JFK", WindSpeed: 80, WindDirection: 270}
	if err := ValidateReading(ok); err != nil {
		t.Errorf("ValidateReading(ok) = %v, want nil", err)
	}

	if err := ValidateReading(WeatherReading{WindSpeed: -1}); err == nil {
		t.Error("negative wind speed accepted")
	}
	if err := ValidateReading(WeatherReading{WindDirection: 360}); err == nil {
		t.Error("wind direction 360 accepted")
	}
	if err := ValidateReading(WeatherReading{WindDirection: -10}); err == nil {
		t.Error("negative wind direction accepted")
	}
}
