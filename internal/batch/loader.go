// Package batch loads flight data from files and runs the optimization
// pipeline across a set of flights.
package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"fuel_optimizer/internal/model"
)

// flightColumns are the required CSV header fields, in any order.
var flightColumns = []string{
	"flight_id", "origin", "destination", "aircraft_type", "departure_time",
	"planned_fuel", "cruise_altitude", "passenger_count", "cargo_weight",
}

// RouteEntry is one flight's route in the routes JSON file.
type RouteEntry struct {
	Route []model.Waypoint `json:"route"`
}

// LoadFlights reads flight plans from a CSV file. Routes are attached
// separately via LoadRoutes/AttachRoutes.
func LoadFlights(path string) ([]model.FlightPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flights: %w", err)
	}
	defer f.Close()

	return ReadFlights(f)
}

// ReadFlights parses flight plans from CSV data.
func ReadFlights(r io.Reader) ([]model.FlightPlan, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range flightColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("flights CSV missing column %q", name)
		}
	}

	var flights []model.FlightPlan
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		line++

		plan, err := flightFromRow(row, col)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		flights = append(flights, plan)
	}

	return flights, nil
}

func flightFromRow(row []string, col map[string]int) (model.FlightPlan, error) {
	get := func(name string) string { return row[col[name]] }

	departure, err := time.Parse(time.RFC3339, get("departure_time"))
	if err != nil {
		// Accept the common date-time form without a zone as well.
		departure, err = time.Parse("2006-01-02T15:04:05", get("departure_time"))
		if err != nil {
			return model.FlightPlan{}, fmt.Errorf("departure_time: %w", err)
		}
	}

	plannedFuel, err := strconv.ParseFloat(get("planned_fuel"), 64)
	if err != nil {
		return model.FlightPlan{}, fmt.Errorf("planned_fuel: %w", err)
	}
	cruiseAltitude, err := strconv.Atoi(get("cruise_altitude"))
	if err != nil {
		return model.FlightPlan{}, fmt.Errorf("cruise_altitude: %w", err)
	}
	passengers, err := strconv.Atoi(get("passenger_count"))
	if err != nil {
		return model.FlightPlan{}, fmt.Errorf("passenger_count: %w", err)
	}
	cargo, err := strconv.Atoi(get("cargo_weight"))
	if err != nil {
		return model.FlightPlan{}, fmt.Errorf("cargo_weight: %w", err)
	}

	return model.FlightPlan{
		FlightID:       get("flight_id"),
		Origin:         get("origin"),
		Destination:    get("destination"),
		AircraftType:   get("aircraft_type"),
		DepartureTime:  departure,
		PlannedFuel:    plannedFuel,
		CruiseAltitude: cruiseAltitude,
		PassengerCount: passengers,
		CargoWeight:    cargo,
	}, nil
}

// LoadRoutes reads the routes JSON file, keyed by flight id.
func LoadRoutes(path string) (map[string]RouteEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open routes: %w", err)
	}

	var routes map[string]RouteEntry
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, fmt.Errorf("parse routes: %w", err)
	}
	return routes, nil
}

// AttachRoutes fills each plan's waypoints from the routes map and
// validates the assembled plan. Flights without a route entry keep an
// empty (degenerate but valid) route.
func AttachRoutes(flights []model.FlightPlan, routes map[string]RouteEntry) ([]model.FlightPlan, error) {
	out := make([]model.FlightPlan, 0, len(flights))
	for _, plan := range flights {
		if entry, ok := routes[plan.FlightID]; ok {
			plan.RouteWaypoints = entry.Route
		}
		if err := plan.Validate(); err != nil {
			return nil, err
		}
		out = append(out, plan)
	}
	return out, nil
}
