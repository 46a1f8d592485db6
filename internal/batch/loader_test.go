package batch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fuel_optimizer/internal/model"
)

const flightsCSV = `flight_id,origin,destination,aircraft_type,departure_time,planned_fuel,cruise_altitude,passenger_count,cargo_weight
UA123,JFK,LAX,B737-800,2025-06-01T14:00:00Z,15000,36000,150,5000
DL456,ATL,SEA,A320,2025-06-01T15:30:00,14000,34000,140,4000
`

const routesJSON = `{
  "UA123": {"route": [
    {"name": "JFK", "latitude": 40.6413, "longitude": -73.7781},
    {"name": "LAX", "latitude": 33.9416, "longitude": -118.4085}
  ]}
}`

func TestReadFlights(t *testing.T) {
	flights, err := ReadFlights(strings.NewReader(flightsCSV))
	if err != nil {
		t.Fatalf("ReadFlights: %v", err)
	}

	if len(flights) != 2 {
		t.Fatalf("got %d flights, want 2", len(flights))
	}

	ua := flights[0]
	if ua.FlightID != "UA123" || ua.Origin != "JFK" || ua.Destination != "LAX" {
		t.Errorf("flight 0 = %s %s-%s", ua.FlightID, ua.Origin, ua.Destination)
	}
	if ua.PlannedFuel != 15000 || ua.CruiseAltitude != 36000 {
		t.Errorf("flight 0 fuel/altitude = %.0f/%d", ua.PlannedFuel, ua.CruiseAltitude)
	}
	if ua.DepartureTime.Hour() != 14 {
		t.Errorf("flight 0 departure = %v", ua.DepartureTime)
	}

	// Second row uses the zone-less timestamp form.
	if flights[1].DepartureTime.IsZero() {
		t.Error("flight 1 departure not parsed")
	}
}

func TestReadFlightsColumnOrderIndependent(t *testing.T) {
	reordered := `origin,flight_id,cargo_weight,destination,aircraft_type,departure_time,planned_fuel,cruise_altitude,passenger_count
JFK,UA123,5000,LAX,B737-800,2025-06-01T14:00:00Z,15000,36000,150
`
	flights, err := ReadFlights(strings.NewReader(reordered))
	if err != nil {
		t.Fatalf("ReadFlights: %v", err)
	}
	if flights[0].FlightID != "UA123" || flights[0].CargoWeight != 5000 {
		t.Errorf("reordered columns misparsed: %+v", flights[0])
	}
}

func TestReadFlightsMissingColumn(t *testing.T) {
	_, err := ReadFlights(strings.NewReader("flight_id,origin\nUA123,JFK\n"))
	if err == nil {
		t.Fatal("accepted CSV without required columns")
	}
	if !strings.Contains(err.Error(), "missing column") {
		t.Errorf("error = %v", err)
	}
}

func TestReadFlightsBadValue(t *testing.T) {
	bad := strings.Replace(flightsCSV, "15000", "lots", 1)
	_, err := ReadFlights(strings.NewReader(bad))
	if err == nil {
		t.Fatal("accepted non-numeric planned_fuel")
	}
}

func TestLoadRoutesAndAttach(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.json")
	if err := os.WriteFile(path, []byte(routesJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	routes, err := LoadRoutes(path)
	if err != nil {
		t.Fatalf("LoadRoutes: %v", err)
	}
	if len(routes["UA123"].Route) != 2 {
		t.Fatalf("UA123 route = %v", routes["UA123"].Route)
	}

	flights, err := ReadFlights(strings.NewReader(flightsCSV))
	if err != nil {
		t.Fatal(err)
	}

	attached, err := AttachRoutes(flights, routes)
	if err != nil {
		t.Fatalf("AttachRoutes: %v", err)
	}

	if len(attached[0].RouteWaypoints) != 2 {
		t.Errorf("UA123 waypoints = %d, want 2", len(attached[0].RouteWaypoints))
	}
	if attached[0].RouteWaypoints[0].Name != "JFK" {
		t.Errorf("first waypoint = %q", attached[0].RouteWaypoints[0].Name)
	}
	// DL456 has no route entry and stays degenerate.
	if len(attached[1].RouteWaypoints) != 0 {
		t.Errorf("DL456 waypoints = %d, want 0", len(attached[1].RouteWaypoints))
	}
}

func TestAttachRoutesRejectsInvalidPlan(t *testing.T) {
	flights, err := ReadFlights(strings.NewReader(flightsCSV))
	if err != nil {
		t.Fatal(err)
	}

	routes := map[string]RouteEntry{
		"UA123": {Route: []model.Waypoint{{Name: "BAD", Latitude: 95, Longitude: 0}}},
	}

	_, err = AttachRoutes(flights, routes)
	if err == nil {
		t.Fatal("accepted out-of-range waypoint latitude")
	}
	var planErr *model.InvalidFlightPlanError
	if !errors.As(err, &planErr) {
		t.Fatalf("error type = %T, want *model.InvalidFlightPlanError", err)
	}
}
