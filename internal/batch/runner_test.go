package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"fuel_optimizer/internal/engine"
	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/ops"
	"fuel_optimizer/internal/weather"
	"fuel_optimizer/internal/workflow"
)

func testPlan(id string, altitude int) model.FlightPlan {
	return model.FlightPlan{
		FlightID:      id,
		Origin:        "JFK",
		Destination:   "LAX",
		AircraftType:  "B737-800",
		DepartureTime: time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		RouteWaypoints: []model.Waypoint{
			{Name: "JFK", Latitude: 40.6413, Longitude: -73.7781},
			{Name: "LAX", Latitude: 33.9416, Longitude: -118.4085},
		},
		PlannedFuel:    15000,
		CruiseAltitude: altitude,
		PassengerCount: 150,
		CargoWeight:    5000,
	}
}

type memoryArchive struct {
	results []model.OptimizationResult
	err     error
}

func (a *memoryArchive) ArchiveResult(_ context.Context, result model.OptimizationResult, _ ops.Recommendation) error {
	if a.err != nil {
		return a.err
	}
	a.results = append(a.results, result)
	return nil
}

func TestProcessFlight(t *testing.T) {
	pub := &ops.MemoryPublisher{}
	archive := &memoryArchive{}
	runner := &Runner{
		Engine:    engine.New(engine.Config{}),
		Weather:   &weather.Static{},
		Publisher: pub,
		Archive:   archive,
	}

	res, err := runner.ProcessFlight(context.Background(), testPlan("UA123", 32000))
	if err != nil {
		t.Fatalf("ProcessFlight: %v", err)
	}

	if res.Result.OptimizedAltitude != 36000 {
		t.Errorf("OptimizedAltitude = %d, want 36000", res.Result.OptimizedAltitude)
	}
	if res.Recommendation.FlightID != "UA123" {
		t.Errorf("recommendation flight = %q", res.Recommendation.FlightID)
	}
	if res.Publication.Status != "published" {
		t.Errorf("publication status = %q, want published", res.Publication.Status)
	}
	if len(archive.results) != 1 {
		t.Errorf("archived %d results, want 1", len(archive.results))
	}

	status := res.Workflow
	if status.Status != "completed" {
		t.Errorf("workflow status = %q, want completed", status.Status)
	}
	if status.CompletedSteps != len(workflow.Steps) {
		t.Errorf("completed steps = %d, want %d", status.CompletedSteps, len(workflow.Steps))
	}
	if status.CurrentState != workflow.StateCompleted {
		t.Errorf("current state = %s, want completed", status.CurrentState)
	}
	last := status.History[len(status.History)-1]
	if last.State != workflow.StateCompleted {
		t.Errorf("last transition = %s, want terminal completed", last.State)
	}
}

func TestProcessFlightInvalidPlan(t *testing.T) {
	runner := &Runner{
		Engine:  engine.New(engine.Config{}),
		Weather: &weather.Static{},
	}

	plan := testPlan("UA123", -100)
	if _, err := runner.ProcessFlight(context.Background(), plan); err == nil {
		t.Fatal("accepted plan with negative cruise altitude")
	}
}

func TestProcessFlightArchiveFailure(t *testing.T) {
	runner := &Runner{
		Engine:    engine.New(engine.Config{}),
		Weather:   &weather.Static{},
		Publisher: &ops.MemoryPublisher{},
		Archive:   &memoryArchive{err: errors.New("disk full")},
	}

	_, err := runner.ProcessFlight(context.Background(), testPlan("UA123", 36000))
	if err == nil {
		t.Fatal("archive failure not surfaced")
	}
}

func TestRunSkipsFailedFlights(t *testing.T) {
	pub := &ops.MemoryPublisher{}
	runner := &Runner{
		Engine:    engine.New(engine.Config{}),
		Weather:   &weather.Static{},
		Publisher: pub,
		Workers:   4,
	}

	flights := []model.FlightPlan{
		testPlan("UA100", 34000),
		testPlan("UA200", -1), // fails validation
		testPlan("UA300", 38000),
	}

	results := runner.Run(context.Background(), flights)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].FlightID != "UA100" || results[1].FlightID != "UA300" {
		t.Errorf("result order = %s, %s; want UA100, UA300", results[0].FlightID, results[1].FlightID)
	}
	if len(pub.History()) != 2 {
		t.Errorf("published %d recommendations, want 2", len(pub.History()))
	}
}

func TestRunNoFlights(t *testing.T) {
	runner := &Runner{
		Engine:  engine.New(engine.Config{}),
		Weather: &weather.Static{},
	}

	if results := runner.Run(context.Background(), nil); len(results) != 0 {
		t.Errorf("got %d results for empty input", len(results))
	}
}
