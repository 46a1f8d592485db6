package batch

import (
	"context"
	"fmt"
	"log"
	"sync"

	"fuel_optimizer/internal/engine"
	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/ops"
	"fuel_optimizer/internal/weather"
	"fuel_optimizer/internal/workflow"
)

// Archiver persists finished optimization results. Optional; a nil
// archiver skips persistence.
type Archiver interface {
	ArchiveResult(ctx context.Context, result model.OptimizationResult, rec ops.Recommendation) error
}

// FlightResult is the full outcome for one flight.
type FlightResult struct {
	FlightID       string                   `json:"flight_id"`
	Result         model.OptimizationResult `json:"optimization_result"`
	Recommendation ops.Recommendation       `json:"recommendation"`
	Publication    ops.PublicationRecord    `json:"publication"`
	Workflow       workflow.Status          `json:"workflow_status"`
}

// Runner executes the optimization pipeline per flight: weather fetch,
// engine sweep, recommendation build, publication, archival. Flights
// are independent; the runner fans out over a bounded worker pool.
type Runner struct {
	Engine    *engine.Engine
	Weather   weather.Provider
	Publisher ops.Publisher
	Archive   Archiver
	Workers   int // 0 or 1: sequential
}

// Run processes all flights. Per-flight failures are logged and
// skipped; results keep the input order with failed flights omitted.
func (r *Runner) Run(ctx context.Context, flights []model.FlightPlan) []FlightResult {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(flights) {
		workers = len(flights)
	}

	results := make([]*FlightResult, len(flights))

	var wg sync.WaitGroup
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				plan := flights[i]
				res, err := r.ProcessFlight(ctx, plan)
				if err != nil {
					log.Printf("flight %s: %v", plan.FlightID, err)
					continue
				}
				results[i] = res
			}
		}()
	}

	for i := range flights {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]FlightResult, 0, len(flights))
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out
}

// ProcessFlight runs the five pipeline steps for one flight and records
// them in a workflow tracker.
func (r *Runner) ProcessFlight(ctx context.Context, plan model.FlightPlan) (*FlightResult, error) {
	log.Printf("processing flight %s", plan.FlightID)

	tracker := workflow.NewTracker()
	out := &FlightResult{FlightID: plan.FlightID}

	err := tracker.Run(workflow.StateDataIngestion, func() error {
		return plan.Validate()
	})
	if err != nil {
		tracker.Fail(err)
		out.Workflow = tracker.Status()
		return nil, err
	}

	var readings []model.WeatherReading
	err = tracker.Run(workflow.StateWeatherAnalysis, func() error {
		readings = r.Weather.FetchRouteWeather(plan.RouteWaypoints)
		for _, reading := range readings {
			if err := model.ValidateReading(reading); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		tracker.Fail(err)
		out.Workflow = tracker.Status()
		return nil, err
	}

	err = tracker.Run(workflow.StateOptimizationCompute, func() error {
		result, err := r.Engine.Optimize(plan, readings)
		if err != nil {
			return err
		}
		out.Result = result
		return nil
	})
	if err != nil {
		tracker.Fail(err)
		out.Workflow = tracker.Status()
		return nil, err
	}

	err = tracker.Run(workflow.StateRecommendationGeneration, func() error {
		out.Recommendation = ops.BuildRecommendation(out.Result)
		return nil
	})
	if err != nil {
		tracker.Fail(err)
		out.Workflow = tracker.Status()
		return nil, err
	}

	err = tracker.Run(workflow.StateResultsPublication, func() error {
		if r.Publisher != nil {
			record, err := r.Publisher.Publish(ctx, out.Recommendation)
			if err != nil {
				return err
			}
			out.Publication = record
		}
		if r.Archive != nil {
			if err := r.Archive.ArchiveResult(ctx, out.Result, out.Recommendation); err != nil {
				return fmt.Errorf("archive: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		tracker.Fail(err)
		out.Workflow = tracker.Status()
		return nil, err
	}

	tracker.Complete()
	out.Workflow = tracker.Status()
	return out, nil
}
