package engine

import (
	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/profiles"
)

// Config holds construction options for an Engine. Zero values take
// defaults.
type Config struct {
	Profiles   *profiles.Table // nil: builtin table
	Candidates []int           // nil: DefaultAltitudes
	FuelPrice  float64         // 0: FuelPricePerKG
	JetStream  JetStreamFunc   // nil: weather.JetStream
}

// Engine wires the estimator, optimizer, and classifier together.
type Engine struct {
	Estimator  *Estimator
	Optimizer  *Optimizer
	Classifier *Classifier
}

// New creates an engine from the config, filling in defaults.
func New(cfg Config) *Engine {
	if cfg.Profiles == nil {
		cfg.Profiles = profiles.Builtin()
	}

	est := NewEstimator(cfg.Profiles)
	cls := NewClassifier()
	if cfg.FuelPrice != 0 {
		cls.FuelPrice = cfg.FuelPrice
	}
	if cfg.JetStream != nil {
		cls.JetStream = cfg.JetStream
	}

	return &Engine{
		Estimator:  est,
		Optimizer:  NewOptimizer(est, cfg.Candidates),
		Classifier: cls,
	}
}

// Optimize runs the full sweep and classification for one flight under
// the given weather readings.
func (e *Engine) Optimize(plan model.FlightPlan, readings []model.WeatherReading) (model.OptimizationResult, error) {
	sweep, err := e.Optimizer.Sweep(plan, readings)
	if err != nil {
		return model.OptimizationResult{}, err
	}
	return e.Classifier.Classify(plan, readings, sweep), nil
}
