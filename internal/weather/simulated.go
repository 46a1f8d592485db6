package weather

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"fuel_optimizer/internal/model"
)

// Simulated generates realistic en-route weather without a live feed.
// Winds are westerly at jet stream speeds; temperature falls with
// latitude. A fixed seed makes runs reproducible.
//
// One provider instance is shared by all batch workers and API
// requests, and rand.Rand is not safe for concurrent use, so the rng
// is mutex-guarded.
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

var (
	simWindDirections = []int{270, 280, 290, 300}
	simWindSpeeds     = []int{50, 75, 100, 125, 150}
	simConditions     = []string{"Clear", "Few Clouds", "Scattered Clouds", "Broken Clouds", "Light Turbulence"}
)

// NewSimulated creates a simulated provider seeded for reproducibility.
func NewSimulated(seed int64) *Simulated {
	return &Simulated{
		rng: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// FetchRouteWeather returns one reading per waypoint, in route order.
func (s *Simulated) FetchRouteWeather(waypoints []model.Waypoint) []model.WeatherReading {
	readings := make([]model.WeatherReading, 0, len(waypoints))
	for _, wp := range waypoints {
		readings = append(readings, s.readingFor(wp))
	}
	return readings
}

func (s *Simulated) readingFor(wp model.Waypoint) model.WeatherReading {
	// Colder at higher latitudes.
	baseTemp := 15 - wp.Latitude/10
	now := s.now()

	s.mu.Lock()
	temperature := baseTemp + s.rng.Float64()*20 - 10
	windSpeed := simWindSpeeds[s.rng.Intn(len(simWindSpeeds))]
	windDirection := simWindDirections[s.rng.Intn(len(simWindDirections))]
	conditions := simConditions[s.rng.Intn(len(simConditions))]
	s.mu.Unlock()

	return model.WeatherReading{
		Location:      wp.Name,
		Timestamp:     now,
		Temperature:   temperature,
		WindSpeed:     windSpeed,
		WindDirection: windDirection,
		Visibility:    10.0,
		Conditions:    conditions,
		MetarRaw:      fmt.Sprintf("METAR %s AUTO %sZ", wp.Name, now.Format("021504")),
	}
}

// Static is a fixed-readings provider for tests and replays.
type Static struct {
	Readings []model.WeatherReading
}

// FetchRouteWeather returns the configured readings regardless of route.
func (s *Static) FetchRouteWeather(_ []model.Waypoint) []model.WeatherReading {
	return s.Readings
}
