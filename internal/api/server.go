// Package api provides REST API endpoints for flight fuel optimization.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fuel_optimizer/internal/engine"
	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/ops"
	"fuel_optimizer/internal/storage"
	"fuel_optimizer/internal/weather"
)

// ResultStore is the stored-result lookup used by the read endpoints.
// Satisfied by storage.PostgresDB; mocked in tests.
type ResultStore interface {
	GetLatestResult(ctx context.Context, flightID string) (*storage.StoredResult, error)
	ListRecent(ctx context.Context, limit int) ([]storage.StoredResult, error)
	Acknowledge(ctx context.Context, flightID string) error
}

// Analytics is the fleet-wide aggregation source behind the analytics
// endpoints. Satisfied by storage.ClickHouseDB; mocked in tests.
type Analytics interface {
	SavingsByAltitude(ctx context.Context) (map[int32]float64, error)
}

// Config holds configuration for the optimization API server.
type Config struct {
	Port        int
	AuthEnabled bool
	APIKeys     []string // List of valid API keys.
}

// Server exposes the optimization engine and stored results over HTTP.
type Server struct {
	engine      *engine.Engine
	weather     weather.Provider
	store       ResultStore // may be nil: read endpoints return 503
	analytics   Analytics   // may be nil: analytics endpoints return 503
	port        int
	authEnabled bool
	apiKeys     map[string]bool
}

// NewServer creates an optimization API server.
func NewServer(eng *engine.Engine, wx weather.Provider, store ResultStore, analytics Analytics, cfg Config) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}

	return &Server{
		engine:      eng,
		weather:     wx,
		store:       store,
		analytics:   analytics,
		port:        cfg.Port,
		authEnabled: cfg.AuthEnabled,
		apiKeys:     keys,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for browser access.
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/", s.Router())
	})

	addr := ":" + strconv.Itoa(s.port)
	log.Printf("Optimization API starting at http://localhost%s", addr)
	if s.authEnabled {
		log.Printf("Authentication: ENABLED (API key required)")
	} else {
		log.Printf("Authentication: DISABLED (open access)")
	}

	return http.ListenAndServe(addr, r)
}

// Router returns the configured chi router for embedding in other
// servers and tests.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	if s.authEnabled {
		r.Use(s.authMiddleware)
	}

	r.Get("/health", s.handleHealth)
	r.Post("/optimize", s.handleOptimize)
	r.Post("/optimize/batch", s.handleOptimizeBatch)
	r.Get("/results", s.handleListResults)
	r.Get("/results/{flight_id}", s.handleGetResult)
	r.Post("/results/{flight_id}/ack", s.handleAcknowledge)
	r.Get("/analytics/altitude-savings", s.handleAltitudeSavings)

	return r
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates API key authentication.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check X-API-Key header first.
		apiKey := r.Header.Get("X-API-Key")

		// Fall back to Authorization: Bearer <key>.
		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		// Fall back to query parameter.
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OptimizeRequest is the optimize endpoint's body. Weather readings are
// optional; absent readings are fetched from the server's provider.
type OptimizeRequest struct {
	Flight   model.FlightPlan       `json:"flight"`
	Readings []model.WeatherReading `json:"readings,omitempty"`
}

// OptimizeResponse pairs the engine result with its operations
// rendering.
type OptimizeResponse struct {
	Result         model.OptimizationResult `json:"optimization_result"`
	Recommendation ops.Recommendation       `json:"recommendation"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := s.optimizeOne(req)
	if err != nil {
		writeOptimizeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// BatchOptimizeRequest carries multiple flights for one call.
type BatchOptimizeRequest struct {
	Flights []model.FlightPlan `json:"flights"`
}

// BatchOptimizeResponse returns per-flight outcomes; flights that fail
// validation or estimation are reported alongside the successes.
type BatchOptimizeResponse struct {
	Results []OptimizeResponse `json:"results"`
	Errors  []BatchError       `json:"errors,omitempty"`
}

// BatchError reports one failed flight in a batch call.
type BatchError struct {
	FlightID string `json:"flight_id"`
	Error    string `json:"error"`
}

func (s *Server) handleOptimizeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchOptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(req.Flights) == 0 {
		writeError(w, http.StatusBadRequest, "no flights in request")
		return
	}

	var resp BatchOptimizeResponse
	for _, plan := range req.Flights {
		out, err := s.optimizeOne(OptimizeRequest{Flight: plan})
		if err != nil {
			resp.Errors = append(resp.Errors, BatchError{FlightID: plan.FlightID, Error: err.Error()})
			continue
		}
		resp.Results = append(resp.Results, out)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) optimizeOne(req OptimizeRequest) (OptimizeResponse, error) {
	if err := req.Flight.Validate(); err != nil {
		return OptimizeResponse{}, err
	}

	readings := req.Readings
	if readings == nil && s.weather != nil {
		readings = s.weather.FetchRouteWeather(req.Flight.RouteWaypoints)
	}
	for _, reading := range readings {
		if err := model.ValidateReading(reading); err != nil {
			return OptimizeResponse{}, err
		}
	}

	result, err := s.engine.Optimize(req.Flight, readings)
	if err != nil {
		return OptimizeResponse{}, err
	}

	return OptimizeResponse{
		Result:         result,
		Recommendation: ops.BuildRecommendation(result),
	}, nil
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "result store not configured")
		return
	}

	flightID := chi.URLParam(r, "flight_id")
	result, err := s.store.GetLatestResult(r.Context(), flightID)
	if err != nil {
		log.Printf("get result %s: %v", flightID, err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "no result for flight "+flightID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "result store not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be 1-1000")
			return
		}
		limit = n
	}

	results, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("list results: %v", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "result store not configured")
		return
	}

	flightID := chi.URLParam(r, "flight_id")
	if err := s.store.Acknowledge(r.Context(), flightID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "acknowledged",
		"flight_id": flightID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// AltitudeSavings is one row of the altitude-savings aggregation.
type AltitudeSavings struct {
	Altitude      int32   `json:"altitude"`
	FuelSavingsKg float64 `json:"fuel_savings_kg"`
}

func (s *Server) handleAltitudeSavings(w http.ResponseWriter, r *http.Request) {
	if s.analytics == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics store not configured")
		return
	}

	byAltitude, err := s.analytics.SavingsByAltitude(r.Context())
	if err != nil {
		log.Printf("altitude savings: %v", err)
		writeError(w, http.StatusInternalServerError, "aggregation failed")
		return
	}

	rows := make([]AltitudeSavings, 0, len(byAltitude))
	for altitude, savings := range byAltitude {
		rows = append(rows, AltitudeSavings{Altitude: altitude, FuelSavingsKg: savings})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Altitude < rows[j].Altitude })

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(rows),
		"results": rows,
	})
}

// writeOptimizeError maps domain errors to HTTP statuses: invalid plans
// and readings are client errors, an unflyable headwind is unprocessable.
func writeOptimizeError(w http.ResponseWriter, err error) {
	var planErr *model.InvalidFlightPlanError
	var speedErr *engine.InvalidGroundSpeedError
	switch {
	case errors.As(err, &planErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &speedErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
