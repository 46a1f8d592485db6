// Package main provides the optimization-api server.
//
// This is a standalone REST API server exposing the fuel optimization
// engine and the stored recommendation state in PostgreSQL. Dispatch
// tooling posts flight plans to compute recommendations on demand and
// reads back previously archived results.
//
// Usage:
//
//	optimization-api [options]
//
// Options:
//
//	-pg-host HOST       PostgreSQL host (default: localhost, env: POSTGRES_HOST)
//	-pg-port PORT       PostgreSQL port (default: 5432, env: POSTGRES_PORT)
//	-pg-database DB     PostgreSQL database (default: fuelopt_state, env: POSTGRES_DATABASE)
//	-pg-user USER       PostgreSQL user (default: fuelopt, env: POSTGRES_USER)
//	-pg-password PASS   PostgreSQL password (default: fuelopt, env: POSTGRES_PASSWORD)
//	-no-store           Run without PostgreSQL (compute endpoints only)
//	-ch-host HOST       ClickHouse host (default: localhost, env: CLICKHOUSE_HOST)
//	-ch-port PORT       ClickHouse port (default: 9000, env: CLICKHOUSE_PORT)
//	-ch-database DB     ClickHouse database (default: fuelopt, env: CLICKHOUSE_DATABASE)
//	-ch-user USER       ClickHouse user (default: default, env: CLICKHOUSE_USER)
//	-ch-password PASS   ClickHouse password (default: empty, env: CLICKHOUSE_PASSWORD)
//	-no-analytics       Run without ClickHouse (no analytics endpoints)
//	-port N             HTTP port (default: 8082)
//	-auth               Enable API key authentication
//	-api-keys KEYS      Comma-separated list of valid API keys
//	-seed N             Weather simulation seed (default: current time)
//
// API Endpoints:
//
//	GET  /api/v1/health
//	    Health check endpoint.
//
//	POST /api/v1/optimize
//	    Optimize one flight. Body: {"flight": {...}, "readings": [...]}.
//	    Readings are optional; omitted readings are simulated.
//
//	POST /api/v1/optimize/batch
//	    Optimize multiple flights. Body: {"flights": [{...}]}
//
//	GET  /api/v1/results
//	GET  /api/v1/results/{flight_id}
//	POST /api/v1/results/{flight_id}/ack
//	    Stored-result lookup and acknowledgment (requires PostgreSQL).
//
//	GET  /api/v1/analytics/altitude-savings
//	    Fleet-wide fuel savings per recommended altitude (requires
//	    ClickHouse).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fuel_optimizer/internal/api"
	"fuel_optimizer/internal/engine"
	"fuel_optimizer/internal/storage"
	"fuel_optimizer/internal/weather"
)

func main() {
	// PostgreSQL connection flags.
	pgHost := flag.String("pg-host", envOrDefault("POSTGRES_HOST", "localhost"), "PostgreSQL host")
	pgPort := flag.Int("pg-port", envOrDefaultInt("POSTGRES_PORT", 5432), "PostgreSQL port")
	pgUser := flag.String("pg-user", envOrDefault("POSTGRES_USER", "fuelopt"), "PostgreSQL user")
	pgPassword := flag.String("pg-password", envOrDefault("POSTGRES_PASSWORD", "fuelopt"), "PostgreSQL password")
	pgDB := flag.String("pg-database", envOrDefault("POSTGRES_DATABASE", "fuelopt_state"), "PostgreSQL database")
	noStore := flag.Bool("no-store", false, "Run without PostgreSQL (compute endpoints only)")

	// ClickHouse connection flags.
	chHost := flag.String("ch-host", envOrDefault("CLICKHOUSE_HOST", "localhost"), "ClickHouse host")
	chPort := flag.Int("ch-port", envOrDefaultInt("CLICKHOUSE_PORT", 9000), "ClickHouse port")
	chUser := flag.String("ch-user", envOrDefault("CLICKHOUSE_USER", "default"), "ClickHouse user")
	chPassword := flag.String("ch-password", envOrDefault("CLICKHOUSE_PASSWORD", ""), "ClickHouse password")
	chDB := flag.String("ch-database", envOrDefault("CLICKHOUSE_DATABASE", "fuelopt"), "ClickHouse database")
	noAnalytics := flag.Bool("no-analytics", false, "Run without ClickHouse (no analytics endpoints)")

	// API server flags.
	port := flag.Int("port", 8082, "HTTP port for API server")
	authEnabled := flag.Bool("auth", false, "Enable API key authentication")
	apiKeys := flag.String("api-keys", "", "Comma-separated list of valid API keys (when auth enabled)")
	seed := flag.Int64("seed", 0, "Weather simulation seed (0: current time)")

	flag.Parse()

	ctx := context.Background()

	var store api.ResultStore
	if !*noStore {
		pg, err := storage.OpenPostgres(ctx, storage.PostgresConfig{
			Host:     *pgHost,
			Port:     *pgPort,
			Database: *pgDB,
			User:     *pgUser,
			Password: *pgPassword,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()

		if err := pg.CreateSchema(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating schema: %v\n", err)
			os.Exit(1)
		}
		store = pg
	}

	var analytics api.Analytics
	if !*noAnalytics {
		ch, err := storage.OpenClickHouse(ctx, storage.ClickHouseConfig{
			Host:     *chHost,
			Port:     *chPort,
			Database: *chDB,
			User:     *chUser,
			Password: *chPassword,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening ClickHouse: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = ch.Close() }()

		if err := ch.CreateSchema(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating ClickHouse schema: %v\n", err)
			os.Exit(1)
		}
		analytics = ch
	}

	// Parse API keys.
	var keys []string
	if *apiKeys != "" {
		keys = strings.Split(*apiKeys, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	server := api.NewServer(
		engine.New(engine.Config{}),
		weather.NewSimulated(*seed),
		store,
		analytics,
		api.Config{
			Port:        *port,
			AuthEnabled: *authEnabled,
			APIKeys:     keys,
		},
	)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
