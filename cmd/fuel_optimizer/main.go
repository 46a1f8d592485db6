// Command-line entry point for the fuel optimizer.
//
// The optimize command loads a batch of flights (CSV) and their routes
// (JSON), runs the altitude optimization pipeline per flight, prints a
// per-flight summary, and writes a JSON report. Results can optionally
// be archived to a local SQLite file and published to NATS.
//
// Usage:
//
//	fuel_optimizer optimize -flights data/sample_flights.csv -routes data/route_waypoints.json [options]
//
// Options:
//
//	-flights FILE    Flight data CSV (required)
//	-routes FILE     Route waypoints JSON (required)
//	-output FILE     Report output path (default: optimization_report.json)
//	-profiles FILE   Extra aircraft profiles JSON, merged over builtins
//	-archive FILE    SQLite archive path (default: none)
//	-db              Archive to the server databases (PostgreSQL state +
//	                 ClickHouse analytics) instead of a local SQLite file.
//	                 Connection settings come from the standard
//	                 POSTGRES_*/CLICKHOUSE_* environment variables.
//	-nats URL        NATS server URL for publication (default: none)
//	-subject PREFIX  NATS subject prefix (default: ops.fuel)
//	-workers N       Concurrent flights (default: 4)
//	-seed N          Weather simulation seed (default: current time)
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fuel_optimizer/internal/batch"
	"fuel_optimizer/internal/engine"
	"fuel_optimizer/internal/ops"
	"fuel_optimizer/internal/profiles"
	"fuel_optimizer/internal/report"
	"fuel_optimizer/internal/storage"
	"fuel_optimizer/internal/weather"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "fuel_optimizer - commands:")
	fmt.Fprintln(w, "  optimize  - run batch optimization over a flight data file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fuel_optimizer optimize -flights flights.csv -routes routes.json [-output report.json]")
	fmt.Fprintln(w, "                          [-profiles profiles.json] [-archive results.db | -db]")
	fmt.Fprintln(w, "                          [-nats nats://localhost:4222] [-workers 4] [-seed N]")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "optimize":
		runOptimize(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	flightsPath := fs.String("flights", "", "Flight data CSV file")
	routesPath := fs.String("routes", "", "Route waypoints JSON file")
	outputPath := fs.String("output", "optimization_report.json", "Report output file")
	profilesPath := fs.String("profiles", "", "Extra aircraft profiles JSON file")
	archivePath := fs.String("archive", "", "SQLite archive path (empty: no archive)")
	useServerDB := fs.Bool("db", false, "Archive to PostgreSQL + ClickHouse (POSTGRES_*/CLICKHOUSE_* env config)")
	natsURL := fs.String("nats", "", "NATS server URL (empty: no publication)")
	subject := fs.String("subject", "ops.fuel", "NATS subject prefix")
	workers := fs.Int("workers", 4, "Concurrent flights")
	seed := fs.Int64("seed", 0, "Weather simulation seed (0: current time)")
	_ = fs.Parse(args)

	if *flightsPath == "" || *routesPath == "" {
		fmt.Fprintln(os.Stderr, "Both -flights and -routes are required")
		fs.Usage()
		os.Exit(2)
	}
	if *useServerDB && *archivePath != "" {
		fmt.Fprintln(os.Stderr, "Choose one of -archive (local SQLite) or -db (server databases)")
		os.Exit(2)
	}

	ctx := context.Background()

	table := profiles.Builtin()
	if *profilesPath != "" {
		var err error
		table, err = profiles.LoadFile(*profilesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load profiles: %v\n", err)
			os.Exit(1)
		}
	}

	flights, err := batch.LoadFlights(*flightsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load flights: %v\n", err)
		os.Exit(1)
	}
	routes, err := batch.LoadRoutes(*routesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load routes: %v\n", err)
		os.Exit(1)
	}
	flights, err = batch.AttachRoutes(flights, routes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flight data: %v\n", err)
		os.Exit(1)
	}

	runner := &batch.Runner{
		Engine:  engine.New(engine.Config{Profiles: table}),
		Weather: weather.NewSimulated(seedOrNow(*seed)),
		Workers: *workers,
	}

	if *natsURL != "" {
		pub, err := ops.NewNATSPublisher(*natsURL, *subject)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect NATS: %v\n", err)
			os.Exit(1)
		}
		defer pub.Close()
		runner.Publisher = pub
	} else {
		runner.Publisher = &ops.MemoryPublisher{}
	}

	if *archivePath != "" {
		archive, err := storage.OpenSQLite(*archivePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open archive: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = archive.Close() }()
		runner.Archive = archive
	}

	if *useServerDB {
		db, err := storage.Open(ctx, serverDBConfig())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open server databases: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		if err := db.CreateSchemas(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create schemas: %v\n", err)
			os.Exit(1)
		}
		runner.Archive = db
	}

	results := runner.Run(ctx, flights)

	routesByID := make(map[string]string, len(flights))
	for _, plan := range flights {
		routesByID[plan.FlightID] = plan.Origin + " -> " + plan.Destination
	}

	for _, r := range results {
		fmt.Printf("\n%s: %s\n", r.FlightID, routesByID[r.FlightID])
		fmt.Printf("   Fuel Savings: %.1f kg (%.1f%%)\n", r.Result.FuelSavings, r.Result.SavingsPercentage)
		fmt.Printf("   Cost Savings: $%.2f\n", r.Result.CostSavings)
		fmt.Printf("   Recommendation: %s\n", r.Result.RecommendationType)
		fmt.Printf("   Confidence: %.0f%%\n", r.Result.ConfidenceScore*100)
	}

	rep := report.Build(results, len(flights))
	if err := report.WriteFile(rep, *outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
		os.Exit(1)
	}

	line := strings.Repeat("=", 60)
	fmt.Println("\n" + line)
	fmt.Println("OPTIMIZATION SUMMARY")
	fmt.Println(line)
	fmt.Printf("Flights Processed: %d of %d (%s)\n", len(results), len(flights), rep.Summary.OptimizationRate)
	fmt.Printf("Total Fuel Savings: %.1f kg\n", rep.Summary.TotalFuelSavingsKg)
	fmt.Printf("Total Cost Savings: $%.2f\n", rep.Summary.TotalCostSavingsUSD)
	fmt.Printf("High Priority Actions: %d\n", rep.Summary.HighPriorityRecommendations)
	fmt.Printf("Average Confidence: %.0f%%\n", rep.Summary.AverageConfidence*100)
	fmt.Println(line)
	fmt.Printf("Report saved to: %s\n", *outputPath)
}

func seedOrNow(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// serverDBConfig starts from the local-development defaults and applies
// the standard environment overrides.
func serverDBConfig() storage.Config {
	cfg := storage.DefaultConfig()

	cfg.Postgres.Host = envOrDefault("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envOrDefaultInt("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.Database = envOrDefault("POSTGRES_DATABASE", cfg.Postgres.Database)
	cfg.Postgres.User = envOrDefault("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envOrDefault("POSTGRES_PASSWORD", cfg.Postgres.Password)

	cfg.ClickHouse.Host = envOrDefault("CLICKHOUSE_HOST", cfg.ClickHouse.Host)
	cfg.ClickHouse.Port = envOrDefaultInt("CLICKHOUSE_PORT", cfg.ClickHouse.Port)
	cfg.ClickHouse.Database = envOrDefault("CLICKHOUSE_DATABASE", cfg.ClickHouse.Database)
	cfg.ClickHouse.User = envOrDefault("CLICKHOUSE_USER", cfg.ClickHouse.User)
	cfg.ClickHouse.Password = envOrDefault("CLICKHOUSE_PASSWORD", cfg.ClickHouse.Password)

	return cfg
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
