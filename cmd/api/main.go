// Package main is the entry point for the bookshelf API server.
// It wires together configuration, the in-memory book store, and the HTTP router.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aoideee/bookshelf/internal/data"
	"github.com/aoideee/bookshelf/internal/validator"
)

// appVersion is the current version of the API, shown in logs and /healthcheck.
const appVersion = "1.0.0"

// serverConfig holds all the values that can be tweaked at startup via
// command-line flags. Defaults come from the environment.
type serverConfig struct {
	port        int    // TCP port the HTTP server listens on
	environment string // development, staging, or production
	seedFile    string // Optional YAML file of books loaded at startup
	limiter     struct {
		rps     float64 // Tokens added per second for each client IP
		burst   int     // Bucket size for each client IP
		enabled bool
	}
}

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config serverConfig
	logger *slog.Logger
	models data.Models
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// A missing .env file is normal; anything else is worth a warning.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not load .env file", "error", err)
	}

	settings, err := parseConfig(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	models := data.NewModels()
	if settings.seedFile != "" {
		n, err := models.Books.SeedFromFile(settings.seedFile)
		if err != nil {
			logger.Error("seeding book store", "file", settings.seedFile, "error", err)
			os.Exit(1)
		}
		logger.Info("book store seeded", "file", settings.seedFile, "books", n)
	}

	app := &applicationDependencies{
		config: settings,
		logger: logger,
		models: models,
	}

	err = app.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// parseConfig registers the server flags on fs, using getenv for their
// defaults, and parses args.
func parseConfig(fs *flag.FlagSet, args []string, getenv func(string) string) (serverConfig, error) {
	var cfg serverConfig

	fs.IntVar(&cfg.port, "port", envInt(getenv, "PORT", 9000), "Server port")
	fs.StringVar(&cfg.environment, "env", envString(getenv, "APP_ENV", "development"), "Environment (development|staging|production)")
	fs.StringVar(&cfg.seedFile, "seed", getenv("SEED_FILE"), "YAML file of books to load at startup")
	fs.Float64Var(&cfg.limiter.rps, "limiter-rps", envFloat(getenv, "LIMITER_RPS", 2), "Rate limiter maximum requests per second")
	fs.IntVar(&cfg.limiter.burst, "limiter-burst", envInt(getenv, "LIMITER_BURST", 4), "Rate limiter maximum burst")
	fs.BoolVar(&cfg.limiter.enabled, "limiter-enabled", envBool(getenv, "LIMITER_ENABLED", false), "Enable rate limiter")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	v := validator.New()
	v.Check(cfg.port > 0 && cfg.port <= 65535, "port", "must be between 1 and 65535")
	v.Check(validator.In(cfg.environment, "development", "staging", "production"), "env", "must be development, staging or production")
	v.Check(!cfg.limiter.enabled || cfg.limiter.rps > 0, "limiter-rps", "must be greater than zero")
	v.Check(!cfg.limiter.enabled || cfg.limiter.burst > 0, "limiter-burst", "must be greater than zero")
	if !v.Valid() {
		key, msg := v.First()
		return cfg, fmt.Errorf("invalid -%s: %s", key, msg)
	}

	return cfg, nil
}

func envString(getenv func(string) string, key, fallback string) string {
	if s := getenv(key); s != "" {
		return s
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	i, err := strconv.Atoi(getenv(key))
	if err != nil {
		return fallback
	}
	return i
}

func envFloat(getenv func(string) string, key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(getenv func(string) string, key string, fallback bool) bool {
	b, err := strconv.ParseBool(getenv(key))
	if err != nil {
		return fallback
	}
	return b
}
