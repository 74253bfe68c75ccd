// Package config derives service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SourceFile     = "file"
	SourcePostgres = "postgres"
)

var baseOrigins = []string{
	"http://localhost",
	"http://localhost:3000",
	"http://localhost:8000",
	"http://127.0.0.1:8000",
	"https://missfitsbymanya.store",
	"https://akshaybhandare.github.io",
}

type Config struct {
	Environment string
	Debug       bool

	Host string
	Port int

	// Domain, when set, adds http/https origins for it with and without www.
	Domain string

	Source      string
	DataFile    string
	DatabaseURL string

	MetricsEnabled bool
	MetricsToken   string

	// SearchRateLimit is search requests per minute per client IP; 0 disables.
	SearchRateLimit int
}

// Load reads .env from the working directory if present, then the process
// environment.
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a getenv-style lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	c := Config{
		Environment:  strings.ToLower(get("ENVIRONMENT", EnvDevelopment)),
		Host:         get("HOST", "127.0.0.1"),
		Domain:       get("DOMAIN", ""),
		Source:       strings.ToLower(get("CATALOG_SOURCE", SourceFile)),
		DataFile:     get("DATA_FILE", "data/products.json"),
		DatabaseURL:  get("DATABASE_URL", ""),
		MetricsToken: get("METRICS_TOKEN", ""),
	}
	c.Debug = c.Environment == EnvDevelopment

	var errs []error

	port, err := strconv.Atoi(get("PORT", "8001"))
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: must be 1..65535, got %q", getenv("PORT")))
	}
	c.Port = port

	c.MetricsEnabled, err = strconv.ParseBool(get("METRICS_ENABLED", "true"))
	if err != nil {
		errs = append(errs, fmt.Errorf("METRICS_ENABLED: %w", err))
	}

	c.SearchRateLimit, err = strconv.Atoi(get("SEARCH_RATE_LIMIT", "0"))
	if err != nil || c.SearchRateLimit < 0 {
		errs = append(errs, fmt.Errorf("SEARCH_RATE_LIMIT: must be a non-negative integer, got %q", getenv("SEARCH_RATE_LIMIT")))
	}

	switch c.Source {
	case SourceFile:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL: required when CATALOG_SOURCE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("CATALOG_SOURCE: unknown source %q", c.Source))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// CORSOrigins lists the allowed browser origins. Debug mode adds "*".
func (c Config) CORSOrigins() []string {
	out := make([]string, 0, len(baseOrigins)+5)
	out = append(out, baseOrigins...)

	if c.Debug {
		out = append(out, "*")
	}

	if c.Domain != "" {
		out = append(out,
			"http://"+c.Domain,
			"https://"+c.Domain,
			"http://www."+c.Domain,
			"https://www."+c.Domain,
		)
	}
	return out
}
