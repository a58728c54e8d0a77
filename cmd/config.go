package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ordering/internal/adapters/out/catalog"
	"ordering/internal/jobs"
	"ordering/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	CatalogBaseURL          string
	CatalogTimeout          time.Duration
	CatalogMaxRetries       uint64
	CatalogBreakerFailures  uint32
	CatalogBreakerCooldown  time.Duration
	CatalogFetchConcurrency int

	StaleOrderAge      time.Duration
	StaleOrderSchedule string

	TracingStdout bool
}

// UsesDatabase reports whether a postgres connection is configured.
func (c Config) UsesDatabase() bool {
	return c.DBHost != ""
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// CatalogConfig returns the settings of the catalog client.
func (c Config) CatalogConfig() catalog.Config {
	return catalog.Config{
		BaseURL:         c.CatalogBaseURL,
		Timeout:         c.CatalogTimeout,
		MaxRetries:      c.CatalogMaxRetries,
		BreakerFailures: c.CatalogBreakerFailures,
		BreakerCooldown: c.CatalogBreakerCooldown,
	}
}

// LoadConfig reads the configuration through getenv, applying defaults to unset keys.
// Every malformed value is reported in the returned error.
func LoadConfig(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}

	cfg := Config{
		HTTPPort:   r.string("HTTP_PORT", "8080"),
		DBHost:     r.string("DB_HOST", ""),
		DBPort:     r.string("DB_PORT", "5432"),
		DBUser:     r.string("DB_USER", ""),
		DBPassword: r.string("DB_PASSWORD", ""),
		DBName:     r.string("DB_NAME", ""),
		DBSslMode:  r.string("DB_SSLMODE", "disable"),

		CatalogBaseURL:          r.string("CATALOG_BASE_URL", ""),
		CatalogTimeout:          r.duration("CATALOG_TIMEOUT", 2*time.Second),
		CatalogMaxRetries:       uint64(r.int("CATALOG_MAX_RETRIES", 2, 0)),
		CatalogBreakerFailures:  uint32(r.int("CATALOG_BREAKER_FAILURES", 5, 1)),
		CatalogBreakerCooldown:  r.duration("CATALOG_BREAKER_COOLDOWN", 30*time.Second),
		CatalogFetchConcurrency: r.int("CATALOG_FETCH_CONCURRENCY", 1, 1),

		StaleOrderAge:      r.duration("STALE_ORDER_AGE", 24*time.Hour),
		StaleOrderSchedule: r.string("STALE_ORDER_SCHEDULE", jobs.DefaultStaleOrderSchedule),

		TracingStdout: r.bool("TRACING_STDOUT", false),
	}

	if cfg.CatalogBaseURL == "" {
		r.fail(errs.NewValueIsRequiredError("CATALOG_BASE_URL"))
	}
	if _, err := strconv.ParseUint(cfg.HTTPPort, 10, 16); err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause("HTTP_PORT", err))
	}
	if cfg.UsesDatabase() {
		if _, err := strconv.ParseUint(cfg.DBPort, 10, 16); err != nil {
			r.fail(errs.NewValueIsInvalidErrorWithCause("DB_PORT", err))
		}
		if cfg.DBName == "" {
			r.fail(errs.NewValueIsRequiredError("DB_NAME"))
		}
	}
	if _, err := cron.NewParser(cronSpecParser).Parse(cfg.StaleOrderSchedule); err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause("STALE_ORDER_SCHEDULE", err))
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// cronSpecParser matches cron.WithSeconds used by the job scheduler.
const cronSpecParser = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) fail(err error) {
	r.errs = append(r.errs, err)
}

func (r *envReader) string(key, fallback string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	if d <= 0 {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%s is not positive", d)))
		return fallback
	}
	return d
}

func (r *envReader) int(key string, fallback, minValue int) int {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	if n < minValue {
		r.fail(errs.NewValueIsOutOfRangeError(key, n, minValue, "unbounded"))
		return fallback
	}
	return n
}

func (r *envReader) bool(key string, fallback bool) bool {
	raw := strings.TrimSpace(r.getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return b
}
