package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration read from the environment.
type Config struct {
	Port       string `validate:"required,numeric"`
	AppVersion string `validate:"required"`

	CostPolicy      string `validate:"oneof=per_center cumulative"`
	MaxRouteCenters int    `validate:"min=1,max=10"`

	CacheBackend string        `validate:"oneof=memory redis postgres sqlite none"`
	CacheTTL     time.Duration `validate:"min=0"`
	CacheEntries int           `validate:"min=1"`
	RedisURL     string        `validate:"required_if=CacheBackend redis"`
	DatabaseURL  string        `validate:"required_if=CacheBackend postgres"`
	SQLitePath   string        `validate:"required_if=CacheBackend sqlite"`

	RateLimitRPS   float64 `validate:"min=0"`
	RateLimitBurst int     `validate:"min=0"`

	LogLevel        string `validate:"oneof=debug info warn error"`
	LogFormat       string `validate:"oneof=text json"`
	TracingExporter string `validate:"oneof=none stdout"`
}

// LoadDotEnv loads a .env file into the process environment if present.
// It reports whether a file was found.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load reads and validates the configuration from the environment.
func Load() (Config, error) {
	var errs []string

	cfg := Config{
		Port:            Get("PORT", "3000"),
		AppVersion:      Get("APP_VERSION", "1.0.0"),
		CostPolicy:      strings.ToLower(Get("COST_POLICY", "per_center")),
		CacheBackend:    strings.ToLower(Get("CACHE_BACKEND", "memory")),
		RedisURL:        Get("REDIS_URL", ""),
		DatabaseURL:     Get("DATABASE_URL", ""),
		SQLitePath:      Get("SQLITE_PATH", "data/cache.db"),
		LogLevel:        strings.ToLower(Get("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(Get("LOG_FORMAT", "text")),
		TracingExporter: strings.ToLower(Get("TRACING_EXPORTER", "none")),
	}

	var err error
	if cfg.MaxRouteCenters, err = getInt("MAX_ROUTE_CENTERS", 8); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.CacheEntries, err = getInt("CACHE_ENTRIES", 1024); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 40); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 20); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 10*time.Minute); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %s", strings.Join(errs, "; "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("validate config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Get returns the trimmed environment value for key, or fallback if unset
// or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
