package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "PlataPay"
	defaultAppEnv         = "development"
	defaultPort           = "3000"
	defaultLogLevel       = "info"
	defaultLedgerPath     = "balances.json"
	defaultShutdownDelay  = 10 * time.Second
	defaultRateLimit      = 60
	shutdownSecondsEnvVar = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurEnvVar     = "SHUTDOWN_TIMEOUT"
)

// DEBIN policy names. Linked requires a prior /link-account authorization and
// leaves the local ledger untouched on settlement success; legacy reproduces
// the older balance-checked flow that debits the bank account locally.
const (
	DebinPolicyLinked = "linked"
	DebinPolicyLegacy = "legacy"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	LedgerPath      string
	SettlementURL   string
	SettlementToken string
	DatabaseURL     string
	RedisURL        string
	DebinPolicy     string
	RateLimitPerMin int
	ShutdownPeriod  time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LedgerPath:      getEnv("LEDGER_PATH", defaultLedgerPath),
		SettlementURL:   os.Getenv("EXTERNAL_API_URL"),
		SettlementToken: os.Getenv("EXTERNAL_API_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		DebinPolicy:     strings.ToLower(getEnv("DEBIN_POLICY", DebinPolicyLinked)),
		RateLimitPerMin: defaultRateLimit,
		ShutdownPeriod:  defaultShutdownDelay,
	}

	if v := os.Getenv("RATE_LIMIT_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_MIN: %w", err)
		}
		cfg.RateLimitPerMin = n
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	switch cfg.DebinPolicy {
	case DebinPolicyLinked, DebinPolicyLegacy:
	default:
		return Config{}, fmt.Errorf("invalid DEBIN_POLICY %q: must be %q or %q", cfg.DebinPolicy, DebinPolicyLinked, DebinPolicyLegacy)
	}

	// Outside dev a real settlement endpoint is mandatory; in dev its
	// absence selects the static client.
	if cfg.SettlementURL == "" && !cfg.IsDev() {
		return Config{}, fmt.Errorf("EXTERNAL_API_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the configured environment is a development one.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
