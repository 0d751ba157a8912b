// Package config provides configuration management for the cultivation
// planning service.
// Version: 1.0.0
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Environment constants
const (
	defaultEnvironment = "development"
	defaultServiceName = "cropplanner"
	defaultVersion     = "1.0.0"
	envEnvironment     = "ENV"
	envServiceName     = "SERVICE_NAME"
	envVersion         = "VERSION"
	envFeatureFlags    = "FEATURE_FLAGS"
)

// Valid environments
var validEnvironments = []string{"development", "staging", "production"}

// ServiceConfig is the complete configuration for cmd/planner.
type ServiceConfig struct {
	Environment  string
	ServiceName  string
	Version      string
	API          APIConfig
	Planner      PlannerConfig
	FeatureFlags map[string]bool
}

// APIConfig configures the HTTP boundary (cmd/planner).
type APIConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	EnableTLS    bool
}

// PlannerConfig configures the optimization kernel's tunables (spec.md
// §4.4, §4.7): top-K retention, quantity levels, and ALNS budgets.
type PlannerConfig struct {
	TopK                    int
	QuantityLevels          []float64
	MaxIterations           int
	MaxDuration             time.Duration
	NoImprovementLimit      int
	CoolingRatio            float64
	InitialDropProbability  float64
	DefaultFallowPeriodDays int
	Seed                    int64
}

// defaultPlannerConfig mirrors spec.md §4.4/§4.7's stated defaults.
func defaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		TopK:                    10,
		QuantityLevels:          []float64{1.0, 0.75, 0.5, 0.25},
		MaxIterations:           10000,
		MaxDuration:             30 * time.Second,
		NoImprovementLimit:      200,
		CoolingRatio:            0.995,
		InitialDropProbability:  0.5,
		DefaultFallowPeriodDays: 28,
		Seed:                    1,
	}
}

// LoadConfig loads the complete service configuration from environment
// variables, applying documented defaults and validating the result.
func LoadConfig() (*ServiceConfig, error) {
	cfg := &ServiceConfig{Planner: defaultPlannerConfig()}

	cfg.Environment = strings.ToLower(getEnvOrDefault(envEnvironment, defaultEnvironment))
	if !isValidEnvironment(cfg.Environment) {
		return nil, fmt.Errorf("invalid environment %q: must be one of %v",
			cfg.Environment, validEnvironments)
	}

	cfg.ServiceName = getEnvOrDefault(envServiceName, defaultServiceName)

	version := getEnvOrDefault(envVersion, defaultVersion)
	if _, err := semver.NewVersion(version); err != nil {
		return nil, fmt.Errorf("invalid version format %q: must be semantic version", version)
	}
	cfg.Version = version

	port, err := strconv.Atoi(getEnvOrDefault("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}
	cfg.API = APIConfig{
		Port:         port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	if seed := os.Getenv("PLANNER_SEED"); seed != "" {
		parsed, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PLANNER_SEED: %w", err)
		}
		cfg.Planner.Seed = parsed
	}

	featureFlags := os.Getenv(envFeatureFlags)
	if featureFlags != "" {
		flags, err := parseFeatureFlags(featureFlags)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feature flags: %w", err)
		}
		cfg.FeatureFlags = flags
	}

	applyEnvironmentOverrides(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ValidateConfig performs comprehensive validation of the complete
// service configuration.
func ValidateConfig(cfg *ServiceConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if !isValidEnvironment(cfg.Environment) {
		return fmt.Errorf("invalid environment %q", cfg.Environment)
	}

	if strings.TrimSpace(cfg.ServiceName) == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if !isValidServiceName(cfg.ServiceName) {
		return fmt.Errorf("invalid service name format: %s", cfg.ServiceName)
	}

	if _, err := semver.NewVersion(cfg.Version); err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", cfg.API.Port)
	}

	if err := validatePlannerConfig(cfg.Planner); err != nil {
		return fmt.Errorf("planner configuration invalid: %w", err)
	}

	if err := validateFeatureFlags(cfg.FeatureFlags); err != nil {
		return fmt.Errorf("feature flags invalid: %w", err)
	}

	return nil
}

func validatePlannerConfig(p PlannerConfig) error {
	if p.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", p.TopK)
	}
	if len(p.QuantityLevels) == 0 {
		return fmt.Errorf("quantity_levels must not be empty")
	}
	for _, level := range p.QuantityLevels {
		if level <= 0 || level > 1 {
			return fmt.Errorf("quantity level %v must be in (0, 1]", level)
		}
	}
	if p.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", p.MaxIterations)
	}
	if p.NoImprovementLimit <= 0 {
		return fmt.Errorf("no_improvement_limit must be positive, got %d", p.NoImprovementLimit)
	}
	if p.CoolingRatio <= 0 || p.CoolingRatio >= 1 {
		return fmt.Errorf("cooling_ratio must be in (0, 1), got %v", p.CoolingRatio)
	}
	if p.InitialDropProbability <= 0 || p.InitialDropProbability >= 1 {
		return fmt.Errorf("initial_drop_probability must be in (0, 1), got %v", p.InitialDropProbability)
	}
	if p.DefaultFallowPeriodDays < 0 {
		return fmt.Errorf("default_fallow_period_days must be non-negative, got %d", p.DefaultFallowPeriodDays)
	}
	return nil
}

// Helper functions

func isValidEnvironment(env string) bool {
	for _, validEnv := range validEnvironments {
		if env == validEnv {
			return true
		}
	}
	return false
}

// isValidServiceName validates the service name format: lowercase
// letters, numbers and hyphens, starting with a letter and not ending
// with a hyphen.
func isValidServiceName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	validChars := "abcdefghijklmnopqrstuvwxyz0123456789-"
	for i, char := range name {
		if !strings.ContainsRune(validChars, char) {
			return false
		}
		if i == 0 && !isLetter(char) {
			return false
		}
		if i == len(name)-1 && char == '-' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func parseFeatureFlags(flags string) (map[string]bool, error) {
	result := make(map[string]bool)
	pairs := strings.Split(flags, ",")

	for _, pair := range pairs {
		kv := strings.Split(strings.TrimSpace(pair), "=")
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid feature flag format: %s", pair)
		}

		key := strings.TrimSpace(kv[0])
		value := strings.ToLower(strings.TrimSpace(kv[1]))

		if key == "" {
			return nil, fmt.Errorf("empty feature flag key")
		}

		switch value {
		case "true":
			result[key] = true
		case "false":
			result[key] = false
		default:
			return nil, fmt.Errorf("invalid feature flag value: %s", value)
		}
	}

	return result, nil
}

func validateFeatureFlags(flags map[string]bool) error {
	for key := range flags {
		if !isValidFeatureFlagKey(key) {
			return fmt.Errorf("invalid feature flag key: %s", key)
		}
	}
	return nil
}

func isValidFeatureFlagKey(key string) bool {
	if len(key) < 2 || len(key) > 50 {
		return false
	}
	validChars := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"
	for _, char := range key {
		if !strings.ContainsRune(validChars, char) {
			return false
		}
	}
	return true
}

// applyEnvironmentOverrides applies environment-specific configuration
// overrides.
func applyEnvironmentOverrides(cfg *ServiceConfig) {
	switch cfg.Environment {
	case "production", "staging":
		cfg.API.EnableTLS = true
	}
}

// getEnvOrDefault retrieves an environment variable or returns the
// default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
