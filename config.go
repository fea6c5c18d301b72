package raw

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config represents the test generator configuration
type Config struct {
	BaseDir    string           `yaml:"base_dir"`
	MatchDir   string           `yaml:"match_dir"`
	FixtureExt string           `yaml:"fixture_ext"`
	Generation GenerationConfig `yaml:"generation"`
}

// GenerationConfig represents code generation settings
type GenerationConfig struct {
	Targets []string    `yaml:"targets"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig controls the retry loop for transient per-file failures.
// MaxAttempts 0 picks the default bound; -1 retries without bound.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// TargetKinds resolves the configured target names to TargetKind values.
func (c *Config) TargetKinds() ([]TargetKind, error) {
	kinds := make([]TargetKind, 0, len(c.Generation.Targets))

	for _, name := range c.Generation.Targets {
		kind, err := ParseTargetKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: '%s': must be one of spark, scala", ErrConfigValidation, name)
		}

		kinds = append(kinds, kind)
	}

	if len(kinds) == 0 {
		return nil, ErrNoTargetsConfigured
	}

	return kinds, nil
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(&config)

	// Expand environment variables
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	for _, name := range config.Generation.Targets {
		if _, err := ParseTargetKind(name); err != nil {
			return fmt.Errorf("%w: invalid target '%s': must be one of spark, scala", ErrConfigValidation, name)
		}
	}

	if config.Generation.Retry.MaxAttempts < -1 {
		return fmt.Errorf("%w: retry max_attempts must be -1 (unbounded), 0 (default) or positive", ErrConfigValidation)
	}

	return nil
}

// applyDefaults fills in default values for missing configuration
func applyDefaults(config *Config) {
	if config.MatchDir == "" {
		config.MatchDir = "queries"
	}

	if config.FixtureExt == "" {
		config.FixtureExt = ".xml"
	}

	if len(config.Generation.Targets) == 0 {
		for _, kind := range AllTargets {
			config.Generation.Targets = append(config.Generation.Targets, string(kind))
		}
	}

	if config.Generation.Retry.MaxAttempts == 0 {
		config.Generation.Retry.MaxAttempts = DefaultRetryAttempts
	}
}

// DefaultRetryAttempts bounds the transient-failure retry loop unless the
// configuration overrides it.
const DefaultRetryAttempts = 5

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	re1 := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re1.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		return os.Getenv(varName)
	})

	return s
}

// expandConfigEnvVars expands environment variables in path-valued settings
func expandConfigEnvVars(config *Config) {
	config.BaseDir = expandEnvVars(config.BaseDir)
	config.MatchDir = expandEnvVars(config.MatchDir)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
