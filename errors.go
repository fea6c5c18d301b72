package raw

import "errors"

// Common errors used throughout the raw test generator.
var (
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrUnknownTarget indicates a target kind name that is not spark or scala.
	ErrUnknownTarget = errors.New("unknown target kind")
	// ErrNoTargetsConfigured indicates the target list resolved to empty.
	ErrNoTargetsConfigured = errors.New("no target kinds configured")
	// ErrBaseDirRequired indicates no base directory was given on the CLI or in config.
	ErrBaseDirRequired = errors.New("base directory is required")
)
