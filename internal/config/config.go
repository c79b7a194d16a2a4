// =============================================================================
// Contract Generator - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Two layers exist:
//
//   1. App config (config.yaml + environment overrides): directories, logging,
//      the session gate secret and the required-schema variant toggle.
//   2. Field map config (fieldmap.go): the canonical-key -> source-column
//      mapping used by the row normalizer.
//
// The app config is read with cleanenv so every setting can be overridden via
// environment variables, which keeps the tool usable without any file at all.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// =============================================================================
// APP CONFIGURATION
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// OutputDir is the directory where bundles, unpacked documents and
	// summary logs are delivered.
	OutputDir string `yaml:"output_dir" env:"CONTRACTGEN_OUTPUT_DIR" env-default:"./output"`

	// LogLevel controls log verbosity: "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level" env:"CONTRACTGEN_LOG_LEVEL" env-default:"info"`

	// Gate contains the interactive access gate settings. The gate only
	// controls visibility of the interactive surface; it is not a security
	// boundary.
	Gate GateConfig `yaml:"gate"`

	// Schema contains the required-column schema settings.
	Schema SchemaConfig `yaml:"schema"`

	// FieldMapFile is an optional path to a YAML field map that overrides
	// the compiled-in column mapping (see fieldmap.go).
	FieldMapFile string `yaml:"field_map_file" env:"CONTRACTGEN_FIELD_MAP" env-default:""`
}

// GateConfig configures the shared-secret session gate.
type GateConfig struct {
	// Secret is the shared secret required to open a working session.
	// An empty secret disables the gate entirely.
	Secret string `yaml:"secret" env:"CONTRACTGEN_GATE_SECRET" env-default:""`
}

// SchemaConfig configures the required-column set.
type SchemaConfig struct {
	// RequireHeadCount adds "Head Count" to the required columns. Some sale
	// barns export settlements without it, so it is optional by default.
	RequireHeadCount bool `yaml:"require_head_count" env:"CONTRACTGEN_REQUIRE_HEAD_COUNT" env-default:"false"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the application configuration from the given YAML file, applying
// environment overrides. A missing file is not an error: defaults plus the
// environment are used instead.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment configuration: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	return cfg, nil
}
