// Package config loads the application configuration from an optional
// YAML file with environment variable overrides. Environment variables
// win so deployments can tweak a setting without editing the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	// Default: ":8080"
	Addr string `yaml:"addr"`

	// DBPath is the SQLite database file path.
	// Default: "./data/howmuchah.db"
	DBPath string `yaml:"db_path"`

	// StaticDir is the directory of static frontend assets to serve.
	// Empty disables static serving.
	StaticDir string `yaml:"static_dir"`

	// OCRAPIKey is the OCR.space API key used for receipt image
	// parsing. Empty disables the image endpoint; text parsing still
	// works.
	OCRAPIKey string `yaml:"ocr_api_key"`

	// JWTSecret signs session tokens. Required for the server.
	JWTSecret string `yaml:"jwt_secret"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects "text" (tint, for terminals) or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// ParseStrategy selects the default receipt text parser,
	// "structured" or "singlepass".
	// Default: "structured"
	ParseStrategy string `yaml:"parse_strategy"`
}

// Load reads the config file at path (skipped when path is empty or
// the file does not exist), applies environment overrides, then
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideEnv(&cfg.Addr, "ADDR")
	overrideEnv(&cfg.DBPath, "DB_PATH")
	overrideEnv(&cfg.StaticDir, "STATIC_DIR")
	overrideEnv(&cfg.OCRAPIKey, "OCR_API_KEY")
	overrideEnv(&cfg.JWTSecret, "JWT_SECRET")
	overrideEnv(&cfg.LogLevel, "LOG_LEVEL")
	overrideEnv(&cfg.LogFormat, "LOG_FORMAT")
	overrideEnv(&cfg.ParseStrategy, "PARSE_STRATEGY")
}

func overrideEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./data/howmuchah.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.ParseStrategy == "" {
		cfg.ParseStrategy = "structured"
	}
}

func validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", cfg.LogFormat)
	}
	switch cfg.ParseStrategy {
	case "structured", "singlepass":
	default:
		return fmt.Errorf("unknown parse_strategy %q", cfg.ParseStrategy)
	}
	return nil
}
