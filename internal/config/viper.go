// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		MaxInputRunes  int    `mapstructure:"max_input_runes" yaml:"max_input_runes"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Ledger struct {
		CSVPath string `mapstructure:"csv_path" yaml:"csv_path"`
		Dedupe  bool   `mapstructure:"dedupe" yaml:"dedupe"`
	} `mapstructure:"ledger" yaml:"ledger"`

	Segmenter struct {
		RulesFile     string `mapstructure:"rules_file" yaml:"rules_file"`
		DebugSegments bool   `mapstructure:"debug_segments" yaml:"debug_segments"`
	} `mapstructure:"segmenter" yaml:"segmenter"`

	Pending struct {
		MaxEntries int    `mapstructure:"max_entries" yaml:"max_entries"`
		StatePath  string `mapstructure:"state_path" yaml:"state_path"`
	} `mapstructure:"pending" yaml:"pending"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.scanledger")
	v.AddConfigPath(".scanledger")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Config file not found or invalid is OK, we'll use defaults and env vars
	}

	// 5. The completion API key always comes from the unprefixed env var.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.max_input_runes", 800)
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("ledger.csv_path", "data/ledger.csv")
	v.SetDefault("ledger.dedupe", true)

	v.SetDefault("segmenter.rules_file", "")
	v.SetDefault("segmenter.debug_segments", false)

	v.SetDefault("pending.max_entries", 256)
	v.SetDefault("pending.state_path", "data/pending.yaml")
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.AI.Enabled && config.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required when AI extraction is enabled")
	}

	if config.AI.MaxInputRunes < 1 {
		return fmt.Errorf("ai.max_input_runes must be positive, got: %d", config.AI.MaxInputRunes)
	}

	if config.Pending.MaxEntries < 1 {
		return fmt.Errorf("pending.max_entries must be positive, got: %d", config.Pending.MaxEntries)
	}

	if config.Ledger.CSVPath == "" {
		return fmt.Errorf("ledger.csv_path must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
