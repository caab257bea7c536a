// Package config loads the server configuration from an optional config.yaml
// plus environment overrides (SNAPLAW_ prefix). GEMINI_API_KEY and
// DATABASE_URL keep their conventional unprefixed names.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `json:"server" mapstructure:"server"`
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	AI       AIConfig       `json:"ai" mapstructure:"ai"`
	QA       QAConfig       `json:"qa" mapstructure:"qa"`
	Storage  StorageConfig  `json:"storage" mapstructure:"storage"`

	// DatabaseURL enables the Postgres catalog source when set
	DatabaseURL string `json:"database_url" mapstructure:"database_url"`
}

// ServerConfig contains the HTTP server configuration
type ServerConfig struct {
	Port           string `json:"port" mapstructure:"port"`
	MaxUploadBytes int64  `json:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// AnalysisConfig tunes the risk pipeline
type AnalysisConfig struct {
	MaxDocumentLength int     `json:"max_document_length" mapstructure:"max_document_length"`
	SaturationK       float64 `json:"saturation_k" mapstructure:"saturation_k"`
	MatchWorkers      int     `json:"match_workers" mapstructure:"match_workers"`
}

// AIConfig configures the inference collaborator
type AIConfig struct {
	APIKey         string        `json:"-" mapstructure:"api_key"`
	Model          string        `json:"model" mapstructure:"model"`
	RequestTimeout time.Duration `json:"request_timeout" mapstructure:"request_timeout"`
}

// QAConfig tunes Q&A sessions
type QAConfig struct {
	MaxTurnHistory int `json:"max_turn_history" mapstructure:"max_turn_history"`
}

// StorageConfig selects and configures the temporary upload store
type StorageConfig struct {
	Type         string `json:"type" mapstructure:"type"` // "local" or "s3"
	LocalPath    string `json:"local_path" mapstructure:"local_path"`
	S3Bucket     string `json:"s3_bucket" mapstructure:"s3_bucket"`
	S3Region     string `json:"s3_region" mapstructure:"s3_region"`
	AWSAccessKey string `json:"-" mapstructure:"aws_access_key"`
	AWSSecretKey string `json:"-" mapstructure:"aws_secret_key"`
}

// Load reads configuration with defaults, an optional config.yaml in the
// working directory, and environment overrides.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_upload_bytes", int64(16*1024*1024))
	v.SetDefault("analysis.max_document_length", 1_000_000)
	v.SetDefault("analysis.saturation_k", 0.08)
	v.SetDefault("analysis.match_workers", 8)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.request_timeout", "60s")
	v.SetDefault("qa.max_turn_history", 10)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", os.TempDir()+"/snaplaw_uploads")
	v.SetDefault("storage.s3_region", "us-east-1")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SNAPLAW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Conventional env names take precedence over the prefixed form.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if cfg.Storage.AWSAccessKey == "" {
		cfg.Storage.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if cfg.Storage.AWSSecretKey == "" {
		cfg.Storage.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	return &cfg, nil
}
