package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/constants"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Ingest   IngestConfig
	Pipeline PipelineConfig
	History  HistoryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr       string
	UploadDir      string
	MaxUploadBytes int64
}

// LLMConfig holds completion-provider configuration
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
}

// IngestConfig holds document text-extraction configuration
type IngestConfig struct {
	Pdftotext string
}

// PipelineConfig holds pipeline scheduling configuration
type PipelineConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// HistoryConfig holds analysis-history archive configuration
type HistoryConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", constants.MaxUploadBytes),
		},
		LLM: LLMConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			BaseURL:        getEnv("GEMINI_BASE_URL", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:        getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
			RetryAttempts:  getEnvAsInt("LLM_RETRY_ATTEMPTS", 3),
			RetryBaseDelay: getEnvAsDuration("LLM_RETRY_BASE_DELAY", 500*time.Millisecond),
		},
		Ingest: IngestConfig{
			Pdftotext: getEnv("PDFTOTEXT", "pdftotext"),
		},
		Pipeline: PipelineConfig{
			Workers:    getEnvAsInt("PIPELINE_WORKERS", 8),
			QueueSize:  getEnvAsInt("PIPELINE_QUEUE_SIZE", 256),
			JobTimeout: getEnvAsDuration("PIPELINE_JOB_TIMEOUT", 10*time.Minute),
		},
		History: HistoryConfig{
			Path: getEnv("HISTORY_DB_PATH", "./tender-history.db"),
		},
	}
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Server.UploadDir == "" {
		return NewAppError("CONFIG_ERROR", "UPLOAD_DIR is required", ErrInvalidInput)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_BYTES must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
