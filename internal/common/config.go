package common

import (
	"os"
	"strconv"
	"time"

	"github.com/talentsift/screener/constants"
)

// Provider identifiers for the reasoning service.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	Store    StoreConfig
}

// LLMConfig holds reasoning-service configuration
type LLMConfig struct {
	Provider     string // "groq" or "gemini"
	GroqAPIKey   string
	GroqModel    string
	GeminiAPIKey string
	GeminiModel  string
	Temperature  float32
	Timeout      time.Duration
}

// PipelineConfig holds extraction/composition configuration
type PipelineConfig struct {
	// MaxResumes is an advisory soft limit on batch size; exceeding it logs
	// a warning and never rejects input.
	MaxResumes int
	// Workers bounds the extraction pool; 0 means hardware parallelism.
	Workers int
}

// StoreConfig holds run-history store configuration
type StoreConfig struct {
	// Path to the SQLite database file; empty disables persistence.
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:     getEnv("AI_PROVIDER", ProviderGroq),
			GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
			GroqModel:    getEnv("GROQ_MODEL", "openai/gpt-oss-20b"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-pro"),
			Temperature:  getEnvAsFloat32("LLM_TEMPERATURE", 0.3),
			Timeout:      getEnvAsDuration("LLM_TIMEOUT", 90*time.Second),
		},
		Pipeline: PipelineConfig{
			MaxResumes: getEnvAsInt("MAX_RESUMES", constants.DefaultMaxResumes),
			Workers:    getEnvAsInt("WORKERS", 0),
		},
		Store: StoreConfig{
			Path: getEnv("DB_PATH", ""),
		},
	}
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGroq:
		if c.LLM.GroqAPIKey == "" {
			return NewAppError("CONFIG_ERROR", "GROQ_API_KEY is required when AI_PROVIDER=groq", ErrInvalidInput)
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required when AI_PROVIDER=gemini", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "AI_PROVIDER must be 'groq' or 'gemini'", ErrInvalidInput)
	}
	if c.Pipeline.MaxResumes < 0 {
		return NewAppError("CONFIG_ERROR", "MAX_RESUMES must be >= 0", ErrInvalidInput)
	}
	return nil
}
