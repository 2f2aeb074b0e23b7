package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort           string
	OpenAIKey            string
	AIBaseURL            string
	ChatModel            string
	TaskModel            string
	AllowedOrigins       []string
	EnableHSTS           bool
	ServerDebugMode      bool
	LogFormat            string
	MetricsEnabled       bool
	OTELEnabled          bool
	OTELEndpoint         string
	TaskJSONRepair       bool
	TaskStrictValidation bool
	ShutdownTimeout      time.Duration
}

// Load loads configuration from environment variables.
// OPENAI_API_KEY is required; the server must not start without it.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:           getEnv("SERVER_PORT", "5000"),
		OpenAIKey:            getEnv("OPENAI_API_KEY", ""),
		AIBaseURL:            getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
		ChatModel:            getEnv("CHAT_MODEL", "gpt-3.5-turbo"),
		TaskModel:            getEnv("TASK_MODEL", "gpt-4-turbo"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "*")),
		EnableHSTS:           getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode:      getEnvBool("SERVER_DEBUG_MODE", false),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
		OTELEnabled:          getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TaskJSONRepair:       getEnvBool("TASK_JSON_REPAIR", false),
		TaskStrictValidation: getEnvBool("TASK_STRICT_VALIDATION", false),
		ShutdownTimeout:      getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// splitList parses a comma-separated list, trimming whitespace and dropping duplicates.
func splitList(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	return out
}
