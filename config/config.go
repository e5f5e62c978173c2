// Package config provides configuration for the chat relay.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultInstructions is the system prompt used for sessions that never
// supply their own instructions.
const DefaultInstructions = "Je bent een behulpzame AI-assistent gespecialiseerd in activiteiten en revalidatiemogelijkheden in Gouda, Nederland. Reageer vriendelijk en informatief."

// Config holds the chat relay configuration.
type Config struct {
	// Server settings
	HTTPPort       int      `yaml:"http_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Upstream LLM provider
	OpenAIBaseURL string        `yaml:"openai_base_url"`
	OpenAIAPIKey  string        `yaml:"openai_api_key"`
	Model         string        `yaml:"model"`
	MaxTokens     int           `yaml:"max_tokens"`
	LLMTimeout    time.Duration `yaml:"-"`

	// Conversation settings
	DefaultInstructions string `yaml:"default_instructions"`
	HistoryMaxItems     int    `yaml:"history_max_items"`

	// Stream token cache
	StreamTokenTTL time.Duration `yaml:"-"`

	// Stream event log
	DatabaseURL string `yaml:"database_url"`
}

// Load builds the configuration from defaults, an optional YAML file named
// by CONFIG_FILE, and environment variables. Environment variables win.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:            8080,
		AllowedOrigins:      []string{"http://localhost:5173"},
		OpenAIBaseURL:       "https://api.openai.com",
		Model:               "gpt-4o",
		MaxTokens:           1024,
		LLMTimeout:          120 * time.Second,
		DefaultInstructions: DefaultInstructions,
		HistoryMaxItems:     20,
		StreamTokenTTL:      time.Minute,
		DatabaseURL:         "file:chatrelay.db?cache=shared&mode=rwc",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitOrigins(origins)
	}
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.Model = getEnv("OPENAI_MODEL", cfg.Model)
	cfg.MaxTokens = getEnvInt("OPENAI_MAX_TOKENS", cfg.MaxTokens)
	cfg.LLMTimeout = getEnvDuration("LLM_TIMEOUT_MS", cfg.LLMTimeout)
	cfg.DefaultInstructions = getEnv("DEFAULT_INSTRUCTIONS", cfg.DefaultInstructions)
	cfg.HistoryMaxItems = getEnvInt("HISTORY_MAX_ITEMS", cfg.HistoryMaxItems)
	cfg.StreamTokenTTL = getEnvDuration("STREAM_TOKEN_TTL_MS", cfg.StreamTokenTTL)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)

	return cfg, nil
}

// loadFile overlays values from a YAML config file.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file struct {
		Config           `yaml:",inline"`
		LLMTimeoutMs     int `yaml:"llm_timeout_ms"`
		StreamTokenTTLMs int `yaml:"stream_token_ttl_ms"`
	}
	file.Config = *c
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	*c = file.Config
	if file.LLMTimeoutMs > 0 {
		c.LLMTimeout = time.Duration(file.LLMTimeoutMs) * time.Millisecond
	}
	if file.StreamTokenTTLMs > 0 {
		c.StreamTokenTTL = time.Duration(file.StreamTokenTTLMs) * time.Millisecond
	}
	return nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}
