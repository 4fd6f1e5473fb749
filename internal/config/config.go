package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultCacheTTL is the expiry applied to agent tool cache entries.
const DefaultCacheTTL = 600 * time.Second

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	ServerPort      string
	RedisURL        string
	OpenAIKey       string
	AIModel         string
	AIBaseURL       string
	TrackerAPIRoot  string
	CacheTTL        time.Duration
	PDFOutputDir    string
	PDFRetention    time.Duration
	FrontendURL     string
	RateLimit       string
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// fileConfig mirrors the optional YAML config file. Environment variables
// take precedence over file values.
type fileConfig struct {
	DatabaseURL    string `yaml:"database_url"`
	ServerPort     string `yaml:"server_port"`
	RedisURL       string `yaml:"redis_url"`
	AIModel        string `yaml:"ai_model"`
	AIBaseURL      string `yaml:"ai_base_url"`
	TrackerAPIRoot string `yaml:"tracker_api_root"`
	CacheTTLSec    int    `yaml:"cache_ttl_seconds"`
	PDFOutputDir   string `yaml:"pdf_output_dir"`
	FrontendURL    string `yaml:"frontend_url"`
	RateLimit      string `yaml:"rate_limit"`
}

// Load loads configuration from the environment, with an optional .env file
// and an optional YAML file named by CONFIG_FILE layered underneath.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		AIModel:         getEnv("AI_MODEL", ""),
		AIBaseURL:       getEnv("AI_BASE_URL", ""),
		TrackerAPIRoot:  getEnv("TRACKER_API_ROOT", "http://localhost:8080"),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", int(DefaultCacheTTL/time.Second))) * time.Second,
		PDFOutputDir:    getEnv("PDF_OUTPUT_DIR", "pdfs"),
		PDFRetention:    time.Duration(getEnvInt("PDF_RETENTION_HOURS", 0)) * time.Hour,
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		RateLimit:       getEnv("RATE_LIMIT", "5-S"),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return cfg, nil
}

// applyFile fills in values from a YAML config file where the environment
// did not already provide them.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	setIfUnset := func(target *string, envKey, value string) {
		if os.Getenv(envKey) == "" && value != "" {
			*target = value
		}
	}

	setIfUnset(&c.DatabaseURL, "DATABASE_URL", fc.DatabaseURL)
	setIfUnset(&c.ServerPort, "SERVER_PORT", fc.ServerPort)
	setIfUnset(&c.RedisURL, "REDIS_URL", fc.RedisURL)
	setIfUnset(&c.AIModel, "AI_MODEL", fc.AIModel)
	setIfUnset(&c.AIBaseURL, "AI_BASE_URL", fc.AIBaseURL)
	setIfUnset(&c.TrackerAPIRoot, "TRACKER_API_ROOT", fc.TrackerAPIRoot)
	setIfUnset(&c.PDFOutputDir, "PDF_OUTPUT_DIR", fc.PDFOutputDir)
	setIfUnset(&c.FrontendURL, "FRONTEND_URL", fc.FrontendURL)
	setIfUnset(&c.RateLimit, "RATE_LIMIT", fc.RateLimit)

	if os.Getenv("CACHE_TTL_SECONDS") == "" && fc.CacheTTLSec > 0 {
		c.CacheTTL = time.Duration(fc.CacheTTLSec) * time.Second
	}

	return nil
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
