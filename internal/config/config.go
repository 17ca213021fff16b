package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the info-hunter API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Index   IndexConfig   `yaml:"index"`
	Cache   CacheConfig   `yaml:"cache"`
	AI      AIConfig      `yaml:"ai"`
	Ask     AskConfig     `yaml:"ask"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// IndexConfig holds search index connection settings.
type IndexConfig struct {
	URL        string `yaml:"url"`
	Name       string `yaml:"name"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CacheConfig holds the embedding cache store settings.
// When Enabled is false, embeddings are computed on every call.
type CacheConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLHours int      `yaml:"ttl_hours"`
}

// AIConfig holds AI provider settings.
type AIConfig struct {
	APIKey     string           `yaml:"api_key"`
	BaseURL    string           `yaml:"base_url"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// EmbeddingConfig holds embedding model settings.
type EmbeddingConfig struct {
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// GenerationConfig holds text generation model settings.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// RateLimitConfig bounds calls to the generation provider.
type RateLimitConfig struct {
	MaxRequests       int `yaml:"max_requests"`
	WindowSec         int `yaml:"window_sec"`
	AcquireTimeoutSec int `yaml:"acquire_timeout_sec"`
}

// AskConfig holds question-answering defaults.
type AskConfig struct {
	DefaultTopK int `yaml:"default_top_k"`
	MaxTopK     int `yaml:"max_top_k"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Ask requests wait on retrieval plus generation.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "info_hunter_knowledge"
	}
	if c.Index.TimeoutSec <= 0 {
		c.Index.TimeoutSec = 30
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 24 * 7
	}
	if c.AI.Embedding.Model == "" {
		c.AI.Embedding.Model = "text-embedding-3-small"
	}
	if c.AI.Embedding.Dimensions <= 0 {
		c.AI.Embedding.Dimensions = 1536
	}
	if c.AI.Embedding.TimeoutSec <= 0 {
		c.AI.Embedding.TimeoutSec = 15
	}
	if c.AI.Generation.Model == "" {
		c.AI.Generation.Model = "gpt-4o-mini"
	}
	if c.AI.Generation.Temperature <= 0 {
		c.AI.Generation.Temperature = 0.2
	}
	if c.AI.Generation.MaxTokens <= 0 {
		c.AI.Generation.MaxTokens = 1024
	}
	if c.AI.Generation.TimeoutSec <= 0 {
		c.AI.Generation.TimeoutSec = 45
	}
	if c.AI.RateLimit.MaxRequests <= 0 {
		c.AI.RateLimit.MaxRequests = 60
	}
	if c.AI.RateLimit.WindowSec <= 0 {
		c.AI.RateLimit.WindowSec = 60
	}
	if c.AI.RateLimit.AcquireTimeoutSec <= 0 {
		c.AI.RateLimit.AcquireTimeoutSec = 30
	}
	if c.Ask.DefaultTopK <= 0 {
		c.Ask.DefaultTopK = 5
	}
	if c.Ask.MaxTopK <= 0 {
		c.Ask.MaxTopK = 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Index.URL == "" {
		return fmt.Errorf("index.url is required")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required")
	}
	if c.AI.Generation.Temperature > 1 {
		return fmt.Errorf("ai.generation.temperature must be <= 1, got %v", c.AI.Generation.Temperature)
	}
	if c.Ask.DefaultTopK > c.Ask.MaxTopK {
		return fmt.Errorf("ask.default_top_k (%d) must not exceed ask.max_top_k (%d)",
			c.Ask.DefaultTopK, c.Ask.MaxTopK)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
