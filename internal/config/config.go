package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the assetdex configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Search  SearchConfig  `yaml:"search"`
	Session SessionConfig `yaml:"session"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CorpusConfig points at the asset fixture file.
type CorpusConfig struct {
	Path string `yaml:"path"` // .yaml, .yml or .json
}

// SearchConfig holds matcher and result cache settings.
type SearchConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`  // max edits per query rune, (0,1)
	MinFuzzyLength int     `yaml:"min_fuzzy_length"` // shorter queries need literal containment
	CacheSize      int     `yaml:"cache_size"`       // 0 = cache disabled
	CacheTTLSec    int     `yaml:"cache_ttl_sec"`
}

// SessionConfig holds search session settings.
type SessionConfig struct {
	MinLatencyMs int `yaml:"min_latency_ms"`
	MaxLatencyMs int `yaml:"max_latency_ms"`
	PoolSize     int `yaml:"pool_size"`
	MaxSessions  int `yaml:"max_sessions"`
	IdleTTLSec   int `yaml:"idle_ttl_sec"`
}

// MinLatency returns the lower latency bound.
func (s SessionConfig) MinLatency() time.Duration {
	return time.Duration(s.MinLatencyMs) * time.Millisecond
}

// MaxLatency returns the upper latency bound.
func (s SessionConfig) MaxLatency() time.Duration {
	return time.Duration(s.MaxLatencyMs) * time.Millisecond
}

// IdleTTL returns how long an unused session is kept.
func (s SessionConfig) IdleTTL() time.Duration {
	return time.Duration(s.IdleTTLSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.FuzzyThreshold == 0 {
		c.Search.FuzzyThreshold = 0.34
	}
	if c.Search.MinFuzzyLength <= 0 {
		c.Search.MinFuzzyLength = 2
	}
	if c.Search.CacheTTLSec <= 0 {
		c.Search.CacheTTLSec = 300
	}
	if c.Session.MinLatencyMs == 0 && c.Session.MaxLatencyMs == 0 {
		c.Session.MinLatencyMs = 200
		c.Session.MaxLatencyMs = 600
	}
	if c.Session.PoolSize <= 0 {
		c.Session.PoolSize = 64
	}
	if c.Session.MaxSessions <= 0 {
		c.Session.MaxSessions = 1024
	}
	if c.Session.IdleTTLSec <= 0 {
		c.Session.IdleTTLSec = 900
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Corpus.Path == "" {
		return fmt.Errorf("corpus.path is required")
	}
	if c.Search.FuzzyThreshold <= 0 || c.Search.FuzzyThreshold >= 1 {
		return fmt.Errorf("search.fuzzy_threshold must be in (0,1), got %v", c.Search.FuzzyThreshold)
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("search.cache_size must not be negative, got %d", c.Search.CacheSize)
	}
	if c.Session.MinLatencyMs < 0 || c.Session.MaxLatencyMs < c.Session.MinLatencyMs {
		return fmt.Errorf(
			"session latency range must satisfy 0 <= min_latency_ms <= max_latency_ms, got [%d, %d]",
			c.Session.MinLatencyMs, c.Session.MaxLatencyMs,
		)
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
