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

// Config holds the carpages configuration.
type Config struct {
	Outline    string           `yaml:"outline"` // path to the outline file
	HTTP       HTTPConfig       `yaml:"http"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Validation ValidationConfig `yaml:"validation"`
	Population PopulationConfig `yaml:"population"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings for the serve mode.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CorpusConfig selects and parameterizes the corpus index backend.
type CorpusConfig struct {
	Driver string      `yaml:"driver"` // idlist, jsonl, redis (default: idlist)
	IDList string      `yaml:"id_list"`
	File   string      `yaml:"file"` // corpus dump in JSON-lines form
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig holds connection settings for the Redis-backed corpus index.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ValidationConfig holds defaults for the submission validator.
type ValidationConfig struct {
	TopK             int  `yaml:"top_k"`
	CheckY3          bool `yaml:"check_y3"`
	CheckOrigins     bool `yaml:"check_origins"`
	CheckText        bool `yaml:"check_text"`
	FailOnFirst      bool `yaml:"fail_on_first"`
	PrintEntity      bool `yaml:"print_entity"`
	ConfirmOnSuccess bool `yaml:"confirm_on_success"`
}

// PopulationConfig holds defaults for the page populator.
type PopulationConfig struct {
	TopK        int    `yaml:"top_k"`
	Compression string `yaml:"compression"` // "", "gz", "xz"
	IncludeText bool   `yaml:"include_text"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR} and ${VAR:-default}
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Corpus.Driver == "" {
		c.Corpus.Driver = "idlist"
	}
	if c.Corpus.Redis.KeyPrefix == "" {
		c.Corpus.Redis.KeyPrefix = "carpages:"
	}
	if c.Corpus.Redis.ReadinessTimeout <= 0 {
		c.Corpus.Redis.ReadinessTimeout = 10
	}
	if c.Validation.TopK <= 0 {
		c.Validation.TopK = 20
	}
	if c.Population.TopK <= 0 {
		c.Population.TopK = 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Corpus.Driver {
	case "idlist", "jsonl", "redis":
	default:
		return fmt.Errorf("corpus.driver must be idlist, jsonl or redis, got %q", c.Corpus.Driver)
	}
	if c.Corpus.Driver == "redis" && len(c.Corpus.Redis.Addrs) == 0 {
		return fmt.Errorf("corpus.redis.addrs is required for the redis driver")
	}
	switch c.Population.Compression {
	case "", "gz", "xz":
	default:
		return fmt.Errorf("population.compression must be empty, gz or xz, got %q", c.Population.Compression)
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
