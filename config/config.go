package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key
const EnvPrefix = "MARKETMIND"

// Config holds all configuration for the application
type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Model     ModelConfig     `mapstructure:"model"`
	Normalize NormalizeConfig `mapstructure:"normalize"`
	Heuristic HeuristicConfig `mapstructure:"heuristic"`
	Output    OutputConfig    `mapstructure:"output"`
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
}

// SourceConfig locates the historical product data
type SourceConfig struct {
	DatabaseURL string        `mapstructure:"database_url"`
	Table       string        `mapstructure:"table"`
	CSVPath     string        `mapstructure:"csv_path"`
	BaseDir     string        `mapstructure:"base_dir"`
	EnvFile     string        `mapstructure:"env_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ModelConfig holds the forest hyperparameters
type ModelConfig struct {
	Trees          int    `mapstructure:"trees"`
	Seed           uint64 `mapstructure:"seed"`
	MaxDepth       int    `mapstructure:"max_depth"`
	MinSamplesLeaf int    `mapstructure:"min_samples_leaf"`
	TopBrands      int    `mapstructure:"top_brands"`
}

// NormalizeConfig selects the row admission policy and imputation defaults
type NormalizeConfig struct {
	Policy             string  `mapstructure:"policy"` // "impute" or "drop"
	DefaultRating      float64 `mapstructure:"default_rating"`
	DefaultRatingCount int64   `mapstructure:"default_rating_count"`
}

// HeuristicConfig holds the post-prediction correction constants
type HeuristicConfig struct {
	Keywords  []string `mapstructure:"keywords"`
	Threshold float64  `mapstructure:"threshold"`
	Divisor   float64  `mapstructure:"divisor"`
	Ceiling   float64  `mapstructure:"ceiling"`
	Floor     float64  `mapstructure:"floor"`
}

// OutputConfig controls the result object
type OutputConfig struct {
	Diagnostics bool `mapstructure:"diagnostics"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// CacheConfig holds estimator cache configuration. A zero TTL disables it.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from defaults, an optional config file, an
// optional dotenv file and environment variables, in increasing priority.
// An empty configFile searches the default locations.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/marketmind/")
	}

	// Environment variable settings
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("source.database_url", EnvPrefix+"_SOURCE_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("binding DATABASE_URL: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	baseDir := v.GetString("source.base_dir")
	if baseDir == "" {
		baseDir = executableDir()
		v.Set("source.base_dir", baseDir)
	}

	if err := loadDotEnv(resolvePath(baseDir, v.GetString("source.env_file"))); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.database_url", "")
	v.SetDefault("source.table", "products")
	v.SetDefault("source.csv_path", "amazon.csv")
	v.SetDefault("source.base_dir", "")
	v.SetDefault("source.env_file", ".env")
	v.SetDefault("source.timeout", "10s")

	// Model defaults
	v.SetDefault("model.trees", 10)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.max_depth", 0)
	v.SetDefault("model.min_samples_leaf", 1)
	v.SetDefault("model.top_brands", 50)

	// Normalizer defaults
	v.SetDefault("normalize.policy", "impute")
	v.SetDefault("normalize.default_rating", 4.0)
	v.SetDefault("normalize.default_rating_count", 100)

	// Accessory heuristic defaults
	v.SetDefault("heuristic.keywords", []string{"cable", "usb", "case", "cover", "protector", "mouse", "adapter", "charger"})
	v.SetDefault("heuristic.threshold", 2000)
	v.SetDefault("heuristic.divisor", 10)
	v.SetDefault("heuristic.ceiling", 999)
	v.SetDefault("heuristic.floor", 100)

	v.SetDefault("output.diagnostics", false)

	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("cache.ttl", "0s")

	// Empty lets each binary pick its own level
	v.SetDefault("log.level", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Model.Trees <= 0 {
		return fmt.Errorf("model.trees must be positive, got: %d", config.Model.Trees)
	}
	if config.Model.MaxDepth < 0 {
		return fmt.Errorf("model.max_depth must not be negative, got: %d", config.Model.MaxDepth)
	}
	if config.Model.MinSamplesLeaf <= 0 {
		return fmt.Errorf("model.min_samples_leaf must be positive, got: %d", config.Model.MinSamplesLeaf)
	}
	if config.Model.TopBrands <= 0 {
		return fmt.Errorf("model.top_brands must be positive, got: %d", config.Model.TopBrands)
	}

	if config.Normalize.Policy != "impute" && config.Normalize.Policy != "drop" {
		return fmt.Errorf("normalize.policy must be 'impute' or 'drop', got: %s", config.Normalize.Policy)
	}

	if config.Heuristic.Threshold <= 0 {
		return fmt.Errorf("heuristic.threshold must be positive, got: %g", config.Heuristic.Threshold)
	}
	if config.Heuristic.Divisor <= 0 {
		return fmt.Errorf("heuristic.divisor must be positive, got: %g", config.Heuristic.Divisor)
	}
	if config.Heuristic.Floor <= 0 {
		return fmt.Errorf("heuristic.floor must be positive, got: %g", config.Heuristic.Floor)
	}
	if config.Heuristic.Ceiling < config.Heuristic.Floor {
		return fmt.Errorf("heuristic.ceiling (%g) must not be below heuristic.floor (%g)",
			config.Heuristic.Ceiling, config.Heuristic.Floor)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}
	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got: %s", config.Cache.TTL)
	}

	if config.Log.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(config.Log.Level)); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}

// CSVPath returns the data file path, resolved against BaseDir when relative.
// An empty csv_path disables the file source.
func (c *Config) CSVPath() string {
	if c.Source.CSVPath == "" {
		return ""
	}
	return resolvePath(c.Source.BaseDir, c.Source.CSVPath)
}

// LogLevel returns the configured level, or fallback when none is set
func (c *Config) LogLevel(fallback slog.Level) slog.Level {
	if c.Log.Level == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fallback
	}
	return lvl
}

// loadDotEnv fills unset environment variables from path. A missing file is
// not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading env file %s: %w", path, err)
	}
	return nil
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
