package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Graph   GraphConfig   `yaml:"graph"`
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"readTimeout"`
	WriteTimeout      time.Duration `yaml:"writeTimeout"`
	IdleTimeout       time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
	MetricsEnabled    bool          `yaml:"metricsEnabled"`
	AllowedOriginsCSV string        `yaml:"allowedOrigins"`
}

// GraphConfig describes connectivity to the Neo4j snapshot store. An empty
// URI runs the service in memory only.
type GraphConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	MaxConnections int           `yaml:"maxConnections"`
	QueryTimeout   time.Duration `yaml:"queryTimeout"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"` // text|json
	IncludeCaller bool   `yaml:"includeCaller"`
}

// EngineConfig tunes the social graph engine.
type EngineConfig struct {
	MaxLabelRounds      int    `yaml:"maxLabelRounds"`
	RecommendationLimit int    `yaml:"recommendationLimit"`
	ImpactSeed          int64  `yaml:"impactSeed"` // 0 seeds from the clock
	SeedDir             string `yaml:"seedDir"`
}

const (
	defaultHost                = "0.0.0.0"
	defaultPort                = 8080
	defaultReadTimeout         = 10 * time.Second
	defaultWriteTimeout        = 15 * time.Second
	defaultIdleTimeout         = 60 * time.Second
	defaultShutdownTimeout     = 10 * time.Second
	defaultLoggingLevel        = "info"
	defaultLoggingFormat       = "text"
	defaultGraphMaxSessions    = 10
	defaultGraphQueryTimeout   = 30 * time.Second
	defaultMaxLabelRounds      = 10
	defaultRecommendationLimit = 10
)

// Default returns the configuration used when neither a file nor the
// environment say otherwise.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Graph: GraphConfig{
			MaxConnections: defaultGraphMaxSessions,
			QueryTimeout:   defaultGraphQueryTimeout,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
		Engine: EngineConfig{
			MaxLabelRounds:      defaultMaxLabelRounds,
			RecommendationLimit: defaultRecommendationLimit,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if set) and finally environment variables.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTP.Host = valueOrDefault("SERVER_HOST", cfg.HTTP.Host)
	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", cfg.HTTP.MetricsEnabled)
	cfg.HTTP.AllowedOriginsCSV = valueOrDefault("SERVER_ALLOWED_ORIGINS", cfg.HTTP.AllowedOriginsCSV)

	port, err := parsePort("SERVER_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"GRAPH_QUERY_TIMEOUT", &cfg.Graph.QueryTimeout},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.target); err != nil {
			return err
		}
	}

	cfg.Graph.URI = valueOrDefault("GRAPH_URI", cfg.Graph.URI)
	cfg.Graph.Database = valueOrDefault("GRAPH_DATABASE", cfg.Graph.Database)
	cfg.Graph.Username = valueOrDefault("GRAPH_USERNAME", cfg.Graph.Username)
	cfg.Graph.Password = valueOrDefault("GRAPH_PASSWORD", cfg.Graph.Password)
	cfg.Graph.MaxConnections = parseIntWithDefault("GRAPH_MAX_CONNECTIONS", cfg.Graph.MaxConnections)

	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.IncludeCaller = parseBoolWithDefault("LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)

	cfg.Engine.MaxLabelRounds = parseIntWithDefault("ENGINE_MAX_LABEL_ROUNDS", cfg.Engine.MaxLabelRounds)
	cfg.Engine.RecommendationLimit = parseIntWithDefault("ENGINE_RECOMMENDATION_LIMIT", cfg.Engine.RecommendationLimit)
	cfg.Engine.SeedDir = valueOrDefault("ENGINE_SEED_DIR", cfg.Engine.SeedDir)
	if v := os.Getenv("ENGINE_IMPACT_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ENGINE_IMPACT_SEED: %w", err)
		}
		cfg.Engine.ImpactSeed = seed
	}

	if cfg.Engine.MaxLabelRounds <= 0 {
		return fmt.Errorf("engine max label rounds must be positive, got %d", cfg.Engine.MaxLabelRounds)
	}
	if cfg.Engine.RecommendationLimit <= 0 {
		return fmt.Errorf("engine recommendation limit must be positive, got %d", cfg.Engine.RecommendationLimit)
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = d
	return nil
}

func parsePort(key string, fallback int) (int, error) {
	port := fallback
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		port = parsed
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("port %d is out of range", port)
	}
	return port, nil
}
