package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Matcher configuration
	Matcher MatcherConfig `mapstructure:"matcher"`

	// Ontology data source configuration
	Ontology OntologyConfig `mapstructure:"ontology"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// MatcherConfig holds pattern matcher configuration
type MatcherConfig struct {
	// PatternFiles are YAML or JSON files of pattern groups loaded at
	// startup.
	PatternFiles []string `mapstructure:"pattern_files"`

	// UseKnowledgeGraph routes matching through the knowledge-graph
	// backend with automaton fallback instead of the automaton alone.
	UseKnowledgeGraph bool `mapstructure:"use_knowledge_graph"`
}

// OntologyConfig holds ontology data source configuration
type OntologyConfig struct {
	// EdgesCSV is a PrimeKG-style edge table.
	EdgesCSV string `mapstructure:"edges_csv"`

	// SnomedDir is a directory of SNOMED CT RF2 release files.
	SnomedDir string `mapstructure:"snomed_dir"`

	// SnapshotPath is a parquet graph snapshot, read if present and
	// written by the export command.
	SnapshotPath string `mapstructure:"snapshot_path"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Matcher defaults
	viper.SetDefault("matcher.pattern_files", []string{})
	viper.SetDefault("matcher.use_knowledge_graph", false)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if host := os.Getenv("ONTOGRAPH_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("ONTOGRAPH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("ONTOGRAPH_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
	if edges := os.Getenv("ONTOGRAPH_EDGES_CSV"); edges != "" {
		config.Ontology.EdgesCSV = edges
	}
	if dir := os.Getenv("ONTOGRAPH_SNOMED_DIR"); dir != "" {
		config.Ontology.SnomedDir = dir
	}
	if path := os.Getenv("ONTOGRAPH_SNAPSHOT"); path != "" {
		config.Ontology.SnapshotPath = path
	}
}
