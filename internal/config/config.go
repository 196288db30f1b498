package config

import (
	"os"
	"strconv"
	"strings"

	"dialysisdash/internal/errors"
)

// Data source kinds
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	S3        S3Config
	UI        UIConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig says where the facility table comes from
type DataConfig struct {
	Source string
	File   string
	Table  string
}

// DatabaseConfig holds database connection settings for the postgres source
type DatabaseConfig struct {
	URL string
}

// S3Config holds object store settings for s3:// data files
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// UIConfig holds dashboard presentation settings
type UIConfig struct {
	PageSize int
}

// ProfilingConfig holds ops server settings (metrics and pprof)
type ProfilingConfig struct {
	Port           string
	Enabled        bool
	MetricsEnabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Database:  DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		S3:        *loadS3Config(),
		UI:        UIConfig{PageSize: getEnvIntOrDefault("PAGE_SIZE", 10)},
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8050"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	file := getEnvOrDefault("DATA_FILE", "data/DialysisCareQualityData2.csv")
	source := strings.ToLower(os.Getenv("DATA_SOURCE"))
	if source == "" {
		source = sourceForFile(file)
	}
	return &DataConfig{
		Source: source,
		File:   file,
		Table:  getEnvOrDefault("DATA_TABLE", "dialysis_facilities"),
	}
}

func sourceForFile(file string) string {
	if strings.HasPrefix(file, "s3://") {
		return SourceS3
	}
	return SourceFile
}

// UseDataFile points the config at a file or s3:// URL, replacing whatever
// DATA_SOURCE selected, and validates the result
func (c *Config) UseDataFile(file string) error {
	c.Data.File = file
	c.Data.Source = sourceForFile(file)
	if err := validateConfig(c); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	return nil
}

func loadS3Config() *S3Config {
	return &S3Config{
		Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		PathStyle: getEnvBoolOrDefault("S3_PATH_STYLE", false),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:           getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled:        getEnvBoolOrDefault("PPROF_ENABLED", false),
		MetricsEnabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
	}
}

func validateConfig(config *Config) error {
	switch config.Data.Source {
	case SourceFile:
		if config.Data.File == "" {
			return errors.ConfigInvalid("DATA_FILE is required for the file source")
		}
	case SourceS3:
		if !strings.HasPrefix(config.Data.File, "s3://") {
			return errors.ConfigInvalid("DATA_FILE must be an s3:// URL for the s3 source")
		}
	case SourcePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres source")
		}
		if config.Data.Table == "" {
			return errors.ConfigInvalid("DATA_TABLE is required for the postgres source")
		}
	default:
		return errors.ConfigInvalid("unknown DATA_SOURCE " + strconv.Quote(config.Data.Source))
	}
	if config.UI.PageSize <= 0 {
		return errors.ConfigInvalid("PAGE_SIZE must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
