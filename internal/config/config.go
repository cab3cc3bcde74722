package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Database driver names accepted in configuration.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// AppConfig represents the main engine configuration
type AppConfig struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig represents persistence configuration. Path is used by the
// sqlite driver; the host/port block by postgres.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DiscoveryConfig represents background discovery configuration
type DiscoveryConfig struct {
	Workers             int    `mapstructure:"workers"`
	ProbeRetryLimit     int    `mapstructure:"probe_retry_limit"`
	ConsistencySchedule string `mapstructure:"consistency_schedule"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig loads engine configuration from file and environment
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("medialib")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	viper.SetDefault("database.driver", DriverSQLite)
	viper.SetDefault("database.path", "medialib.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "medialib")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.conn_max_idle_time", 15*time.Minute)

	viper.SetDefault("discovery.workers", 4)
	viper.SetDefault("discovery.probe_retry_limit", 3)
	viper.SetDefault("discovery.consistency_schedule", "@every 10m")

	viper.SetDefault("logging.level", "info")

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults
	}

	// Read from environment variables
	viper.AutomaticEnv()

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration values
func validateConfig(config *AppConfig) error {
	switch config.Database.Driver {
	case DriverSQLite:
		if config.Database.Path == "" {
			return fmt.Errorf("sqlite driver requires database.path")
		}
	case DriverPostgres:
		if config.Database.DBName == "" {
			return fmt.Errorf("postgres driver requires database.dbname")
		}
	default:
		return fmt.Errorf("unknown database driver: %s", config.Database.Driver)
	}

	if config.Discovery.Workers < 1 {
		return fmt.Errorf("discovery workers must be positive")
	}
	if config.Discovery.ProbeRetryLimit < 1 {
		return fmt.Errorf("probe retry limit must be positive")
	}

	return nil
}
