// Package config provides configuration management for soyc-report.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// AnalysisConfig holds analysis-related configuration.
type AnalysisConfig struct {
	Version        string `mapstructure:"version"`
	MaxWorkers     int    `mapstructure:"max_workers"`
	MaxChainLength int    `mapstructure:"max_chain_length"`
}

// ClassifyConfig holds the inline classification rule lists.
type ClassifyConfig struct {
	JREPrefixes             []string `mapstructure:"jre_prefixes"`
	RuntimePrefixes         []string `mapstructure:"runtime_prefixes"`
	WidgetPrefixes          []string `mapstructure:"widget_prefixes"`
	RPCLibraryPrefixes      []string `mapstructure:"rpc_library_prefixes"`
	CustomSerializerMarkers []string `mapstructure:"custom_serializer_markers"`
	GeneratedSuffixes       []string `mapstructure:"generated_suffixes"`
	CacheSize               int      `mapstructure:"cache_size"`
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	LocalPath string `mapstructure:"local_path"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"` // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Type     string `mapstructure:"type"` // postgres, mysql or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
	Path     string `mapstructure:"path"` // sqlite file
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the specified file path. A missing file
// falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/soyc-report")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return unmarshal(v)
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	cfg, err := unmarshal(newViper())
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SOYC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.version", "1.0.0")
	v.SetDefault("analysis.max_workers", 4)
	v.SetDefault("analysis.max_chain_length", 10000)

	v.SetDefault("classify.jre_prefixes", []string{"java"})
	v.SetDefault("classify.runtime_prefixes", []string{"com.google.gwt.lang"})
	v.SetDefault("classify.widget_prefixes", []string{"com.google.gwt.user.client.ui"})
	v.SetDefault("classify.rpc_library_prefixes", []string{"com.google.gwt.user.client.rpc"})
	v.SetDefault("classify.custom_serializer_markers", []string{"_CustomFieldSerializer"})
	v.SetDefault("classify.generated_suffixes", []string{"_FieldSerializer", "_Proxy", "_TypeSerializer"})
	v.SetDefault("classify.cache_size", 10000)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")
	v.SetDefault("storage.scheme", "https")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.path", "./soyc-report.db")

	v.SetDefault("log.level", "info")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max workers must be at least 1")
	}
	if c.Analysis.MaxChainLength < 1 {
		return fmt.Errorf("max chain length must be at least 1")
	}
	if c.Classify.CacheSize < 0 {
		return fmt.Errorf("classify cache_size must not be negative")
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("storage local_path is required for local storage")
		}
	case "cos":
		if c.Storage.Bucket == "" || c.Storage.Region == "" {
			return fmt.Errorf("storage bucket and region are required for cos storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if !c.Database.Enabled {
		return nil
	}
	switch c.Database.Type {
	case "postgres", "mysql":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	return nil
}
