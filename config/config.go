package config

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Bookmarks  BookmarksConfig  `mapstructure:"bookmarks"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Evaluator  EvaluatorConfig  `mapstructure:"evaluator"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// StorageConfig selects and configures the key-value store holding rules.
type StorageConfig struct {
	Type    string          `mapstructure:"type" validate:"oneof=file mongodb redis sqlite"`
	File    FileStoreConfig `mapstructure:"file"`
	MongoDB DatabaseConfig  `mapstructure:"mongodb"`
	Redis   RedisConfig     `mapstructure:"redis"`
	SQLite  SQLiteConfig    `mapstructure:"sqlite"`
}

// DatabaseConfig holds the MongoDB connection configuration.
type DatabaseConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	DatabaseName     string `mapstructure:"database_name"`
}

// FileStoreConfig holds the file system storage configuration.
type FileStoreConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig holds the Redis connection configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"` // Hash holding every rule
}

// SQLiteConfig holds the SQLite database configuration.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// BookmarksConfig points at the bookmark directory backing file.
type BookmarksConfig struct {
	Path string `mapstructure:"path" validate:"required"` // Chromium "Bookmarks" JSON file
}

// NavigationConfig enables the optional navigation event sources.
// The HTTP ingest endpoint is always available.
type NavigationConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
	CDP   CDPConfig   `mapstructure:"cdp"`
}

// KafkaConfig holds the navigation event topic configuration.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers" validate:"required_if=Enabled true"`
	Topic   string   `mapstructure:"topic" validate:"required_if=Enabled true"`
	GroupID string   `mapstructure:"group_id"`
}

// CDPConfig holds the DevTools endpoint of a running browser.
type CDPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
}

// EvaluatorConfig tunes rule evaluation.
type EvaluatorConfig struct {
	PatternTimeout time.Duration `mapstructure:"pattern_timeout" validate:"gt=0"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, text
	Output     string `mapstructure:"output"`      // stdout, file
	FilePath   string `mapstructure:"file_path"`   // Path to log file
	MaxSize    int    `mapstructure:"max_size"`    // Megabytes
	MaxBackups int    `mapstructure:"max_backups"` // Number of backups
	MaxAge     int    `mapstructure:"max_age"`     // Days
	Compress   bool   `mapstructure:"compress"`    // Compress backups
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.file.path", "./data")
	viper.SetDefault("storage.mongodb.connection_string", "mongodb://localhost:27017")
	viper.SetDefault("storage.mongodb.database_name", "bookmarksync")
	viper.SetDefault("storage.redis.addr", "localhost:6379")
	viper.SetDefault("storage.redis.password", "")
	viper.SetDefault("storage.redis.db", 0)
	viper.SetDefault("storage.redis.key", "bookmarksync:rules")
	viper.SetDefault("storage.sqlite.path", "./data/rules.db")
	viper.SetDefault("bookmarks.path", "./data/Bookmarks")
	viper.SetDefault("navigation.kafka.enabled", false)
	viper.SetDefault("navigation.kafka.brokers", []string{})
	viper.SetDefault("navigation.kafka.topic", "navigation-events")
	viper.SetDefault("navigation.kafka.group_id", "bookmarksync")
	viper.SetDefault("navigation.cdp.enabled", false)
	viper.SetDefault("navigation.cdp.endpoint", "http://localhost:9222")
	viper.SetDefault("evaluator.pattern_timeout", 100*time.Millisecond)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stdout")
}

// LoadConfig reads the configuration from config files and environment variables.
// A missing config file is not an error; defaults and environment variables apply.
func LoadConfig() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../..") // Check project root if running from cmd/bookmarksync

	viper.SetEnvPrefix("BOOKMARKSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}
	// required_if accepts an empty non-nil slice, and kafka-go panics without brokers.
	if cfg.Navigation.Kafka.Enabled && len(cfg.Navigation.Kafka.Brokers) == 0 {
		return nil, errors.New("navigation.kafka.brokers must list at least one broker when kafka is enabled")
	}

	return &cfg, nil
}
