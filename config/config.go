package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/logging"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Store       StoreConfig    `mapstructure:"store"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Kafka       KafkaConfig    `mapstructure:"kafka"`
	Logging     logging.Config `mapstructure:"logging"`

	// RulesPath points at a YAML file or directory with game rules.
	// Empty means built-in defaults.
	RulesPath string `mapstructure:"rules_path"`

	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	EnableCORS     bool          `mapstructure:"enable_cors"`
}

// StoreConfig selects where the account store blob lives
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	// Path is the snapshot file (file backend) or database file (sqlite backend).
	Path string `mapstructure:"path"`
	// Key is the redis key or sqlite row name holding the blob.
	Key string `mapstructure:"key"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers   []string          `mapstructure:"brokers"`
	Topics    map[string]string `mapstructure:"topics"`
	WorkerNum int               `mapstructure:"worker_num"`
}

// Load loads configuration from YAML file using Viper
func Load(filename string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(filename)
	v.SetConfigType("yaml")

	// Enable environment variable substitution
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadOrDefault loads the file when a name is given, otherwise returns defaults
func LoadOrDefault(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	return Load(filename)
}

// Default returns a configuration with every default applied
func Default() *Config {
	var config Config
	config.setDefaults()
	return &config
}

// setDefaults sets default values for missing configuration
func (c *Config) setDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.CommandTimeout == 0 {
		c.Server.CommandTimeout = 5 * time.Second
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Store.Path == "" {
		switch c.Store.Backend {
		case BackendSQLite:
			c.Store.Path = "data/stakes.db"
		default:
			c.Store.Path = "data/stakes.snapshot.zst"
		}
	}
	if c.Store.Key == "" {
		c.Store.Key = "stakesGameState"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 5
	}
	if c.Kafka.Topics == nil {
		c.Kafka.Topics = map[string]string{}
	}
	if c.Kafka.Topics["audit"] == "" {
		c.Kafka.Topics["audit"] = "stakes.commands"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks values that have no sensible default
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("store backend %q requires redis.addr", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return c.Addr
}

// AuditTopic returns the Kafka topic for command audit events
func (c *KafkaConfig) AuditTopic() string {
	return c.Topics["audit"]
}

// IsDevelopment returns true if environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// IsProduction returns true if environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
