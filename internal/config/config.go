package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Configuration constants
const (
	DefaultServerPort           = 8094
	DefaultDBPort               = 5432
	DefaultMaxOpenConns         = 25
	DefaultMaxIdleConns         = 10
	DefaultDBMaxLifetime        = 5
	DefaultShutdownTimeout      = 30
	DefaultRollMonitorFrequency = 3 * time.Second
	DefaultLogFrequency         = 30 * time.Second
	DefaultHTTPFrequency        = 5 * time.Second
	DefaultDiscordFrequency     = 5 * time.Second
	DefaultJWTMinLength         = 32
)

// Config represents the complete loot tracker configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Tracker     TrackerConfig     `mapstructure:"tracker"`
	Events      EventTypeConfig   `mapstructure:"events"`
	RollMonitor RollMonitorConfig `mapstructure:"roll_monitor"`
	Sinks       SinksConfig       `mapstructure:"sinks"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
}

// ServerConfig configuration of the HTTP server
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Host        string `mapstructure:"host"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig PostgreSQL configuration
type DatabaseConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// AuthConfig JWT configuration for mutating endpoints
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
}

// TrackerConfig restriction policy applied by the event gate
type TrackerConfig struct {
	Enabled                 bool     `mapstructure:"enabled"`
	Language                string   `mapstructure:"language"`
	RestrictInCombat        bool     `mapstructure:"restrict_in_combat"`
	RestrictToContent       bool     `mapstructure:"restrict_to_content"`
	RestrictToHighEndDuty   bool     `mapstructure:"restrict_to_high_end_duty"`
	RestrictToCustomContent bool     `mapstructure:"restrict_to_custom_content"`
	PermittedContent        []uint32 `mapstructure:"permitted_content"`
	RestrictToCustomItems   bool     `mapstructure:"restrict_to_custom_items"`
	PermittedItems          []uint32 `mapstructure:"permitted_items"`
	DebugLogging            bool     `mapstructure:"debug_logging"`
}

// EventTypeConfig per-event-type enable flags consulted by IsEnabledEvent
type EventTypeConfig struct {
	Add      bool `mapstructure:"add"`
	Cast     bool `mapstructure:"cast"`
	Craft    bool `mapstructure:"craft"`
	Desynth  bool `mapstructure:"desynth"`
	Discard  bool `mapstructure:"discard"`
	Gather   bool `mapstructure:"gather"`
	Greed    bool `mapstructure:"greed"`
	Lost     bool `mapstructure:"lost"`
	Need     bool `mapstructure:"need"`
	Obtain   bool `mapstructure:"obtain"`
	Purchase bool `mapstructure:"purchase"`
	Search   bool `mapstructure:"search"`
	Sell     bool `mapstructure:"sell"`
	Use      bool `mapstructure:"use"`
}

// RollMonitorConfig roll session tracker configuration
type RollMonitorConfig struct {
	Frequency time.Duration `mapstructure:"frequency"`
}

// SinksConfig downstream sink configuration
type SinksConfig struct {
	Log      LogSinkConfig      `mapstructure:"log"`
	HTTP     HTTPSinkConfig     `mapstructure:"http"`
	Discord  DiscordSinkConfig  `mapstructure:"discord"`
	Database DatabaseSinkConfig `mapstructure:"database"`
	NATS     NATSSinkConfig     `mapstructure:"nats"`
}

// LogSinkConfig file log sink
type LogSinkConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Path      string        `mapstructure:"path"`
	Frequency time.Duration `mapstructure:"frequency"`
}

// HTTPSinkConfig webhook sink
type HTTPSinkConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Endpoint  string        `mapstructure:"endpoint"`
	Frequency time.Duration `mapstructure:"frequency"`
}

// DiscordSinkConfig discord webhook sink
type DiscordSinkConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	WebhookURL string        `mapstructure:"webhook_url"`
	Frequency  time.Duration `mapstructure:"frequency"`
}

// DatabaseSinkConfig persistence sink
type DatabaseSinkConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Frequency time.Duration `mapstructure:"frequency"`
}

// NATSSinkConfig messaging sink
type NATSSinkConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	URL       string        `mapstructure:"url"`
	Subject   string        `mapstructure:"subject"`
	Frequency time.Duration `mapstructure:"frequency"`
}

// CatalogConfig reference data configuration
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := defaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/loottracker/")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("LOOT")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		if err := viper.Unmarshal(config); err != nil {
			return nil, fmt.Errorf("error unmarshalling config: %w", err)
		}
	}

	loadFromEnv(config)
	fixFrequencies(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        DefaultServerPort,
			Host:        "0.0.0.0",
			Environment: "development",
		},
		Database: DatabaseConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         DefaultDBPort,
			Name:         "loot_db",
			User:         "loot_user",
			Password:     "loot_password",
			SSLMode:      "disable",
			MaxOpenConns: DefaultMaxOpenConns,
			MaxIdleConns: DefaultMaxIdleConns,
			MaxLifetime:  DefaultDBMaxLifetime * time.Minute,
		},
		Auth: AuthConfig{
			Enabled: false,
			Secret:  "your-super-secret-jwt-key-change-in-production-minimum-64-characters",
		},
		Tracker: TrackerConfig{
			Enabled:  true,
			Language: "en",
		},
		Events: EventTypeConfig{
			Add:      true,
			Cast:     true,
			Craft:    true,
			Desynth:  true,
			Discard:  true,
			Gather:   true,
			Greed:    true,
			Lost:     true,
			Need:     true,
			Obtain:   true,
			Purchase: true,
			Search:   true,
			Sell:     true,
			Use:      true,
		},
		RollMonitor: RollMonitorConfig{
			Frequency: DefaultRollMonitorFrequency,
		},
		Sinks: SinksConfig{
			Log: LogSinkConfig{
				Enabled:   true,
				Path:      "loot.log",
				Frequency: DefaultLogFrequency,
			},
			HTTP: HTTPSinkConfig{
				Frequency: DefaultHTTPFrequency,
			},
			Discord: DiscordSinkConfig{
				Frequency: DefaultDiscordFrequency,
			},
			Database: DatabaseSinkConfig{
				Frequency: DefaultHTTPFrequency,
			},
			NATS: NATSSinkConfig{
				URL:       "nats://localhost:4222",
				Subject:   "loot.events",
				Frequency: DefaultHTTPFrequency,
			},
		},
	}
}

// fixFrequencies resets zero or negative flush intervals to their defaults,
// so a partially written config file cannot stall a consumer loop.
func fixFrequencies(config *Config) {
	if config.RollMonitor.Frequency <= 0 {
		config.RollMonitor.Frequency = DefaultRollMonitorFrequency
	}
	if config.Sinks.Log.Frequency <= 0 {
		config.Sinks.Log.Frequency = DefaultLogFrequency
	}
	if config.Sinks.HTTP.Frequency <= 0 {
		config.Sinks.HTTP.Frequency = DefaultHTTPFrequency
	}
	if config.Sinks.Discord.Frequency <= 0 {
		config.Sinks.Discord.Frequency = DefaultDiscordFrequency
	}
	if config.Sinks.Database.Frequency <= 0 {
		config.Sinks.Database.Frequency = DefaultHTTPFrequency
	}
	if config.Sinks.NATS.Frequency <= 0 {
		config.Sinks.NATS.Frequency = DefaultHTTPFrequency
	}
}

// loadFromEnv loads overrides from environment variables
func loadFromEnv(config *Config) {
	if port := os.Getenv("LOOT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LOOT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if env := os.Getenv("LOOT_ENVIRONMENT"); env != "" {
		config.Server.Environment = env
	}
	if lang := os.Getenv("LOOT_LANGUAGE"); lang != "" {
		config.Tracker.Language = lang
	}

	if dbHost := os.Getenv("LOOT_DB_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("LOOT_DB_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbName := os.Getenv("LOOT_DB_NAME"); dbName != "" {
		config.Database.Name = dbName
	}
	if dbUser := os.Getenv("LOOT_DB_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("LOOT_DB_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}

	if jwtSecret := os.Getenv("LOOT_JWT_SECRET"); jwtSecret != "" {
		config.Auth.Secret = jwtSecret
	}
	if natsURL := os.Getenv("LOOT_NATS_URL"); natsURL != "" {
		config.Sinks.NATS.URL = natsURL
	}
}

// GetDSN builds the PostgreSQL connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Auth.Enabled && len(config.Auth.Secret) < DefaultJWTMinLength {
		return fmt.Errorf("JWT secret must be at least %d characters long", DefaultJWTMinLength)
	}

	if config.Database.Enabled {
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
		if config.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
	}

	if config.Sinks.HTTP.Enabled && config.Sinks.HTTP.Endpoint == "" {
		return fmt.Errorf("http sink endpoint is required")
	}
	if config.Sinks.Discord.Enabled && config.Sinks.Discord.WebhookURL == "" {
		return fmt.Errorf("discord webhook url is required")
	}
	if config.Sinks.Database.Enabled && !config.Database.Enabled {
		return fmt.Errorf("database sink requires the database to be enabled")
	}
	if config.Sinks.NATS.Enabled && config.Sinks.NATS.URL == "" {
		return fmt.Errorf("nats url is required")
	}

	return nil
}
