package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Dataset sources accepted in DatasetConfig.Source.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Dataset     DatasetConfig    `mapstructure:"dataset"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Forecast    ForecastConfig   `mapstructure:"forecast"`
	Indicators  IndicatorsConfig `mapstructure:"indicators"`
	Telemetry   TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatasetConfig selects where the index history table is read from.
type DatasetConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
	Table  string `mapstructure:"table"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password" json:"-" yaml:"-"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	DatabaseURL     string `mapstructure:"database_url" json:"-" yaml:"-"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
}

// DSN returns DatabaseURL when set, otherwise a keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	if d.DatabaseURL != "" {
		return d.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password" json:"-" yaml:"-"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type ForecastConfig struct {
	DefaultHorizon int `mapstructure:"default_horizon"`
	MaxHorizon     int `mapstructure:"max_horizon"`
}

type IndicatorsConfig struct {
	DefaultPeriod int `mapstructure:"default_period"`
	MaxPeriod     int `mapstructure:"max_period"`
}

type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	LogsEnabled bool    `mapstructure:"logs_enabled"`
	ServiceName string  `mapstructure:"service_name"`
}

// Load reads config.yaml from ./configs or the working directory when
// present, then applies environment overrides (server.port -> SERVER_PORT).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	return load(v, false)
}

// LoadFile reads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, true)
}

func load(v *viper.Viper, required bool) (*Config, error) {
	// Set default values
	setDefaults(v)

	// Enable environment variable support
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("database.database_url", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		var notFound viper.ConfigFileNotFoundError
		if required || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Normalize environment and enum-like values for consistent comparison
	config.Environment = strings.ToLower(config.Environment)
	config.Dataset.Source = strings.ToLower(strings.TrimSpace(config.Dataset.Source))
	config.Telemetry.Exporter = strings.ToLower(strings.TrimSpace(config.Telemetry.Exporter))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-field constraints after decoding.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	for _, origin := range c.Server.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("allowed origin %q must be \"*\" or start with http:// or https://", origin)
		}
	}

	switch c.Dataset.Source {
	case SourceCSV:
		if strings.TrimSpace(c.Dataset.Path) == "" {
			return errors.New("dataset.path is required for the csv source")
		}
	case SourcePostgres:
		if !tableNamePattern.MatchString(c.Dataset.Table) {
			return fmt.Errorf("invalid dataset table name %q", c.Dataset.Table)
		}
	default:
		return fmt.Errorf("unknown dataset source %q (want %s or %s)", c.Dataset.Source, SourceCSV, SourcePostgres)
	}

	if c.Forecast.MaxHorizon < 1 {
		return fmt.Errorf("forecast max horizon must be positive, got %d", c.Forecast.MaxHorizon)
	}
	if c.Forecast.DefaultHorizon > c.Forecast.MaxHorizon {
		return fmt.Errorf("forecast default horizon %d exceeds max horizon %d",
			c.Forecast.DefaultHorizon, c.Forecast.MaxHorizon)
	}

	if c.Indicators.DefaultPeriod < 1 || c.Indicators.DefaultPeriod > c.Indicators.MaxPeriod {
		return fmt.Errorf("indicator default period must be between 1 and %d, got %d",
			c.Indicators.MaxPeriod, c.Indicators.DefaultPeriod)
	}

	if c.Redis.Enabled && c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("redis cache ttl must be positive, got %s", c.Redis.CacheTTL)
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry sample rate must be within [0,1], got %g", c.Telemetry.SampleRate)
	}
	if c.Telemetry.Exporter != "stdout" && c.Telemetry.Exporter != "otlp" {
		return fmt.Errorf("unknown telemetry exporter %q", c.Telemetry.Exporter)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// Environment
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	// Server
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Dataset
	v.SetDefault("dataset.source", SourceCSV)
	v.SetDefault("dataset.path", "data/dump.csv")
	v.SetDefault("dataset.table", "index_history")

	// Database (only used by the postgres dataset source)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "indexcast")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.database_url", "")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.conn_max_lifetime", "300s")

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", "10m")

	// Forecast
	v.SetDefault("forecast.default_horizon", 7)
	v.SetDefault("forecast.max_horizon", 365)

	// Indicators
	v.SetDefault("indicators.default_period", 20)
	v.SetDefault("indicators.max_period", 500)

	// Telemetry
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "stdout")
	v.SetDefault("telemetry.endpoint", "localhost:4318")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.sample_rate", 1.0)
	v.SetDefault("telemetry.logs_enabled", false)
	v.SetDefault("telemetry.service_name", "indexcast")
}
