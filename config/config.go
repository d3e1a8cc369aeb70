package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourcePostgres   = "postgres"
	SourceClickHouse = "clickhouse"
	SourceSQLite     = "sqlite"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Source     SourceConfig     `yaml:"source"`
	Database   DatabaseConfig   `yaml:"database"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

// SourceConfig selects the store the reference data is read from.
type SourceConfig struct {
	Kind                string `yaml:"kind"`
	QueryTimeoutSeconds int    `yaml:"query_timeout_seconds"`
}

func (s SourceConfig) QueryTimeout() time.Duration {
	if s.QueryTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.QueryTimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, sslMode)
}

type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

func (r RedisConfig) TTL() time.Duration {
	if r.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(r.TTLSeconds) * time.Second
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	ApplyTopic string   `yaml:"apply_topic"`
	GroupID    string   `yaml:"group_id"`
}

type DatasetConfig struct {
	// Locale picks the city name out of the localized airport lookup.
	Locale   string `yaml:"locale"`
	Timezone string `yaml:"timezone"`
}

// Location resolves the timezone calendar fields are derived in. Empty means UTC.
func (d DatasetConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// DashboardConfig holds the selection shown before the first apply.
type DashboardConfig struct {
	DefaultDepartureCities []string `yaml:"default_departure_cities"`
	DefaultArrivalCities   []string `yaml:"default_arrival_cities"`
	DefaultStartDate       string   `yaml:"default_start_date"`
	DefaultEndDate         string   `yaml:"default_end_date"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// environment only
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		HTTP:   HTTPConfig{Address: ":8050"},
		Source: SourceConfig{Kind: SourcePostgres, QueryTimeoutSeconds: 30},
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "disable",
		},
		ClickHouse: ClickHouseConfig{Port: 9000, Database: "default", User: "default"},
		Kafka:      KafkaConfig{ApplyTopic: "dashboard.apply", GroupID: "dashboard-usage"},
		Dataset:    DatasetConfig{Locale: "ru", Timezone: "UTC"},
		Dashboard: DashboardConfig{
			DefaultDepartureCities: []string{"Москва"},
			DefaultArrivalCities:   []string{"Санкт-Петербург"},
			DefaultStartDate:       "2016-01-01",
			DefaultEndDate:         "2017-12-31",
		},
	}
}

// applyEnv lets the process environment override connection settings.
func (c *Config) applyEnv() error {
	setString(&c.Source.Kind, "DATA_SOURCE")

	setString(&c.Database.User, "POSTGRES_USER")
	setString(&c.Database.Password, "POSTGRES_PASS")
	setString(&c.Database.Host, "POSTGRES_HOST")
	setString(&c.Database.Name, "POSTGRES_DB")
	if err := setInt(&c.Database.Port, "POSTGRES_PORT"); err != nil {
		return err
	}

	setString(&c.ClickHouse.Host, "CLICKHOUSE_HOST")
	setString(&c.ClickHouse.Database, "CLICKHOUSE_DB")
	setString(&c.ClickHouse.User, "CLICKHOUSE_USER")
	setString(&c.ClickHouse.Password, "CLICKHOUSE_PASS")
	if err := setInt(&c.ClickHouse.Port, "CLICKHOUSE_PORT"); err != nil {
		return err
	}

	setString(&c.SQLite.Path, "SQLITE_PATH")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.HTTP.Address, "HTTP_ADDRESS")
	return nil
}

// Validate checks settings every binary shares. Source connection parameters are
// checked by ValidateSource.
func (c *Config) Validate() error {
	if _, err := c.Dataset.Location(); err != nil {
		return err
	}
	return nil
}

// ValidateSource reports missing connection parameters for the selected source.
func (c *Config) ValidateSource() error {
	var missing []string
	switch c.Source.Kind {
	case SourcePostgres:
		if c.Database.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if c.Database.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if c.Database.Name == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	case SourceClickHouse:
		if c.ClickHouse.Host == "" {
			missing = append(missing, "CLICKHOUSE_HOST")
		}
	case SourceSQLite:
		if c.SQLite.Path == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown data source %q", c.Source.Kind)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required parameters for %s source: %v", c.Source.Kind, missing)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid int for %s: %q", key, v)
	}
	*dst = n
	return nil
}
