package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "AVIASALES_"

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Mongo      MongoConfig      `yaml:"mongo"`
	External   ExternalConfig   `yaml:"external"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Booking    BookingConfig    `yaml:"booking"`
}

type HTTPConfig struct {
	Address             string `yaml:"address"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type LogConfig struct {
	Level string `yaml:"level"`
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
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type ExternalConfig struct {
	Countries CountriesConfig `yaml:"countries"`
	TimeTable TimeTableConfig `yaml:"timetable"`
}

type CountriesConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIVersion      string `yaml:"api_version"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

type TimeTableConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

type AggregatorConfig struct {
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
	RetryDelaysMs    []int   `yaml:"retry_delays_ms"`
	FakeFlightsCount int     `yaml:"fake_flights_count"`
	RatePerSecond    float64 `yaml:"rate_per_second"`
	RateBurst        int     `yaml:"rate_burst"`
	// RateLimits overrides rate_per_second/rate_burst per external source name.
	RateLimits map[string]RateLimitConfig `yaml:"rate_limits"`
}

type RateLimitConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

type BookingConfig struct {
	LockTTLSeconds int `yaml:"lock_ttl_seconds"`
}

// LoadConfig reads the yaml file at path, then applies .env and AVIASALES_* overrides.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTP.Address, "HTTP_ADDRESS")
	setString(&c.GRPC.Address, "GRPC_ADDRESS")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.External.TimeTable.APIKey, "TIMETABLE_API_KEY")

	if v, ok := lookup("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sDB_PORT: %w", envPrefix, err)
		}
		c.Database.Port = port
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ReadTimeoutSeconds == 0 {
		c.HTTP.ReadTimeoutSeconds = 10
	}
	if c.HTTP.WriteTimeoutSeconds == 0 {
		c.HTTP.WriteTimeoutSeconds = 30
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = "booking-events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "aviasales-worker"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "aviasales"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "booking_events"
	}
	if c.External.Countries.APIVersion == "" {
		c.External.Countries.APIVersion = "v3.1"
	}
	if c.External.Countries.TimeoutSeconds == 0 {
		c.External.Countries.TimeoutSeconds = 10
	}
	if c.External.Countries.CacheTTLSeconds == 0 {
		c.External.Countries.CacheTTLSeconds = 1200
	}
	if c.External.TimeTable.TimeoutSeconds == 0 {
		c.External.TimeTable.TimeoutSeconds = 10
	}
	if c.External.TimeTable.CacheTTLSeconds == 0 {
		c.External.TimeTable.CacheTTLSeconds = 600
	}
	if c.Aggregator.TimeoutSeconds == 0 {
		c.Aggregator.TimeoutSeconds = 15
	}
	if c.Aggregator.RetryDelaysMs == nil {
		c.Aggregator.RetryDelaysMs = []int{100, 300}
	}
	if c.Aggregator.FakeFlightsCount == 0 {
		c.Aggregator.FakeFlightsCount = 250
	}
	if c.Aggregator.RatePerSecond == 0 {
		c.Aggregator.RatePerSecond = 5
	}
	if c.Aggregator.RateBurst == 0 {
		c.Aggregator.RateBurst = 5
	}
	for source, limit := range c.Aggregator.RateLimits {
		if limit.RatePerSecond == 0 {
			limit.RatePerSecond = c.Aggregator.RatePerSecond
		}
		if limit.Burst == 0 {
			limit.Burst = c.Aggregator.RateBurst
		}
		c.Aggregator.RateLimits[source] = limit
	}
	if c.Booking.LockTTLSeconds == 0 {
		c.Booking.LockTTLSeconds = 30
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
