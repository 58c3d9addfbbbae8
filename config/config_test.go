package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
http:
  address: ":8181"
database:
  host: db
  port: 5433
  user: u
  password: p
  name: avia
kafka:
  brokers: ["k1:9092"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8181", cfg.HTTP.Address)
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=avia sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "booking-events", cfg.Kafka.BookingEventsTopic)
	assert.Equal(t, 250, cfg.Aggregator.FakeFlightsCount)
	assert.Equal(t, "v3.1", cfg.External.Countries.APIVersion)
	assert.Equal(t, []int{100, 300}, cfg.Aggregator.RetryDelaysMs)
}

func TestLoadConfig_RateLimits(t *testing.T) {
	path := writeConfig(t, `
aggregator:
  rate_per_second: 4
  rate_burst: 8
  rate_limits:
    timetable:
      rate_per_second: 1
      burst: 2
    restcountries:
      rate_per_second: 20
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, RateLimitConfig{RatePerSecond: 1, Burst: 2}, cfg.Aggregator.RateLimits["timetable"])
	assert.Equal(t, RateLimitConfig{RatePerSecond: 20, Burst: 8}, cfg.Aggregator.RateLimits["restcountries"])
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db
  port: 5432
  password: from-file
`)
	t.Setenv("AVIASALES_DB_PASSWORD", "from-env")
	t.Setenv("AVIASALES_DB_PORT", "6543")
	t.Setenv("AVIASALES_KAFKA_BROKERS", "a:1,b:2")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	bad := writeConfig(t, "http: [")
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "failed to parse config")

	path := writeConfig(t, "http: {}")
	t.Setenv("AVIASALES_DB_PORT", "not-a-number")
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "AVIASALES_DB_PORT")
}
