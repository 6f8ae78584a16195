package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/graphql-crm/internal/config"
)

func TestNew(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "crm")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_DB", "crm")
	t.Setenv("GRAPHQL_MAX_PAGE_SIZE", "50")

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		GraphQL  config.GraphQL
		HTTP     config.HTTP
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.Equal(t, config.LogFormatText, cfg.Log.Format)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, time.Hour, cfg.Postgres.MaxConnLifetime)
	assert.Equal(t, 20, cfg.GraphQL.DefaultPageSize)
	assert.Equal(t, 50, cfg.GraphQL.MaxPageSize)
	assert.Equal(t, uint32(8000), cfg.HTTP.Port)
	assert.Equal(t, []string{"https://*", "http://*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "postgres://crm:p%40ss%20word@db:5432/crm?sslmode=disable", cfg.Postgres.DSN())
}

func TestNewMissingRequired(t *testing.T) {
	type Config struct {
		Kafka config.Kafka
	}

	_, err := config.New[Config]()
	assert.Error(t, err)
}

func TestLogFormat(t *testing.T) {
	var f config.LogFormat
	require.NoError(t, f.UnmarshalText([]byte("json")))
	assert.Equal(t, config.LogFormatJSON, f)

	assert.Error(t, f.UnmarshalText([]byte("xml")))

	b, err := config.LogFormatText.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "TEXT", string(b))
}

func TestKafkaDefaults(t *testing.T) {
	t.Setenv("KAFKA_ADDRESSES", "kafka-1:9092,kafka-2:9092")

	type Config struct {
		Kafka config.Kafka
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Addresses)
	assert.Equal(t, "graphql-crm", cfg.Kafka.ClientID)
	assert.Equal(t, 5*time.Second, cfg.Kafka.PingTimeout)
	assert.Equal(t, 30*time.Second, cfg.Kafka.DeliveryTimeout)
}

func TestNewReadsDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() {
		os.Unsetenv("CRM_TEST_DOTENV_ONLY")
	})
	t.Setenv("CRM_TEST_DOTENV_BOTH", "from-env")

	require.NoError(t, os.WriteFile(config.DotEnvFile, []byte(
		"CRM_TEST_DOTENV_ONLY=from-file\nCRM_TEST_DOTENV_BOTH=from-file\n",
	), 0o600))

	type Config struct {
		Only string `env:"CRM_TEST_DOTENV_ONLY"`
		Both string `env:"CRM_TEST_DOTENV_BOTH"`
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Only)
	assert.Equal(t, "from-env", cfg.Both)
}

func TestRelayAndOtelDefaults(t *testing.T) {
	t.Setenv("RELAY_CONCURRENCY", "4")

	type Config struct {
		Relay config.Relay
		Otel  config.Otel
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.Equal(t, uint32(100), cfg.Relay.BatchSize)
	assert.Equal(t, 4, cfg.Relay.Concurrency)
	assert.Equal(t, "graphql-crm", cfg.Otel.ServiceName)
	assert.Empty(t, cfg.Otel.CollectorURL)
}
