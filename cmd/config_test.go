package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", config.HTTPPort)
	assert.Equal(t, "pgx", config.DBDriver)
	assert.Equal(t, "info", config.LogLevel)
	assert.Empty(t, config.KafkaBrokers)
	assert.Equal(t, 30*24*time.Hour, config.OutboxRetention)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte(
		"JWT_SECRET=from-file\nKAFKA_BROKERS=k1:9092, k2:9092\nOUTBOX_RETENTION_DAYS=7\nHTTP_PORT=9000\n"), 0o600))
	t.Setenv("HTTP_PORT", "7000")
	t.Cleanup(func() {
		for _, key := range []string{"JWT_SECRET", "KAFKA_BROKERS", "OUTBOX_RETENTION_DAYS"} {
			os.Unsetenv(key)
		}
	})

	config, err := LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, "from-file", config.JWTSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, config.KafkaBrokers)
	assert.Equal(t, 7*24*time.Hour, config.OutboxRetention)
	assert.Equal(t, "7000", config.HTTPPort, "environment wins over the file")
}

func TestLoadConfig_MissingFileIsFine(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadConfig_Rejects(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
	t.Run("bad retention", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("OUTBOX_RETENTION_DAYS", "0")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "OUTBOX_RETENTION_DAYS")
	})
	t.Run("smtp without sender", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("SMTP_HOST", "mail.local")
		t.Setenv("SMTP_FROM", "")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "SMTP_FROM")
	})
}
