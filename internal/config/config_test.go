package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "DATASET_FILE", "DATASET_URL", "DATASET_TIMEOUT",
		"CLIENT_ORIGIN", "TOKEN_SECRET", "SESSION_TTL", "DAILY_SALT", "NODE_ENV"} {
		t.Setenv(k, "")
	}

	c := FromEnv()
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel)
	assert.Equal(t, 10*time.Second, c.DatasetTimeout)
	assert.Equal(t, "http://localhost:5173", c.ClientOrigin)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, "local_dev_salt", c.DailySalt)
	assert.False(t, c.Production)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATASET_URL", "https://example.com/data.json")
	t.Setenv("DATASET_TIMEOUT", "3")
	t.Setenv("DB_PATH", "")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("NODE_ENV", "production")

	c := FromEnv()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel)
	assert.Equal(t, "https://example.com/data.json", c.DatasetURL)
	assert.Equal(t, 3*time.Second, c.DatasetTimeout)
	assert.Equal(t, "", c.DBPath)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.True(t, c.Production)
}

func TestFromEnv_BadValuesFallBack(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("SESSION_TTL", "forever")

	c := FromEnv()
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
}
