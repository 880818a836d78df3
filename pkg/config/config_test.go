package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTP.Addr())
	assert.Equal(t, 2, cfg.Backend.ReadRetries)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.List.Debounce)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
	assert.Equal(t, "kiran_session", cfg.Session.Cookie)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("BACKEND_BASE_URL", "http://backend:8000/api/")
	v.Set("HTTP_PORT", "8081")
	v.Set("SEARCH_DEBOUNCE_MS", "250")
	v.Set("SESSION_STORE", "Postgres")
	v.Set("COOKIE_SECURE", "true")

	cfg := fromViper(v)

	assert.Equal(t, "http://backend:8000/api", cfg.Backend.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.List.Debounce)
	assert.Equal(t, StorePostgres, cfg.Session.Store)
	assert.True(t, cfg.Session.Secure)
}

func TestGetInt_InvalidFallsBackToDefault(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "not-a-number")
	assert.Equal(t, 3000, getInt(v, "HTTP_PORT", 3000))
}

func TestValidate(t *testing.T) {
	cfg := fromViper(viper.New())
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_BASE_URL is required")
	assert.Contains(t, err.Error(), "SESSION_SECRET is required")

	cfg.Backend.BaseURL = "backend:8000"
	cfg.Session.Secret = "s3cret"
	require.Error(t, cfg.Validate(), "relative URL is rejected")

	cfg.Backend.BaseURL = "http://backend:8000"
	require.NoError(t, cfg.Validate())

	cfg.Session.Store = "redis"
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "console", Password: "p@ss:word", DBName: "kiran", SSLMode: "disable"}
	assert.Equal(t, "postgres://console:p%40ss%3Aword@db:5432/kiran?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
