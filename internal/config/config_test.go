package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fullauth-gateway", cfg.AppName)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:3000", cfg.Address())
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Empty(t, cfg.Routes.Public)
	assert.Empty(t, cfg.Routes.AuthOnly)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("BACKEND_API_URL", "https://api.example.com")
	t.Setenv("BACKEND_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
	assert.Equal(t, "https://api.example.com", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
}

func TestLoad_RouteLists(t *testing.T) {
	t.Setenv("PUBLIC_ROUTES", "/, /about , /contact")
	t.Setenv("AUTH_ROUTES", "/login,/register")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/about", "/contact"}, cfg.Routes.Public)
	assert.Equal(t, []string{"/login", "/register"}, cfg.Routes.AuthOnly)
}

func TestGetDuration_PlainSeconds(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7*time.Second, cfg.Context.RequestTimeout)
}

func TestGetDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Context.ShutdownTimeout)
}
