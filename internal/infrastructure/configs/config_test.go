package configs

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphicode-dev/classroom/internal/param"
	"github.com/graphicode-dev/classroom/internal/requestconfig"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classroom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 2, cfg.Client.MaxRetries)
	assert.Equal(t, "required", cfg.Client.AuthMode)
	assert.Equal(t, "brackets", cfg.Serialization.ArrayFormat)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 120, cfg.RateLimiter.RequestsPerTimeFrame)
	assert.Equal(t, uint(500), cfg.Store.Capacity)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
client:
  base_url: https://staging.graphicode.dev/api
  timeout: 5s
  auth_mode: optional
serialization:
  array_format: indices
  date_format: timestamp
http:
  port: 9090
rateLimiter:
  requestsPerTimeFrame: 10
  timeFrame: 30s
`)
	t.Setenv("CLASSROOM_TOKEN", "from-env")
	t.Setenv("HTTP_PORT", "9191")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.graphicode.dev/api", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "from-env", cfg.Client.Token)
	assert.Equal(t, uint16(9191), cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.RateLimiter.TimeFrame)
	assert.Equal(t, "numeric", cfg.Serialization.BooleanFormat, "unset keys keep defaults")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
client:
  auth_mode: sometimes
serialization:
  array_format: commas
`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "client.auth_mode")
	assert.Contains(t, err.Error(), "serialization.array_format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestClientOptions(t *testing.T) {
	path := writeConfig(t, `
client:
  base_url: http://localhost:8080/api
  auth_mode: none
  max_retries: 4
  token: abc
serialization:
  array_format: indices
  boolean_format: string
  date_format: date
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	opts, err := cfg.ClientOptions()
	require.NoError(t, err)

	rc, err := requestconfig.NewRequestConfig(context.Background(), http.MethodGet, "groups", nil, nil, opts...)
	require.NoError(t, err)
	assert.Equal(t, 4, rc.MaxRetries)
	assert.Equal(t, requestconfig.AuthNone, rc.AuthMode)
	assert.Equal(t, param.ArrayFormatIndices, rc.QuerySettings.ArrayFormat)
	assert.Equal(t, param.BooleanFormatString, rc.FormSettings.BooleanFormat)
	assert.Equal(t, param.DateFormatDateOnly, rc.FormSettings.DateFormat)

	u, err := rc.ResolveURL()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/groups", u.String())
}

func TestDetermineConfigPath(t *testing.T) {
	assert.Equal(t, "explicit.yaml", DetermineConfigPath("explicit.yaml"))

	t.Setenv("CLASSROOM_CONFIG", "/tmp/from-env.yaml")
	assert.Equal(t, "/tmp/from-env.yaml", DetermineConfigPath(""))
}
