package option_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/graphicode-dev/classroom/internal/requestconfig"
	"github.com/graphicode-dev/classroom/option"
)

func TestWithBaseURLAddsTrailingSlash(t *testing.T) {
	cfg, err := requestconfig.NewRequestConfig(context.Background(), http.MethodGet, "student/exams", nil, nil,
		option.WithEnvironmentProduction(),
		option.WithBaseURL("http://localhost:8080/api"),
	)
	require.NoError(t, err)

	u, err := cfg.ResolveURL()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/student/exams", u.String())
}

func TestDefaultEnvironment(t *testing.T) {
	cfg, err := requestconfig.NewRequestConfig(context.Background(), http.MethodGet, "auth/me", nil, nil,
		option.WithEnvironmentLocal(),
	)
	require.NoError(t, err)

	u, err := cfg.ResolveURL()
	require.NoError(t, err)
	assert.Equal(t, option.LocalBaseURL+"auth/me", u.String())
}

func TestOptionsFillRequestConfig(t *testing.T) {
	cancel := option.NewCancelToken()
	cfg, err := requestconfig.NewRequestConfig(context.Background(), http.MethodGet, "groups", nil, nil,
		option.WithMaxRetries(5),
		option.WithRetryWait(time.Second),
		option.WithHeader("X-Tenant", "cairo"),
		option.WithAuthMode(option.AuthOptional),
		option.WithToken("abc"),
		option.WithCancelToken(cancel),
		option.WithArrayFormat(option.ArrayFormatIndices),
	)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryWait)
	assert.Equal(t, "cairo", cfg.Request.Header.Get("X-Tenant"))
	assert.Equal(t, option.AuthOptional, cfg.AuthMode)
	assert.Same(t, cancel, cfg.CancelToken)

	token, err := cfg.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = requestconfig.NewRequestConfig(context.Background(), http.MethodGet, "groups", nil, nil,
		option.WithHTTPClient(nil))
	assert.Error(t, err)
}

func TestWithDebugLogRedactsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"u1"}}`))
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	var res struct {
		ID string `json:"id"`
	}
	err := requestconfig.ExecuteNewRequest(context.Background(), http.MethodGet, "auth/me", nil, &res,
		option.WithBaseURL(srv.URL),
		option.WithToken("super-secret"),
		option.WithEnvelope("data"),
		option.WithDebugLog(zap.New(core)),
	)
	require.NoError(t, err)
	assert.Equal(t, "u1", res.ID)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	dump := entries[0].ContextMap()["dump"].(string)
	assert.Contains(t, dump, "Authorization: [REDACTED]")
	assert.NotContains(t, dump, "super-secret")
	assert.Equal(t, 1, logs.FilterMessage("response").Len())
}
