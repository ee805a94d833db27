package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/graphicode-dev/classroom/internal/infrastructure/configs"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ratelimiter"
	"github.com/graphicode-dev/classroom/internal/infrastructure/repository"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ws"
	"github.com/graphicode-dev/classroom/internal/presentation/api"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("CLASSROOM_CONFIG", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	repos := repository.NewRepositories(0, time.Hour, repository.DemoUsers()...)
	require.NoError(t, repos.Seed(ctx, time.Now()))

	logger := logging.NewNop()
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	limiter := ratelimiter.NewFixedWindow(0, time.Minute)
	cfg := configs.Config{HTTP: configs.HTTPConfig{RequestTimeout: 5 * time.Second}}
	srv := httptest.NewServer(api.NewApplication(cfg, repos, hub, logger, limiter).Mount())

	t.Cleanup(func() {
		srv.Close()
		limiter.Close()
		cancel()
	})
	return srv
}

func TestQueryCommand(t *testing.T) {
	out, _, err := run(t, "", "query", `{"status":"active","page":2,"tags":["go","web dev"]}`)
	require.NoError(t, err)
	assert.Equal(t, "status=active&page=2&tags[]=go&tags[]=web%20dev\n", out)

	out, _, err = run(t, "", "query", "--array-format", "indices", "--no-encode", `{"tags":["go","web dev"]}`)
	require.NoError(t, err)
	assert.Equal(t, "tags[0]=go&tags[1]=web dev\n", out)
}

func TestQueryCommandReadsStdin(t *testing.T) {
	out, _, err := run(t, `{"filters":{"type":"pdf"}}`, "query", "-")
	require.NoError(t, err)
	assert.Equal(t, "filters[type]=pdf\n", out)
}

func TestQueryCommandRejectsBadInput(t *testing.T) {
	_, _, err := run(t, "", "query", `{"status":`)
	assert.Error(t, err)

	_, _, err = run(t, "", "query", "--array-format", "comma", `{}`)
	assert.Error(t, err)
}

func TestFormCommand(t *testing.T) {
	out, _, err := run(t, "", "form", "--array-format", "indices",
		`{"answers":[{"questionId":"q1","choice":"b"}],"final":true}`)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"answers[0][questionId]=q1",
		"answers[0][choice]=b",
		"final=1",
	}, lines)
}

func TestLoginAndGet(t *testing.T) {
	srv := newStubServer(t)
	base := srv.URL + "/api"

	out, errOut, err := run(t, "", "login", "--base-url", base,
		"--email", repository.DemoStudentEmail, "--password", repository.DemoPassword)
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)
	assert.Contains(t, errOut, "signed in as")

	out, _, err = run(t, "", "get", "--base-url", base, "--token", token,
		"student/exams", `{"status":"upcoming"}`)
	require.NoError(t, err)
	assert.Equal(t, "exam-css", gjson.Get(out, "data.0.id").String())
	assert.Equal(t, int64(1), gjson.Get(out, "meta.total").Int())
}

func TestGetUnauthenticated(t *testing.T) {
	srv := newStubServer(t)

	_, errOut, err := run(t, "", "get", "--base-url", srv.URL+"/api", "student/exams")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHENTICATED", gjson.Get(errOut, "code").String())
	assert.Equal(t, int64(401), gjson.Get(errOut, "status").Int())
}
