package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/graphicode-dev/classroom/internal/infrastructure/configs"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/metrics"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ratelimiter"
	"github.com/graphicode-dev/classroom/internal/infrastructure/repository"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ws"
)

func newTestServer(t *testing.T, limit int) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	repos := repository.NewRepositories(0, time.Hour, repository.DemoUsers()...)
	require.NoError(t, repos.Seed(ctx, time.Now()))

	logger := logging.NewNop()
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	limiter := ratelimiter.NewFixedWindow(limit, time.Minute)
	cfg := configs.Config{HTTP: configs.HTTPConfig{AllowedOrigins: []string{"*"}, RequestTimeout: 5 * time.Second}}
	srv := httptest.NewServer(NewApplication(cfg, repos, hub, logger, limiter).Mount())

	t.Cleanup(func() {
		srv.Close()
		limiter.Close()
		cancel()
	})
	return srv
}

func do(t *testing.T, method, url, token, contentType string, body io.Reader) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	body := `{"email":"student@graphicode.dev","password":"secret"}`
	res, data := do(t, http.MethodPost, srv.URL+"/api/auth/login", "", "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	token := gjson.GetBytes(data, "data.token").String()
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)

	res, data := do(t, http.MethodGet, srv.URL+"/api/health", "", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", gjson.GetBytes(data, "status").String())
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequiredRoutesRejectMissingToken(t *testing.T) {
	srv := newTestServer(t, 0)

	for _, path := range []string{"/api/auth/me", "/api/student/exams", "/api/groups", "/api/support/tickets", "/api/resources"} {
		res, data := do(t, http.MethodGet, srv.URL+path, "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, path)
		assert.Equal(t, "UNAUTHENTICATED", gjson.GetBytes(data, "code").String(), path)
	}

	res, _ := do(t, http.MethodGet, srv.URL+"/api/auth/me", "not-a-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, 0)

	res, data := do(t, http.MethodPost, srv.URL+"/api/auth/login", "", "application/json",
		strings.NewReader(`{"email":"student@graphicode.dev","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", gjson.GetBytes(data, "code").String())

	res, data = do(t, http.MethodPost, srv.URL+"/api/auth/login", "", "application/json",
		strings.NewReader(`{"email":"nope","password":""}`))
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.True(t, gjson.GetBytes(data, "errors.email").Exists())
	assert.True(t, gjson.GetBytes(data, "errors.password").Exists())

	token := login(t, srv)
	res, data = do(t, http.MethodGet, srv.URL+"/api/auth/me", token, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "student@graphicode.dev", gjson.GetBytes(data, "data.email").String())
	assert.False(t, gjson.GetBytes(data, "data.password").Exists())
}

func TestFeedIsPublic(t *testing.T) {
	srv := newTestServer(t, 0)

	res, data := do(t, http.MethodGet, srv.URL+"/api/community/posts?pinned=1", "", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, int64(1), gjson.GetBytes(data, "meta.total").Int())
	assert.Equal(t, "post-welcome", gjson.GetBytes(data, "data.0.id").String())

	res, _ = do(t, http.MethodPost, srv.URL+"/api/community/posts", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestUpdateSchedulesValidation(t *testing.T) {
	srv := newTestServer(t, 0)
	token := login(t, srv)

	body := `{"groupSchedules":[
		{"day":"sunday","startTime":"10:00","endTime":"12:00"},
		{"day":"funday","startTime":"9am","endTime":"11:00"}
	]}`
	res, data := do(t, http.MethodPut, srv.URL+"/api/groups/group-web/schedules", token, "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode, string(data))
	assert.Equal(t, "VALIDATION_ERROR", gjson.GetBytes(data, "code").String())
	assert.True(t, gjson.GetBytes(data, `errors.groupSchedules\.1\.startTime`).Exists(), string(data))
	assert.True(t, gjson.GetBytes(data, `errors.groupSchedules\.1\.day`).Exists(), string(data))
	assert.False(t, gjson.GetBytes(data, `errors.groupSchedules\.0\.startTime`).Exists())

	body = `{"groupSchedules":[{"day":"monday","startTime":"14:00","endTime":"13:00"}]}`
	res, data = do(t, http.MethodPut, srv.URL+"/api/groups/group-web/schedules", token, "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.True(t, gjson.GetBytes(data, `errors.groupSchedules\.0\.endTime`).Exists(), string(data))

	body = `{"groupSchedules":[{"day":"monday","startTime":"13:00","endTime":"14:30","room":"B1"}]}`
	res, data = do(t, http.MethodPut, srv.URL+"/api/groups/group-web/schedules", token, "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	assert.Equal(t, "B1", gjson.GetBytes(data, "data.groupSchedules.0.room").String())

	res, _ = do(t, http.MethodPut, srv.URL+"/api/groups/missing/schedules", token, "application/json", strings.NewReader(body))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestResourcesNestedFilters(t *testing.T) {
	srv := newTestServer(t, 0)
	token := login(t, srv)

	res, data := do(t, http.MethodGet, srv.URL+"/api/resources?filters[type]=pdf&filters[tags][]=syllabus", token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, int64(1), gjson.GetBytes(data, "meta.total").Int())

	_, data = do(t, http.MethodGet, srv.URL+"/api/resources?filters[type]=video", token, "", nil)
	assert.Equal(t, int64(0), gjson.GetBytes(data, "meta.total").Int())

	res, data = do(t, http.MethodGet, srv.URL+"/api/resources?sort=random", token, "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.True(t, gjson.GetBytes(data, "errors.sort").Exists())
}

func TestSubmitExamMultipart(t *testing.T) {
	srv := newTestServer(t, 0)
	token := login(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("answers[0][questionId]", "q1"))
	require.NoError(t, mw.WriteField("answers[0][choice]", "display"))
	require.NoError(t, mw.WriteField("answers[1][questionId]", "q2"))
	require.NoError(t, mw.WriteField("answers[1][text]", "content, padding, border, margin"))
	require.NoError(t, mw.WriteField("final", "1"))
	fw, err := mw.CreateFormFile("attachments[0]", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("notes"))
	require.NoError(t, mw.Close())

	res, data := do(t, http.MethodPost, srv.URL+"/api/student/exams/exam-css/submit", token, mw.FormDataContentType(), &buf)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(data))
	assert.Equal(t, int64(2), gjson.GetBytes(data, "data.answers").Int())
	assert.True(t, gjson.GetBytes(data, "data.final").Bool())
	assert.Equal(t, "notes.txt", gjson.GetBytes(data, "data.attachments.0.name").String())

	buf.Reset()
	mw = multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("answers[0][questionId]", "q1"))
	require.NoError(t, mw.Close())
	res, data = do(t, http.MethodPost, srv.URL+"/api/student/exams/exam-html/submit", token, mw.FormDataContentType(), &buf)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "EXAM_CLOSED", gjson.GetBytes(data, "code").String())
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, 1)

	res, _ := do(t, http.MethodGet, srv.URL+"/api/health", "", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, data := do(t, http.MethodGet, srv.URL+"/api/health", "", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Equal(t, "RATE_LIMITED", gjson.GetBytes(data, "code").String())
	assert.NotEmpty(t, res.Header.Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.RegisterServerMetrics(prometheus.DefaultRegisterer)
	srv := newTestServer(t, 0)

	do(t, http.MethodGet, srv.URL+"/api/health", "", "", nil)

	res, data := do(t, http.MethodGet, srv.URL+"/metrics", "", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(data), `classroom_stub_requests_total{method="GET",route="/api/health",status="200"}`)
}
