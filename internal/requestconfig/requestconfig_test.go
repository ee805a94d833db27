package requestconfig

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/apiform"
	"github.com/graphicode-dev/classroom/internal/param"
)

func withBase(raw string) RequestOption {
	return RequestOptionFunc(func(r *RequestConfig) error {
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		r.BaseURL = u
		return nil
	})
}

func set(fn func(r *RequestConfig)) RequestOption {
	return RequestOptionFunc(func(r *RequestConfig) error {
		fn(r)
		return nil
	})
}

type examFilters struct {
	Status string   `query:"status"`
	Page   int      `query:"page"`
	Tags   []string `query:"tags"`
	Search string   `query:"search,omitempty"`
}

type uploadParams struct {
	Title  string      `form:"title"`
	Public bool        `form:"public"`
	File   *param.Blob `form:"file"`
}

func (p uploadParams) MarshalMultipart(s apiform.Settings) ([]byte, string, error) {
	return apiform.MarshalMultipart(p, s)
}

func TestExecuteEncodesQueryForGet(t *testing.T) {
	var rawQuery, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery, path = r.URL.RawQuery, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	params := examFilters{Status: "active", Page: 2, Tags: []string{"go", "web dev"}}
	err := ExecuteNewRequest(context.Background(), http.MethodGet, "/student/exams", params, nil, withBase(srv.URL+"/api"))
	require.NoError(t, err)

	assert.Equal(t, "/api/student/exams", path)
	assert.Equal(t, "status=active&page=2&tags[]=go&tags[]=web%20dev", rawQuery)
}

func TestExecuteSendsMultipartBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"title":"`+r.FormValue("title")+`","public":"`+r.FormValue("public")+
			`","filename":"`+hdr.Filename+`","type":"`+hdr.Header.Get("Content-Type")+`","content":"`+string(data)+`"}`)
	}))
	defer srv.Close()

	params := uploadParams{
		Title:  "Notes",
		Public: true,
		File:   param.NewBlob("notes.txt", "text/plain", []byte("hello")),
	}
	var got map[string]string
	err := ExecuteNewRequest(context.Background(), http.MethodPost, "resources", params, &got, withBase(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"title":    "Notes",
		"public":   "1",
		"filename": "notes.txt",
		"type":     "text/plain",
		"content":  "hello",
	}, got)
}

func TestExecuteDecodesEnvelope(t *testing.T) {
	var contentType string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"data":{"id":"g1","name":"Group A"},"meta":{"page":1}}`)
	}))
	defer srv.Close()

	var group struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := ExecuteNewRequest(context.Background(), http.MethodPut, "groups/g1", map[string]any{"name": "Group A"}, &group,
		withBase(srv.URL), set(func(r *RequestConfig) { r.Envelope = "data" }))
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"name":"Group A"}`, string(body))
	assert.Equal(t, "g1", group.ID)
	assert.Equal(t, "Group A", group.Name)
}

func TestExecuteAuthModes(t *testing.T) {
	tests := []struct {
		name string
		mode AuthMode
		want string
	}{
		{name: "required", mode: AuthRequired, want: "Bearer tok"},
		{name: "optional", mode: AuthOptional, want: "Bearer tok"},
		{name: "none", mode: AuthNone, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var auth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
			}))
			defer srv.Close()

			err := ExecuteNewRequest(context.Background(), http.MethodGet, "me", nil, nil, withBase(srv.URL),
				set(func(r *RequestConfig) {
					r.AuthMode = tt.mode
					r.TokenSource = StaticToken("tok")
				}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, auth)
		})
	}
}

func TestExecuteUnauthorizedHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Unauthenticated."}`)
	}))
	defer srv.Close()

	for _, mode := range []AuthMode{AuthRequired, AuthOptional} {
		t.Run(mode.String(), func(t *testing.T) {
			var calls int
			err := ExecuteNewRequest(context.Background(), http.MethodGet, "me", nil, nil, withBase(srv.URL),
				set(func(r *RequestConfig) {
					r.AuthMode = mode
					r.OnUnauthorized = func(ctx context.Context, err *apierror.Error) { calls++ }
				}))

			apiErr, ok := apierror.As(err)
			require.True(t, ok)
			assert.True(t, apiErr.IsUnauthorized())
			assert.Equal(t, "Unauthenticated.", apiErr.Message)
			if mode == AuthRequired {
				assert.Equal(t, 1, calls)
			} else {
				assert.Zero(t, calls)
			}
		})
	}
}

func TestExecuteRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	var retryHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		retryHeader = r.Header.Get("X-Retry-Count")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := ExecuteNewRequest(context.Background(), http.MethodGet, "groups", nil, &out, withBase(srv.URL),
		set(func(r *RequestConfig) { r.RetryWait = time.Millisecond }))
	require.NoError(t, err)

	assert.EqualValues(t, 2, attempts.Load())
	assert.Equal(t, "1", retryHeader)
	assert.True(t, out.OK)
}

func TestExecuteGivesUpAfterMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"boom","code":"SERVER_ERROR"}`)
	}))
	defer srv.Close()

	err := ExecuteNewRequest(context.Background(), http.MethodGet, "groups", nil, nil, withBase(srv.URL),
		set(func(r *RequestConfig) {
			r.RetryWait = time.Millisecond
			r.MaxRetries = 1
		}))

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.EqualValues(t, 2, attempts.Load())
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, "SERVER_ERROR", apiErr.Code)
}

func TestExecuteValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"The given data was invalid.","errors":{"groupSchedules.0.startTime":["Start time is required."]}}`)
	}))
	defer srv.Close()

	err := ExecuteNewRequest(context.Background(), http.MethodPost, "groups/g1/schedules", map[string]any{}, nil, withBase(srv.URL))

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.True(t, apiErr.IsValidationError)
	assert.Equal(t, apierror.ValidationErrors{
		"groupSchedules.0.startTime": {"Start time is required."},
	}, apiErr.ValidationErrors)
}

func TestExecuteCancelToken(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	token := NewCancelToken()
	go func() {
		<-started
		token.Cancel()
	}()

	err := ExecuteNewRequest(context.Background(), http.MethodGet, "feed", nil, nil, withBase(srv.URL),
		set(func(r *RequestConfig) { r.CancelToken = token }))

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsCancelled())
	assert.Equal(t, apierror.MessageCancelled, apiErr.Message)
	assert.Zero(t, apiErr.Status)
}

func TestRequestContext(t *testing.T) {
	cfg, err := NewRequestConfig(context.Background(), http.MethodGet, "feed", nil, nil, withBase("http://localhost/"),
		set(func(r *RequestConfig) { r.RequestTimeout = time.Minute }))
	require.NoError(t, err)

	ctx, cancel := cfg.RequestContext()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	token := NewCancelToken()
	cfg.CancelToken = token
	ctx, cancel = cfg.RequestContext()
	defer cancel()
	token.Cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by token")
	}
	assert.ErrorIs(t, context.Cause(ctx), apierror.ErrCancelled)
}

func TestExecuteNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	err := ExecuteNewRequest(context.Background(), http.MethodGet, "feed", nil, nil, withBase(base),
		set(func(r *RequestConfig) { r.MaxRetries = 0 }))

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNetworkError())
	assert.Equal(t, apierror.MessageNoResponse, apiErr.Message)
	assert.Zero(t, apiErr.Status)
}

func TestExecuteMissingBaseURL(t *testing.T) {
	err := ExecuteNewRequest(context.Background(), http.MethodGet, "feed", nil, nil)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeUnknown, apiErr.Code)
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestExecuteReportsWarnings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	rec := &param.Recorder{}
	params := param.NewMap().Set("file", param.NewBlob("a.png", "image/png", []byte{1}))
	err := ExecuteNewRequest(context.Background(), http.MethodGet, "feed", params, nil, withBase(srv.URL),
		set(func(r *RequestConfig) { r.Sink = rec }))
	require.NoError(t, err)

	require.Len(t, rec.Warnings(), 1)
	assert.Equal(t, param.WarnUnsupported, rec.Warnings()[0].Kind)
}

func TestResolveURLKeepsBasePath(t *testing.T) {
	cfg, err := NewRequestConfig(context.Background(), http.MethodGet, "/student/exams/1", nil, nil,
		withBase("https://api.example.com/api"))
	require.NoError(t, err)

	u, err := cfg.ResolveURL()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api/student/exams/1", u.String())
	assert.NotEmpty(t, cfg.Request.Header.Get("X-Request-ID"))
}
