package requestconfig

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/graphicode-dev/classroom/internal"
	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/apiform"
	"github.com/graphicode-dev/classroom/internal/apiquery"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/tracing"
	"github.com/graphicode-dev/classroom/internal/param"
)

// This interface is primarily used to describe an [*http.Client], but also
// supports custom HTTP implementations.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var ErrMissingBaseURL = errors.New("requestconfig: no base URL configured")

var defaultHTTPClient = &http.Client{Transport: tracing.Transport(nil)}

// RequestConfig represents all the state related to one request.
//
// Editing the variables inside RequestConfig directly is unstable api. Prefer
// composing the RequestOption instead if possible.
type RequestConfig struct {
	MaxRetries int
	// RetryWait is the first backoff interval. Later waits grow exponentially.
	RetryWait      time.Duration
	RequestTimeout time.Duration
	Context        context.Context
	Request        *http.Request
	BaseURL        *url.URL
	// DefaultBaseURL will be used if BaseURL is not explicitly overridden using
	// WithBaseURL.
	DefaultBaseURL *url.URL
	CustomHTTPDoer HTTPDoer
	HTTPClient     *http.Client
	Middlewares    []middleware

	AuthMode    AuthMode
	TokenSource TokenSource
	// OnUnauthorized runs when an AuthRequired request comes back with 401.
	OnUnauthorized func(ctx context.Context, err *apierror.Error)
	CancelToken    *CancelToken

	QuerySettings apiquery.Settings
	FormSettings  apiform.Settings
	Logger        logging.Logger
	// Sink receives serializer warnings in addition to the logger and the
	// warning counter.
	Sink param.Sink

	// Params is encoded into the query string for GET, HEAD and DELETE and
	// into the body otherwise.
	Params any
	// Envelope is a gjson path selecting the payload inside the response body,
	// e.g. "data". The whole body is used when it is empty or missing.
	Envelope string
	// If ResponseBodyInto not nil, then we will attempt to deserialize into
	// ResponseBodyInto. If Destination is a *[]byte, then it will return the body as
	// is.
	ResponseBodyInto any
	// ResponseInto copies the \*http.Response of the corresponding request into the
	// given address
	ResponseInto **http.Response
	Body         io.Reader
}

// middleware is exactly the same type as the Middleware type found in the [option] package,
// but it is redeclared here for circular dependency issues.
type middleware = func(*http.Request, middlewareNext) (*http.Response, error)

// middlewareNext is exactly the same type as the MiddlewareNext type found in the [option] package,
// but it is redeclared here for circular dependency issues.
type middlewareNext = func(*http.Request) (*http.Response, error)

type RequestOption interface {
	Apply(*RequestConfig) error
}

type RequestOptionFunc func(*RequestConfig) error

func (s RequestOptionFunc) Apply(r *RequestConfig) error {
	return s(r)
}

// NewRequestConfig prepares a request for path, which is resolved against the
// base URL. params and dst are encoded and decoded when the request runs.
func NewRequestConfig(ctx context.Context, method, path string, params, dst any, opts ...RequestOption) (*RequestConfig, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimLeft(path, "/"), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range getDefaultHeaders() {
		req.Header.Set(k, v)
	}
	for k, v := range getPlatformProperties() {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	cfg := &RequestConfig{
		MaxRetries:       2,
		RetryWait:        500 * time.Millisecond,
		Context:          ctx,
		Request:          req,
		HTTPClient:       defaultHTTPClient,
		AuthMode:         AuthRequired,
		Logger:           logging.NewNop(),
		Params:           params,
		ResponseBodyInto: dst,
	}
	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *RequestConfig) Apply(opts ...RequestOption) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.Apply(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Clone copies the configuration for a new request with ctx. Middlewares and
// headers are copied, the response targets are not.
func (cfg *RequestConfig) Clone(ctx context.Context) *RequestConfig {
	if cfg == nil {
		return nil
	}
	clone := *cfg
	clone.Context = ctx
	clone.Request = cfg.Request.Clone(ctx)
	clone.Middlewares = append([]middleware(nil), cfg.Middlewares...)
	clone.ResponseBodyInto = nil
	clone.ResponseInto = nil
	return &clone
}

func (cfg *RequestConfig) baseURL() (*url.URL, error) {
	base := cfg.BaseURL
	if base == nil {
		base = cfg.DefaultBaseURL
	}
	if base == nil {
		return nil, ErrMissingBaseURL
	}
	u := *base
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &u, nil
}

// ResolveURL returns the absolute URL of the request.
func (cfg *RequestConfig) ResolveURL() (*url.URL, error) {
	base, err := cfg.baseURL()
	if err != nil {
		return nil, err
	}
	ref := *cfg.Request.URL
	ref.Path = strings.TrimLeft(ref.Path, "/")
	ref.RawPath = ""
	return base.ResolveReference(&ref), nil
}

// Token resolves the bearer token for the current auth mode.
func (cfg *RequestConfig) Token(ctx context.Context) (string, error) {
	if cfg.AuthMode == AuthNone || cfg.TokenSource == nil {
		return "", nil
	}
	return cfg.TokenSource.Token(ctx)
}

func (cfg *RequestConfig) sink() param.Sink {
	return param.MultiSink(cfg.Sink, warningCounter, logging.NewSink(cfg.Logger))
}

func ExecuteNewRequest(ctx context.Context, method, path string, params, dst any, opts ...RequestOption) error {
	cfg, err := NewRequestConfig(ctx, method, path, params, dst, opts...)
	if err != nil {
		return apierror.Normalize(err)
	}
	return cfg.Execute()
}

func getDefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": fmt.Sprintf("Classroom/Go %s", internal.PackageVersion),
	}
}

func getNormalizedOS() string {
	switch runtime.GOOS {
	case "ios":
		return "iOS"
	case "android":
		return "Android"
	case "darwin":
		return "MacOS"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	case "linux":
		return "Linux"
	default:
		return fmt.Sprintf("Other:%s", runtime.GOOS)
	}
}

func getNormalizedArchitecture() string {
	switch runtime.GOARCH {
	case "386":
		return "x32"
	case "amd64":
		return "x64"
	case "arm":
		return "arm"
	case "arm64":
		return "arm64"
	default:
		return fmt.Sprintf("other:%s", runtime.GOARCH)
	}
}

func getPlatformProperties() map[string]string {
	return map[string]string{
		"X-Classroom-Lang":            "go",
		"X-Classroom-Package-Version": internal.PackageVersion,
		"X-Classroom-OS":              getNormalizedOS(),
		"X-Classroom-Arch":            getNormalizedArchitecture(),
		"X-Classroom-Runtime-Version": runtime.Version(),
	}
}
