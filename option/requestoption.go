// Package option holds the functional options accepted by the client and
// every service method.
package option

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/param"
	"github.com/graphicode-dev/classroom/internal/requestconfig"
)

// RequestOption is an option for the requests made by the client. They are
// applied in order, so later options override earlier ones.
type RequestOption = requestconfig.RequestOption

type (
	AuthMode      = requestconfig.AuthMode
	TokenSource   = requestconfig.TokenSource
	TokenStore    = requestconfig.TokenStore
	CancelToken   = requestconfig.CancelToken
	ArrayFormat   = param.ArrayFormat
	BooleanFormat = param.BooleanFormat
	DateFormat    = param.DateFormat
	Warning       = param.Warning
	Logger        = logging.Logger
)

const (
	AuthRequired = requestconfig.AuthRequired
	AuthOptional = requestconfig.AuthOptional
	AuthNone     = requestconfig.AuthNone

	ArrayFormatBrackets = param.ArrayFormatBrackets
	ArrayFormatIndices  = param.ArrayFormatIndices
	ArrayFormatRepeat   = param.ArrayFormatRepeat

	BooleanFormatNumeric = param.BooleanFormatNumeric
	BooleanFormatString  = param.BooleanFormatString

	DateFormatISO       = param.DateFormatISO
	DateFormatTimestamp = param.DateFormatTimestamp
	DateFormatDateOnly  = param.DateFormatDateOnly
)

const (
	ProductionBaseURL = "https://api.graphicode.dev/api/"
	LocalBaseURL      = "http://localhost:8080/api/"
)

func NewCancelToken() *CancelToken {
	return requestconfig.NewCancelToken()
}

func WithBaseURL(base string) RequestOption {
	u, err := url.Parse(base)
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if err != nil {
			return errors.Wrapf(err, "requestoption: WithBaseURL %q", base)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		r.BaseURL = u
		return nil
	})
}

func withDefaultBaseURL(base string) RequestOption {
	u, err := url.Parse(base)
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if err != nil {
			return errors.Wrapf(err, "requestoption: default base URL %q", base)
		}
		r.DefaultBaseURL = u
		return nil
	})
}

func WithEnvironmentProduction() RequestOption {
	return withDefaultBaseURL(ProductionBaseURL)
}

func WithEnvironmentLocal() RequestOption {
	return withDefaultBaseURL(LocalBaseURL)
}

func WithHTTPClient(client *http.Client) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if client == nil {
			return errors.New("requestoption: custom http client cannot be nil")
		}
		r.HTTPClient = client
		return nil
	})
}

// WithHTTPDoer sends requests through doer instead of an *http.Client.
func WithHTTPDoer(doer requestconfig.HTTPDoer) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.CustomHTTPDoer = doer
		return nil
	})
}

func WithMaxRetries(retries int) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if retries < 0 {
			return errors.New("requestoption: cannot have fewer than 0 retries")
		}
		r.MaxRetries = retries
		return nil
	})
}

func WithRetryWait(wait time.Duration) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.RetryWait = wait
		return nil
	})
}

// WithRequestTimeout bounds every attempt of the request, retries included.
func WithRequestTimeout(dur time.Duration) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.RequestTimeout = dur
		return nil
	})
}

func WithHeader(key, value string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Set(key, value)
		return nil
	})
}

func WithHeaderAdd(key, value string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Add(key, value)
		return nil
	})
}

func WithHeaderDel(key string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Request.Header.Del(key)
		return nil
	})
}

func WithAuthMode(mode AuthMode) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.AuthMode = mode
		return nil
	})
}

// WithToken uses a fixed bearer token.
func WithToken(token string) RequestOption {
	return WithTokenSource(requestconfig.StaticToken(token))
}

func WithTokenSource(src TokenSource) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.TokenSource = src
		return nil
	})
}

func WithTokenFunc(fn func(ctx context.Context) (string, error)) RequestOption {
	return WithTokenSource(requestconfig.TokenFunc(fn))
}

// WithOnUnauthorized registers the hook run when a request that requires
// authentication is rejected with 401, typically to sign the user out.
func WithOnUnauthorized(fn func(ctx context.Context, err *apierror.Error)) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.OnUnauthorized = fn
		return nil
	})
}

func WithCancelToken(token *CancelToken) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.CancelToken = token
		return nil
	})
}

// WithArrayFormat sets how lists are keyed in query strings and forms.
func WithArrayFormat(format ArrayFormat) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.QuerySettings.ArrayFormat = format
		r.FormSettings.ArrayFormat = format
		return nil
	})
}

// WithQueryEncoding turns percent-encoding of query strings on or off.
func WithQueryEncoding(enabled bool) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.QuerySettings.NoEncode = !enabled
		return nil
	})
}

func WithFormBooleanFormat(format BooleanFormat) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.FormSettings.BooleanFormat = format
		return nil
	})
}

func WithFormDateFormat(format DateFormat) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.FormSettings.DateFormat = format
		return nil
	})
}

// WithFormSkipEmpty drops empty strings from multipart bodies.
func WithFormSkipEmpty(skip bool) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.FormSettings.SkipEmpty = skip
		return nil
	})
}

// WithWarningHandler receives values dropped while encoding parameters.
func WithWarningHandler(fn func(Warning)) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Sink = param.SinkFunc(fn)
		return nil
	})
}

func WithLogger(l Logger) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if l == nil {
			l = logging.NewNop()
		}
		r.Logger = l
		return nil
	})
}

// WithEnvelope decodes the member at path instead of the whole body, e.g.
// "data" for {"data": {...}}.
func WithEnvelope(path string) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Envelope = path
		return nil
	})
}

// WithResponseBodyInto overwrites the deserialization target.
func WithResponseBodyInto(dst any) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.ResponseBodyInto = dst
		return nil
	})
}

// WithResponseInto stores the raw response, body still readable.
func WithResponseInto(dst **http.Response) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.ResponseInto = dst
		return nil
	})
}
