package option

import (
	"net/http"
	"net/http/httputil"
	"regexp"

	"go.uber.org/zap"

	"github.com/graphicode-dev/classroom/internal/requestconfig"
)

type Middleware = func(*http.Request, MiddlewareNext) (*http.Response, error)

type MiddlewareNext = func(*http.Request) (*http.Response, error)

// WithMiddleware appends middlewares. The first one added is the outermost.
func WithMiddleware(middlewares ...Middleware) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Middlewares = append(r.Middlewares, middlewares...)
		return nil
	})
}

var sensitiveHeaderRegex = regexp.MustCompile(`(?im)^(Authorization|Cookie|Set-Cookie|X-Api-Key): .+$`)

func redactSensitiveHeaders(s string) string {
	return sensitiveHeaderRegex.ReplaceAllString(s, "$1: [REDACTED]")
}

// WithDebugLog dumps every request and response at debug level with
// credentials redacted. A nil logger uses the zap development logger.
func WithDebugLog(logger *zap.Logger) RequestOption {
	if logger == nil {
		logger = zap.Must(zap.NewDevelopment())
	}
	sugar := logger.Sugar()

	return WithMiddleware(func(r *http.Request, next MiddlewareNext) (*http.Response, error) {
		if dump, err := httputil.DumpRequestOut(r, true); err == nil {
			sugar.Debugw("request", "dump", redactSensitiveHeaders(string(dump)))
		}

		resp, err := next(r)

		if resp != nil {
			if dump, err := httputil.DumpResponse(resp, true); err == nil {
				sugar.Debugw("response", "dump", redactSensitiveHeaders(string(dump)))
			}
		}

		if err != nil {
			sugar.Debugw("request error", "error", err)
		}

		return resp, err
	})
}
