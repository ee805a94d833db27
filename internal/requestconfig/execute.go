package requestconfig

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/codes"

	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/apiform"
	"github.com/graphicode-dev/classroom/internal/apijson"
	"github.com/graphicode-dev/classroom/internal/apiquery"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/metrics"
	"github.com/graphicode-dev/classroom/internal/infrastructure/tracing"
)

var warningCounter = metrics.WarningSink()

const (
	contentTypeJSON = "application/json"
	maxRetryWait    = 8 * time.Second
)

func usesQuery(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// encodeParams applies Params to the request URL or returns the body bytes
// and their content type.
func (cfg *RequestConfig) encodeParams() ([]byte, string, error) {
	if cfg.Params == nil {
		return nil, "", nil
	}

	if usesQuery(cfg.Request.Method) {
		settings := cfg.QuerySettings
		settings.Sink = cfg.sink()
		if q := apiquery.Marshal(cfg.Params, settings); q != "" {
			if cfg.Request.URL.RawQuery != "" {
				q = cfg.Request.URL.RawQuery + "&" + q
			}
			cfg.Request.URL.RawQuery = q
		}
		return nil, "", nil
	}

	switch body := cfg.Params.(type) {
	case apiform.Marshaler:
		settings := cfg.FormSettings
		settings.Sink = cfg.sink()
		return body.MarshalMultipart(settings)
	case *apiform.Form:
		return body.Multipart()
	case []byte:
		return body, contentTypeJSON, nil
	case io.Reader:
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, "", errors.Wrap(err, "read request body")
		}
		return data, contentTypeJSON, nil
	}

	data, err := apijson.Marshal(cfg.Params)
	if err != nil {
		return nil, "", errors.Wrap(err, "encode request body")
	}
	return data, contentTypeJSON, nil
}

func (cfg *RequestConfig) applyAuth(ctx context.Context) {
	if cfg.AuthMode == AuthNone {
		cfg.Request.Header.Del("Authorization")
		return
	}
	if cfg.Request.Header.Get("Authorization") != "" {
		return
	}
	token, err := cfg.Token(ctx)
	if err != nil {
		cfg.Logger.Warn(logging.Client, logging.Unauthorized, "token source failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return
	}
	if token != "" {
		cfg.Request.Header.Set("Authorization", "Bearer "+token)
	}
}

func (cfg *RequestConfig) handler() middlewareNext {
	var handler middlewareNext = cfg.HTTPClient.Do
	if cfg.CustomHTTPDoer != nil {
		handler = cfg.CustomHTTPDoer.Do
	}
	for i := len(cfg.Middlewares) - 1; i >= 0; i-- {
		mw, next := cfg.Middlewares[i], handler
		handler = func(req *http.Request) (*http.Response, error) {
			return mw(req, next)
		}
	}
	return handler
}

func (cfg *RequestConfig) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.RetryWait
	b.MaxInterval = maxRetryWait
	b.MaxElapsedTime = 0
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// RequestContext derives the context for one request from cfg.Context,
// applying RequestTimeout and the cancel token. Cancelling through the token
// makes context.Cause report apierror.ErrCancelled.
func (cfg *RequestConfig) RequestContext() (context.Context, context.CancelFunc) {
	ctx := cfg.Context
	var cancels []func()
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		cancels = append(cancels, cancel)
	}
	if cfg.CancelToken != nil {
		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		cancels = append(cancels, func() { cancel(nil) })
		select {
		case <-cfg.CancelToken.Done():
			cancel(apierror.ErrCancelled)
		default:
		}
		go func(ctx context.Context) {
			select {
			case <-cfg.CancelToken.Done():
				cancel(apierror.ErrCancelled)
			case <-ctx.Done():
			}
		}(ctx)
	}
	return ctx, func() {
		for i := len(cancels) - 1; i >= 0; i-- {
			cancels[i]()
		}
	}
}

// Execute sends the request, retrying network failures and retryable
// statuses, and decodes the response. Every returned error is an
// *apierror.Error.
func (cfg *RequestConfig) Execute() (err error) {
	start := time.Now()
	method := cfg.Request.Method
	status := 0
	defer func() {
		code := ""
		if apiErr, ok := apierror.As(err); ok {
			code = apiErr.Code
		}
		metrics.ObserveClientRequest(method, status, code, time.Since(start))
	}()

	ctx, cancel := cfg.RequestContext()
	defer cancel()

	u, err := cfg.ResolveURL()
	if err != nil {
		return apierror.Normalize(err)
	}
	cfg.Request.URL = u

	ctx, span := tracing.GetTracer("classroom").Start(ctx, method+" "+u.Path)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, contentType, err := cfg.encodeParams()
	if err != nil {
		return apierror.Normalize(err)
	}
	if contentType != "" {
		cfg.Request.Header.Set("Content-Type", contentType)
	}
	cfg.applyAuth(ctx)

	requestID := cfg.Request.Header.Get("X-Request-ID")
	extra := map[logging.ExtraKey]any{
		logging.RequestID: requestID,
		logging.Method:    method,
		logging.Path:      cfg.Request.URL.Path,
	}

	handler := cfg.handler()
	attempt := 0
	var res *http.Response
	operation := func() error {
		attempt++
		req := cfg.Request.Clone(ctx)
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
			req.GetBody = func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(body)), nil
			}
		}
		if attempt > 1 {
			req.Header.Set("X-Retry-Count", strconv.Itoa(attempt-1))
		}

		resp, err := handler(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if retryableStatus(resp.StatusCode) && attempt <= cfg.MaxRetries {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return &apierror.ResponseError{Method: method, URL: req.URL.String(), StatusCode: resp.StatusCode}
		}
		res = resp
		return nil
	}
	notify := func(err error, wait time.Duration) {
		metrics.ClientRetries.WithLabelValues(method).Inc()
		cfg.Logger.Warn(logging.Client, logging.Retry, "retrying request", map[logging.ExtraKey]any{
			logging.RequestID:    requestID,
			logging.Attempt:      attempt,
			logging.Latency:      wait.String(),
			logging.ErrorMessage: err.Error(),
		})
	}

	if err := backoff.RetryNotify(operation, cfg.backoff(ctx), notify); err != nil {
		apiErr := apierror.Normalize(err)
		extra[logging.ErrorMessage] = err.Error()
		extra[logging.ErrorCode] = apiErr.Code
		cfg.Logger.Error(logging.Client, logging.Api, apiErr.Message, extra)
		return apiErr
	}
	defer res.Body.Close()

	status = res.StatusCode
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return apierror.Normalize(errors.Wrap(err, "read response body"))
	}
	res.Body = io.NopCloser(bytes.NewReader(data))
	if cfg.ResponseInto != nil {
		*cfg.ResponseInto = res
	}

	extra[logging.StatusCode] = status
	extra[logging.Latency] = time.Since(start).String()
	extra[logging.BodySize] = len(data)

	if status >= http.StatusBadRequest {
		apiErr := apierror.Normalize(&apierror.ResponseError{
			Method:     method,
			URL:        cfg.Request.URL.String(),
			StatusCode: status,
			Header:     res.Header,
			Body:       data,
		})
		if status == http.StatusUnauthorized && cfg.AuthMode == AuthRequired && cfg.OnUnauthorized != nil {
			cfg.Logger.Info(logging.Client, logging.Unauthorized, "session rejected", extra)
			cfg.OnUnauthorized(ctx, apiErr)
		}
		extra[logging.ErrorCode] = apiErr.Code
		cfg.Logger.Warn(logging.Client, logging.Api, apiErr.Message, extra)
		return apiErr
	}

	cfg.Logger.Debug(logging.Client, logging.Api, "request finished", extra)
	if err := cfg.decode(data, status); err != nil {
		apiErr := apierror.Normalize(err)
		apiErr.Status = status
		return apiErr
	}
	return nil
}

func (cfg *RequestConfig) decode(data []byte, status int) error {
	switch dst := cfg.ResponseBodyInto.(type) {
	case nil:
		return nil
	case *[]byte:
		*dst = data
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 || status == http.StatusNoContent {
		return nil
	}

	payload := data
	if cfg.Envelope != "" {
		if f := apijson.Lookup(data, cfg.Envelope); !f.IsMissing() && !f.IsInvalid() {
			payload = []byte(f.Raw())
		}
	}
	if err := apijson.Unmarshal(payload, cfg.ResponseBodyInto); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
