package api

import (
	"math"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/graphicode-dev/classroom/internal/infrastructure/json"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/metrics"
	"github.com/graphicode-dev/classroom/internal/presentation/utils"
)

// rateLimiterMiddleware keys clients by the configured source header, falling
// back to the remote address.
func (app *Application) rateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}
		if h := app.config.RateLimiter.SourceHeaderKey; h != "" && r.Header.Get(h) != "" {
			key = r.Header.Get(h)
		}
		if allow, retryAfter := app.ratelimiter.Allow(key); !allow {
			app.logger.Warn(logging.General, logging.RateLimiting, "request rejected", map[logging.ExtraKey]any{
				logging.ClientIp: key,
				logging.Path:     r.URL.Path,
			})
			json.WriteRateLimitError(w, int(math.Ceil(retryAfter.Seconds())))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *Application) enableCors(next http.Handler) http.Handler {
	origins := app.config.HTTP.AllowedOrigins
	anyOrigin := len(origins) == 0 || slices.Contains(origins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case anyOrigin:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case slices.Contains(origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		// allow preflight requests from the browser API
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestLogger logs every request and records it under its route pattern.
func (app *Application) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		metrics.ObserveServerRequest(r.Method, route, status, elapsed)

		extra := map[logging.ExtraKey]any{
			logging.Method:     r.Method,
			logging.Path:       r.URL.Path,
			logging.StatusCode: status,
			logging.BodySize:   ww.BytesWritten(),
			logging.Latency:    elapsed.String(),
			logging.ClientIp:   r.RemoteAddr,
			logging.RequestID:  middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			app.logger.Error(logging.RequestResponse, logging.Api, "request failed", extra)
			return
		}
		app.logger.Info(logging.RequestResponse, logging.Api, "request served", extra)
	})
}

// requireAuth rejects requests without a valid bearer token.
func (app *Application) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := app.repositories.Users.Authenticate(r.Context(), utils.BearerToken(r))
		if err != nil {
			json.WriteUnauthorizedError(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), user)))
	})
}

// optionalAuth resolves the bearer token when there is one. Unknown tokens
// are served as anonymous.
func (app *Application) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := utils.BearerToken(r); token != "" {
			if user, err := app.repositories.Users.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(utils.WithUser(r.Context(), user))
			}
		}
		next.ServeHTTP(w, r)
	})
}
