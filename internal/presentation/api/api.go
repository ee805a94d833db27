package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/graphicode-dev/classroom/internal/infrastructure/configs"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ratelimiter"
	"github.com/graphicode-dev/classroom/internal/infrastructure/repository"
	"github.com/graphicode-dev/classroom/internal/infrastructure/tracing"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ws"
	authHandler "github.com/graphicode-dev/classroom/internal/presentation/handler/auth"
	examsHandler "github.com/graphicode-dev/classroom/internal/presentation/handler/exams"
	feedHandler "github.com/graphicode-dev/classroom/internal/presentation/handler/feed"
	groupsHandler "github.com/graphicode-dev/classroom/internal/presentation/handler/groups"
	healthHandler "github.com/graphicode-dev/classroom/internal/presentation/handler/health"
	resourcesHandler "github.com/graphicode-dev/classroom/internal/presentation/handler/resources"
	ticketsHandler "github.com/graphicode-dev/classroom/internal/presentation/handler/tickets"
)

type Application struct {
	config       configs.Config
	repositories *repository.Repositories
	hub          *ws.Hub
	logger       logging.Logger
	ratelimiter  ratelimiter.Limiter

	healthHandler    *healthHandler.Handler
	authHandler      *authHandler.Handler
	examsHandler     *examsHandler.Handler
	feedHandler      *feedHandler.Handler
	groupsHandler    *groupsHandler.Handler
	ticketsHandler   *ticketsHandler.Handler
	resourcesHandler *resourcesHandler.Handler
}

func NewApplication(
	config configs.Config,
	repositories *repository.Repositories,
	hub *ws.Hub,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:       config,
		repositories: repositories,
		hub:          hub,
		logger:       logger,
		ratelimiter:  ratelimiter,

		healthHandler:    healthHandler.NewHandler(hub),
		authHandler:      authHandler.NewHandler(repositories.Users, logger),
		examsHandler:     examsHandler.NewHandler(repositories.Exams, repositories.Submissions, logger),
		feedHandler:      feedHandler.NewHandler(repositories.Posts, hub, logger),
		groupsHandler:    groupsHandler.NewHandler(repositories.Groups, logger),
		ticketsHandler:   ticketsHandler.NewHandler(repositories.Tickets, logger),
		resourcesHandler: resourcesHandler.NewHandler(repositories.Resources, logger),
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// The live feed outlives the request timeout.
		r.With(app.optionalAuth).Get("/community/stream", app.feedHandler.StreamHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(app.requestTimeout()))

			r.Get("/health", app.healthHandler.GetHealth)
			r.Get("/healthz", app.healthHandler.GetHealth)

			r.Post("/auth/login", app.authHandler.LoginHandler)
			r.With(app.optionalAuth).Get("/community/posts", app.feedHandler.ListPostsHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireAuth)

				r.Get("/auth/me", app.authHandler.MeHandler)

				r.Route("/student/exams", func(r chi.Router) {
					r.Get("/", app.examsHandler.ListExamsHandler)
					r.Get("/{examId}", app.examsHandler.GetExamHandler)
					r.Post("/{examId}/submit", app.examsHandler.SubmitExamHandler)
				})

				r.Post("/community/posts", app.feedHandler.NewPostHandler)
				r.Delete("/community/posts/{postId}", app.feedHandler.DeletePostHandler)

				r.Route("/groups", func(r chi.Router) {
					r.Get("/", app.groupsHandler.ListGroupsHandler)
					r.Put("/{groupId}/schedules", app.groupsHandler.UpdateSchedulesHandler)
				})

				r.Route("/support/tickets", func(r chi.Router) {
					r.Get("/", app.ticketsHandler.ListTicketsHandler)
					r.Post("/", app.ticketsHandler.NewTicketHandler)
					r.Post("/{ticketId}/replies", app.ticketsHandler.ReplyHandler)
				})

				r.Route("/resources", func(r chi.Router) {
					r.Get("/", app.resourcesHandler.ListResourcesHandler)
					r.Post("/", app.resourcesHandler.UploadHandler)
				})
			})
		})
	})

	return tracing.Handler(r, "classroom-stub")
}

func (app *Application) requestTimeout() time.Duration {
	if app.config.HTTP.RequestTimeout > 0 {
		return app.config.HTTP.RequestTimeout
	}
	return 60 * time.Second
}

// Run serves mux until ctx is cancelled, then drains in-flight requests for
// up to five seconds.
func (app *Application) Run(ctx context.Context, mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "shutting down", map[logging.ExtraKey]any{
			logging.HostIp: srv.Addr,
		})
		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		logging.HostIp: srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdown; err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		logging.HostIp: srv.Addr,
	})
	return nil
}
