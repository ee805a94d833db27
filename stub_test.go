package classroom_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/graphicode-dev/classroom"
	"github.com/graphicode-dev/classroom/internal/infrastructure/configs"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ratelimiter"
	"github.com/graphicode-dev/classroom/internal/infrastructure/repository"
	"github.com/graphicode-dev/classroom/internal/infrastructure/ws"
	"github.com/graphicode-dev/classroom/internal/presentation/api"
	"github.com/graphicode-dev/classroom/option"
)

// newStub starts the local backend with its demo data and returns a client
// pointed at it.
func newStub(t *testing.T, opts ...option.RequestOption) (*classroom.Client, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	repos := repository.NewRepositories(0, time.Hour, repository.DemoUsers()...)
	require.NoError(t, repos.Seed(ctx, time.Now()))

	logger := logging.NewNop()
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	limiter := ratelimiter.NewFixedWindow(0, time.Minute)
	srv := httptest.NewServer(api.NewApplication(configs.Config{}, repos, hub, logger, limiter).Mount())
	t.Cleanup(func() {
		srv.Close()
		limiter.Close()
		cancel()
	})

	opts = append([]option.RequestOption{
		option.WithBaseURL(srv.URL + "/api"),
		option.WithMaxRetries(0),
		option.WithLogger(logger),
	}, opts...)
	return classroom.NewClient(opts...), srv
}

// signIn logs the demo student in and returns a client carrying the token.
func signIn(t *testing.T, opts ...option.RequestOption) *classroom.Client {
	t.Helper()

	store := &option.TokenStore{}
	client, _ := newStub(t, append([]option.RequestOption{option.WithTokenSource(store)}, opts...)...)

	res, err := client.Auth.Login(context.Background(), classroom.LoginParams{
		Email:    repository.DemoStudentEmail,
		Password: repository.DemoPassword,
	})
	require.NoError(t, err)
	store.Set(res.Token)
	return client
}
