package requestconfig

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// AuthMode decides whether a request carries the bearer token.
type AuthMode int

const (
	// AuthRequired attaches the token and reports a 401 to OnUnauthorized.
	AuthRequired AuthMode = iota
	// AuthOptional attaches the token when one is available and never
	// reports a 401.
	AuthOptional
	// AuthNone never attaches a token.
	AuthNone
)

func (m AuthMode) String() string {
	switch m {
	case AuthOptional:
		return "optional"
	case AuthNone:
		return "none"
	default:
		return "required"
	}
}

func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "required":
		return AuthRequired, nil
	case "optional":
		return AuthOptional, nil
	case "none":
		return AuthNone, nil
	}
	return AuthRequired, errors.Newf("unknown auth mode %q", s)
}

// TokenSource yields the bearer token for a request. An empty token means
// the caller is signed out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// TokenStore is a TokenSource that can be updated after a login.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *TokenStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *TokenStore) Clear() { s.Set("") }

// CancelToken aborts the requests it is attached to. Cancelling twice is a
// no-op.
type CancelToken struct {
	once sync.Once
	ch   chan struct{}
}

func NewCancelToken() *CancelToken {
	return &CancelToken{ch: make(chan struct{})}
}

func (t *CancelToken) Cancel() {
	t.once.Do(func() { close(t.ch) })
}

func (t *CancelToken) Done() <-chan struct{} {
	return t.ch
}
