package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/graphicode-dev/classroom/internal/domain"
)

type session struct {
	userID    string
	expiresAt time.Time
}

// userRepository keeps users and their bearer sessions in memory. Sessions
// expire after ttl.
type userRepository struct {
	users    map[string]*domain.User // email -> user
	sessions map[string]session      // token -> session
	ttl      time.Duration
	mu       sync.RWMutex
}

func NewUserRepository(ttl time.Duration, users ...*domain.User) domain.UserRepository {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	r := &userRepository{
		users:    make(map[string]*domain.User, len(users)),
		sessions: make(map[string]session),
		ttl:      ttl,
	}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		r.users[strings.ToLower(u.Email)] = u
	}
	return r
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *userRepository) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", domain.ErrInvalidInput
	}

	token := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpired()
	r.sessions[token] = session{userID: user.ID, expiresAt: time.Now().Add(r.ttl)}
	return token, nil
}

func (r *userRepository) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[token]
	if !ok || time.Now().After(s.expiresAt) {
		return nil, domain.ErrUnauthorized
	}
	for _, u := range r.users {
		if u.ID == s.userID {
			return u, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

func (r *userRepository) evictExpired() {
	now := time.Now()
	for token, s := range r.sessions {
		if now.After(s.expiresAt) {
			delete(r.sessions, token)
		}
	}
}
