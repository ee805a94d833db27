package domain

import (
	"context"
	"crypto/subtle"
)

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
	Password string `json:"-"`
}

// CheckPassword compares in constant time.
func (u *User) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	// IssueToken starts a session for the user.
	IssueToken(ctx context.Context, user *User) (string, error)
	// Authenticate resolves a bearer token. Unknown tokens yield ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*User, error)
}
