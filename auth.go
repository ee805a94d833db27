package classroom

import (
	"context"
	"net/http"
	"slices"

	"github.com/graphicode-dev/classroom/internal/requestconfig"
	"github.com/graphicode-dev/classroom/option"
)

type AuthService struct {
	Options []option.RequestOption
}

func NewAuthService(opts ...option.RequestOption) *AuthService {
	return &AuthService{opts}
}

// Login exchanges credentials for a bearer token. It never sends a token and
// a 401 here does not fire the unauthorized hook.
func (r *AuthService) Login(ctx context.Context, body LoginParams, opts ...option.RequestOption) (*LoginResponse, error) {
	if body.Email == "" || body.Password == "" {
		return nil, missing(ErrMissingCredentials)
	}
	opts = slices.Concat(r.Options, opts, []option.RequestOption{
		option.WithAuthMode(option.AuthNone),
		option.WithEnvelope("data"),
	})

	res := &LoginResponse{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, "auth/login", body, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Me returns the signed-in user.
func (r *AuthService) Me(ctx context.Context, opts ...option.RequestOption) (*User, error) {
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithEnvelope("data")}, opts)

	res := &User{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, "auth/me", nil, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
