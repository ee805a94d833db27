package auth

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/graphicode-dev/classroom/internal/domain"
	"github.com/graphicode-dev/classroom/internal/infrastructure/json"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/validate"
	"github.com/graphicode-dev/classroom/internal/presentation/utils"
)

type Handler struct {
	users  domain.UserRepository
	logger logging.Logger
}

func NewHandler(users domain.UserRepository, logger logging.Logger) *Handler {
	return &Handler{users: users, logger: logger}
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteBadRequestError(w, "Malformed JSON body.")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		json.WriteValidationError(w, errs)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		h.logger.Error(logging.Internal, logging.Api, "user lookup failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w)
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		json.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "These credentials do not match our records.")
		return
	}

	token, err := h.users.IssueToken(r.Context(), user)
	if err != nil {
		h.logger.Error(logging.Internal, logging.Api, "issue token failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w)
		return
	}

	json.WriteData(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.UserFrom(r.Context())
	if !ok {
		json.WriteUnauthorizedError(w)
		return
	}
	json.WriteData(w, http.StatusOK, user)
}
