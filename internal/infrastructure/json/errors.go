package json

import (
	"net/http"
	"strconv"

	"github.com/graphicode-dev/classroom/internal/apierror"
)

// ErrorResponse is the error body of the classroom backend.
type ErrorResponse struct {
	Message string                    `json:"message"`
	Code    string                    `json:"code,omitempty"`
	Errors  apierror.ValidationErrors `json:"errors,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, msg string) {
	Write(w, status, ErrorResponse{Message: msg, Code: code})
}

// WriteValidationError answers 422 with messages keyed by field path.
func WriteValidationError(w http.ResponseWriter, errs apierror.ValidationErrors) {
	Write(w, http.StatusUnprocessableEntity, ErrorResponse{
		Message: "The given data was invalid.",
		Code:    "VALIDATION_ERROR",
		Errors:  errs,
	})
}

func WriteBadRequestError(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusBadRequest, "BAD_REQUEST", msg)
}

func WriteUnauthorizedError(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Unauthenticated.")
}

func WriteForbiddenError(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusForbidden, "FORBIDDEN", msg)
}

func WriteNotFoundError(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusNotFound, "NOT_FOUND", msg)
}

func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "SERVER_ERROR", "An unexpected error occurred")
}

func WriteRateLimitError(w http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
}
