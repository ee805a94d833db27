package classroom

import (
	"github.com/cockroachdb/errors"

	"github.com/graphicode-dev/classroom/internal/apierror"
)

var (
	ErrMissingIDParameter   = errors.New("missing required id parameter")
	ErrMissingFileParameter = errors.New("missing required file parameter")
	ErrMissingCredentials   = errors.New("missing required email or password")
)

// Error is the failure returned by every service method.
type Error = apierror.Error

type ValidationErrors = apierror.ValidationErrors

type FieldMapping = apierror.FieldMapping

type FieldError = apierror.FieldError

// missing reports a client-side argument error in the same shape as API
// failures.
func missing(err error) error {
	return apierror.Normalize(err)
}

// AsError finds the API error in err's chain.
func AsError(err error) (*Error, bool) {
	return apierror.As(err)
}

// FieldErrors maps the validation errors carried by err onto form field names.
// overrides maps an exact server path to a field name. ok is false unless err
// is a validation error.
func FieldErrors(err error, overrides map[string]string) (FieldMapping, bool) {
	apiErr, ok := apierror.As(err)
	if !ok || !apiErr.IsValidationError {
		return FieldMapping{}, false
	}
	return apiErr.FieldErrors(overrides), true
}
