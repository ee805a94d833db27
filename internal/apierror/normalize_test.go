package apierror

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type NormalizeSuite struct {
	suite.Suite
}

func (s *NormalizeSuite) TestNil() {
	s.Nil(Normalize(nil))
}

func (s *NormalizeSuite) TestCancellation() {
	for _, err := range []error{
		context.Canceled,
		ErrCancelled,
		&url.Error{Op: "Get", URL: "http://x", Err: context.Canceled},
		cerrors.Wrap(ErrCancelled, "exams.list"),
	} {
		got := Normalize(err)
		s.Equal(CodeCancelled, got.Code)
		s.Equal(MessageCancelled, got.Message)
		s.Zero(got.Status)
		s.False(got.IsValidationError)
		s.True(got.IsCancelled())
	}
}

func (s *NormalizeSuite) TestValidationResponse() {
	body := []byte(`{"message":"The given data was invalid.","errors":{"name":["Name is required","too short"],"email":"bad"}}`)
	got := Normalize(&ResponseError{StatusCode: 422, Body: body})

	s.Equal(422, got.Status)
	s.Equal("The given data was invalid.", got.Message)
	s.True(got.IsValidationError)
	s.Equal(ValidationErrors{
		"name":  {"Name is required", "too short"},
		"email": {"bad"},
	}, got.ValidationErrors)

	details, ok := got.Details.(map[string]any)
	s.Require().True(ok)
	s.Contains(details, "errors")
}

func (s *NormalizeSuite) TestSpecValidationExample() {
	got := Normalize(&ResponseError{StatusCode: 422, Body: []byte(`{"errors":{"name":["Name is required"]}}`)})
	s.True(got.IsValidationError)
	s.Equal(ValidationErrors{"name": {"Name is required"}}, got.ValidationErrors)
	s.Equal(422, got.Status)
	s.Equal(MessageFailed, got.Message)
}

func (s *NormalizeSuite) TestServerErrorWithoutErrors() {
	got := Normalize(&ResponseError{StatusCode: 403, Body: []byte(`{"message":"Forbidden","code":"NOT_ENROLLED","errors":{}}`)})
	s.Equal("Forbidden", got.Message)
	s.Equal("NOT_ENROLLED", got.Code)
	s.Equal(403, got.Status)
	s.False(got.IsValidationError)
	s.Nil(got.ValidationErrors)
}

func (s *NormalizeSuite) TestNonJSONBody() {
	got := Normalize(&ResponseError{StatusCode: 502, Body: []byte("<html>Bad Gateway</html>")})
	s.Equal(MessageFailed, got.Message)
	s.Equal(502, got.Status)
	s.Equal("<html>Bad Gateway</html>", got.Details)
}

func (s *NormalizeSuite) TestEmptyMessageFallsBack() {
	got := Normalize(&ResponseError{StatusCode: 500, Body: []byte(`{"message":""}`)})
	s.Equal(MessageFailed, got.Message)
}

func (s *NormalizeSuite) TestNoResponse() {
	for _, err := range []error{
		ErrNoResponse,
		context.DeadlineExceeded,
		&url.Error{Op: "Post", URL: "http://x", Err: syscall.ECONNREFUSED},
		&net.OpError{Op: "dial", Err: syscall.ECONNRESET},
	} {
		got := Normalize(err)
		s.Equal(CodeNetwork, got.Code, "%v", err)
		s.Equal(MessageNoResponse, got.Message)
		s.True(got.IsNetworkError())
	}
}

func (s *NormalizeSuite) TestUnknown() {
	got := Normalize(errors.New("boom"))
	s.Equal(CodeUnknown, got.Code)
	s.Equal("boom", got.Message)

	got = Normalize(errors.New(""))
	s.Equal(MessageUnexpected, got.Message)
}

func (s *NormalizeSuite) TestPassThrough() {
	orig := &Error{Message: "x", Code: "Y"}
	s.Same(orig, Normalize(orig))
	s.Same(orig, Normalize(cerrors.Wrap(orig, "context")))
}

func (s *NormalizeSuite) TestUnwrapKeepsCause() {
	cause := &ResponseError{StatusCode: 404}
	got := Normalize(cause)
	var respErr *ResponseError
	s.True(errors.As(got, &respErr))
	s.Equal(404, respErr.StatusCode)
}

func TestNormalizeSuite(t *testing.T) {
	suite.Run(t, new(NormalizeSuite))
}

func TestAs(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)

	e, ok := As(cerrors.Wrap(&Error{Message: "m"}, "wrapped"))
	require.True(t, ok)
	assert.Equal(t, "m", e.Message)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "Request failed (status 500)", (&Error{Message: MessageFailed, Status: 500}).Error())
	assert.Equal(t, MessageNoResponse, (&Error{Message: MessageNoResponse}).Error())
}
