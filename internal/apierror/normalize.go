package apierror

import (
	"context"
	"net"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"

	"github.com/graphicode-dev/classroom/internal/apijson"
)

// Normalize classifies err into an *Error. The order is cancellation, server
// response, missing response, then anything else. An *Error already in the
// chain is returned unchanged and nil yields nil.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	if apiErr, ok := As(err); ok {
		return apiErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, ErrCancelled) {
		return &Error{Message: MessageCancelled, Code: CodeCancelled, cause: err}
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return FromResponse(respErr.StatusCode, respErr.Body, err)
	}

	if isNoResponse(err) {
		return &Error{Message: MessageNoResponse, Code: CodeNetwork, cause: err}
	}

	msg := err.Error()
	if msg == "" {
		msg = MessageUnexpected
	}
	return &Error{Message: msg, Code: CodeUnknown, cause: err}
}

func isNoResponse(err error) bool {
	if errors.Is(err, ErrNoResponse) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// FromResponse builds the error for a server reply. The body is probed for
// message, code and errors.
func FromResponse(status int, body []byte, cause error) *Error {
	e := &Error{
		Message: MessageFailed,
		Status:  status,
		Details: details(body),
		cause:   cause,
	}
	if !gjson.ValidBytes(body) {
		return e
	}

	root := gjson.ParseBytes(body)
	if msg := root.Get("message"); msg.Type == gjson.String && msg.Str != "" {
		e.Message = msg.Str
	}
	if code := root.Get("code"); code.Type == gjson.String || code.Type == gjson.Number {
		e.Code = code.String()
	}
	if fields := validationErrors(root.Get("errors")); len(fields) > 0 {
		e.ValidationErrors = fields
		e.IsValidationError = true
	}
	return e
}

func details(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := apijson.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

func validationErrors(r gjson.Result) ValidationErrors {
	if !r.IsObject() {
		return nil
	}
	out := ValidationErrors{}
	r.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.IsArray():
			var msgs []string
			for _, m := range value.Array() {
				if m.Type == gjson.String {
					msgs = append(msgs, m.Str)
				}
			}
			out[key.Str] = msgs
		case value.Type == gjson.String:
			out[key.Str] = []string{value.Str}
		}
		return true
	})
	return out
}
