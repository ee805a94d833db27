package apierror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path      string
		overrides map[string]string
		want      string
		ok        bool
	}{
		{path: "groupSchedules.0.startTime", want: "startTime", ok: true},
		{path: "user.profile.email", want: "email", ok: true},
		{path: "title", want: "title", ok: true},
		{path: "answers.3", want: "answers", ok: true},
		{path: "answers[2].choice", want: "choice", ok: true},
		{path: "items[0]", want: "items[0]", ok: true},
		{path: "meta[tags]", want: "meta[tags]", ok: true},
		{path: "first_name", want: "first_name", ok: true},
		{path: "0", ok: false},
		{path: "1.2", ok: false},
		{path: "", ok: false},
		{
			path:      "groupSchedules.0.startTime",
			overrides: map[string]string{"groupSchedules.0.startTime": "firstSessionStart"},
			want:      "firstSessionStart",
			ok:        true,
		},
		{
			path:      "0",
			overrides: map[string]string{"0": "general"},
			want:      "general",
			ok:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, ok := FieldName(tt.path, tt.overrides)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapFieldErrors(t *testing.T) {
	errs := ValidationErrors{
		"groupSchedules.0.startTime": {"The start time is required.", "ignored"},
		"groupSchedules.1.startTime": {"Second start time"},
		"title":                      {"Title is required"},
		"empty":                      {},
		"0":                          {"Row invalid"},
	}

	got := MapFieldErrors(errs, nil)

	assert.Equal(t, map[string]FieldError{
		"startTime": {Type: FieldTypeServer, Message: "The start time is required."},
		"title":     {Type: FieldTypeServer, Message: "Title is required"},
	}, got.Fields)
	assert.Equal(t, []string{"0"}, got.Unmapped)
}

func TestMapFieldErrorsOverrides(t *testing.T) {
	errs := ValidationErrors{"user.profile.email": {"Email taken"}}
	got := MapFieldErrors(errs, map[string]string{"user.profile.email": "contactEmail"})

	assert.Equal(t, map[string]FieldError{
		"contactEmail": {Type: FieldTypeServer, Message: "Email taken"},
	}, got.Fields)
	assert.Empty(t, got.Unmapped)
}

func TestErrorFieldErrors(t *testing.T) {
	e := &Error{ValidationErrors: ValidationErrors{"name": {"Name is required"}}, IsValidationError: true}
	assert.Equal(t, "Name is required", e.FieldErrors(nil).Fields["name"].Message)
}
