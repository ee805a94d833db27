package classroom

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/graphicode-dev/classroom/internal/apiform"
	"github.com/graphicode-dev/classroom/internal/param"
	"github.com/graphicode-dev/classroom/internal/requestconfig"
	"github.com/graphicode-dev/classroom/option"
)

type ExamService struct {
	Options []option.RequestOption
}

func NewExamService(opts ...option.RequestOption) *ExamService {
	return &ExamService{opts}
}

// List returns the exams assigned to the signed-in student.
func (r *ExamService) List(ctx context.Context, query ExamListParams, opts ...option.RequestOption) (*Page[Exam], error) {
	opts = slices.Concat(r.Options, opts)

	res := &Page[Exam]{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, "student/exams", query, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ExamService) Get(ctx context.Context, id string, opts ...option.RequestOption) (*Exam, error) {
	if id == "" {
		return nil, missing(ErrMissingIDParameter)
	}
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithEnvelope("data")}, opts)

	res := &Exam{}
	path := fmt.Sprintf("student/exams/%s", id)
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Submit sends the answers of an exam with optional attachments as a
// multipart body.
func (r *ExamService) Submit(ctx context.Context, id string, body ExamSubmitParams, opts ...option.RequestOption) (*ExamSubmission, error) {
	if id == "" {
		return nil, missing(ErrMissingIDParameter)
	}
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithEnvelope("data")}, opts)

	res := &ExamSubmission{}
	path := fmt.Sprintf("student/exams/%s/submit", id)
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type ExamListParams struct {
	PageParams
	Status  string    `query:"status,omitempty"`
	GroupID string    `query:"groupId,omitempty"`
	From    time.Time `query:"from,omitempty" format:"date"`
	To      time.Time `query:"to,omitempty" format:"date"`
	Search  string    `query:"search,omitempty"`
}

type Exam struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	GroupID     string     `json:"groupId"`
	StartsAt    time.Time  `json:"startsAt"`
	EndsAt      time.Time  `json:"endsAt"`
	DurationMin int        `json:"durationMinutes"`
	Questions   []Question `json:"questions,omitempty"`
}

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Type    string   `json:"type"`
	Choices []string `json:"choices,omitempty"`
}

type ExamAnswer struct {
	QuestionID string `form:"questionId"`
	Choice     string `form:"choice,omitempty"`
	Text       string `form:"text,omitempty"`
}

type ExamSubmitParams struct {
	Answers     []ExamAnswer  `form:"answers"`
	Attachments []*param.Blob `form:"attachments"`
	SubmittedAt time.Time     `form:"submittedAt,omitempty"`
	Final       bool          `form:"final"`
}

// MarshalMultipart always keys answers by position, since each answer spans
// several fields.
func (p ExamSubmitParams) MarshalMultipart(s apiform.Settings) ([]byte, string, error) {
	s.ArrayFormat = param.ArrayFormatIndices
	return apiform.MarshalMultipart(p, s)
}

type ExamSubmission struct {
	ID          string       `json:"id"`
	ExamID      string       `json:"examId"`
	Answers     int          `json:"answers"`
	Attachments []Attachment `json:"attachments"`
	Final       bool         `json:"final"`
	SubmittedAt time.Time    `json:"submittedAt"`
}
