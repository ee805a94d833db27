package exams

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/domain"
	"github.com/graphicode-dev/classroom/internal/infrastructure/json"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/validate"
	"github.com/graphicode-dev/classroom/internal/presentation/utils"
)

type Handler struct {
	exams       domain.Repository[domain.Exam]
	submissions domain.Repository[domain.Submission]
	logger      logging.Logger
}

func NewHandler(
	exams domain.Repository[domain.Exam],
	submissions domain.Repository[domain.Submission],
	logger logging.Logger,
) *Handler {
	return &Handler{exams: exams, submissions: submissions, logger: logger}
}

// ListExamsHandler filters by status, group, title search and a date range on
// the start time. The range is inclusive of whole days.
func (h *Handler) ListExamsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := apierror.ValidationErrors{}

	var from, to time.Time
	if s := q.Get("from"); s != "" {
		t, err := utils.ParseTime(s)
		if err != nil {
			errs["from"] = []string{"from must be a valid date"}
		}
		from = t
	}
	if s := q.Get("to"); s != "" {
		t, err := utils.ParseTime(s)
		if err != nil {
			errs["to"] = []string{"to must be a valid date"}
		}
		to = t.Truncate(24 * time.Hour).Add(24 * time.Hour)
	}
	if len(errs) > 0 {
		json.WriteValidationError(w, errs)
		return
	}

	status, groupID := q.Get("status"), q.Get("groupId")
	search := strings.ToLower(q.Get("search"))
	page := utils.PageQuery(r)

	items, total, err := h.exams.List(r.Context(), page, func(e *domain.Exam) bool {
		switch {
		case status != "" && e.Status != status:
			return false
		case groupID != "" && e.GroupID != groupID:
			return false
		case search != "" && !strings.Contains(strings.ToLower(e.Title), search):
			return false
		case !from.IsZero() && e.StartsAt.Before(from):
			return false
		case !to.IsZero() && !e.StartsAt.Before(to):
			return false
		}
		return true
	})
	if err != nil {
		h.internalError(w, "list exams failed", err)
		return
	}
	json.WritePage(w, items, page.Page, page.PerPage, total)
}

func (h *Handler) GetExamHandler(w http.ResponseWriter, r *http.Request) {
	exam, err := h.exams.GetByID(r.Context(), chi.URLParam(r, "examId"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	json.WriteData(w, http.StatusOK, exam)
}

// SubmitExamHandler accepts answers[N][questionId|choice|text], attachments,
// submittedAt and final.
func (h *Handler) SubmitExamHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.UserFrom(r.Context())

	exam, err := h.exams.GetByID(r.Context(), chi.URLParam(r, "examId"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	if exam.Status == "finished" {
		json.WriteError(w, http.StatusConflict, "EXAM_CLOSED", "This exam no longer accepts submissions.")
		return
	}

	form, err := utils.ParseMultipart(r)
	if err != nil {
		json.WriteBadRequestError(w, "Expected a multipart body.")
		return
	}

	req := submitRequest{
		Answers: lo.Map(utils.IndexedObjects(form.Value, "answers"), func(m map[string]string, _ int) answerRequest {
			return answerRequest{QuestionID: m["questionId"], Choice: m["choice"], Text: m["text"]}
		}),
	}
	errs := validate.Struct(req)
	if errs == nil {
		errs = apierror.ValidationErrors{}
	}

	final, err := utils.ParseBool(first(form.Value["final"]))
	if err != nil {
		errs["final"] = []string{"final must be true or false"}
	}
	submittedAt := time.Now().UTC()
	if s := first(form.Value["submittedAt"]); s != "" {
		if submittedAt, err = utils.ParseTime(s); err != nil {
			errs["submittedAt"] = []string{"submittedAt must be a valid date"}
		}
	}
	for i, a := range req.Answers {
		if a.QuestionID != "" && !lo.ContainsBy(exam.Questions, func(q domain.Question) bool { return q.ID == a.QuestionID }) {
			key := "answers." + strconv.Itoa(i) + ".questionId"
			errs[key] = append(errs[key], "questionId does not belong to this exam")
		}
	}
	if len(errs) > 0 {
		json.WriteValidationError(w, errs)
		return
	}

	sub := &domain.Submission{
		ExamID: exam.ID,
		UserID: user.ID,
		Answers: lo.Map(req.Answers, func(a answerRequest, _ int) domain.Answer {
			return domain.Answer{QuestionID: a.QuestionID, Choice: a.Choice, Text: a.Text}
		}),
		AnswerCount: len(req.Answers),
		Attachments: utils.Attachments(utils.Files(form, "attachments")),
		Final:       final,
		SubmittedAt: submittedAt,
	}
	if err := h.submissions.Create(r.Context(), sub); err != nil {
		h.internalError(w, "store submission failed", err)
		return
	}
	json.WriteData(w, http.StatusCreated, sub)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		json.WriteNotFoundError(w, "Exam not found.")
	default:
		h.internalError(w, "get exam failed", err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(logging.Internal, logging.Api, msg, map[logging.ExtraKey]any{
		logging.ErrorMessage: err.Error(),
	})
	json.WriteInternalError(w)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
