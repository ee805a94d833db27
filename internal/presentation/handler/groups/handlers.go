package groups

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/graphicode-dev/classroom/internal/apierror"
	"github.com/graphicode-dev/classroom/internal/domain"
	"github.com/graphicode-dev/classroom/internal/infrastructure/json"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/validate"
	"github.com/graphicode-dev/classroom/internal/presentation/utils"
)

type Handler struct {
	groups domain.Repository[domain.Group]
	logger logging.Logger
}

func NewHandler(groups domain.Repository[domain.Group], logger logging.Logger) *Handler {
	return &Handler{groups: groups, logger: logger}
}

func (h *Handler) ListGroupsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courseID, instructorID := q.Get("courseId"), q.Get("instructorId")

	var active *bool
	if s := q.Get("active"); s != "" {
		b, err := utils.ParseBool(s)
		if err != nil {
			json.WriteValidationError(w, apierror.ValidationErrors{"active": {"active must be true or false"}})
			return
		}
		active = &b
	}

	page := utils.PageQuery(r)
	items, total, err := h.groups.List(r.Context(), page, func(g *domain.Group) bool {
		switch {
		case courseID != "" && g.CourseID != courseID:
			return false
		case instructorID != "" && g.InstructorID != instructorID:
			return false
		case active != nil && g.Active != *active:
			return false
		}
		return true
	})
	if err != nil {
		h.internalError(w, "list groups failed", err)
		return
	}
	json.WritePage(w, items, page.Page, page.PerPage, total)
}

// UpdateSchedulesHandler replaces the weekly sessions of a group. Errors are
// keyed by position, e.g. groupSchedules.1.endTime.
func (h *Handler) UpdateSchedulesHandler(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.GetByID(r.Context(), chi.URLParam(r, "groupId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			json.WriteNotFoundError(w, "Group not found.")
			return
		}
		h.internalError(w, "get group failed", err)
		return
	}

	var req updateSchedulesRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteBadRequestError(w, "Malformed JSON body.")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		json.WriteValidationError(w, errs)
		return
	}
	// HH:MM compares correctly as text once the format is valid.
	errs := apierror.ValidationErrors{}
	for i, s := range req.GroupSchedules {
		if s.EndTime <= s.StartTime {
			errs["groupSchedules."+strconv.Itoa(i)+".endTime"] = []string{"endTime must be after startTime"}
		}
	}
	if len(errs) > 0 {
		json.WriteValidationError(w, errs)
		return
	}

	updated := *group
	updated.Schedules = req.GroupSchedules
	if err := h.groups.Update(r.Context(), &updated); err != nil {
		h.internalError(w, "update group failed", err)
		return
	}
	json.WriteData(w, http.StatusOK, &updated)
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(logging.Internal, logging.Api, msg, map[logging.ExtraKey]any{
		logging.ErrorMessage: err.Error(),
	})
	json.WriteInternalError(w)
}
