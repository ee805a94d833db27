package tickets

import (
	"net/http"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/graphicode-dev/classroom/internal/domain"
	"github.com/graphicode-dev/classroom/internal/infrastructure/json"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/validate"
	"github.com/graphicode-dev/classroom/internal/presentation/utils"
)

const (
	statusOpen    = "open"
	statusPending = "pending"
	statusClosed  = "closed"
)

type Handler struct {
	tickets domain.Repository[domain.Ticket]
	logger  logging.Logger
}

func NewHandler(tickets domain.Repository[domain.Ticket], logger logging.Logger) *Handler {
	return &Handler{tickets: tickets, logger: logger}
}

// ListTicketsHandler returns the caller's tickets. status may repeat.
func (h *Handler) ListTicketsHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.UserFrom(r.Context())
	q := r.URL.Query()
	statuses := utils.Values(q, "status")
	priority := q.Get("priority")

	page := utils.PageQuery(r)
	items, total, err := h.tickets.List(r.Context(), page, func(t *domain.Ticket) bool {
		switch {
		case t.UserID != user.ID:
			return false
		case len(statuses) > 0 && !slices.Contains(statuses, t.Status):
			return false
		case priority != "" && t.Priority != priority:
			return false
		}
		return true
	})
	if err != nil {
		h.internalError(w, "list tickets failed", err)
		return
	}
	json.WritePage(w, items, page.Page, page.PerPage, total)
}

func (h *Handler) NewTicketHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.UserFrom(r.Context())

	form, err := utils.ParseMultipart(r)
	if err != nil {
		json.WriteBadRequestError(w, "Expected a multipart body.")
		return
	}

	req := newTicketRequest{
		Subject:  first(form.Value["subject"]),
		Body:     first(form.Value["body"]),
		Priority: first(form.Value["priority"]),
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}
	if errs := validate.Struct(req); errs != nil {
		json.WriteValidationError(w, errs)
		return
	}

	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Subject:     req.Subject,
		Body:        req.Body,
		Status:      statusOpen,
		Priority:    req.Priority,
		Attachments: utils.Attachments(utils.Files(form, "attachments")),
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.tickets.Create(r.Context(), ticket); err != nil {
		h.internalError(w, "store ticket failed", err)
		return
	}
	json.WriteData(w, http.StatusCreated, ticket)
}

// ReplyHandler appends a reply and moves the ticket back to pending.
func (h *Handler) ReplyHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.UserFrom(r.Context())

	ticket, err := h.tickets.GetByID(r.Context(), chi.URLParam(r, "ticketId"))
	if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInvalidInput) {
		h.internalError(w, "get ticket failed", err)
		return
	}
	if ticket == nil || ticket.UserID != user.ID {
		json.WriteNotFoundError(w, "Ticket not found.")
		return
	}
	if ticket.Status == statusClosed {
		json.WriteError(w, http.StatusConflict, "TICKET_CLOSED", "This ticket is closed.")
		return
	}

	form, err := utils.ParseMultipart(r)
	if err != nil {
		json.WriteBadRequestError(w, "Expected a multipart body.")
		return
	}
	req := replyRequest{Body: first(form.Value["body"])}
	if errs := validate.Struct(req); errs != nil {
		json.WriteValidationError(w, errs)
		return
	}

	reply := domain.TicketReply{
		ID:          uuid.NewString(),
		TicketID:    ticket.ID,
		Author:      *user,
		Body:        req.Body,
		Attachments: utils.Attachments(utils.Files(form, "attachments")),
		CreatedAt:   time.Now().UTC(),
	}
	updated := *ticket
	updated.Replies = append(slices.Clone(ticket.Replies), reply)
	updated.Status = statusPending
	if err := h.tickets.Update(r.Context(), &updated); err != nil {
		h.internalError(w, "update ticket failed", err)
		return
	}
	json.WriteData(w, http.StatusCreated, reply)
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
