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

type TicketService struct {
	Options []option.RequestOption
}

func NewTicketService(opts ...option.RequestOption) *TicketService {
	return &TicketService{opts}
}

func (r *TicketService) List(ctx context.Context, query TicketListParams, opts ...option.RequestOption) (*Page[Ticket], error) {
	opts = slices.Concat(r.Options, opts)

	res := &Page[Ticket]{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, "support/tickets", query, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// New opens a support ticket. Attachments are sent as a multipart body.
func (r *TicketService) New(ctx context.Context, body TicketNewParams, opts ...option.RequestOption) (*Ticket, error) {
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithEnvelope("data")}, opts)

	res := &Ticket{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, "support/tickets", body, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *TicketService) Reply(ctx context.Context, id string, body TicketReplyParams, opts ...option.RequestOption) (*TicketReply, error) {
	if id == "" {
		return nil, missing(ErrMissingIDParameter)
	}
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithEnvelope("data")}, opts)

	res := &TicketReply{}
	path := fmt.Sprintf("support/tickets/%s/replies", id)
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type TicketListParams struct {
	PageParams
	Status   []string `query:"status,omitempty"`
	Priority string   `query:"priority,omitempty"`
}

type Ticket struct {
	ID          string        `json:"id"`
	Subject     string        `json:"subject"`
	Body        string        `json:"body"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	Attachments []Attachment  `json:"attachments"`
	Replies     []TicketReply `json:"replies,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type TicketReply struct {
	ID          string       `json:"id"`
	TicketID    string       `json:"ticketId"`
	Author      User         `json:"author"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type TicketNewParams struct {
	Subject     string        `form:"subject"`
	Body        string        `form:"body"`
	Priority    string        `form:"priority,omitempty"`
	Attachments []*param.Blob `form:"attachments"`
}

func (p TicketNewParams) MarshalMultipart(s apiform.Settings) ([]byte, string, error) {
	return apiform.MarshalMultipart(p, s)
}

type TicketReplyParams struct {
	Body        string        `form:"body"`
	Attachments []*param.Blob `form:"attachments"`
}

func (p TicketReplyParams) MarshalMultipart(s apiform.Settings) ([]byte, string, error) {
	return apiform.MarshalMultipart(p, s)
}
