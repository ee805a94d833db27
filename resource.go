package classroom

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/graphicode-dev/classroom/internal/apiform"
	"github.com/graphicode-dev/classroom/internal/param"
	"github.com/graphicode-dev/classroom/internal/requestconfig"
	"github.com/graphicode-dev/classroom/option"
)

type ResourceService struct {
	Options []option.RequestOption
}

func NewResourceService(opts ...option.RequestOption) *ResourceService {
	return &ResourceService{opts}
}

// List searches the resource library. Filters are sent nested, e.g.
// filters[type]=pdf&filters[tags][]=algebra.
func (r *ResourceService) List(ctx context.Context, query ResourceListParams, opts ...option.RequestOption) (*Page[Resource], error) {
	opts = slices.Concat(r.Options, opts)

	res := &Page[Resource]{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, "resources", query, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Upload stores a single file in the library.
func (r *ResourceService) Upload(ctx context.Context, body ResourceUploadParams, opts ...option.RequestOption) (*Resource, error) {
	if body.File == nil {
		return nil, missing(ErrMissingFileParameter)
	}
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithEnvelope("data")}, opts)

	res := &Resource{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, "resources", body, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type ResourceFilters struct {
	Type    string    `query:"type,omitempty"`
	Tags    []string  `query:"tags,omitempty"`
	GroupID string    `query:"groupId,omitempty"`
	Since   time.Time `query:"since,omitempty"`
}

type ResourceListParams struct {
	PageParams
	Filters ResourceFilters `query:"filters"`
	Sort    string          `query:"sort,omitempty"`
	Search  string          `query:"search,omitempty"`
}

type Resource struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	Tags      []string   `json:"tags"`
	GroupID   string     `json:"groupId,omitempty"`
	Public    bool       `json:"public"`
	File      Attachment `json:"file"`
	CreatedAt time.Time  `json:"createdAt"`
}

type ResourceUploadParams struct {
	Title   string      `form:"title"`
	File    *param.Blob `form:"file"`
	Tags    []string    `form:"tags"`
	GroupID string      `form:"groupId,omitempty"`
	Public  bool        `form:"public"`
}

func (p ResourceUploadParams) MarshalMultipart(s apiform.Settings) ([]byte, string, error) {
	return apiform.MarshalMultipart(p, s)
}
