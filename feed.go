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

type FeedService struct {
	Options []option.RequestOption
}

func NewFeedService(opts ...option.RequestOption) *FeedService {
	return &FeedService{opts}
}

// List returns community posts. Signed-out callers get the public feed, so
// the token is optional and a 401 never fires the unauthorized hook.
func (r *FeedService) List(ctx context.Context, query FeedListParams, opts ...option.RequestOption) (*Page[Post], error) {
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithAuthMode(option.AuthOptional)}, opts)

	res := &Page[Post]{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, "community/posts", query, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// NewPost publishes a post with optional images.
func (r *FeedService) NewPost(ctx context.Context, body PostNewParams, opts ...option.RequestOption) (*Post, error) {
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithEnvelope("data")}, opts)

	res := &Post{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, "community/posts", body, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DeletePost removes a post. Subscribers of the live feed receive a
// post.deleted event.
func (r *FeedService) DeletePost(ctx context.Context, id string, opts ...option.RequestOption) error {
	if id == "" {
		return missing(ErrMissingIDParameter)
	}
	opts = slices.Concat(r.Options, opts)

	path := fmt.Sprintf("community/posts/%s", id)
	return requestconfig.ExecuteNewRequest(ctx, http.MethodDelete, path, nil, nil, opts...)
}

type FeedListParams struct {
	PageParams
	Tags     []string `query:"tags,omitempty"`
	AuthorID string   `query:"authorId,omitempty"`
	Pinned   *bool    `query:"pinned,omitempty"`
}

type Post struct {
	ID        string       `json:"id"`
	Author    User         `json:"author"`
	Content   string       `json:"content"`
	Tags      []string     `json:"tags"`
	Images    []Attachment `json:"images"`
	Likes     int          `json:"likes"`
	Pinned    bool         `json:"pinned"`
	CreatedAt time.Time    `json:"createdAt"`
}

type PostNewParams struct {
	Content string        `form:"content"`
	Tags    []string      `form:"tags"`
	Images  []*param.Blob `form:"images"`
}

func (p PostNewParams) MarshalMultipart(s apiform.Settings) ([]byte, string, error) {
	return apiform.MarshalMultipart(p, s)
}
