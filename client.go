// Package classroom is a Go client for the classroom learning-management API.
package classroom

import (
	"context"
	"net/http"
	"os"
	"slices"

	"github.com/graphicode-dev/classroom/internal/requestconfig"
	"github.com/graphicode-dev/classroom/option"
)

// Client creates a struct with services and top level methods that help with
// interacting with the classroom API. You should not instantiate this client
// directly, and instead use the [NewClient] method instead.
type Client struct {
	Options   []option.RequestOption
	Auth      *AuthService
	Exams     *ExamService
	Feed      *FeedService
	Groups    *GroupService
	Tickets   *TicketService
	Resources *ResourceService
}

// DefaultClientOptions read from the environment (CLASSROOM_BASE_URL,
// CLASSROOM_TOKEN). This should be used to initialize new clients.
func DefaultClientOptions() []option.RequestOption {
	defaults := []option.RequestOption{option.WithEnvironmentProduction()}
	if o, ok := os.LookupEnv("CLASSROOM_BASE_URL"); ok {
		defaults = append(defaults, option.WithBaseURL(o))
	}
	if o, ok := os.LookupEnv("CLASSROOM_TOKEN"); ok {
		defaults = append(defaults, option.WithToken(o))
	}
	return defaults
}

// NewClient generates a new client with the default option read from the
// environment. The option passed in as arguments are applied after these
// default arguments, and all option will be passed down to the services and
// requests that this client makes.
func NewClient(opts ...option.RequestOption) *Client {
	opts = append(DefaultClientOptions(), opts...)

	return &Client{
		Options:   opts,
		Auth:      NewAuthService(opts...),
		Exams:     NewExamService(opts...),
		Feed:      NewFeedService(opts...),
		Groups:    NewGroupService(opts...),
		Tickets:   NewTicketService(opts...),
		Resources: NewResourceService(opts...),
	}
}

// Execute makes a request with the given context, method, URL, request params,
// response, and request options. This is useful for hitting undocumented
// endpoints while retaining the base URL, auth, retries, and other options
// from the client.
//
// params is encoded into the query string for GET, HEAD and DELETE. For other
// methods it is sent as multipart when it implements MarshalMultipart, and as
// JSON otherwise. The response is decoded into res when it is non-nil; a
// *[]byte receives the raw body.
func (c *Client) Execute(ctx context.Context, method, path string, params, res any, opts ...option.RequestOption) error {
	opts = slices.Concat(c.Options, opts)
	return requestconfig.ExecuteNewRequest(ctx, method, path, params, res, opts...)
}

func (c *Client) Get(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodGet, path, params, res, opts...)
}

func (c *Client) Post(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodPost, path, params, res, opts...)
}

func (c *Client) Put(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodPut, path, params, res, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodPatch, path, params, res, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, params, res any, opts ...option.RequestOption) error {
	return c.Execute(ctx, http.MethodDelete, path, params, res, opts...)
}
