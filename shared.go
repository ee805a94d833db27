package classroom

import (
	"github.com/graphicode-dev/classroom/internal/apiform"
	"github.com/graphicode-dev/classroom/internal/param"
)

// Blob is a file sent in a multipart request.
type Blob = param.Blob

// NewBlob wraps in-memory data as a file. An empty content type is sent as
// application/octet-stream.
func NewBlob(name, contentType string, data []byte) *Blob {
	return param.NewBlob(name, contentType, data)
}

// OpenFile reads a file from disk for upload.
func OpenFile(path string) (*Blob, error) {
	return apiform.OpenFile(path)
}

// PageMeta is the pagination block of list responses.
type PageMeta struct {
	CurrentPage int `json:"currentPage"`
	PerPage     int `json:"perPage"`
	Total       int `json:"total"`
	LastPage    int `json:"lastPage"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Meta.CurrentPage < p.Meta.LastPage
}

// PageParams are the paging filters shared by list endpoints.
type PageParams struct {
	Page    int `query:"page,omitempty"`
	PerPage int `query:"perPage,omitempty"`
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Attachment is a stored file referenced by the API.
type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}
