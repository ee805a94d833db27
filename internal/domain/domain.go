// Package domain holds the records served by the local classroom backend.
package domain

import (
	"context"

	"github.com/cockroachdb/errors"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// ListQuery selects one page of a listing. Page is 1-based.
type ListQuery struct {
	Page    int
	PerPage int
	// Oldest walks records in insertion order instead of newest first.
	Oldest bool
}

const defaultPerPage = 15

// Normalize clamps the query to a valid page.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = defaultPerPage
	}
	return q
}

// Repository stores records of one kind in insertion order.
type Repository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
	// List returns the page of records accepted by match and the total
	// number of matches. A nil match accepts everything.
	List(ctx context.Context, q ListQuery, match func(*T) bool) ([]*T, int, error)
}

type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}
