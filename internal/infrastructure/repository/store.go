package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/graphicode-dev/classroom/internal/domain"
)

type keyed[T any] interface {
	*T
	Key() *string
}

// store keeps records in insertion order. The oldest records are evicted when
// capacity is exceeded.
type store[T any, PT keyed[T]] struct {
	items    map[string]*T
	order    []string
	capacity uint
	mu       sync.RWMutex
}

func newStore[T any, PT keyed[T]](capacity uint) *store[T, PT] {
	if capacity == 0 {
		capacity = 100
	}
	return &store[T, PT]{
		items:    make(map[string]*T),
		capacity: capacity,
	}
}

// Create assigns an id when the record has none.
func (s *store[T, PT]) Create(ctx context.Context, item *T) error {
	if item == nil {
		return domain.ErrInvalidInput
	}
	key := PT(item).Key()
	if *key == "" {
		*key = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[*key]; !exists {
		s.order = append(s.order, *key)
	}
	s.items[*key] = item

	if excess := len(s.order) - int(s.capacity); excess > 0 {
		for _, id := range s.order[:excess] {
			delete(s.items, id)
		}
		s.order = s.order[excess:]
	}
	return nil
}

func (s *store[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *store[T, PT]) Update(ctx context.Context, item *T) error {
	if item == nil || *PT(item).Key() == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := *PT(item).Key()
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	s.items[id] = item
	return nil
}

func (s *store[T, PT]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == id })
	return nil
}

// List walks newest first unless q.Oldest is set.
func (s *store[T, PT]) List(ctx context.Context, q domain.ListQuery, match func(*T) bool) ([]*T, int, error) {
	q = q.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*T
	for i := range s.order {
		id := s.order[len(s.order)-1-i]
		if q.Oldest {
			id = s.order[i]
		}
		item := s.items[id]
		if match == nil || match(item) {
			matched = append(matched, item)
		}
	}

	start := (q.Page - 1) * q.PerPage
	if start >= len(matched) {
		return []*T{}, len(matched), nil
	}
	end := min(start+q.PerPage, len(matched))
	return matched[start:end], len(matched), nil
}

func NewExamRepository(capacity uint) domain.Repository[domain.Exam] {
	return newStore[domain.Exam](capacity)
}

func NewSubmissionRepository(capacity uint) domain.Repository[domain.Submission] {
	return newStore[domain.Submission](capacity)
}

func NewPostRepository(capacity uint) domain.Repository[domain.Post] {
	return newStore[domain.Post](capacity)
}

func NewGroupRepository(capacity uint) domain.Repository[domain.Group] {
	return newStore[domain.Group](capacity)
}

func NewTicketRepository(capacity uint) domain.Repository[domain.Ticket] {
	return newStore[domain.Ticket](capacity)
}

func NewResourceRepository(capacity uint) domain.Repository[domain.Resource] {
	return newStore[domain.Resource](capacity)
}
