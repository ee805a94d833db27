package ws

import "github.com/graphicode-dev/classroom/internal/domain"

const (
	PostCreated = "post.created"
	PostDeleted = "post.deleted"
)

type Event struct {
	Type   string       `json:"type"`
	Post   *domain.Post `json:"post,omitempty"`
	PostID string       `json:"postId,omitempty"`
}

func NewPostCreated(p *domain.Post) *Event {
	return &Event{Type: PostCreated, Post: p}
}

func NewPostDeleted(id string) *Event {
	return &Event{Type: PostDeleted, PostID: id}
}
