package repository

import (
	"time"

	"github.com/graphicode-dev/classroom/internal/domain"
)

// Repositories bundles every store of the local backend.
type Repositories struct {
	Users       domain.UserRepository
	Exams       domain.Repository[domain.Exam]
	Submissions domain.Repository[domain.Submission]
	Posts       domain.Repository[domain.Post]
	Groups      domain.Repository[domain.Group]
	Tickets     domain.Repository[domain.Ticket]
	Resources   domain.Repository[domain.Resource]
}

func NewRepositories(capacity uint, sessionTTL time.Duration, users ...*domain.User) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(sessionTTL, users...),
		Exams:       NewExamRepository(capacity),
		Submissions: NewSubmissionRepository(capacity),
		Posts:       NewPostRepository(capacity),
		Groups:      NewGroupRepository(capacity),
		Tickets:     NewTicketRepository(capacity),
		Resources:   NewResourceRepository(capacity),
	}
}
