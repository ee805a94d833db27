package domain

import "time"

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Type    string   `json:"type"`
	Choices []string `json:"choices,omitempty"`
}

type Exam struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	GroupID     string     `json:"groupId"`
	StartsAt    time.Time  `json:"startsAt"`
	EndsAt      time.Time  `json:"endsAt"`
	DurationMin int        `json:"durationMinutes"`
	Questions   []Question `json:"questions,omitempty"`
}

type Answer struct {
	QuestionID string `json:"questionId"`
	Choice     string `json:"choice,omitempty"`
	Text       string `json:"text,omitempty"`
}

type Submission struct {
	ID          string       `json:"id"`
	ExamID      string       `json:"examId"`
	UserID      string       `json:"-"`
	Answers     []Answer     `json:"-"`
	AnswerCount int          `json:"answers"`
	Attachments []Attachment `json:"attachments"`
	Final       bool         `json:"final"`
	SubmittedAt time.Time    `json:"submittedAt"`
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

type Schedule struct {
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	Room      string `json:"room,omitempty" validate:"omitempty,max=64"`
}

type Group struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	CourseID     string     `json:"courseId"`
	InstructorID string     `json:"instructorId"`
	Active       bool       `json:"active"`
	Schedules    []Schedule `json:"groupSchedules"`
}

type Ticket struct {
	ID          string        `json:"id"`
	UserID      string        `json:"-"`
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

// Record accessors used by the repositories to assign ids.

func (e *Exam) Key() *string       { return &e.ID }
func (s *Submission) Key() *string { return &s.ID }
func (p *Post) Key() *string       { return &p.ID }
func (g *Group) Key() *string      { return &g.ID }
func (t *Ticket) Key() *string     { return &t.ID }
func (r *Resource) Key() *string   { return &r.ID }
