package repository

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/graphicode-dev/classroom/internal/domain"
)

// Demo accounts of the local backend.
const (
	DemoStudentEmail    = "student@graphicode.dev"
	DemoInstructorEmail = "instructor@graphicode.dev"
	DemoPassword        = "secret"
)

func DemoUsers() []*domain.User {
	return []*domain.User{
		{ID: "user-student", Name: "Sara Adel", Email: DemoStudentEmail, Role: "student", Password: DemoPassword},
		{ID: "user-instructor", Name: "Omar Nabil", Email: DemoInstructorEmail, Role: "instructor", Password: DemoPassword},
	}
}

// Seed fills the stores with a small classroom. Times are relative to now so
// the upcoming exam stays upcoming.
func (r *Repositories) Seed(ctx context.Context, now time.Time) error {
	instructor := domain.User{ID: "user-instructor", Name: "Omar Nabil", Email: DemoInstructorEmail, Role: "instructor"}
	day := now.UTC().Truncate(24 * time.Hour)

	groups := []*domain.Group{
		{
			ID: "group-web", Name: "Web Foundations", CourseID: "course-web", InstructorID: instructor.ID, Active: true,
			Schedules: []domain.Schedule{{Day: "sunday", StartTime: "10:00", EndTime: "12:00", Room: "Lab 2"}},
		},
		{ID: "group-math", Name: "Discrete Math", CourseID: "course-math", InstructorID: instructor.ID, Active: false},
	}
	for _, g := range groups {
		if err := r.Groups.Create(ctx, g); err != nil {
			return errors.Wrapf(err, "seed group %s", g.ID)
		}
	}

	exams := []*domain.Exam{
		{
			ID: "exam-html", Title: "HTML Basics", Status: "finished", GroupID: "group-web",
			StartsAt: day.AddDate(0, 0, -7).Add(10 * time.Hour), EndsAt: day.AddDate(0, 0, -7).Add(11 * time.Hour), DurationMin: 60,
		},
		{
			ID: "exam-css", Title: "CSS Layout", Status: "upcoming", GroupID: "group-web",
			StartsAt: day.AddDate(0, 0, 3).Add(10 * time.Hour), EndsAt: day.AddDate(0, 0, 3).Add(11 * time.Hour), DurationMin: 45,
			Questions: []domain.Question{
				{ID: "q1", Prompt: "Which property creates a flex container?", Type: "choice", Choices: []string{"display", "position", "float"}},
				{ID: "q2", Prompt: "Explain the box model.", Type: "text"},
			},
		},
	}
	for _, e := range exams {
		if err := r.Exams.Create(ctx, e); err != nil {
			return errors.Wrapf(err, "seed exam %s", e.ID)
		}
	}

	post := &domain.Post{
		ID: "post-welcome", Author: instructor, Content: "Welcome to the new term!",
		Tags: []string{"announcement"}, Images: []domain.Attachment{}, Pinned: true, CreatedAt: day,
	}
	if err := r.Posts.Create(ctx, post); err != nil {
		return errors.Wrap(err, "seed post")
	}

	resource := &domain.Resource{
		ID: "resource-syllabus", Title: "Syllabus", Type: "pdf", Tags: []string{"syllabus"}, GroupID: "group-web",
		Public: true, CreatedAt: day,
		File: domain.Attachment{ID: "file-syllabus", Name: "syllabus.pdf", ContentType: "application/pdf", Size: 1024, URL: "/files/file-syllabus/syllabus.pdf"},
	}
	if err := r.Resources.Create(ctx, resource); err != nil {
		return errors.Wrap(err, "seed resource")
	}
	return nil
}
