package classroom

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/graphicode-dev/classroom/internal/requestconfig"
	"github.com/graphicode-dev/classroom/option"
)

type GroupService struct {
	Options []option.RequestOption
}

func NewGroupService(opts ...option.RequestOption) *GroupService {
	return &GroupService{opts}
}

func (r *GroupService) List(ctx context.Context, query GroupListParams, opts ...option.RequestOption) (*Page[Group], error) {
	opts = slices.Concat(r.Options, opts)

	res := &Page[Group]{}
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, "groups", query, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateSchedules replaces the weekly sessions of a group. Validation errors
// come back keyed like groupSchedules.0.startTime; see [FieldErrors].
func (r *GroupService) UpdateSchedules(ctx context.Context, id string, body GroupSchedulesParams, opts ...option.RequestOption) (*Group, error) {
	if id == "" {
		return nil, missing(ErrMissingIDParameter)
	}
	opts = slices.Concat(r.Options, []option.RequestOption{option.WithEnvelope("data")}, opts)

	res := &Group{}
	path := fmt.Sprintf("groups/%s/schedules", id)
	err := requestconfig.ExecuteNewRequest(ctx, http.MethodPut, path, body, res, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type GroupListParams struct {
	PageParams
	CourseID     string `query:"courseId,omitempty"`
	InstructorID string `query:"instructorId,omitempty"`
	Active       *bool  `query:"active,omitempty"`
}

type Schedule struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room,omitempty"`
}

type Group struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	CourseID     string     `json:"courseId"`
	InstructorID string     `json:"instructorId"`
	Active       bool       `json:"active"`
	Schedules    []Schedule `json:"groupSchedules"`
}

type GroupSchedulesParams struct {
	GroupSchedules []Schedule `json:"groupSchedules"`
}
