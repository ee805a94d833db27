package groups

import "github.com/graphicode-dev/classroom/internal/domain"

type updateSchedulesRequest struct {
	GroupSchedules []domain.Schedule `json:"groupSchedules" validate:"required,max=14,dive"`
}
