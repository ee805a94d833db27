package health

import (
	"net/http"
	"time"

	"github.com/graphicode-dev/classroom/internal"
	"github.com/graphicode-dev/classroom/internal/infrastructure/json"
)

// Subscribers reports how many feed streams are open.
type Subscribers interface {
	Len() int
}

type Handler struct {
	startedAt   time.Time
	subscribers Subscribers
}

func NewHandler(subscribers Subscribers) *Handler {
	return &Handler{startedAt: time.Now(), subscribers: subscribers}
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	data := healthResponse{
		Status:      "ok",
		Version:     internal.PackageVersion,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      time.Since(h.startedAt).Round(time.Second).String(),
		Subscribers: h.subscribers.Len(),
	}
	json.Write(w, http.StatusOK, data)
}
