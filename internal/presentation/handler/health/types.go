package health

type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp"`
	Uptime      string `json:"uptime"`
	Subscribers int    `json:"subscribers"`
}
