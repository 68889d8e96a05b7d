package dto

// StatsResponse holds platform-wide counters
type StatsResponse struct {
	Users       int64 `json:"users" example:"340"`
	Messages    int64 `json:"messages" example:"1523"`
	Discussions int64 `json:"discussions" example:"42"`
	Resources   int64 `json:"resources" example:"118"`
	Projects    int64 `json:"projects" example:"23"`
}

// HealthResponse reports the state of each backing service
type HealthResponse struct {
	Status   string            `json:"status" example:"ok"`
	Services map[string]string `json:"services"`
}
