package models

import "time"

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

type HealthResponse struct {
	Status    HealthStatus       `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
	Services  map[string]Service `json:"services"`
	Version   string             `json:"version"`
	Uptime    time.Duration      `json:"uptime"`
}

type Service struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked time.Time    `json:"last_checked"`
}

type ReadinessResponse struct {
	Ready     bool             `json:"ready"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthResponse creates a health response in healthy state
func NewHealthResponse(version string, uptime time.Duration) *HealthResponse {
	return &HealthResponse{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Services:  make(map[string]Service),
		Version:   version,
		Uptime:    uptime,
	}
}

// AddService adds a service status and updates the overall status
func (h *HealthResponse) AddService(name string, status HealthStatus, message string) {
	h.Services[name] = Service{
		Status:      status,
		Message:     message,
		LastChecked: time.Now(),
	}

	if status == HealthStatusUnhealthy {
		h.Status = HealthStatusUnhealthy
	} else if status == HealthStatusDegraded && h.Status == HealthStatusHealthy {
		h.Status = HealthStatusDegraded
	}
}

// NewReadinessResponse creates a readiness response in ready state
func NewReadinessResponse() *ReadinessResponse {
	return &ReadinessResponse{
		Ready:     true,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check),
	}
}

// AddCheck adds a readiness check and updates overall readiness
func (r *ReadinessResponse) AddCheck(name string, status bool, message string) {
	r.Checks[name] = Check{
		Status:  status,
		Message: message,
	}

	if !status {
		r.Ready = false
	}
}
