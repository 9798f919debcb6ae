package health

import "time"

// Status is the overall service health classification.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// Report describes the poller's health at a point in time.
type Report struct {
	Status        Status    `json:"status"`
	Mode          string    `json:"mode"`
	RetryCount    int       `json:"retryCount"`
	Attempts      uint64    `json:"attempts"`
	LastSuccessAt time.Time `json:"lastSuccessAt,omitzero"`
	LastFailure   string    `json:"lastFailure,omitempty"`
	SnapshotAge   string    `json:"snapshotAge,omitempty"`
}
