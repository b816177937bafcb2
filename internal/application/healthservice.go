package application

import "time"

// Health statuses reported by HealthService.
const (
	HealthStarting = "starting"
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// StatusSource reports the outcome of the latest poll.
type StatusSource interface {
	Status() PollStatus
}

// HealthReport is the health view of a dashboard process.
type HealthReport struct {
	Status      string
	LastSuccess time.Time
	LastError   string
}

// HealthService derives process health from the poller's last outcome.
type HealthService struct {
	source StatusSource
}

// NewHealthService creates a new HealthService with the required dependencies.
func NewHealthService(source StatusSource) *HealthService {
	return &HealthService{source: source}
}

// Check returns the current health report. A failed fetch degrades health
// but never fails the process: the dashboard keeps serving stale data.
// Priority: degraded > starting > ok.
func (s *HealthService) Check() HealthReport {
	st := s.source.Status()

	report := HealthReport{
		Status:      HealthOK,
		LastSuccess: st.LastSuccess,
	}

	switch {
	case st.LastError != nil:
		report.Status = HealthDegraded
		report.LastError = st.LastError.Error()
	case st.LastSuccess.IsZero():
		report.Status = HealthStarting
	}

	return report
}
