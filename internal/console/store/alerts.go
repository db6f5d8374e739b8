package store

import "sync"

// AlertKind distinguishes notification severities.
type AlertKind string

const (
	AlertError   AlertKind = "error"
	AlertSuccess AlertKind = "success"
)

// Alert is one user-facing notification.
type Alert struct {
	Kind    AlertKind
	Message string
}

// AlertsStore collects notifications for the view layer to render and drain.
type AlertsStore struct {
	mu     sync.Mutex
	alerts []Alert
}

// NewAlertsStore creates an empty alerts store.
func NewAlertsStore() *AlertsStore {
	return &AlertsStore{}
}

// Error records an error notification.
func (s *AlertsStore) Error(message string) {
	s.push(Alert{Kind: AlertError, Message: message})
}

// Success records a success notification.
func (s *AlertsStore) Success(message string) {
	s.push(Alert{Kind: AlertSuccess, Message: message})
}

func (s *AlertsStore) push(alert Alert) {
	s.mu.Lock()
	s.alerts = append(s.alerts, alert)
	s.mu.Unlock()
}

// All returns a snapshot of the pending alerts.
func (s *AlertsStore) All() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Alert(nil), s.alerts...)
}

// Drain returns the pending alerts and clears the queue.
func (s *AlertsStore) Drain() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	drained := s.alerts
	s.alerts = nil
	return drained
}
