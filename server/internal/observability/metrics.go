package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects and aggregates metrics for date resolution requests.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64
	totalDuration atomic.Int64 // microseconds

	failures map[string]int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		failures: make(map[string]int64),
	}
}

// RecordRequest records a finished request. code is empty on success.
func (m *Metrics) RecordRequest(code string, duration time.Duration) {
	m.requestTotal.Add(1)
	m.totalDuration.Add(duration.Microseconds())
	if code == "" {
		return
	}
	m.requestFailed.Add(1)

	m.mu.Lock()
	m.failures[code]++
	m.mu.Unlock()
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	failures := make(map[string]int64, len(m.failures))
	for code, n := range m.failures {
		failures[code] = n
	}
	m.mu.Unlock()

	s := &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Failures:      failures,
	}
	if s.RequestTotal > 0 {
		s.AverageDurationUs = m.totalDuration.Load() / s.RequestTotal
	}
	return s
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal      int64            `json:"requestTotal"`
	RequestFailed     int64            `json:"requestFailed"`
	Failures          map[string]int64 `json:"failures"`
	AverageDurationUs int64            `json:"averageDurationUs"`
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
