package wizardmonitor

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event is one wizard notification as seen by the monitor.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`   // validation_failed | draft_saved | agent_created | ...
	Step      string    `json:"step"`   // optional
	Status    string    `json:"status"` // ok | error
	Detail    string    `json:"detail"` // optional
}

type Stats struct {
	TotalValidationFailures int64   `json:"total_validation_failures"`
	TotalDraftsSaved        int64   `json:"total_drafts_saved"`
	TotalAgentsCreated      int64   `json:"total_agents_created"`
	TotalAgentsUpdated      int64   `json:"total_agents_updated"`
	TotalErrors             int64   `json:"total_errors"`
	RecentEvents            []Event `json:"recent_events"`
}

// Monitor keeps counters plus a fixed-size ring of recent events.
type Monitor struct {
	// OnIncrement, when set, is called with the event kind after every Record.
	OnIncrement func(kind, status string)

	eventsMu sync.Mutex
	events   []Event
	idx      int
	count    int
	ttl      time.Duration
	now      func() time.Time

	totalValidationFailures int64
	totalDraftsSaved        int64
	totalAgentsCreated      int64
	totalAgentsUpdated      int64
	totalErrors             int64
}

func New(size int, ttl time.Duration) *Monitor {
	if size <= 0 {
		size = 200
	}
	return &Monitor{
		events: make([]Event, size),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *Monitor) Record(e Event) {
	e.Timestamp = m.now()
	if e.Status == "" {
		e.Status = "ok"
	}

	switch e.Kind {
	case "validation_failed":
		atomic.AddInt64(&m.totalValidationFailures, 1)
	case "draft_saved":
		atomic.AddInt64(&m.totalDraftsSaved, 1)
	case "agent_created":
		atomic.AddInt64(&m.totalAgentsCreated, 1)
	case "agent_updated":
		atomic.AddInt64(&m.totalAgentsUpdated, 1)
	}
	if e.Status == "error" {
		atomic.AddInt64(&m.totalErrors, 1)
	}
	if m.OnIncrement != nil {
		m.OnIncrement(e.Kind, e.Status)
	}

	m.eventsMu.Lock()
	m.events[m.idx] = e
	m.idx = (m.idx + 1) % len(m.events)
	if m.count < len(m.events) {
		m.count++
	}
	m.eventsMu.Unlock()
}

// GetStats returns counters and recent events oldest first. Events older
// than the TTL are skipped.
func (m *Monitor) GetStats() Stats {
	m.eventsMu.Lock()
	defer m.eventsMu.Unlock()

	var cutoff time.Time
	if m.ttl > 0 {
		cutoff = m.now().Add(-m.ttl)
	}
	res := make([]Event, 0, m.count)
	start := (m.idx - m.count) % len(m.events)
	if start < 0 {
		start += len(m.events)
	}
	for i := 0; i < m.count; i++ {
		e := m.events[(start+i)%len(m.events)]
		if !cutoff.IsZero() && e.Timestamp.Before(cutoff) {
			continue
		}
		res = append(res, e)
	}

	return Stats{
		TotalValidationFailures: atomic.LoadInt64(&m.totalValidationFailures),
		TotalDraftsSaved:        atomic.LoadInt64(&m.totalDraftsSaved),
		TotalAgentsCreated:      atomic.LoadInt64(&m.totalAgentsCreated),
		TotalAgentsUpdated:      atomic.LoadInt64(&m.totalAgentsUpdated),
		TotalErrors:             atomic.LoadInt64(&m.totalErrors),
		RecentEvents:            res,
	}
}
