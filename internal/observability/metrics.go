package observability

import (
	"sync"

	"github.com/lkn-labs/supportbot/internal/domain"
)

// Metrics provides basic in-memory counters for dialog activity.
type Metrics struct {
	mu          sync.Mutex
	transitions map[string]int64
	rejected    map[string]int64
	tickets     int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		transitions: make(map[string]int64),
		rejected:    make(map[string]int64),
	}
}

// RecordTransition counts an accepted state transition.
func (m *Metrics) RecordTransition(from, to domain.DialogState) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[string(from)+"|"+string(to)]++
}

// RecordRejection counts an event rejected for the current state.
func (m *Metrics) RecordRejection(state domain.DialogState) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[string(state)]++
}

// RecordTicketIssued counts an issued ticket.
func (m *Metrics) RecordTicketIssued() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets++
}

// TicketsIssued returns the issued-ticket counter.
func (m *Metrics) TicketsIssued() int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickets
}
