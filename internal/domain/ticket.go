package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew              TicketStatus = "new"
	TicketStatusAnswered         TicketStatus = "answered"
	TicketStatusResolved         TicketStatus = "resolved"
	TicketStatusUnresolvedClosed TicketStatus = "unresolved_closed"
)

// CodeAlphabet is the character set ticket codes are drawn from.
const CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed length of a ticket code.
const CodeLength = 6

// Ticket is a trackable record of an unresolved problem.
type Ticket struct {
	Code      string
	UserID    int64
	Problem   string
	Status    TicketStatus
	CreatedAt time.Time
}

var allowedTicketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusNew:              {TicketStatusAnswered, TicketStatusUnresolvedClosed},
	TicketStatusAnswered:         {TicketStatusResolved, TicketStatusUnresolvedClosed},
	TicketStatusResolved:         {},
	TicketStatusUnresolvedClosed: {},
}

// ValidStatusTransition reports whether a ticket may move from current to next.
func ValidStatusTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTicketTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
