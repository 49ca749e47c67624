package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketAnswered   EventType = "ticket_answered"
	EventFeedbackRecorded EventType = "feedback_recorded"
	EventRatingRecorded   EventType = "rating_recorded"
)

// Event represents a domain event emitted by the dialog core.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Code    string `json:"code"`
	Problem string `json:"problem"`
}

// TicketAnsweredPayload payload.
type TicketAnsweredPayload struct {
	Code      string `json:"code"`
	ManagerID int64  `json:"manager_id"`
}

// FeedbackRecordedPayload payload.
type FeedbackRecordedPayload struct {
	Description string `json:"description"`
	Count       int64  `json:"count"`
	Created     bool   `json:"created"`
}

// RatingRecordedPayload payload.
type RatingRecordedPayload struct {
	Score int `json:"score"`
}
