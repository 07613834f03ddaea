package notification

import (
	"time"

	"vehicle-request-api/internal/model"

	"github.com/google/uuid"
)

// Event types published to sinks.
const (
	EventSubmitted  = "submitted"
	EventProgressed = "progressed"
	EventApproved   = "approved"
	EventRejected   = "rejected"
)

// Event is the JSON document published for every submission and decision.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	RequestID     uint      `json:"request_id"`
	TicketNumber  string    `json:"ticket_number"`
	DepartmentID  uint      `json:"department_id"`
	Level         int       `json:"level,omitempty"`
	Decision      string    `json:"decision,omitempty"`
	Status        string    `json:"status"`
	AwaitingLevel int       `json:"awaiting_level"`
	ActorID       *uint     `json:"actor_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent builds an event for req. actorID is nil for public submissions.
func NewEvent(eventType string, req *model.VehicleRequest, level int, decision string, awaitingLevel int, actorID *uint, now time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		RequestID:     req.ID,
		TicketNumber:  req.TicketNumber,
		DepartmentID:  req.DepartmentID,
		Level:         level,
		Decision:      decision,
		Status:        req.Status,
		AwaitingLevel: awaitingLevel,
		ActorID:       actorID,
		OccurredAt:    now,
	}
}

// DecisionEventType maps a decision outcome to its event type.
func DecisionEventType(status string) string {
	switch status {
	case model.StatusApproved:
		return EventApproved
	case model.StatusRejected:
		return EventRejected
	default:
		return EventProgressed
	}
}
