package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry matches the activity_log table schema. One row per credit spend or
// vote toggle, written by the event consumer.
type Entry struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	EventType string          `json:"event_type"`
	IdeaID    *uuid.UUID      `json:"idea_id,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Event types recorded in the activity log.
const (
	EventCreditSpend = "credit_spend"
	EventVoteOn      = "vote_on"
	EventVoteOff     = "vote_off"
)

// ListParams holds pagination and filtering parameters for activity queries.
type ListParams struct {
	EventType string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// DefaultListParams returns sensible defaults.
func DefaultListParams() ListParams {
	return ListParams{
		Page:     1,
		PageSize: 20,
	}
}
