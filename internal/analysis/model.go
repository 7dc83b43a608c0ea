package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKind is returned for analysis kinds outside the catalog.
var ErrInvalidKind = errors.New("invalid analysis kind")

// Kind names an AI analysis product.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindDeepResearch Kind = "deep_research"
)

// ParseKind validates a raw kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindValidation, KindDeepResearch:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Request is a persisted analysis request. Workers pick it up off the task
// stream and move its status forward.
type Request struct {
	ID              uuid.UUID `json:"id"`
	IdeaID          uuid.UUID `json:"idea_id"`
	RequesterUserID uuid.UUID `json:"requester_user_id"`
	Kind            Kind      `json:"kind"`
	Status          string    `json:"status"`
	Cost            int       `json:"cost"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateAnalysisRequest struct {
	Kind string `json:"kind" validate:"required,oneof=validation deep_research"`
}
