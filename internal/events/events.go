package events

import (
	"time"

	"github.com/google/uuid"
)

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// Stream names.
const (
	StreamEvents = "MVO_EVENTS"
	StreamTasks  = "MVO_TASKS"
)

// Subject constants.
const (
	SubjectCreditEvent  = "mvo.events.credits"
	SubjectVoteEvent    = "mvo.events.votes"
	SubjectAnalysisTask = "mvo.tasks.analysis"
)

// CreditEvent is published after a successful credit deduction.
type CreditEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	Cost      int       `json:"cost"`
	Remaining int       `json:"remaining"`
	Timestamp time.Time `json:"timestamp"`
}

// VoteEvent is published after a vote toggle commits.
type VoteEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	IdeaID    uuid.UUID `json:"idea_id"`
	VoteType  string    `json:"vote_type"`
	On        bool      `json:"on"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisTask is published for downstream analysis workers.
type AnalysisTask struct {
	RequestID       uuid.UUID `json:"request_id"`
	IdeaID          uuid.UUID `json:"idea_id"`
	RequesterUserID uuid.UUID `json:"requester_user_id"`
	Kind            string    `json:"kind"`
	RequestedAt     time.Time `json:"requested_at"`
}
