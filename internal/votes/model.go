package votes

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidVoteType signals a vote type outside the closed enumeration.
var ErrInvalidVoteType = errors.New("invalid vote type")

// VoteType is one of the three independent vote signals a user can place on
// an idea. A user may hold several types at once on the same idea; no
// exclusivity is enforced.
type VoteType string

const (
	VoteDislike VoteType = "dislike"
	VoteUse     VoteType = "use"
	VotePay     VoteType = "pay"
)

// AllVoteTypes lists the enumeration in ascending tie-break priority.
var AllVoteTypes = []VoteType{VoteDislike, VoteUse, VotePay}

// ParseVoteType validates s against the closed enumeration.
func ParseVoteType(s string) (VoteType, error) {
	switch vt := VoteType(s); vt {
	case VoteDislike, VoteUse, VotePay:
		return vt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVoteType, s)
	}
}

// Color returns the display color associated with the vote type.
func (v VoteType) Color() string {
	switch v {
	case VoteDislike:
		return "#ef4444"
	case VoteUse:
		return "#3b82f6"
	case VotePay:
		return "#22c55e"
	default:
		return "#9ca3af"
	}
}

// Tally matches the idea_vote_tallies table schema: three non-negative
// counters per idea, created all-zero with the idea.
type Tally struct {
	IdeaID       uuid.UUID `json:"idea_id"`
	DislikeCount int       `json:"dislike_count"`
	UseCount     int       `json:"use_count"`
	PayCount     int       `json:"pay_count"`
}

// Count returns the counter for the given vote type.
func (t Tally) Count(vt VoteType) int {
	switch vt {
	case VoteDislike:
		return t.DislikeCount
	case VoteUse:
		return t.UseCount
	case VotePay:
		return t.PayCount
	default:
		return 0
	}
}

// ToggleResult is the outcome of flipping a user's vote.
type ToggleResult struct {
	VoteType VoteType `json:"vote_type"`
	On       bool     `json:"on"`
	Tally    Tally    `json:"tally"`
}
