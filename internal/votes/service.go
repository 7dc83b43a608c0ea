package votes

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/events"
	"github.com/mvo-platform/mvo/internal/metrics"
)

// Service coordinates vote toggles and tally reads.
type Service struct {
	repo      Repository
	publisher *events.Publisher
}

// NewService creates a vote Service. publisher may be nil; vote events are
// then skipped.
func NewService(repo Repository, publisher *events.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Toggle flips the user's vote of the given type on the idea and returns
// the new state plus the updated tally.
func (s *Service) Toggle(ctx context.Context, userID, ideaID uuid.UUID, vt VoteType) (*ToggleResult, error) {
	if _, err := ParseVoteType(string(vt)); err != nil {
		return nil, err
	}

	result, err := s.repo.Toggle(ctx, userID, ideaID, vt)
	if err != nil {
		return nil, err
	}

	metrics.VotesToggledTotal.WithLabelValues(string(vt)).Inc()

	if s.publisher != nil {
		ev := events.VoteEvent{
			UserID:    userID,
			IdeaID:    ideaID,
			VoteType:  string(vt),
			On:        result.On,
			Timestamp: time.Now().UTC(),
		}
		if err := s.publisher.PublishVoteEvent(ctx, ev); err != nil {
			slog.Warn("publishing vote event", "error", err, "idea_id", ideaID)
		}
	}

	return result, nil
}

// Tally returns the idea's current tally; a missing row reads as all-zero.
func (s *Service) Tally(ctx context.Context, ideaID uuid.UUID) (*Tally, error) {
	tally, err := s.repo.GetTally(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if tally == nil {
		tally = &Tally{IdeaID: ideaID}
	}
	return tally, nil
}

// UserVotes returns the vote types the user currently has on for the idea.
func (s *Service) UserVotes(ctx context.Context, userID, ideaID uuid.UUID) ([]VoteType, error) {
	return s.repo.UserVotes(ctx, userID, ideaID)
}
