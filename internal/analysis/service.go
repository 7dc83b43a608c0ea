package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/config"
	"github.com/mvo-platform/mvo/internal/credits"
	"github.com/mvo-platform/mvo/internal/events"
	"github.com/mvo-platform/mvo/internal/metrics"
)

type Service struct {
	repo      Repository
	guard     *credits.Guard
	publisher *events.Publisher
	costs     config.CreditsConfig
}

// NewService creates an analysis Service. publisher may be nil; tasks are
// then persisted but not dispatched.
func NewService(repo Repository, guard *credits.Guard, publisher *events.Publisher, costs config.CreditsConfig) *Service {
	return &Service{
		repo:      repo,
		guard:     guard,
		publisher: publisher,
		costs:     costs,
	}
}

// Cost returns the credit price of a kind.
func (s *Service) Cost(kind Kind) int {
	switch kind {
	case KindDeepResearch:
		return s.costs.DeepResearchCost
	default:
		return s.costs.ValidationCost
	}
}

// Request deducts the kind's credit cost and, if granted, persists the
// request and dispatches it to the analysis task stream. A refusal comes
// back as an ungranted Authorization with a nil Request and nil error.
func (s *Service) Request(ctx context.Context, requesterID, ideaID uuid.UUID, kind Kind) (*Request, *credits.Authorization, error) {
	cost := s.Cost(kind)

	var created *Request
	auth, err := s.guard.Authorize(ctx, requesterID, cost, "analysis."+string(kind), func(ctx context.Context) error {
		req := &Request{
			ID:              uuid.New(),
			IdeaID:          ideaID,
			RequesterUserID: requesterID,
			Kind:            kind,
			Status:          StatusQueued,
			Cost:            cost,
			CreatedAt:       time.Now(),
		}
		if err := s.repo.Create(ctx, req); err != nil {
			return err
		}
		created = req

		s.dispatch(ctx, req)
		return nil
	})
	if err != nil {
		return nil, auth, err
	}
	if !auth.Granted {
		return nil, auth, nil
	}

	metrics.AnalysesRequestedTotal.WithLabelValues(string(kind)).Inc()
	return created, auth, nil
}

func (s *Service) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]*Request, error) {
	return s.repo.ListByIdea(ctx, ideaID)
}

func (s *Service) dispatch(ctx context.Context, req *Request) {
	if s.publisher == nil {
		return
	}
	task := events.AnalysisTask{
		RequestID:       req.ID,
		IdeaID:          req.IdeaID,
		RequesterUserID: req.RequesterUserID,
		Kind:            string(req.Kind),
		RequestedAt:     req.CreatedAt.UTC(),
	}
	if err := s.publisher.PublishAnalysisTask(ctx, task); err != nil {
		// The row is already queued; a sweeper can re-dispatch it later.
		slog.Warn("publishing analysis task", "error", err, "request_id", req.ID)
	}
}
