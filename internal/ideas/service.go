package ideas

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/votes"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateIdeaRequest) (*Idea, error) {
	now := time.Now()
	idea := &Idea{
		ID:          uuid.New(),
		OwnerUserID: ownerID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Idea, error) {
	return s.repo.GetByID(ctx, id)
}

// Feed returns a page of ideas with tallies, comment counts and derived
// vote metrics attached.
func (s *Service) Feed(ctx context.Context, params ListParams) ([]*FeedItem, int64, error) {
	offset := (params.Page - 1) * params.PageSize

	items, err := s.repo.Feed(ctx, params.Sort, params.PageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	for _, item := range items {
		item.Metrics = votes.ComputeMetrics(item.Tally, item.CommentCount)
	}

	return items, count, nil
}

func (s *Service) Update(ctx context.Context, idea *Idea, req *UpdateIdeaRequest) (*Idea, error) {
	if req.Title != nil {
		idea.Title = *req.Title
	}
	if req.Description != nil {
		idea.Description = *req.Description
	}
	idea.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
