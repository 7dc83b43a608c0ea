package comments

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, ideaID, authorID uuid.UUID, req *CreateCommentRequest) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		IdeaID:    ideaID,
		AuthorID:  authorID,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByIdea(ctx context.Context, ideaID uuid.UUID, params ListParams) ([]*Comment, int, error) {
	offset := (params.Page - 1) * params.PageSize

	comments, err := s.repo.ListByIdea(ctx, ideaID, params.PageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.CountByIdea(ctx, ideaID)
	if err != nil {
		return nil, 0, err
	}

	return comments, count, nil
}

// CountByIdea satisfies the comment-count dependency of the vote tally
// endpoint.
func (s *Service) CountByIdea(ctx context.Context, ideaID uuid.UUID) (int, error) {
	return s.repo.CountByIdea(ctx, ideaID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
