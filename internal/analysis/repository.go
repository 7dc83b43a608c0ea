package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, req *Request) error
	ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]*Request, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO analysis_requests (id, idea_id, requester_user_id, kind, status, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		req.ID, req.IdeaID, req.RequesterUserID, req.Kind, req.Status, req.Cost, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting analysis request: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]*Request, error) {
	query := `
		SELECT id, idea_id, requester_user_id, kind, status, cost, created_at
		FROM analysis_requests
		WHERE idea_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ideaID)
	if err != nil {
		return nil, fmt.Errorf("listing analysis requests: %w", err)
	}
	defer rows.Close()

	var reqs []*Request
	for rows.Next() {
		req := &Request{}
		err := rows.Scan(
			&req.ID, &req.IdeaID, &req.RequesterUserID,
			&req.Kind, &req.Status, &req.Cost, &req.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning analysis request row: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE analysis_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating analysis status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis request not found")
	}
	return nil
}
