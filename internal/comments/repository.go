package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByIdea(ctx context.Context, ideaID uuid.UUID, limit, offset int) ([]*Comment, error)
	CountByIdea(ctx context.Context, ideaID uuid.UUID) (int, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (id, idea_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.IdeaID, comment.AuthorID, comment.Body, comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	query := `
		SELECT c.id, c.idea_id, c.author_id, u.display_name, c.body, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1 AND c.deleted_at IS NULL`

	comment := &Comment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID, &comment.IdeaID, &comment.AuthorID, &comment.AuthorName,
		&comment.Body, &comment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying comment by id: %w", err)
	}
	return comment, nil
}

func (r *postgresRepository) ListByIdea(ctx context.Context, ideaID uuid.UUID, limit, offset int) ([]*Comment, error) {
	query := `
		SELECT c.id, c.idea_id, c.author_id, u.display_name, c.body, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.idea_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.created_at ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, ideaID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID, &comment.IdeaID, &comment.AuthorID, &comment.AuthorName,
			&comment.Body, &comment.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *postgresRepository) CountByIdea(ctx context.Context, ideaID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE idea_id = $1 AND deleted_at IS NULL`,
		ideaID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting comments: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE comments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft deleting comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment not found or already deleted")
	}
	return nil
}
