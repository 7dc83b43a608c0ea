package ideas

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, idea *Idea) error
	GetByID(ctx context.Context, id uuid.UUID) (*Idea, error)
	Feed(ctx context.Context, sort string, limit, offset int) ([]*FeedItem, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, idea *Idea) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Create inserts the idea and its zero tally row in one transaction, so
// every idea always has a tally to aggregate against.
func (r *postgresRepository) Create(ctx context.Context, idea *Idea) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ideas (id, owner_user_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		idea.ID, idea.OwnerUserID, idea.Title, idea.Description, idea.CreatedAt, idea.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting idea: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO idea_vote_tallies (idea_id, dislike_count, use_count, pay_count)
		VALUES ($1, 0, 0, 0)`,
		idea.ID)
	if err != nil {
		return fmt.Errorf("inserting tally row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing idea insert: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Idea, error) {
	query := `
		SELECT id, owner_user_id, title, description, created_at, updated_at, deleted_at
		FROM ideas
		WHERE id = $1 AND deleted_at IS NULL`

	idea := &Idea{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&idea.ID, &idea.OwnerUserID, &idea.Title, &idea.Description,
		&idea.CreatedAt, &idea.UpdatedAt, &idea.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying idea by id: %w", err)
	}
	return idea, nil
}

func (r *postgresRepository) Feed(ctx context.Context, sort string, limit, offset int) ([]*FeedItem, error) {
	orderBy := "i.created_at DESC"
	if sort == SortTop {
		orderBy = "(t.use_count + t.pay_count - t.dislike_count) DESC, i.created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.owner_user_id, i.title, i.description, i.created_at, i.updated_at,
		       u.display_name,
		       t.dislike_count, t.use_count, t.pay_count,
		       (SELECT COUNT(*) FROM comments c WHERE c.idea_id = i.id AND c.deleted_at IS NULL)
		FROM ideas i
		JOIN idea_vote_tallies t ON t.idea_id = i.id
		JOIN users u ON u.id = i.owner_user_id
		WHERE i.deleted_at IS NULL
		ORDER BY %s
		LIMIT $1 OFFSET $2`, orderBy)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying idea feed: %w", err)
	}
	defer rows.Close()

	var items []*FeedItem
	for rows.Next() {
		item := &FeedItem{}
		err := rows.Scan(
			&item.ID, &item.OwnerUserID, &item.Title, &item.Description,
			&item.CreatedAt, &item.UpdatedAt,
			&item.AuthorName,
			&item.Tally.DislikeCount, &item.Tally.UseCount, &item.Tally.PayCount,
			&item.CommentCount)
		if err != nil {
			return nil, fmt.Errorf("scanning feed row: %w", err)
		}
		item.Tally.IdeaID = item.ID
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ideas WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting ideas: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) Update(ctx context.Context, idea *Idea) error {
	query := `
		UPDATE ideas
		SET title = $2, description = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, idea.ID, idea.Title, idea.Description, idea.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating idea: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("idea not found or already deleted")
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE ideas SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft deleting idea: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("idea not found or already deleted")
	}
	return nil
}
