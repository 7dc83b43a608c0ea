package votes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists vote toggle state and tallies. Toggle state lives in
// per-(user, idea, vote_type) rows so that toggles are idempotent per
// request and reversible; the counters live in a per-idea tally row.
type Repository interface {
	Toggle(ctx context.Context, userID, ideaID uuid.UUID, vt VoteType) (*ToggleResult, error)
	GetTally(ctx context.Context, ideaID uuid.UUID) (*Tally, error)
	UserVotes(ctx context.Context, userID, ideaID uuid.UUID) ([]VoteType, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed vote Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func counterColumn(vt VoteType) (string, error) {
	switch vt {
	case VoteDislike:
		return "dislike_count", nil
	case VoteUse:
		return "use_count", nil
	case VotePay:
		return "pay_count", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVoteType, vt)
	}
}

// Toggle flips the user's vote of the given type and adjusts the matching
// counter by exactly one, inside a single transaction. The insert's
// ON CONFLICT DO NOTHING decides on-vs-off, so a double-submit of the same
// request cannot move the counter twice in the same direction.
func (r *postgresRepository) Toggle(ctx context.Context, userID, ideaID uuid.UUID, vt VoteType) (*ToggleResult, error) {
	col, err := counterColumn(vt)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning vote toggle: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO idea_votes (user_id, idea_id, vote_type)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, idea_id, vote_type) DO NOTHING`,
		userID, ideaID, vt)
	if err != nil {
		return nil, fmt.Errorf("inserting vote row: %w", err)
	}

	on := tag.RowsAffected() > 0
	if on {
		_, err = tx.Exec(ctx,
			`UPDATE idea_vote_tallies
			 SET `+col+` = `+col+` + 1, updated_at = NOW()
			 WHERE idea_id = $1`, ideaID)
		if err != nil {
			return nil, fmt.Errorf("incrementing %s: %w", col, err)
		}
	} else {
		tag, err = tx.Exec(ctx,
			`DELETE FROM idea_votes
			 WHERE user_id = $1 AND idea_id = $2 AND vote_type = $3`,
			userID, ideaID, vt)
		if err != nil {
			return nil, fmt.Errorf("deleting vote row: %w", err)
		}
		if tag.RowsAffected() > 0 {
			_, err = tx.Exec(ctx,
				`UPDATE idea_vote_tallies
				 SET `+col+` = GREATEST(`+col+` - 1, 0), updated_at = NOW()
				 WHERE idea_id = $1`, ideaID)
			if err != nil {
				return nil, fmt.Errorf("decrementing %s: %w", col, err)
			}
		}
	}

	tally := Tally{IdeaID: ideaID}
	err = tx.QueryRow(ctx,
		`SELECT dislike_count, use_count, pay_count
		 FROM idea_vote_tallies WHERE idea_id = $1`, ideaID,
	).Scan(&tally.DislikeCount, &tally.UseCount, &tally.PayCount)
	if err != nil {
		return nil, fmt.Errorf("reading tally: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing vote toggle: %w", err)
	}

	return &ToggleResult{VoteType: vt, On: on, Tally: tally}, nil
}

// GetTally returns the idea's tally row, or nil if the idea has none.
func (r *postgresRepository) GetTally(ctx context.Context, ideaID uuid.UUID) (*Tally, error) {
	tally := Tally{IdeaID: ideaID}
	err := r.pool.QueryRow(ctx,
		`SELECT dislike_count, use_count, pay_count
		 FROM idea_vote_tallies WHERE idea_id = $1`, ideaID,
	).Scan(&tally.DislikeCount, &tally.UseCount, &tally.PayCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying tally: %w", err)
	}
	return &tally, nil
}

// UserVotes returns the vote types the user currently has on for the idea.
func (r *postgresRepository) UserVotes(ctx context.Context, userID, ideaID uuid.UUID) ([]VoteType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT vote_type FROM idea_votes
		 WHERE user_id = $1 AND idea_id = $2
		 ORDER BY vote_type`, userID, ideaID)
	if err != nil {
		return nil, fmt.Errorf("querying user votes: %w", err)
	}
	defer rows.Close()

	var types []VoteType
	for rows.Next() {
		var vt VoteType
		if err := rows.Scan(&vt); err != nil {
			return nil, fmt.Errorf("scanning vote type: %w", err)
		}
		types = append(types, vt)
	}
	return types, rows.Err()
}
