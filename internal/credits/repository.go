package credits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the persistence boundary for the credit ledger. The
// conditional operations (Deduct, ResetIfStale) push their checks into a
// single storage-level update so that concurrent requests from multiple
// devices cannot over-spend the allotment.
type Repository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Record, error)
	ResetIfStale(ctx context.Context, userID uuid.UUID) (bool, error)
	Deduct(ctx context.Context, userID uuid.UUID, amount, allotment int) (bool, error)
	DeductUnlimited(ctx context.Context, userID uuid.UUID, amount int) error
	SetPlan(ctx context.Context, userID uuid.UUID, plan Plan) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed ledger Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// GetOrCreate returns the user's ledger row, creating a free-plan row with
// zero usage if none exists.
func (r *postgresRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*Record, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_credits (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, &StorageError{Op: "ensure ledger row", Err: err}
	}

	var rec Record
	err = r.pool.QueryRow(ctx,
		`SELECT user_id, plan, used_today, last_reset_date, updated_at
		 FROM user_credits WHERE user_id = $1`, userID,
	).Scan(&rec.UserID, &rec.Plan, &rec.UsedToday, &rec.LastResetDate, &rec.UpdatedAt)
	if err != nil {
		return nil, &StorageError{Op: "fetch ledger row", Err: err}
	}
	return &rec, nil
}

// ResetIfStale zeroes the daily usage if the stored reset date precedes the
// current calendar date. Returns true if a reset was performed.
func (r *postgresRepository) ResetIfStale(ctx context.Context, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_credits
		 SET used_today = 0,
		     last_reset_date = CURRENT_DATE,
		     updated_at = NOW()
		 WHERE user_id = $1 AND last_reset_date < CURRENT_DATE`, userID)
	if err != nil {
		return false, &StorageError{Op: "daily reset", Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

// Deduct atomically charges amount against the allotment. The balance check
// and the increment are one conditional UPDATE: two concurrent deductions
// can never both succeed past the cap. Returns false when the remaining
// allotment cannot cover amount.
func (r *postgresRepository) Deduct(ctx context.Context, userID uuid.UUID, amount, allotment int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_credits
		 SET used_today = used_today + $2,
		     updated_at = NOW()
		 WHERE user_id = $1 AND used_today + $2 <= $3`, userID, amount, allotment)
	if err != nil {
		return false, &StorageError{Op: "deduct", Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

// DeductUnlimited records usage for plans with no cap.
func (r *postgresRepository) DeductUnlimited(ctx context.Context, userID uuid.UUID, amount int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_credits
		 SET used_today = used_today + $2,
		     updated_at = NOW()
		 WHERE user_id = $1`, userID, amount)
	if err != nil {
		return &StorageError{Op: "deduct unlimited", Err: err}
	}
	return nil
}

// SetPlan upserts the user's tier and resets today's usage: a plan change
// always grants a fresh quota, regardless of time of day.
func (r *postgresRepository) SetPlan(ctx context.Context, userID uuid.UUID, plan Plan) error {
	if !plan.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_credits (user_id, plan)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE
		 SET plan = EXCLUDED.plan,
		     used_today = 0,
		     last_reset_date = CURRENT_DATE,
		     updated_at = NOW()`, userID, plan)
	if err != nil {
		return &StorageError{Op: "set plan", Err: err}
	}
	return nil
}
