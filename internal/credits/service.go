package credits

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Service is the source of truth for a user's remaining daily allowance.
type Service struct {
	repo Repository
}

// NewService creates a ledger Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Balance returns the user's current balance, resetting the daily quota
// first if the stored reset date is stale.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	if _, err := s.repo.ResetIfStale(ctx, userID); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	b := BalanceOf(*rec)
	return &b, nil
}

// Deduct charges amount against the user's daily allotment and returns the
// post-deduction balance. Unlimited plans succeed unconditionally; limited
// plans fail with InsufficientCreditsError when the remaining allowance
// cannot cover amount. The check-and-decrement is a single conditional
// update at the storage layer, never a read-then-write from here.
func (s *Service) Deduct(ctx context.Context, userID uuid.UUID, amount int) (*Balance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}

	if _, err := s.repo.ResetIfStale(ctx, userID); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if rec.Plan.IsUnlimited() {
		if err := s.repo.DeductUnlimited(ctx, userID, amount); err != nil {
			return nil, err
		}
		rec.UsedToday += amount
		b := BalanceOf(*rec)
		return &b, nil
	}

	allotment := rec.Plan.DailyAllotment()
	ok, err := s.repo.Deduct(ctx, userID, amount, allotment)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Re-read for an accurate remaining figure; another device may
		// have spent between our read and the conditional update.
		if fresh, ferr := s.repo.GetOrCreate(ctx, userID); ferr == nil {
			rec = fresh
		}
		remaining := allotment - rec.UsedToday
		if remaining < 0 {
			remaining = 0
		}
		return nil, &InsufficientCreditsError{Required: amount, Remaining: remaining}
	}

	rec.UsedToday += amount
	b := BalanceOf(*rec)
	return &b, nil
}

// SetPlan changes the user's tier and resets today's usage.
func (s *Service) SetPlan(ctx context.Context, userID uuid.UUID, plan Plan) (*Balance, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}

	if err := s.repo.SetPlan(ctx, userID, plan); err != nil {
		return nil, err
	}

	slog.Info("plan changed", "user_id", userID, "plan", plan)

	rec, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	b := BalanceOf(*rec)
	return &b, nil
}
