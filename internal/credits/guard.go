package credits

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mvo-platform/mvo/internal/events"
	"github.com/mvo-platform/mvo/internal/metrics"
)

// Authorization is the outcome of a credit-gated request. Remaining is -1
// when the plan is unlimited.
type Authorization struct {
	Granted   bool `json:"granted"`
	Required  int  `json:"required"`
	Remaining int  `json:"remaining"`
}

// Guard gates caller-supplied actions behind a credit cost.
type Guard struct {
	ledger    *Service
	publisher *events.Publisher
}

// NewGuard creates a Guard. publisher may be nil; spend events are then
// skipped.
func NewGuard(ledger *Service, publisher *events.Publisher) *Guard {
	return &Guard{ledger: ledger, publisher: publisher}
}

// Authorize loads and refreshes the caller's ledger, deducts cost, and on
// success invokes action. On insufficient funds the action is never invoked
// and the returned Authorization carries the required cost and remaining
// balance so the caller can render an upgrade prompt.
//
// Credits are not refunded if action fails after the deduction committed:
// deduction is final. Callers needing retry must obtain fresh authorization.
func (g *Guard) Authorize(ctx context.Context, userID uuid.UUID, cost int, actionName string, action func(context.Context) error) (*Authorization, error) {
	balance, err := g.ledger.Deduct(ctx, userID, cost)
	if err != nil {
		if ie, ok := IsInsufficient(err); ok {
			metrics.CreditRefusalsTotal.Inc()
			slog.Info("credit authorization refused",
				"user_id", userID, "action", actionName,
				"required", ie.Required, "remaining", ie.Remaining)
			return &Authorization{Granted: false, Required: cost, Remaining: ie.Remaining}, nil
		}
		return nil, err
	}

	metrics.CreditsSpentTotal.Add(float64(cost))
	g.publishSpend(ctx, userID, actionName, cost, balance.Remaining)

	auth := &Authorization{Granted: true, Required: cost, Remaining: balance.Remaining}

	if err := action(ctx); err != nil {
		// Spent credits stay spent; surface the action's failure as-is.
		return auth, err
	}
	return auth, nil
}

func (g *Guard) publishSpend(ctx context.Context, userID uuid.UUID, actionName string, cost, remaining int) {
	if g.publisher == nil {
		return
	}
	ev := events.CreditEvent{
		UserID:    userID,
		Action:    actionName,
		Cost:      cost,
		Remaining: remaining,
		Timestamp: time.Now().UTC(),
	}
	if err := g.publisher.PublishCreditEvent(ctx, ev); err != nil {
		slog.Warn("publishing credit event", "error", err, "user_id", userID)
	}
}
