package credits

import (
	"time"

	"github.com/google/uuid"
)

// Record matches the user_credits table schema. One row per user, created
// implicitly on the first balance check and never hard-deleted.
type Record struct {
	UserID        uuid.UUID `json:"user_id"`
	Plan          Plan      `json:"plan"`
	UsedToday     int       `json:"used_today"`
	LastResetDate time.Time `json:"last_reset_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Balance is the API response showing the user's current daily allowance.
// Remaining is -1 when the plan is unlimited.
type Balance struct {
	Plan           Plan `json:"plan"`
	DailyAllotment int  `json:"daily_allotment"`
	UsedToday      int  `json:"used_today"`
	Remaining      int  `json:"remaining"`
	Unlimited      bool `json:"unlimited"`
}

// BalanceOf derives the outward-facing balance from a ledger record.
func BalanceOf(rec Record) Balance {
	allotment := rec.Plan.DailyAllotment()
	b := Balance{
		Plan:           rec.Plan,
		DailyAllotment: allotment,
		UsedToday:      rec.UsedToday,
		Unlimited:      rec.Plan.IsUnlimited(),
	}
	if b.Unlimited {
		b.Remaining = Unlimited
		return b
	}
	b.Remaining = allotment - rec.UsedToday
	if b.Remaining < 0 {
		b.Remaining = 0
	}
	return b
}

// RefreshIfStale returns rec with the daily quota reset if its stored reset
// date precedes today (calendar date, no time-of-day). Calling it twice with
// the same today is the same as calling it once. It must run before any
// balance check is trusted.
func RefreshIfStale(rec Record, today time.Time) Record {
	if dateOf(rec.LastResetDate).Before(dateOf(today)) {
		rec.UsedToday = 0
		rec.LastResetDate = dateOf(today)
	}
	return rec
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
