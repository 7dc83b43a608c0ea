package credits

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository mimics the storage-level conditional updates in memory.
type fakeRepository struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*Record
	today   time.Time
	failAll bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		rows:  make(map[uuid.UUID]*Record),
		today: day("2026-08-28"),
	}
}

func (f *fakeRepository) seed(userID uuid.UUID, plan Plan, used int, lastReset time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[userID] = &Record{UserID: userID, Plan: plan, UsedToday: used, LastResetDate: lastReset}
}

func (f *fakeRepository) GetOrCreate(_ context.Context, userID uuid.UUID) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, &StorageError{Op: "fetch", Err: errors.New("connection refused")}
	}
	rec, ok := f.rows[userID]
	if !ok {
		rec = &Record{UserID: userID, Plan: PlanFree, LastResetDate: f.today}
		f.rows[userID] = rec
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeRepository) ResetIfStale(_ context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return false, &StorageError{Op: "reset", Err: errors.New("connection refused")}
	}
	rec, ok := f.rows[userID]
	if !ok || !rec.LastResetDate.Before(f.today) {
		return false, nil
	}
	rec.UsedToday = 0
	rec.LastResetDate = f.today
	return true, nil
}

func (f *fakeRepository) Deduct(_ context.Context, userID uuid.UUID, amount, allotment int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.rows[userID]
	if !ok {
		return false, nil
	}
	if rec.UsedToday+amount > allotment {
		return false, nil
	}
	rec.UsedToday += amount
	return true, nil
}

func (f *fakeRepository) DeductUnlimited(_ context.Context, userID uuid.UUID, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.rows[userID]; ok {
		rec.UsedToday += amount
	}
	return nil
}

func (f *fakeRepository) SetPlan(_ context.Context, userID uuid.UUID, plan Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.rows[userID]
	if !ok {
		rec = &Record{UserID: userID, LastResetDate: f.today}
		f.rows[userID] = rec
	}
	rec.Plan = plan
	rec.UsedToday = 0
	rec.LastResetDate = f.today
	return nil
}

func TestBalance_NewUserDefaultsToFree(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	b, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, PlanFree, b.Plan)
	assert.Equal(t, 10, b.DailyAllotment)
	assert.Equal(t, 0, b.UsedToday)
	assert.Equal(t, 10, b.Remaining)
}

func TestBalance_StaleRecordResetsFirst(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	repo.seed(userID, PlanStarter, 80, day("2026-08-27"))

	b, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 0, b.UsedToday)
	assert.Equal(t, 100, b.Remaining)
}

func TestDeduct_SucceedsWithinAllotment(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	repo.seed(userID, PlanStarter, 95, day("2026-08-28"))

	b, err := svc.Deduct(context.Background(), userID, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, b.UsedToday)
	assert.Equal(t, 0, b.Remaining)

	// Allotment now exhausted
	_, err = svc.Deduct(context.Background(), userID, 1)
	ie, ok := IsInsufficient(err)
	require.True(t, ok)
	assert.Equal(t, 1, ie.Required)
	assert.Equal(t, 0, ie.Remaining)
}

func TestDeduct_InsufficientReportsShortfall(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	repo.seed(userID, PlanStarter, 95, day("2026-08-28"))

	_, err := svc.Deduct(context.Background(), userID, 10)
	ie, ok := IsInsufficient(err)
	require.True(t, ok)
	assert.Equal(t, 10, ie.Required)
	assert.Equal(t, 5, ie.Remaining)
	assert.Equal(t, 5, ie.Shortfall())

	// Usage unchanged after a refused deduction
	b, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 95, b.UsedToday)
}

func TestDeduct_UnlimitedAlwaysSucceeds(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	repo.seed(userID, PlanOperator, 100000, day("2026-08-28"))

	b, err := svc.Deduct(context.Background(), userID, 500)
	require.NoError(t, err)
	assert.True(t, b.Unlimited)
	assert.Equal(t, 100500, b.UsedToday)
}

func TestDeduct_StaleQuotaRefreshesBeforeCheck(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	repo.seed(userID, PlanFree, 10, day("2026-08-27"))

	// Yesterday's exhausted quota must not block today's spend
	b, err := svc.Deduct(context.Background(), userID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, b.UsedToday)
	assert.Equal(t, 7, b.Remaining)
}

func TestDeduct_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, err := svc.Deduct(context.Background(), uuid.New(), 0)
	require.Error(t, err)
	_, err = svc.Deduct(context.Background(), uuid.New(), -5)
	require.Error(t, err)
}

func TestDeduct_StorageErrorPropagates(t *testing.T) {
	repo := newFakeRepository()
	repo.failAll = true
	svc := NewService(repo)

	_, err := svc.Deduct(context.Background(), uuid.New(), 1)
	var se *StorageError
	require.ErrorAs(t, err, &se)
}

func TestSetPlan_ResetsUsageMidDay(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	userID := uuid.New()
	repo.seed(userID, PlanFree, 3, day("2026-08-28"))

	b, err := svc.SetPlan(context.Background(), userID, PlanBuilder)
	require.NoError(t, err)

	assert.Equal(t, PlanBuilder, b.Plan)
	assert.Equal(t, 0, b.UsedToday)
	assert.Equal(t, 250, b.DailyAllotment)
}

func TestSetPlan_RejectsUnknownTier(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, err := svc.SetPlan(context.Background(), uuid.New(), Plan("platinum"))
	assert.ErrorIs(t, err, ErrInvalidPlan)
}
