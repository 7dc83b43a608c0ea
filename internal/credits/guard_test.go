package credits

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_GrantsAndRunsAction(t *testing.T) {
	repo := newFakeRepository()
	guard := NewGuard(NewService(repo), nil)
	userID := uuid.New()
	repo.seed(userID, PlanStarter, 95, day("2026-08-28"))

	ran := false
	auth, err := guard.Authorize(context.Background(), userID, 5, "ai_validation", func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)

	assert.True(t, ran)
	assert.True(t, auth.Granted)
	assert.Equal(t, 5, auth.Required)
	assert.Equal(t, 0, auth.Remaining)
}

func TestAuthorize_RefusesWithoutRunningAction(t *testing.T) {
	repo := newFakeRepository()
	guard := NewGuard(NewService(repo), nil)
	userID := uuid.New()
	repo.seed(userID, PlanStarter, 95, day("2026-08-28"))

	ran := false
	auth, err := guard.Authorize(context.Background(), userID, 10, "ai_validation", func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)

	assert.False(t, ran, "action must not run on refusal")
	assert.False(t, auth.Granted)
	assert.Equal(t, 10, auth.Required)
	assert.Equal(t, 5, auth.Remaining)

	// Usage unchanged
	b, err := NewService(repo).Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 95, b.UsedToday)
}

func TestAuthorize_NoRefundOnActionFailure(t *testing.T) {
	repo := newFakeRepository()
	guard := NewGuard(NewService(repo), nil)
	userID := uuid.New()
	repo.seed(userID, PlanStarter, 0, day("2026-08-28"))

	actionErr := errors.New("downstream failed")
	auth, err := guard.Authorize(context.Background(), userID, 5, "ai_validation", func(context.Context) error {
		return actionErr
	})

	assert.ErrorIs(t, err, actionErr)
	require.NotNil(t, auth)
	assert.True(t, auth.Granted)

	// Deduction is final once committed
	b, berr := NewService(repo).Balance(context.Background(), userID)
	require.NoError(t, berr)
	assert.Equal(t, 5, b.UsedToday)
}

func TestAuthorize_UnlimitedPlan(t *testing.T) {
	repo := newFakeRepository()
	guard := NewGuard(NewService(repo), nil)
	userID := uuid.New()
	repo.seed(userID, PlanOperator, 999999, day("2026-08-28"))

	auth, err := guard.Authorize(context.Background(), userID, 25, "deep_research", func(context.Context) error {
		return nil
	})
	require.NoError(t, err)

	assert.True(t, auth.Granted)
	assert.Equal(t, Unlimited, auth.Remaining)
}

func TestAuthorize_SequentialSpendExhaustsQuota(t *testing.T) {
	repo := newFakeRepository()
	guard := NewGuard(NewService(repo), nil)
	userID := uuid.New()
	repo.seed(userID, PlanFree, 0, day("2026-08-28"))

	granted := 0
	for i := 0; i < 4; i++ {
		auth, err := guard.Authorize(context.Background(), userID, 3, "ai_validation", func(context.Context) error { return nil })
		require.NoError(t, err)
		if auth.Granted {
			granted++
		}
	}

	// free allotment is 10; only three 3-credit spends fit
	assert.Equal(t, 3, granted)
}

func TestAuthorize_StorageErrorIsNotARefusal(t *testing.T) {
	repo := newFakeRepository()
	repo.failAll = true
	guard := NewGuard(NewService(repo), nil)

	auth, err := guard.Authorize(context.Background(), uuid.New(), 5, "ai_validation", func(context.Context) error {
		t.Fatal("action must not run when storage is down")
		return nil
	})

	assert.Nil(t, auth)
	var se *StorageError
	require.ErrorAs(t, err, &se)
}
