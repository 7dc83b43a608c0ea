package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan_Known(t *testing.T) {
	for _, s := range []string{"free", "starter", "builder", "operator"} {
		p, err := ParsePlan(s)
		require.NoError(t, err)
		assert.Equal(t, Plan(s), p)
	}
}

func TestParsePlan_Unknown(t *testing.T) {
	_, err := ParsePlan("platinum")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestParsePlan_Empty(t *testing.T) {
	_, err := ParsePlan("")
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestDailyAllotment(t *testing.T) {
	assert.Equal(t, 10, PlanFree.DailyAllotment())
	assert.Equal(t, 100, PlanStarter.DailyAllotment())
	assert.Equal(t, 250, PlanBuilder.DailyAllotment())
	assert.Equal(t, Unlimited, PlanOperator.DailyAllotment())
}

func TestIsUnlimited(t *testing.T) {
	assert.False(t, PlanFree.IsUnlimited())
	assert.False(t, PlanStarter.IsUnlimited())
	assert.False(t, PlanBuilder.IsUnlimited())
	assert.True(t, PlanOperator.IsUnlimited())
}

func TestUnknownPlan_FallsBackToFreeAllotment(t *testing.T) {
	assert.Equal(t, PlanFree.DailyAllotment(), Plan("bogus").DailyAllotment())
	assert.False(t, Plan("bogus").Valid())
}
