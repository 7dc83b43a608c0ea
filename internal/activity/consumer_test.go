package activity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvo-platform/mvo/internal/events"
)

func TestConvertCreditEvent(t *testing.T) {
	userID := uuid.New()
	ts := time.Now().UTC()

	ev := events.CreditEvent{
		UserID:    userID,
		Action:    "analysis.validation",
		Cost:      5,
		Remaining: 95,
		Timestamp: ts,
	}

	entry := convertCreditEvent(ev)

	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, EventCreditSpend, entry.EventType)
	assert.Nil(t, entry.IdeaID)
	assert.Equal(t, ts, entry.CreatedAt)

	var details map[string]any
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, "analysis.validation", details["action"])
	assert.Equal(t, float64(5), details["cost"])
	assert.Equal(t, float64(95), details["remaining"])
}

func TestConvertVoteEvent_On(t *testing.T) {
	userID := uuid.New()
	ideaID := uuid.New()

	ev := events.VoteEvent{
		UserID:    userID,
		IdeaID:    ideaID,
		VoteType:  "pay",
		On:        true,
		Timestamp: time.Now().UTC(),
	}

	entry := convertVoteEvent(ev)

	assert.Equal(t, EventVoteOn, entry.EventType)
	require.NotNil(t, entry.IdeaID)
	assert.Equal(t, ideaID, *entry.IdeaID)

	var details map[string]any
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, "pay", details["vote_type"])
}

func TestConvertVoteEvent_Off(t *testing.T) {
	ev := events.VoteEvent{
		UserID:    uuid.New(),
		IdeaID:    uuid.New(),
		VoteType:  "dislike",
		On:        false,
		Timestamp: time.Now().UTC(),
	}

	entry := convertVoteEvent(ev)
	assert.Equal(t, EventVoteOff, entry.EventType)
}

func TestVoteEventRoundTrip(t *testing.T) {
	ev := events.VoteEvent{
		UserID:    uuid.New(),
		IdeaID:    uuid.New(),
		VoteType:  "use",
		On:        true,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded events.VoteEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ev, decoded)
}
