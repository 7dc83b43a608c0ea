package activity

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mvo-platform/mvo/internal/events"
)

// Consumer listens on the platform event subjects and persists activity
// entries to the database.
type Consumer struct {
	repo        *Repository
	consumerMgr *events.ConsumerManager
}

// NewConsumer creates a new activity event Consumer.
func NewConsumer(repo *Repository, consumerMgr *events.ConsumerManager) *Consumer {
	return &Consumer{
		repo:        repo,
		consumerMgr: consumerMgr,
	}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, events.StreamEvents, "activity-persister", "mvo.events.>")
	if err != nil {
		return err
	}

	slog.Info("activity consumer started", "consumer", "activity-persister")

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(events.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("activity consumer: fetching events", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleEvent(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) handleEvent(ctx context.Context, msg jetstream.Msg) {
	var entry *Entry

	switch msg.Subject() {
	case events.SubjectCreditEvent:
		var ev events.CreditEvent
		if err := json.Unmarshal(msg.Data(), &ev); err != nil {
			slog.Error("activity consumer: unmarshaling credit event", "error", err)
			_ = msg.Nak()
			return
		}
		entry = convertCreditEvent(ev)
	case events.SubjectVoteEvent:
		var ev events.VoteEvent
		if err := json.Unmarshal(msg.Data(), &ev); err != nil {
			slog.Error("activity consumer: unmarshaling vote event", "error", err)
			_ = msg.Nak()
			return
		}
		entry = convertVoteEvent(ev)
	default:
		// Unknown subject on the events stream; drop it.
		_ = msg.Ack()
		return
	}

	if err := c.repo.Insert(ctx, entry); err != nil {
		slog.Error("activity consumer: persisting entry", "error", err, "event_type", entry.EventType)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()

	slog.Debug("activity consumer: persisted event",
		"event_type", entry.EventType,
		"user_id", entry.UserID,
	)
}

// convertCreditEvent maps a credit spend event onto an activity entry.
func convertCreditEvent(ev events.CreditEvent) *Entry {
	entry := &Entry{
		ID:        uuid.New(),
		UserID:    ev.UserID,
		EventType: EventCreditSpend,
		CreatedAt: ev.Timestamp,
	}

	detailsMap := map[string]any{
		"action":    ev.Action,
		"cost":      ev.Cost,
		"remaining": ev.Remaining,
	}
	if data, err := json.Marshal(detailsMap); err == nil {
		entry.Details = data
	}

	return entry
}

// convertVoteEvent maps a vote toggle event onto an activity entry.
func convertVoteEvent(ev events.VoteEvent) *Entry {
	eventType := EventVoteOn
	if !ev.On {
		eventType = EventVoteOff
	}

	ideaID := ev.IdeaID
	entry := &Entry{
		ID:        uuid.New(),
		UserID:    ev.UserID,
		EventType: eventType,
		IdeaID:    &ideaID,
		CreatedAt: ev.Timestamp,
	}

	detailsMap := map[string]any{
		"vote_type": ev.VoteType,
	}
	if data, err := json.Marshal(detailsMap); err == nil {
		entry.Details = data
	}

	return entry
}
