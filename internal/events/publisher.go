package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher provides typed methods for publishing events to NATS JetStream.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishCreditEvent publishes a credit-spend event.
func (p *Publisher) PublishCreditEvent(ctx context.Context, ev CreditEvent) error {
	return p.publish(ctx, SubjectCreditEvent, ev)
}

// PublishVoteEvent publishes a vote toggle event.
func (p *Publisher) PublishVoteEvent(ctx context.Context, ev VoteEvent) error {
	return p.publish(ctx, SubjectVoteEvent, ev)
}

// PublishAnalysisTask publishes an analysis task for downstream workers.
func (p *Publisher) PublishAnalysisTask(ctx context.Context, task AnalysisTask) error {
	return p.publish(ctx, SubjectAnalysisTask, task)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
