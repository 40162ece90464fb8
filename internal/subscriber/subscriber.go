// Package subscriber drives the pipeline from a Pub/Sub pull subscription.
package subscriber

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"

	"ftplake/internal/service/pipeline"
)

// Subscriber pulls trigger messages and runs the pipeline for each.
type Subscriber struct {
	sub    *pubsub.Subscription
	runner pipeline.Runner
	logger *slog.Logger
}

// New creates a subscriber for the given subscription ID.
func New(client *pubsub.Client, subscriptionID string, runner pipeline.Runner, logger *slog.Logger) *Subscriber {
	sub := client.Subscription(subscriptionID)
	// One trigger at a time: the pipeline is single-shot and invocations
	// must not race on the FTP host or the load target.
	sub.ReceiveSettings.MaxOutstandingMessages = 1
	return &Subscriber{sub: sub, runner: runner, logger: logger}
}

// Receive blocks, handing each message to the pipeline, until ctx is
// cancelled. Messages are always acked once the pipeline returns: the
// outcome lives in the run log, and redelivery cannot fix a bad trigger.
func (s *Subscriber) Receive(ctx context.Context) error {
	s.logger.Info("subscriber started", "subscription", s.sub.ID())

	err := s.sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		res := s.runner.Run(ctx, string(m.Data), m.Attributes)
		if !res.OK() {
			s.logger.Warn("trigger run failed",
				"message_id", m.ID, "stage", string(res.Stage), "error", res.Err)
		}
		m.Ack()
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("receive on %s: %w", s.sub.ID(), err)
	}
	return nil
}
