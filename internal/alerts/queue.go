package alerts

import (
	"context"
	"fmt"
)

// queueSender abstracts provider-specific queue senders.
type queueSender interface {
	Send(ctx context.Context, alert Alert) error
}

// queueNotifier dispatches alerts to a cloud queue provider.
type queueNotifier struct {
	id       string
	typ      string
	provider string
	sender   queueSender
	log      Logger
}

// newQueueNotifier creates a queue notifier for the configured provider.
func newQueueNotifier(ctx context.Context, cfg SinkConfig, log Logger) (Notifier, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("sink %q missing queue configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var (
		sender queueSender
		err    error
	)

	switch cfg.Queue.Provider {
	case QueueProviderAWSSQS:
		sender, err = newAWSSQSSender(ctx, cfg.Queue.AWS, log)
	case QueueProviderAWSSNS:
		sender, err = newAWSSNSSender(ctx, cfg.Queue.SNS, log)
	case QueueProviderGCP:
		sender, err = newGCPPubSubSender(ctx, cfg.Queue.GCP, log)
	case QueueProviderAzure:
		err = fmt.Errorf("queue provider %q not implemented", cfg.Queue.Provider)
	default:
		err = fmt.Errorf("queue provider %q is not supported", cfg.Queue.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &queueNotifier{
		id:       cfg.ID,
		typ:      cfg.Type,
		provider: cfg.Queue.Provider,
		sender:   sender,
		log:      ensureLogger(log),
	}, nil
}

func (n *queueNotifier) ID() string   { return n.id }
func (n *queueNotifier) Type() string { return n.typ }

// Notify forwards the alert to the configured queue provider.
func (n *queueNotifier) Notify(ctx context.Context, alert Alert) error {
	if err := n.sender.Send(ctx, alert); err != nil {
		return fmt.Errorf("queue provider %s send failed: %w", n.provider, err)
	}
	return nil
}
