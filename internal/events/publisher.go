package events

import "context"

// Publisher delivers ledger events to an external audit consumer.
// Publishing is best-effort: callers log failures and move on; a failed
// publish never rolls back a mutation.
type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no AMQP broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event LedgerEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
