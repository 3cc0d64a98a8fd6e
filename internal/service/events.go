package service

import (
    "context"

    "github.com/iliyamo/tailor-api/internal/queue"
)

// EventPublisher delivers audit events.  Implementations must not block the
// request for long and must never fail it; delivery problems are theirs to
// log.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.AuditEvent)
}

// NoopPublisher drops every event.  It is used when the broker is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, queue.AuditEvent) {}
