package repofake

import (
    "context"
    "sync"

    "github.com/iliyamo/tailor-api/internal/queue"
)

// RecordingPublisher keeps every published audit event in memory.
type RecordingPublisher struct {
    events []queue.AuditEvent
    lock   sync.Mutex
}

func (p *RecordingPublisher) Publish(_ context.Context, ev queue.AuditEvent) {
    p.lock.Lock()
    defer p.lock.Unlock()
    p.events = append(p.events, ev)
}

// Types returns the types of the recorded events in publish order.
func (p *RecordingPublisher) Types() []string {
    p.lock.Lock()
    defer p.lock.Unlock()
    out := make([]string, 0, len(p.events))
    for _, ev := range p.events {
        out = append(out, ev.Type)
    }
    return out
}
