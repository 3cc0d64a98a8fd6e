package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/tailor-api/internal/config"
    "github.com/iliyamo/tailor-api/internal/metrics"
    "github.com/iliyamo/tailor-api/internal/queue"
)

// AMQPPublisher sends audit events to the durable audit queue.  Publish only
// enqueues into a bounded buffer; Run owns the broker connection and drains
// the buffer, so a slow or absent broker never holds up a request.  When the
// buffer is full the event is dropped and counted.
type AMQPPublisher struct {
    cfg    config.QueueConfig
    events chan queue.AuditEvent

    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher with room for buffer pending events.
func NewAMQPPublisher(cfg config.QueueConfig, buffer int) *AMQPPublisher {
    if buffer <= 0 {
        buffer = 256
    }
    return &AMQPPublisher{cfg: cfg, events: make(chan queue.AuditEvent, buffer)}
}

// Publish enqueues ev without blocking.
func (p *AMQPPublisher) Publish(_ context.Context, ev queue.AuditEvent) {
    if ev.At.IsZero() {
        ev.At = time.Now().UTC()
    }
    select {
    case p.events <- ev:
    default:
        metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
        log.Warn().Str("type", ev.Type).Msg("rabbitmq: audit buffer full, event dropped")
    }
}

// Run publishes queued events until ctx is cancelled.  A failed publish
// drops the connection; the next event dials again.
func (p *AMQPPublisher) Run(ctx context.Context) {
    defer p.close()
    for {
        select {
        case <-ctx.Done():
            return
        case ev := <-p.events:
            if err := p.send(ctx, ev); err != nil {
                metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
                log.Error().Err(err).Str("type", ev.Type).Msg("rabbitmq: publish failed")
                p.close()
                continue
            }
            metrics.AuditEventsTotal.WithLabelValues("published").Inc()
        }
    }
}

func (p *AMQPPublisher) send(ctx context.Context, ev queue.AuditEvent) error {
    if err := p.ensureChannel(); err != nil {
        return err
    }
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    ev.At,
        Type:         ev.Type,
        Body:         body,
    }

    pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    return p.ch.PublishWithContext(pctx,
        "",         // default exchange
        p.cfg.Name, // routing key = queue name
        false,      // mandatory
        false,      // immediate
        pub,
    )
}

func (p *AMQPPublisher) ensureChannel() error {
    if p.ch != nil && !p.ch.IsClosed() {
        return nil
    }
    p.close()

    conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(2 * time.Second),
    })
    if err != nil {
        return fmt.Errorf("dial: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return fmt.Errorf("channel open: %w", err)
    }
    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        p.cfg.Name, // name
        true,       // durable
        false,      // autoDelete
        false,      // exclusive
        false,      // noWait
        nil,        // args
    ); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return fmt.Errorf("queue declare: %w", err)
    }
    p.conn, p.ch = conn, ch
    return nil
}

func (p *AMQPPublisher) close() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}
