package service

import (
    "context"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/iliyamo/tailor-api/internal/metrics"
)

// SessionSweeper periodically deletes sessions whose expiry has passed.
// Expired rows are already unusable; sweeping only keeps the table small.
type SessionSweeper struct {
    sessions SessionStore
    interval time.Duration
    now      func() time.Time
}

func NewSessionSweeper(sessions SessionStore, interval time.Duration) *SessionSweeper {
    return &SessionSweeper{sessions: sessions, interval: interval, now: func() time.Time { return time.Now().UTC() }}
}

// Run sweeps once immediately and then every interval until ctx is done.
// A non-positive interval disables the sweeper.
func (s *SessionSweeper) Run(ctx context.Context) {
    if s.interval <= 0 {
        return
    }
    t := time.NewTicker(s.interval)
    defer t.Stop()
    for {
        s.SweepOnce(ctx)
        select {
        case <-ctx.Done():
            return
        case <-t.C:
        }
    }
}

// SweepOnce deletes expired sessions and returns how many were removed.
func (s *SessionSweeper) SweepOnce(ctx context.Context) int64 {
    sctx, cancel := context.WithTimeout(ctx, 30*time.Second)
    defer cancel()
    n, err := s.sessions.DeleteExpired(sctx, s.now())
    if err != nil {
        if ctx.Err() == nil {
            log.Error().Err(err).Msg("session sweep failed")
        }
        return 0
    }
    if n > 0 {
        metrics.SessionsSweptTotal.Add(float64(n))
        log.Info().Int64("removed", n).Msg("expired sessions swept")
    }
    return n
}
