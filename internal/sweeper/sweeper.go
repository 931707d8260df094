// Package sweeper runs the periodic cleanup jobs: expired and idle
// session deletion and audit log retention. Sweeps are plain
// delete-where statements, idempotent and safe to run concurrently
// with live request traffic.
package sweeper

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/obs"
)

type Config struct {
	SessionIdleTimeout time.Duration
	AuditRetention     time.Duration

	// Cadences are overridable for tests; zero values take the
	// defaults (hourly, daily, weekly).
	ExpiredInterval   time.Duration
	IdleInterval      time.Duration
	RetentionInterval time.Duration
}

type Sweeper struct {
	sessions domain.SessionRepository
	audits   domain.AuditRepository
	cfg      Config
	wg       sync.WaitGroup
}

func New(sessions domain.SessionRepository, audits domain.AuditRepository, cfg Config) *Sweeper {
	if cfg.ExpiredInterval <= 0 {
		cfg.ExpiredInterval = time.Hour
	}
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = 24 * time.Hour
	}
	if cfg.RetentionInterval <= 0 {
		cfg.RetentionInterval = 7 * 24 * time.Hour
	}
	return &Sweeper{sessions: sessions, audits: audits, cfg: cfg}
}

// Start launches the sweep loops. They stop when ctx is cancelled;
// Wait blocks until they have exited.
func (s *Sweeper) Start(ctx context.Context) {
	s.loop(ctx, s.cfg.ExpiredInterval, s.SweepExpiredSessions)
	s.loop(ctx, s.cfg.IdleInterval, s.SweepIdleSessions)
	s.loop(ctx, s.cfg.RetentionInterval, s.SweepAuditRetention)
}

func (s *Sweeper) Wait() { s.wg.Wait() }

func (s *Sweeper) loop(ctx context.Context, interval time.Duration, sweep func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// SweepExpiredSessions deletes sessions past their absolute expiry,
// revoked or not.
func (s *Sweeper) SweepExpiredSessions(ctx context.Context) {
	n, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("SWEEP_EXPIRED_SESSIONS_FAILED: error=%v", err)
		return
	}
	if n > 0 {
		obs.SessionsSwept.WithLabelValues("expired").Add(float64(n))
		log.Printf("SWEEP_EXPIRED_SESSIONS: deleted=%d", n)
	}
}

// SweepIdleSessions deletes sessions unused for longer than the idle
// timeout, independent of the revoked flag.
func (s *Sweeper) SweepIdleSessions(ctx context.Context) {
	n, err := s.sessions.DeleteIdle(ctx, time.Now().Add(-s.cfg.SessionIdleTimeout))
	if err != nil {
		log.Printf("SWEEP_IDLE_SESSIONS_FAILED: error=%v", err)
		return
	}
	if n > 0 {
		obs.SessionsSwept.WithLabelValues("idle").Add(float64(n))
		log.Printf("SWEEP_IDLE_SESSIONS: deleted=%d", n)
	}
}

// SweepAuditRetention purges audit events past the retention window.
// This is the only delete the audit log ever sees.
func (s *Sweeper) SweepAuditRetention(ctx context.Context) {
	n, err := s.audits.DeleteOlderThan(ctx, time.Now().Add(-s.cfg.AuditRetention))
	if err != nil {
		log.Printf("SWEEP_AUDIT_RETENTION_FAILED: error=%v", err)
		return
	}
	if n > 0 {
		log.Printf("SWEEP_AUDIT_RETENTION: deleted=%d", n)
	}
}
