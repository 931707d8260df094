package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/obs"
)

// AuditServiceImpl implements domain.AuditService. Events are handed to
// a buffered channel and written by a background worker so a slow or
// failing audit store never blocks the auth operation it describes.
// Synchronous mode bypasses the channel for tests.
type AuditServiceImpl struct {
	repo        domain.AuditRepository
	ch          chan *domain.AuditEvent
	done        chan struct{}
	wg          sync.WaitGroup
	closeOnce   sync.Once
	synchronous bool
}

// NewAuditService creates an audit service with an asynchronous
// dispatch buffer of the given size.
func NewAuditService(repo domain.AuditRepository, bufferSize int) *AuditServiceImpl {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	s := &AuditServiceImpl{
		repo: repo,
		ch:   make(chan *domain.AuditEvent, bufferSize),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// NewSyncAuditService creates an audit service that writes events on
// the caller's goroutine. Used in tests and strict environments.
func NewSyncAuditService(repo domain.AuditRepository) *AuditServiceImpl {
	return &AuditServiceImpl{repo: repo, synchronous: true}
}

func (s *AuditServiceImpl) run() {
	defer s.wg.Done()
	for {
		select {
		case event := <-s.ch:
			s.write(event)
		case <-s.done:
			// Drain what is already buffered, then stop.
			for {
				select {
				case event := <-s.ch:
					s.write(event)
				default:
					return
				}
			}
		}
	}
}

func (s *AuditServiceImpl) write(event *domain.AuditEvent) {
	if err := s.repo.Insert(context.Background(), event); err != nil {
		log.Printf("AUDIT_WRITE_FAILED: action=%s error=%v", event.Action, err)
	}
}

// Record implements domain.AuditService. In asynchronous mode a full
// buffer drops the event rather than blocking the caller.
func (s *AuditServiceImpl) Record(ctx context.Context, event *domain.AuditEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if s.synchronous {
		s.write(event)
		return
	}
	select {
	case s.ch <- event:
	case <-s.done:
	default:
		obs.AuditEventsDropped.Inc()
		log.Printf("AUDIT_DROPPED: action=%s buffer_full=true", event.Action)
	}
}

// CountRecentFailures implements domain.AuditService
func (s *AuditServiceImpl) CountRecentFailures(ctx context.Context, ip string, window time.Duration) (int64, error) {
	return s.repo.CountRecentFailures(ctx, ip, time.Now().Add(-window))
}

// QueryByAccount implements domain.AuditService
func (s *AuditServiceImpl) QueryByAccount(ctx context.Context, accountID uint, limit int) ([]*domain.AuditEvent, error) {
	return s.repo.QueryByAccount(ctx, accountID, limit)
}

// Close stops the background worker after draining buffered events.
func (s *AuditServiceImpl) Close() {
	if s.synchronous {
		return
	}
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

var _ domain.AuditService = (*AuditServiceImpl)(nil)
