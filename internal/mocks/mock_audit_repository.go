package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/eventauth/domain"
)

// MockAuditRepository implements domain.AuditRepository for testing.
// Without overrides it keeps inserted events in memory.
type MockAuditRepository struct {
	mu     sync.Mutex
	nextID uint
	Events []*domain.AuditEvent

	InsertFunc              func(ctx context.Context, event *domain.AuditEvent) error
	CountRecentFailuresFunc func(ctx context.Context, ip string, since time.Time) (int64, error)
	QueryByAccountFunc      func(ctx context.Context, accountID uint, limit int) ([]*domain.AuditEvent, error)
	DeleteOlderThanFunc     func(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewMockAuditRepository creates a new in-memory MockAuditRepository
func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	event.ID = m.nextID
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockAuditRepository) CountRecentFailures(ctx context.Context, ip string, since time.Time) (int64, error) {
	if m.CountRecentFailuresFunc != nil {
		return m.CountRecentFailuresFunc(ctx, ip, since)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.Events {
		if e.IP == ip && !e.Success && e.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (m *MockAuditRepository) QueryByAccount(ctx context.Context, accountID uint, limit int) ([]*domain.AuditEvent, error) {
	if m.QueryByAccountFunc != nil {
		return m.QueryByAccountFunc(ctx, accountID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AuditEvent
	for _, e := range m.Events {
		if e.AccountID != nil && *e.AccountID == accountID {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFunc != nil {
		return m.DeleteOlderThanFunc(ctx, cutoff)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.AuditEvent
	var n int64
	for _, e := range m.Events {
		if e.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.Events = kept
	return n, nil
}

// Inserted returns the events inserted so far.
func (m *MockAuditRepository) Inserted() []*domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// Compile-time interface compliance verification
var _ domain.AuditRepository = (*MockAuditRepository)(nil)
