package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/eventauth/domain"
)

// MockAuditService implements domain.AuditService for testing. It
// captures recorded events so tests can assert on them.
type MockAuditService struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent

	CountRecentFailuresFunc func(ctx context.Context, ip string, window time.Duration) (int64, error)
	QueryByAccountFunc      func(ctx context.Context, accountID uint, limit int) ([]*domain.AuditEvent, error)
}

// NewMockAuditService creates a new MockAuditService
func NewMockAuditService() *MockAuditService {
	return &MockAuditService{}
}

func (m *MockAuditService) Record(ctx context.Context, event *domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Recorded returns the events captured so far.
func (m *MockAuditService) Recorded() []*domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// LastAction returns the action of the most recently recorded event.
func (m *MockAuditService) LastAction() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Events) == 0 {
		return ""
	}
	return m.Events[len(m.Events)-1].Action
}

// HasAction reports whether any recorded event has the given action.
func (m *MockAuditService) HasAction(action string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.Action == action {
			return true
		}
	}
	return false
}

func (m *MockAuditService) CountRecentFailures(ctx context.Context, ip string, window time.Duration) (int64, error) {
	if m.CountRecentFailuresFunc != nil {
		return m.CountRecentFailuresFunc(ctx, ip, window)
	}
	return 0, nil
}

func (m *MockAuditService) QueryByAccount(ctx context.Context, accountID uint, limit int) ([]*domain.AuditEvent, error) {
	if m.QueryByAccountFunc != nil {
		return m.QueryByAccountFunc(ctx, accountID, limit)
	}
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.AuditService = (*MockAuditService)(nil)
