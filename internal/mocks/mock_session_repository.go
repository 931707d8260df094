package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/eventauth/domain"
)

// MockSessionRepository implements domain.SessionRepository for
// testing. Without overrides it behaves as an in-memory store.
type MockSessionRepository struct {
	mu       sync.Mutex
	nextID   uint
	Sessions map[uint]*domain.Session

	CreateFunc         func(ctx context.Context, session *domain.Session) error
	FindCandidatesFunc func(ctx context.Context) ([]*domain.Session, error)
	FindByAccountFunc  func(ctx context.Context, accountID uint) ([]*domain.Session, error)
	TouchFunc          func(ctx context.Context, sessionID uint, usedAt time.Time) error
	RevokeFunc         func(ctx context.Context, sessionID, accountID uint, revokedAt time.Time) error
	RevokeAllFunc      func(ctx context.Context, accountID uint, revokedAt time.Time) error
	DeleteExpiredFunc  func(ctx context.Context, now time.Time) (int64, error)
	DeleteIdleFunc     func(ctx context.Context, idleBefore time.Time) (int64, error)
}

// NewMockSessionRepository creates a new in-memory MockSessionRepository
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{Sessions: make(map[uint]*domain.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	session.ID = m.nextID
	session.CreatedAt = time.Now()
	copied := *session
	m.Sessions[session.ID] = &copied
	return nil
}

func (m *MockSessionRepository) FindCandidates(ctx context.Context) ([]*domain.Session, error) {
	if m.FindCandidatesFunc != nil {
		return m.FindCandidatesFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var out []*domain.Session
	for _, s := range m.Sessions {
		if s.RevokedAt == nil && s.ExpiresAt.After(now) {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockSessionRepository) FindByAccount(ctx context.Context, accountID uint) ([]*domain.Session, error) {
	if m.FindByAccountFunc != nil {
		return m.FindByAccountFunc(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Session
	for _, s := range m.Sessions {
		if s.AccountID == accountID && s.RevokedAt == nil {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockSessionRepository) Touch(ctx context.Context, sessionID uint, usedAt time.Time) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, sessionID, usedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Sessions[sessionID]; ok {
		s.LastUsedAt = usedAt
	}
	return nil
}

func (m *MockSessionRepository) Revoke(ctx context.Context, sessionID, accountID uint, revokedAt time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID, accountID, revokedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Sessions[sessionID]; ok && s.AccountID == accountID && s.RevokedAt == nil {
		s.RevokedAt = &revokedAt
	}
	return nil
}

func (m *MockSessionRepository) RevokeAll(ctx context.Context, accountID uint, revokedAt time.Time) error {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, accountID, revokedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Sessions {
		if s.AccountID == accountID && s.RevokedAt == nil {
			t := revokedAt
			s.RevokedAt = &t
		}
	}
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.Sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.Sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *MockSessionRepository) DeleteIdle(ctx context.Context, idleBefore time.Time) (int64, error) {
	if m.DeleteIdleFunc != nil {
		return m.DeleteIdleFunc(ctx, idleBefore)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.Sessions {
		if s.LastUsedAt.Before(idleBefore) {
			delete(m.Sessions, id)
			n++
		}
	}
	return n, nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
