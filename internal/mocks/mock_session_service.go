package mocks

import (
	"context"
	"time"

	"github.com/you/eventauth/domain"
)

// MockSessionService implements domain.SessionService for testing
type MockSessionService struct {
	CreateFunc     func(ctx context.Context, accountID uint, client domain.ClientContext) (*domain.Session, string, error)
	VerifyFunc     func(ctx context.Context, rawToken string) (*domain.Session, error)
	ListActiveFunc func(ctx context.Context, accountID uint) ([]*domain.Session, error)
	RevokeFunc     func(ctx context.Context, sessionID, accountID uint) error
	RevokeAllFunc  func(ctx context.Context, accountID uint) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

func (m *MockSessionService) Create(ctx context.Context, accountID uint, client domain.ClientContext) (*domain.Session, string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, accountID, client)
	}
	return &domain.Session{
		ID:        1,
		AccountID: accountID,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}, "mock-refresh-token", nil
}

func (m *MockSessionService) Verify(ctx context.Context, rawToken string) (*domain.Session, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, rawToken)
	}
	return nil, nil
}

func (m *MockSessionService) ListActive(ctx context.Context, accountID uint) ([]*domain.Session, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *MockSessionService) Revoke(ctx context.Context, sessionID, accountID uint) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID, accountID)
	}
	return nil
}

func (m *MockSessionService) RevokeAll(ctx context.Context, accountID uint) error {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, accountID)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionService = (*MockSessionService)(nil)
