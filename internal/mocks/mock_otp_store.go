package mocks

import (
	"context"

	"github.com/you/eventauth/domain"
)

// MockOTPStore implements domain.OTPStore for testing
type MockOTPStore struct {
	IssueFunc            func(ctx context.Context, id domain.Identifier) (string, error)
	VerifyFunc           func(ctx context.Context, id domain.Identifier, candidate string) error
	IssueResetTokenFunc  func(ctx context.Context, email string) (string, error)
	PeekResetTokenFunc   func(ctx context.Context, email, candidate string) error
	VerifyResetTokenFunc func(ctx context.Context, email, candidate string) error
}

// NewMockOTPStore creates a new MockOTPStore with default behaviors
func NewMockOTPStore() *MockOTPStore {
	return &MockOTPStore{}
}

func (m *MockOTPStore) Issue(ctx context.Context, id domain.Identifier) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, id)
	}
	return "123456", nil
}

func (m *MockOTPStore) Verify(ctx context.Context, id domain.Identifier, candidate string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, id, candidate)
	}
	return nil
}

func (m *MockOTPStore) IssueResetToken(ctx context.Context, email string) (string, error) {
	if m.IssueResetTokenFunc != nil {
		return m.IssueResetTokenFunc(ctx, email)
	}
	return "reset-token", nil
}

func (m *MockOTPStore) PeekResetToken(ctx context.Context, email, candidate string) error {
	if m.PeekResetTokenFunc != nil {
		return m.PeekResetTokenFunc(ctx, email, candidate)
	}
	// Mirror the verify behavior so tests stubbing only the consume
	// path see consistent peek results.
	return m.VerifyResetToken(ctx, email, candidate)
}

func (m *MockOTPStore) VerifyResetToken(ctx context.Context, email, candidate string) error {
	if m.VerifyResetTokenFunc != nil {
		return m.VerifyResetTokenFunc(ctx, email, candidate)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.OTPStore = (*MockOTPStore)(nil)
