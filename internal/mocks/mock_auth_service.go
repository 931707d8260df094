package mocks

import (
	"context"

	"github.com/you/eventauth/domain"
)

// MockAuthService implements domain.AuthService for testing handlers
type MockAuthService struct {
	SignupSendOTPFunc   func(ctx context.Context, id domain.Identifier, client domain.ClientContext) (string, error)
	SignupVerifyOTPFunc func(ctx context.Context, req domain.OTPSignupRequest, client domain.ClientContext) (*domain.AuthResult, error)
	SignupFunc          func(ctx context.Context, req domain.SignupRequest, client domain.ClientContext) (*domain.AuthResult, error)
	LoginSendOTPFunc    func(ctx context.Context, id domain.Identifier, client domain.ClientContext) (string, error)
	LoginVerifyOTPFunc  func(ctx context.Context, id domain.Identifier, code string, client domain.ClientContext) (*domain.AuthResult, error)
	LoginFunc           func(ctx context.Context, email, password, mfaCode string, client domain.ClientContext) (*domain.AuthResult, error)
	LogoutFunc          func(ctx context.Context, accountID uint, rawRefreshToken string, client domain.ClientContext) error
	ForgotPasswordFunc  func(ctx context.Context, email string, client domain.ClientContext) (string, error)
	ResetPasswordFunc   func(ctx context.Context, email, token, newPassword string, client domain.ClientContext) error
	ProfileFunc         func(ctx context.Context, accountID uint) (*domain.Account, error)
	UnlockAccountFunc   func(ctx context.Context, accountID uint, client domain.ClientContext) error
}

// NewMockAuthService creates a new MockAuthService
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) SignupSendOTP(ctx context.Context, id domain.Identifier, client domain.ClientContext) (string, error) {
	if m.SignupSendOTPFunc != nil {
		return m.SignupSendOTPFunc(ctx, id, client)
	}
	return "123456", nil
}

func (m *MockAuthService) SignupVerifyOTP(ctx context.Context, req domain.OTPSignupRequest, client domain.ClientContext) (*domain.AuthResult, error) {
	if m.SignupVerifyOTPFunc != nil {
		return m.SignupVerifyOTPFunc(ctx, req, client)
	}
	return nil, domain.ErrOTPMismatch
}

func (m *MockAuthService) Signup(ctx context.Context, req domain.SignupRequest, client domain.ClientContext) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req, client)
	}
	return nil, domain.ErrAccountExists
}

func (m *MockAuthService) LoginSendOTP(ctx context.Context, id domain.Identifier, client domain.ClientContext) (string, error) {
	if m.LoginSendOTPFunc != nil {
		return m.LoginSendOTPFunc(ctx, id, client)
	}
	return "123456", nil
}

func (m *MockAuthService) LoginVerifyOTP(ctx context.Context, id domain.Identifier, code string, client domain.ClientContext) (*domain.AuthResult, error) {
	if m.LoginVerifyOTPFunc != nil {
		return m.LoginVerifyOTPFunc(ctx, id, code, client)
	}
	return nil, domain.ErrOTPMismatch
}

func (m *MockAuthService) Login(ctx context.Context, email, password, mfaCode string, client domain.ClientContext) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, mfaCode, client)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) Logout(ctx context.Context, accountID uint, rawRefreshToken string, client domain.ClientContext) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accountID, rawRefreshToken, client)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string, client domain.ClientContext) (string, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email, client)
	}
	return "", nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, token, newPassword string, client domain.ClientContext) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, token, newPassword, client)
	}
	return domain.ErrTokenInvalid
}

func (m *MockAuthService) Profile(ctx context.Context, accountID uint) (*domain.Account, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, accountID)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAuthService) UnlockAccount(ctx context.Context, accountID uint, client domain.ClientContext) error {
	if m.UnlockAccountFunc != nil {
		return m.UnlockAccountFunc(ctx, accountID, client)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
