package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/you/eventauth/domain"
	"github.com/you/eventauth/internal/mocks"
)

// createAuthServiceForTest creates an AuthService with mock dependencies.
// Pass nil for any dependency to get a default mock.
func createAuthServiceForTest(t *testing.T,
	accountRepo domain.AccountRepository,
	otpStore domain.OTPStore,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	sessionSvc domain.SessionService,
	auditSvc domain.AuditService,
	notificationSvc domain.NotificationService) domain.AuthService {
	t.Helper()

	if accountRepo == nil {
		accountRepo = mocks.NewMockAccountRepository()
	}
	if otpStore == nil {
		otpStore = mocks.NewMockOTPStore()
	}
	if passwordSvc == nil {
		passwordSvc = mocks.NewMockPasswordService()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	if sessionSvc == nil {
		sessionSvc = mocks.NewMockSessionService()
	}
	if auditSvc == nil {
		auditSvc = mocks.NewMockAuditService()
	}
	if notificationSvc == nil {
		notificationSvc = mocks.NewMockNotificationService()
	}

	return NewAuthService(accountRepo, otpStore, passwordSvc, tokenSvc, sessionSvc, auditSvc, notificationSvc, AuthConfig{
		LockoutThreshold: 5,
		LockoutDuration:  15 * time.Minute,
	})
}

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() {
		mr.Close()
	})

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		client.Close()
	})

	return client, mr
}

// createValidAccount creates a valid account entity for testing
func createValidAccount(t *testing.T) *domain.Account {
	t.Helper()

	return &domain.Account{
		ID:            1,
		Name:          "Test Account",
		Email:         "test@example.com",
		Phone:         "+1234567890",
		PasswordHash:  "hashed_password123",
		Role:          domain.RoleUser,
		EmailVerified: true,
		IsActive:      true,
		CreatedAt:     time.Now().Add(-24 * time.Hour),
		UpdatedAt:     time.Now().Add(-1 * time.Hour),
	}
}

// createLockedAccount creates an account locked for another 10 minutes
func createLockedAccount(t *testing.T) *domain.Account {
	t.Helper()

	account := createValidAccount(t)
	account.FailedLoginAttempts = 5
	lockedUntil := time.Now().Add(10 * time.Minute)
	account.LockedUntil = &lockedUntil
	return account
}

// createInactiveAccount creates a deactivated account entity
func createInactiveAccount(t *testing.T) *domain.Account {
	t.Helper()

	account := createValidAccount(t)
	account.IsActive = false
	return account
}

// emailIdentifier builds an email identifier for testing
func emailIdentifier(t *testing.T, email string) domain.Identifier {
	t.Helper()

	id, err := domain.ParseIdentifier("", email)
	if err != nil {
		t.Fatalf("failed to build email identifier: %v", err)
	}
	return id
}

// phoneIdentifier builds a phone identifier for testing
func phoneIdentifier(t *testing.T, phone string) domain.Identifier {
	t.Helper()

	id, err := domain.ParseIdentifier(phone, "")
	if err != nil {
		t.Fatalf("failed to build phone identifier: %v", err)
	}
	return id
}

// testClient returns a fixed client context for audit assertions
func testClient(t *testing.T) domain.ClientContext {
	t.Helper()

	return domain.ClientContext{
		IP:        "203.0.113.7",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)",
	}
}

// assertAuthResult validates the structure and content of an AuthResult
func assertAuthResult(t *testing.T, result *domain.AuthResult, expectedAccount *domain.Account) {
	t.Helper()

	if result == nil {
		t.Fatal("AuthResult is nil")
	}
	if result.Account == nil {
		t.Fatal("AuthResult.Account is nil")
	}
	if result.Account.ID != expectedAccount.ID {
		t.Errorf("expected account ID %d, got %d", expectedAccount.ID, result.Account.ID)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken is empty")
	}
	if result.RefreshToken == "" {
		t.Error("RefreshToken is empty")
	}
	if result.ExpiresIn <= 0 {
		t.Errorf("expected positive ExpiresIn, got %d", result.ExpiresIn)
	}
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
